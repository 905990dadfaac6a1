// Package notify holds the user-facing side effects of the proxy:
// displayed notifications and the window clients they can open.
package notify

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/vitaltrack-proxy/internal/domain/model"
	"github.com/guttosm/vitaltrack-proxy/internal/metrics"
)

// ErrNotFound is returned when a notification or client id is unknown.
var ErrNotFound = errors.New("not found")

// Center keeps the notifications currently on display.
// Showing a notification whose tag matches a displayed one replaces it.
type Center struct {
	mu    sync.RWMutex
	items map[string]*model.Notification
	now   func() time.Time
}

// NewCenter creates an empty notification center.
func NewCenter() *Center {
	return &Center{
		items: make(map[string]*model.Notification),
		now:   time.Now,
	}
}

// Show displays n and returns the id it was assigned.
func (c *Center) Show(ctx context.Context, n *model.Notification) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if n == nil {
		return "", errors.New("notification is nil")
	}

	shown := *n
	shown.ID = uuid.New().String()
	shown.ShownAt = c.now()

	c.mu.Lock()
	if shown.Tag != "" {
		for id, existing := range c.items {
			if existing.Tag == shown.Tag {
				delete(c.items, id)
				log.Debug().Str("tag", shown.Tag).Str("replaced", id).Msg("Notification replaced")
			}
		}
	}
	c.items[shown.ID] = &shown
	c.mu.Unlock()

	metrics.RecordNotification("show", shown.Tag)
	log.Info().
		Str("notification_id", shown.ID).
		Str("tag", shown.Tag).
		Str("title", shown.Title).
		Msg("Notification shown")

	return shown.ID, nil
}

// Close removes a displayed notification and returns it.
func (c *Center) Close(_ context.Context, id string) (*model.Notification, error) {
	c.mu.Lock()
	n, ok := c.items[id]
	if ok {
		delete(c.items, id)
	}
	c.mu.Unlock()

	if !ok {
		return nil, ErrNotFound
	}
	metrics.RecordNotification("close", n.Tag)
	return n, nil
}

// Get returns a copy of the displayed notification with the given id.
func (c *Center) Get(id string) (model.Notification, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.items[id]
	if !ok {
		return model.Notification{}, false
	}
	return *n, true
}

// List returns the displayed notifications, oldest first.
func (c *Center) List() []model.Notification {
	c.mu.RLock()
	out := make([]model.Notification, 0, len(c.items))
	for _, n := range c.items {
		out = append(out, *n)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].ShownAt.Equal(out[j].ShownAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ShownAt.Before(out[j].ShownAt)
	})
	return out
}
