package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/vitaltrack-proxy/internal/domain/model"
)

// Clients is the registry of window clients served by the proxy.
type Clients struct {
	mu      sync.Mutex
	clients []*model.Client
	// claimed is set once the active worker has claimed every client;
	// clients registered afterwards start out controlled.
	claimed bool
	now     func() time.Time
}

// NewClients creates an empty client registry.
func NewClients() *Clients {
	return &Clients{now: time.Now}
}

// Register records a page loaded at url.
func (r *Clients) Register(_ context.Context, url string) *model.Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := &model.Client{
		ID:         uuid.New().String(),
		URL:        url,
		Type:       model.ClientTypeWindow,
		Controlled: r.claimed,
		CreatedAt:  r.now(),
	}
	r.clients = append(r.clients, c)
	return cloneClient(c)
}

// Claim marks every known client as controlled and returns how many changed.
func (r *Clients) Claim(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	claimed := 0
	for _, c := range r.clients {
		if !c.Controlled {
			c.Controlled = true
			claimed++
		}
	}
	r.claimed = true
	log.Info().Int("claimed", claimed).Int("clients", len(r.clients)).Msg("Clients claimed")
	return claimed, nil
}

// OpenWindow focuses an existing client at url, or opens a new one.
func (r *Clients) OpenWindow(ctx context.Context, url string) (*model.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var target *model.Client
	for _, c := range r.clients {
		c.Focused = false
		if target == nil && c.URL == url {
			target = c
		}
	}
	if target == nil {
		target = &model.Client{
			ID:         uuid.New().String(),
			URL:        url,
			Type:       model.ClientTypeWindow,
			Controlled: r.claimed,
			CreatedAt:  r.now(),
		}
		r.clients = append(r.clients, target)
		log.Info().Str("client_id", target.ID).Str("url", url).Msg("Window opened")
	}
	target.Focused = true
	return cloneClient(target), nil
}

// List returns the known clients in registration order.
func (r *Clients) List() []model.Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Client, len(r.clients))
	for i, c := range r.clients {
		out[i] = *c
	}
	return out
}

func cloneClient(c *model.Client) *model.Client {
	cp := *c
	return &cp
}
