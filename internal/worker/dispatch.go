package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/guttosm/vitaltrack-proxy/internal/domain/model"
	"github.com/guttosm/vitaltrack-proxy/internal/logger"
	"github.com/guttosm/vitaltrack-proxy/internal/metrics"
)

// EventKind selects the handler for an Event.
type EventKind string

const (
	EventInstall           EventKind = "install"
	EventActivate          EventKind = "activate"
	EventFetch             EventKind = "fetch"
	EventSync              EventKind = "sync"
	EventPush              EventKind = "push"
	EventNotificationClick EventKind = "notificationclick"
	EventPeriodicSync      EventKind = "periodicsync"
	EventMessage           EventKind = "message"
)

var (
	// ErrUnknownEvent is returned by Dispatch for an event kind with no handler.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrHandlerPanic wraps a panic recovered from a handler.
	ErrHandlerPanic = errors.New("handler panicked")
)

// Event is a single occurrence delivered to the worker. Only the fields
// relevant to Kind are read.
type Event struct {
	Kind EventKind

	Request *model.Request // fetch
	Tag     string         // sync, periodicsync
	Payload []byte         // push

	NotificationID string // notificationclick
	Action         string // notificationclick

	Message Message // message
	Reply   Port    // message
}

// Result carries whatever a handler produced.
type Result struct {
	Response       *model.Response
	Source         Source
	Deleted        []string
	NotificationID string
	Client         *model.Client
	Handled        bool
}

type handlerFunc func(ctx context.Context, ev Event) (*Result, error)

func (w *Worker) dispatchTable() map[EventKind]handlerFunc {
	return map[EventKind]handlerFunc{
		EventInstall: func(ctx context.Context, _ Event) (*Result, error) {
			deleted, err := w.installAndActivate(ctx)
			return &Result{Deleted: deleted, Handled: err == nil}, err
		},
		EventActivate: func(ctx context.Context, _ Event) (*Result, error) {
			deleted, err := w.Activate(ctx)
			return &Result{Deleted: deleted, Handled: err == nil}, err
		},
		EventFetch: func(ctx context.Context, ev Event) (*Result, error) {
			if ev.Request == nil {
				return nil, errors.New("fetch event without request")
			}
			resp, source, err := w.Fetch(ctx, ev.Request)
			return &Result{Response: resp, Source: source, Handled: err == nil}, err
		},
		EventSync: func(ctx context.Context, ev Event) (*Result, error) {
			return &Result{Handled: w.Sync(ctx, ev.Tag)}, nil
		},
		EventPush: func(ctx context.Context, ev Event) (*Result, error) {
			id, err := w.Push(ctx, ev.Payload)
			return &Result{NotificationID: id, Handled: err == nil}, err
		},
		EventNotificationClick: func(ctx context.Context, ev Event) (*Result, error) {
			client, err := w.NotificationClick(ctx, ev.NotificationID, ev.Action)
			return &Result{NotificationID: ev.NotificationID, Client: client, Handled: err == nil}, err
		},
		EventPeriodicSync: func(ctx context.Context, ev Event) (*Result, error) {
			id, err := w.PeriodicSync(ctx, ev.Tag)
			return &Result{NotificationID: id, Handled: id != ""}, err
		},
		EventMessage: func(ctx context.Context, ev Event) (*Result, error) {
			err := w.Message(ctx, ev.Message, ev.Reply)
			return &Result{Handled: err == nil}, err
		},
	}
}

// Dispatch routes ev to its handler under Guard.
func (w *Worker) Dispatch(ctx context.Context, ev Event) (*Result, error) {
	handler, ok := w.handlers[ev.Kind]
	if !ok {
		return &Result{}, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}

	var result *Result
	err := w.Guard(ctx, string(ev.Kind), func(ctx context.Context) error {
		var err error
		result, err = handler(ctx, ev)
		return err
	})
	if result == nil {
		result = &Result{}
	}
	return result, err
}

// Guard keeps fn alive until it finishes even if ctx is canceled by the
// caller, and turns a panic in fn into a reported error.
func (w *Worker) Guard(ctx context.Context, event string, fn func(ctx context.Context) error) (err error) {
	detached := context.WithoutCancel(ctx)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrHandlerPanic, event, r)
			l := logger.ForEvent(event)
			l.Error().Str("stack", string(debug.Stack())).Msg("Recovered from handler panic")
			w.ReportError(detached, event, err)
		}
	}()
	return fn(detached)
}

// ReportError is the top-level sink for errors nobody else handles. It logs
// and counts them; it never propagates.
func (w *Worker) ReportError(_ context.Context, event string, err error) {
	if err == nil {
		return
	}
	kind := "error"
	if errors.Is(err, ErrHandlerPanic) {
		kind = "panic"
	}
	metrics.RecordHandlerError(event, kind)
	l := logger.ForEvent(event)
	l.Error().Err(err).Str("kind", kind).Str("cache", w.cfg.CacheName).Msg("Service worker error")
}
