// Package worker implements the offline cache proxy: the lifecycle, fetch
// interception and notification handlers of the VitalTrack service worker.
package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/vitaltrack-proxy/internal/cachestore"
	"github.com/guttosm/vitaltrack-proxy/internal/domain/model"
	"github.com/guttosm/vitaltrack-proxy/internal/metrics"
	"github.com/guttosm/vitaltrack-proxy/internal/network"
)

var (
	// ErrInstallFailed wraps any failure to precache the manifest.
	ErrInstallFailed = errors.New("install failed")
	// ErrNotInstalled is returned when activation is requested before a successful install.
	ErrNotInstalled = errors.New("worker is not installed")
	// ErrNoResponse is returned when a fetch has neither a network nor a cached response.
	ErrNoResponse = errors.New("no response available")
)

// Notifier displays and closes notifications.
type Notifier interface {
	Show(ctx context.Context, n *model.Notification) (string, error)
	Close(ctx context.Context, id string) (*model.Notification, error)
}

// ClientRegistry controls the window clients of the proxy.
type ClientRegistry interface {
	Claim(ctx context.Context) (int, error)
	OpenWindow(ctx context.Context, url string) (*model.Client, error)
}

// Worker is one installed version of the offline cache proxy.
type Worker struct {
	cfg      Config
	storage  cachestore.Storage
	fetcher  network.Fetcher
	notifier Notifier
	clients  ClientRegistry
	handlers map[EventKind]handlerFunc

	// lifecycle serializes Install and Activate.
	lifecycle   sync.Mutex
	mu          sync.RWMutex
	state       State
	skipWaiting bool

	now func() time.Time
}

// New creates a worker in the parsed state.
func New(cfg Config, storage cachestore.Storage, fetcher network.Fetcher, notifier Notifier, clients ClientRegistry) *Worker {
	w := &Worker{
		cfg:      cfg.withDefaults(),
		storage:  storage,
		fetcher:  fetcher,
		notifier: notifier,
		clients:  clients,
		state:    StateParsed,
		now:      time.Now,
	}
	w.handlers = w.dispatchTable()
	return w
}

// Version returns the current cache name.
func (w *Worker) Version() string {
	return w.cfg.CacheName
}

// State returns the lifecycle state.
func (w *Worker) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// SkipWaiting reports whether the worker activates without waiting for old clients.
func (w *Worker) SkipWaiting() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.skipWaiting
}

func (w *Worker) setState(s State) {
	w.mu.Lock()
	prev := w.state
	w.state = s
	w.mu.Unlock()
	if prev != s {
		log.Debug().Str("cache", w.cfg.CacheName).Stringer("from", prev).Stringer("to", s).Msg("Worker state changed")
	}
}

// Start runs the install event: Install and, once installed, Activate.
func (w *Worker) Start(ctx context.Context) error {
	_, err := w.installAndActivate(ctx)
	return err
}

// installAndActivate installs and then, because a successful install signals
// skip-waiting, activates straight away. An installed worker that is not
// activated would pass every fetch through to the network.
func (w *Worker) installAndActivate(ctx context.Context) ([]string, error) {
	if err := w.Install(ctx); err != nil {
		return nil, err
	}
	if w.State() != StateInstalled || !w.SkipWaiting() {
		return nil, nil
	}
	return w.Activate(ctx)
}

// Install precaches every manifest entry into the current cache. Nothing is
// committed unless every entry was fetched with an OK status.
func (w *Worker) Install(ctx context.Context) error {
	w.lifecycle.Lock()
	defer w.lifecycle.Unlock()

	switch w.State() {
	case StateInstalled, StateActivated:
		log.Debug().Str("cache", w.cfg.CacheName).Msg("Worker already installed")
		return nil
	}

	w.setState(StateInstalling)
	start := time.Now()

	if err := w.precache(ctx); err != nil {
		w.setState(StateRedundant)
		metrics.RecordLifecycle("install", "failure")
		log.Error().Err(err).Str("event", "install").Str("cache", w.cfg.CacheName).Msg("Install failed")
		return fmt.Errorf("%w: %w", ErrInstallFailed, err)
	}

	w.mu.Lock()
	w.state = StateInstalled
	w.skipWaiting = true
	w.mu.Unlock()

	metrics.RecordLifecycle("install", "success")
	log.Info().
		Str("event", "install").
		Str("cache", w.cfg.CacheName).
		Int("entries", len(w.cfg.Manifest)).
		Dur("duration", time.Since(start)).
		Msg("Worker installed")
	return nil
}

func (w *Worker) precache(ctx context.Context) error {
	cache, err := w.storage.Open(ctx, w.cfg.CacheName)
	if err != nil {
		return fmt.Errorf("open cache %s: %w", w.cfg.CacheName, err)
	}

	entries := make([]cachestore.Entry, len(w.cfg.Manifest))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.InstallConcurrency)

	for i, raw := range w.cfg.Manifest {
		g.Go(func() error {
			req := model.NewRequest(http.MethodGet, w.resolve(raw))
			if !w.sameOrigin(req.URL) {
				req.Mode = model.ModeCORS
			}
			resp, err := w.fetcher.Fetch(gctx, req)
			if err != nil {
				return err
			}
			if !resp.OK() {
				return fmt.Errorf("%s: unexpected status %d", req.URL, resp.Status)
			}
			entries[i] = cachestore.Entry{Key: req.Key(), Response: resp}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return cache.PutAll(ctx, entries)
}

// Activate deletes every cache other than the current one and claims all
// clients. It returns the names of the deleted caches.
func (w *Worker) Activate(ctx context.Context) ([]string, error) {
	w.lifecycle.Lock()
	defer w.lifecycle.Unlock()

	prev := w.State()
	if prev != StateInstalled && prev != StateActivated {
		return nil, fmt.Errorf("%w: state is %s", ErrNotInstalled, prev)
	}
	w.setState(StateActivating)

	deleted, err := w.activate(ctx)
	if err != nil {
		w.setState(prev)
		metrics.RecordLifecycle("activate", "failure")
		log.Error().Err(err).Str("event", "activate").Str("cache", w.cfg.CacheName).Msg("Activate failed")
		return deleted, err
	}

	w.setState(StateActivated)
	metrics.RecordLifecycle("activate", "success")
	log.Info().
		Str("event", "activate").
		Str("cache", w.cfg.CacheName).
		Strs("deleted", deleted).
		Msg("Worker activated")
	return deleted, nil
}

func (w *Worker) activate(ctx context.Context) ([]string, error) {
	names, err := w.storage.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list caches: %w", err)
	}

	deleted := make([]string, 0, len(names))
	for _, name := range names {
		if name == w.cfg.CacheName {
			continue
		}
		if _, err := w.storage.Delete(ctx, name); err != nil {
			return deleted, fmt.Errorf("delete cache %s: %w", name, err)
		}
		log.Info().Str("cache", name).Msg("Deleting old cache")
		deleted = append(deleted, name)
	}

	if w.clients != nil {
		if _, err := w.clients.Claim(ctx); err != nil {
			return deleted, fmt.Errorf("claim clients: %w", err)
		}
	}
	return deleted, nil
}

// resolve turns a manifest or request URL into the absolute form used in cache keys.
func (w *Worker) resolve(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.IsAbs() {
		return u.String()
	}
	return w.cfg.Origin.ResolveReference(u).String()
}

func (w *Worker) sameOrigin(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return network.SameOrigin(w.cfg.Origin, u)
}
