package app

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/guttosm/vitaltrack-proxy/config"
	"github.com/guttosm/vitaltrack-proxy/internal/cachestore"
	"github.com/guttosm/vitaltrack-proxy/internal/circuitbreaker"
	"github.com/guttosm/vitaltrack-proxy/internal/network"
	"github.com/guttosm/vitaltrack-proxy/internal/notify"
	"github.com/guttosm/vitaltrack-proxy/internal/worker"
)

// ProxyComponents holds the worker and the registries it drives.
type ProxyComponents struct {
	Worker          *worker.Worker
	Notifications   *notify.Center
	Clients         *notify.Clients
	UpstreamBreaker *circuitbreaker.CircuitBreaker
}

// InitializeProxy builds the upstream fetcher and the worker over storage.
func InitializeProxy(cfg config.ProxyConfig, storage cachestore.Storage) (*ProxyComponents, error) {
	origin, err := url.Parse(cfg.UpstreamURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}
	if origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("upstream url %q must be absolute", cfg.UpstreamURL)
	}

	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             "upstream",
	})

	fetcher := network.NewHTTPFetcher(origin,
		network.WithClient(&http.Client{Timeout: cfg.FetchTimeout}),
		network.WithCircuitBreaker(cb),
		network.WithMaxBodyBytes(cfg.MaxBodyBytes),
	)

	notifications := notify.NewCenter()
	clients := notify.NewClients()

	w := worker.New(worker.Config{
		CacheName: cfg.CacheName,
		Manifest:  cfg.PrecacheURLs,
		RootPath:  cfg.RootPath,
		Origin:    origin,
	}, storage, fetcher, notifications, clients)

	return &ProxyComponents{
		Worker:          w,
		Notifications:   notifications,
		Clients:         clients,
		UpstreamBreaker: cb,
	}, nil
}
