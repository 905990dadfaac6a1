package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/vitaltrack-proxy/internal/domain/model"
	"github.com/guttosm/vitaltrack-proxy/internal/metrics"
	"github.com/guttosm/vitaltrack-proxy/internal/network"
)

// Source names where a fetch response came from.
type Source string

const (
	SourceCache       Source = "cache"
	SourceNetwork     Source = "network"
	SourceFallback    Source = "fallback"
	SourcePassthrough Source = "passthrough"
	SourceError       Source = "error"
)

// Fetch answers an intercepted request: cache first, then network, then the
// cached root document for failed navigations.
func (w *Worker) Fetch(ctx context.Context, req *model.Request) (*model.Response, Source, error) {
	start := time.Now()
	req.URL = w.resolve(req.URL)

	resp, source, err := w.fetch(ctx, req)

	metrics.RecordFetch(time.Since(start), string(source))
	return resp, source, err
}

func (w *Worker) fetch(ctx context.Context, req *model.Request) (*model.Response, Source, error) {
	if w.State() != StateActivated {
		resp, err := w.fetcher.Fetch(ctx, req)
		if err != nil {
			return nil, SourceError, err
		}
		return resp, SourcePassthrough, nil
	}

	key := req.Key()
	cached, found, err := w.storage.Match(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache lookup failed, using network")
	} else if found {
		return cached, SourceCache, nil
	}

	resp, netErr := w.fetcher.Fetch(ctx, req)
	if netErr == nil {
		if req.Method == http.MethodGet && resp.Cacheable() {
			w.store(context.WithoutCancel(ctx), key, resp.Clone())
		}
		return resp, SourceNetwork, nil
	}
	// The upstream answered; serving the offline shell instead would hide it.
	if errors.Is(netErr, network.ErrResponseTooLarge) {
		return nil, SourceError, netErr
	}

	if req.IsNavigation() {
		rootKey := model.RequestKey(http.MethodGet, w.resolve(w.cfg.RootPath))
		root, found, err := w.storage.Match(ctx, rootKey)
		if err != nil {
			log.Warn().Err(err).Str("key", rootKey).Msg("Offline fallback lookup failed")
		} else if found {
			log.Debug().Str("url", req.URL).Msg("Serving cached root for offline navigation")
			return root, SourceFallback, nil
		}
	}

	return nil, SourceError, fmt.Errorf("%w: %w", ErrNoResponse, netErr)
}

func (w *Worker) store(ctx context.Context, key string, resp *model.Response) {
	cache, err := w.storage.Open(ctx, w.cfg.CacheName)
	if err == nil {
		err = cache.Put(ctx, key, resp)
	}
	if err != nil {
		w.ReportError(ctx, "fetch", fmt.Errorf("store %s: %w", key, err))
	}
}
