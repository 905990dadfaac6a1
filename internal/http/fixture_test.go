package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/vitaltrack-proxy/internal/cachestore"
	"github.com/guttosm/vitaltrack-proxy/internal/network"
	"github.com/guttosm/vitaltrack-proxy/internal/notify"
	"github.com/guttosm/vitaltrack-proxy/internal/worker"
	"github.com/stretchr/testify/require"
)

const testCacheName = "vitaltrack-test"

func init() {
	gin.SetMode(gin.TestMode)
}

// proxyFixture wires a real worker to an httptest upstream serving a tiny app.
type proxyFixture struct {
	upstream      *httptest.Server
	apiHits       atomic.Int32
	lateReady     atomic.Bool
	storage       cachestore.Storage
	worker        *worker.Worker
	notifications *notify.Center
	clients       *notify.Clients
	router        *gin.Engine
}

type fixtureOption func(*fixtureSettings)

type fixtureSettings struct {
	manifest  []string
	routerCfg RouterConfig
	storage   cachestore.Storage
	maxBody   int64
}

func withManifest(urls ...string) fixtureOption {
	return func(s *fixtureSettings) { s.manifest = urls }
}

func withRouterConfig(cfg RouterConfig) fixtureOption {
	return func(s *fixtureSettings) { s.routerCfg = cfg }
}

func withStorage(storage cachestore.Storage) fixtureOption {
	return func(s *fixtureSettings) { s.storage = storage }
}

// withMaxBodyBytes limits both forwarded request bodies and upstream responses.
func withMaxBodyBytes(n int64) fixtureOption {
	return func(s *fixtureSettings) { s.maxBody = n }
}

func newProxyFixture(t *testing.T, opts ...fixtureOption) *proxyFixture {
	t.Helper()
	settings := fixtureSettings{
		manifest: []string{"/", "/index.html", "/manifest.json"},
		storage:  cachestore.NewMemoryStorage(4),
		maxBody:  1 << 20,
	}
	for _, opt := range opts {
		opt(&settings)
	}

	f := &proxyFixture{}
	mux := http.NewServeMux()
	shell := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html>shell</html>"))
	}
	mux.HandleFunc("GET /{$}", shell)
	mux.HandleFunc("GET /index.html", shell)
	mux.HandleFunc("GET /manifest.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"VitalTrack"}`))
	})
	mux.HandleFunc("GET /late.js", func(w http.ResponseWriter, _ *http.Request) {
		if !f.lateReady.Load() {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/javascript")
		_, _ = w.Write([]byte("console.log('late')"))
	})
	mux.HandleFunc("GET /api/data", func(w http.ResponseWriter, _ *http.Request) {
		f.apiHits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"steps":8000}`))
	})
	mux.HandleFunc("GET /api/export", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(strings.Repeat("date,steps\n", 8)))
	})
	mux.HandleFunc("POST /api/echo", func(w http.ResponseWriter, r *http.Request) {
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(r.Body)
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write(buf.Bytes())
	})
	f.upstream = httptest.NewServer(mux)
	t.Cleanup(f.upstream.Close)

	origin, err := url.Parse(f.upstream.URL)
	require.NoError(t, err)

	f.storage = settings.storage
	f.notifications = notify.NewCenter()
	f.clients = notify.NewClients()
	fetcher := network.NewHTTPFetcher(origin,
		network.WithClient(&http.Client{Timeout: 2 * time.Second}),
		network.WithMaxBodyBytes(settings.maxBody),
	)
	f.worker = worker.New(worker.Config{
		CacheName: testCacheName,
		Manifest:  settings.manifest,
		Origin:    origin,
	}, f.storage, fetcher, f.notifications, f.clients)

	handler := NewHandler(f.worker, f.notifications, f.clients, f.storage, WithMaxBodyBytes(settings.maxBody))
	f.router = NewRouter(handler, NewHealthHandler(), settings.routerCfg)
	return f
}

// goOffline makes every upstream request fail at the transport level.
func (f *proxyFixture) goOffline() {
	f.upstream.Close()
}

func (f *proxyFixture) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" && strings.HasPrefix(body, "{") {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *proxyFixture) installAndActivate(t *testing.T) {
	t.Helper()
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/sw/install", "").Code)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/sw/activate", "").Code)
}

// decodeData unmarshals the data field of a success envelope into v.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, v), string(env.Data))
}

// decodeError unmarshals an error envelope.
func decodeError(t *testing.T, w *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var env struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env.Error, env.Message
}
