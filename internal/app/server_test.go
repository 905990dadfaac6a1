//go:build !integration

package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewServer(t *testing.T) {
	tests := []struct {
		name                 string
		opts                 []ServerOption
		expectedWriteTimeout time.Duration
	}{
		{name: "defaults", expectedWriteTimeout: 45 * time.Second},
		{name: "custom write timeout", opts: []ServerOption{WithWriteTimeout(90 * time.Second)}, expectedWriteTimeout: 90 * time.Second},
		{name: "zero write timeout ignored", opts: []ServerOption{WithWriteTimeout(0)}, expectedWriteTimeout: 45 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := NewServer(okHandler(), "8080", tt.opts...)

			require.NotNil(t, server.httpServer)
			assert.Equal(t, ":8080", server.httpServer.Addr)
			assert.Equal(t, 15*time.Second, server.httpServer.ReadTimeout)
			assert.Equal(t, tt.expectedWriteTimeout, server.httpServer.WriteTimeout)
			assert.Equal(t, 60*time.Second, server.httpServer.IdleTimeout)
			assert.Equal(t, 10*time.Second, server.shutdownTimeout)
		})
	}
}

func TestServer_ShutdownRunsHooks(t *testing.T) {
	var calls []string
	server := NewServer(okHandler(), "0",
		WithShutdownHook(func(context.Context) error {
			calls = append(calls, "first")
			return nil
		}),
		WithShutdownHook(func(context.Context) error {
			calls = append(calls, "second")
			return nil
		}),
	)

	require.NoError(t, server.Shutdown())
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestServer_ShutdownHookError(t *testing.T) {
	hookErr := errors.New("close mongo")
	server := NewServer(okHandler(), "0", WithShutdownHook(func(context.Context) error { return hookErr }))

	assert.ErrorIs(t, server.Shutdown(), hookErr)
}

func TestServer_Run_WithError(t *testing.T) {
	server := NewServer(okHandler(), "invalid-port")

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run()
	}()

	select {
	case err := <-errChan:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return the listen error")
	}
}

func TestServer_Run_GracefulShutdown(t *testing.T) {
	hookCalled := make(chan struct{}, 1)
	server := NewServer(okHandler(), "0", WithShutdownHook(func(context.Context) error {
		hookCalled <- struct{}{}
		return nil
	}))

	done := make(chan error, 1)
	go func() {
		done <- server.Run()
	}()

	time.Sleep(50 * time.Millisecond)

	proc, _ := os.FindProcess(os.Getpid())
	_ = proc.Signal(syscall.SIGTERM)

	select {
	case err := <-done:
		assert.NoError(t, err)
		assert.Len(t, hookCalled, 1)
	case <-time.After(2 * time.Second):
		require.Fail(t, "Server did not shutdown gracefully")
	}
}
