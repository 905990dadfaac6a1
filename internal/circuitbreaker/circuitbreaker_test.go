//go:build !integration

package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errUpstream = errors.New("dial tcp: connection refused")

type step struct {
	wait    time.Duration
	err     error
	wantErr error
	want    State
}

func TestCircuitBreaker_Transitions(t *testing.T) {
	cfg := Config{
		FailureThreshold: 2,
		SuccessThreshold: 2,
		Timeout:          40 * time.Millisecond,
		Name:             "upstream-test",
	}

	tests := []struct {
		name  string
		steps []step
	}{
		{
			name:  "success keeps closed",
			steps: []step{{want: StateClosed}},
		},
		{
			name: "consecutive failures open",
			steps: []step{
				{err: errUpstream, wantErr: errUpstream, want: StateClosed},
				{err: errUpstream, wantErr: errUpstream, want: StateOpen},
				{wantErr: ErrCircuitOpen, want: StateOpen},
			},
		},
		{
			name: "success resets the failure count",
			steps: []step{
				{err: errUpstream, wantErr: errUpstream, want: StateClosed},
				{want: StateClosed},
				{err: errUpstream, wantErr: errUpstream, want: StateClosed},
			},
		},
		{
			name: "probes close after cool-down",
			steps: []step{
				{err: errUpstream, wantErr: errUpstream},
				{err: errUpstream, wantErr: errUpstream, want: StateOpen},
				{wait: 50 * time.Millisecond, want: StateHalfOpen},
				{want: StateClosed},
			},
		},
		{
			name: "failed probe reopens",
			steps: []step{
				{err: errUpstream, wantErr: errUpstream},
				{err: errUpstream, wantErr: errUpstream, want: StateOpen},
				{wait: 50 * time.Millisecond, err: errUpstream, wantErr: errUpstream, want: StateOpen},
				{wantErr: ErrCircuitOpen, want: StateOpen},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := New(cfg)
			for i, s := range tt.steps {
				time.Sleep(s.wait)
				err := cb.Execute(context.Background(), func() error { return s.err })
				if s.wantErr != nil {
					assert.ErrorIs(t, err, s.wantErr, "step %d", i)
				} else {
					assert.NoError(t, err, "step %d", i)
				}
				if s.want != StateClosed || i == len(tt.steps)-1 {
					assert.Equal(t, s.want, cb.State(), "step %d", i)
				}
			}
		})
	}
}

func TestCircuitBreaker_GetStats(t *testing.T) {
	cb := New(Config{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Minute, Name: "mongodb-caches"})

	stats := cb.GetStats()
	assert.Equal(t, "closed", stats.State)
	assert.True(t, stats.IsHealthy)

	_ = cb.Execute(context.Background(), func() error { return errUpstream })

	stats = cb.GetStats()
	assert.Equal(t, "open", stats.State)
	assert.Equal(t, 1, stats.FailureCount)
	assert.False(t, stats.IsHealthy)
	assert.False(t, stats.LastFailure.IsZero())
	assert.True(t, cb.IsOpen())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}

func TestCircuitBreaker_CanceledContextDoesNotTrip(t *testing.T) {
	cb := New(Config{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		Name:             "upstream",
	})

	err := cb.Execute(context.Background(), func() error {
		return context.Canceled
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_RejectsDoneContext(t *testing.T) {
	cb := New(DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := cb.Execute(ctx, func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestCircuitBreaker_CustomFailureFilter(t *testing.T) {
	notFound := errors.New("not found")
	cb := New(Config{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		Name:             "storage",
		IsFailure: func(err error) bool {
			return !errors.Is(err, notFound)
		},
	})

	_ = cb.Execute(context.Background(), func() error { return notFound })
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, "storage", cb.Name())
}

func TestNew_NormalizesThresholds(t *testing.T) {
	cb := New(Config{Name: "zero"})

	_ = cb.Execute(context.Background(), func() error { return errors.New("boom") })
	assert.True(t, cb.IsOpen())
}

