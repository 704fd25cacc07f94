package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingSleep captures requested waits without blocking.
type recordingSleep struct {
	waits []time.Duration
}

func (r *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return ctx.Err()
}

func TestController_Do(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name      string
		responses []error
		wantErr   error
		wantCalls int
		wantWaits []time.Duration
	}{
		{
			name:      "success without signal",
			responses: []error{nil},
			wantCalls: 1,
		},
		{
			name:      "two signals then success",
			responses: []error{&LimitedError{Reason: "http 429"}, &LimitedError{Reason: "http 429"}, nil},
			wantCalls: 3,
			wantWaits: []time.Duration{DefaultWait, DefaultWait},
		},
		{
			name:      "server hint wins over default",
			responses: []error{&LimitedError{RetryAfter: 3 * time.Second}, nil},
			wantCalls: 2,
			wantWaits: []time.Duration{3 * time.Second},
		},
		{
			name:      "other errors are not retried",
			responses: []error{errBoom},
			wantErr:   errBoom,
			wantCalls: 1,
		},
		{
			name:      "wrapped signal is detected",
			responses: []error{errors.Join(errors.New("save entry"), &LimitedError{}), errBoom},
			wantErr:   errBoom,
			wantCalls: 2,
			wantWaits: []time.Duration{DefaultWait},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingSleep{}
			c := New(zap.NewNop(), WithSleep(rec.sleep))

			calls := 0
			err := c.Do(context.Background(), func(ctx context.Context) error {
				resp := tt.responses[calls]
				calls++
				return resp
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantWaits, rec.waits)
			assert.Equal(t, len(tt.wantWaits), c.Stats().Hits)
		})
	}
}

func TestController_DefaultWaitOption(t *testing.T) {
	rec := &recordingSleep{}
	c := New(nil, WithSleep(rec.sleep), WithDefaultWait(2*time.Second))

	calls := 0
	err := c.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return &LimitedError{}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []time.Duration{2 * time.Second}, rec.waits)
	assert.Equal(t, 2*time.Second, c.Stats().Waited)
}

func TestController_CancelDuringWait(t *testing.T) {
	c := New(zap.NewNop(), WithDefaultWait(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := c.Do(ctx, func(ctx context.Context) error {
		calls++
		return &LimitedError{}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, 1, c.Stats().Hits)
	assert.Zero(t, c.Stats().Waited)
}

func TestController_PacerHonoursCancellation(t *testing.T) {
	c := New(zap.NewNop(), WithRequestsPerMinute(60))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := c.Do(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestSleep(t *testing.T) {
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}
