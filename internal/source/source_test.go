package source

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e7canasta/notifier-bridge/internal/envelope"
)

type line struct {
	text  string
	color envelope.Color
}

// recorder collects lines and optionally refuses after limit lines.
type recorder struct {
	lines []line
	limit int
}

func (r *recorder) Running() bool {
	return r.limit == 0 || len(r.lines) < r.limit
}

func (r *recorder) Emit(text string, color envelope.Color) error {
	if r.limit > 0 && len(r.lines) >= r.limit {
		return ErrStopped
	}
	r.lines = append(r.lines, line{text, color})
	return nil
}

func TestSynthetic_Run(t *testing.T) {
	t.Run("startup then bounded counter", func(t *testing.T) {
		src, err := NewSynthetic(SyntheticConfig{Count: 16})
		require.NoError(t, err)

		rec := &recorder{}
		require.NoError(t, src.Run(context.Background(), rec))

		require.Len(t, rec.lines, 17)
		assert.Equal(t, line{"Notifier v2 started", envelope.ColorStartup}, rec.lines[0])
		for i := 0; i < 16; i++ {
			assert.Equal(t, line{fmt.Sprintf("#%d", i), envelope.ColorCounter}, rec.lines[i+1])
		}
	})

	t.Run("zero count emits only startup", func(t *testing.T) {
		src, err := NewSynthetic(SyntheticConfig{Count: 0})
		require.NoError(t, err)

		rec := &recorder{}
		require.NoError(t, src.Run(context.Background(), rec))
		assert.Len(t, rec.lines, 1)
	})

	t.Run("emitter refusal stops the loop", func(t *testing.T) {
		src, err := NewSynthetic(SyntheticConfig{Count: 1000})
		require.NoError(t, err)

		rec := &recorder{limit: 5}
		err = src.Run(context.Background(), rec)

		assert.ErrorIs(t, err, ErrStopped)
		assert.True(t, Stopped(err))
		assert.Len(t, rec.lines, 5)
	})

	t.Run("context cancellation during pacing", func(t *testing.T) {
		src, err := NewSynthetic(SyntheticConfig{Count: 1000, Interval: 50 * time.Millisecond})
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		start := time.Now()
		err = src.Run(ctx, &recorder{})

		assert.True(t, errors.Is(err, context.DeadlineExceeded))
		assert.Less(t, time.Since(start), time.Second, "cancellation must take effect within one interval")
	})

	t.Run("pacing is applied", func(t *testing.T) {
		src, err := NewSynthetic(SyntheticConfig{Count: 5, Interval: 2 * time.Millisecond})
		require.NoError(t, err)

		start := time.Now()
		require.NoError(t, src.Run(context.Background(), &recorder{}))
		assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	})
}

func TestNewSynthetic_FailFast(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SyntheticConfig
		wantErr bool
	}{
		{"defaults", DefaultSyntheticConfig(), false},
		{"no pacing", SyntheticConfig{Count: 10}, false},
		{"negative count", SyntheticConfig{Count: -1}, true},
		{"negative interval", SyntheticConfig{Count: 1, Interval: -time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSynthetic(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultSyntheticConfig(t *testing.T) {
	cfg := DefaultSyntheticConfig()
	assert.Equal(t, 65536, cfg.Count)
	assert.Equal(t, time.Millisecond, cfg.Interval)
}

type fakeNetErr struct{}

func (fakeNetErr) Error() string   { return "i/o failure" }
func (fakeNetErr) Timeout() bool   { return true }
func (fakeNetErr) Temporary() bool { return false }

var _ net.Error = fakeNetErr{}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"nil", nil, ErrCategoryUnknown},
		{"net.Error", fmt.Errorf("read: %w", fakeNetErr{}), ErrCategoryNetwork},
		{"deadline", context.DeadlineExceeded, ErrCategoryNetwork},
		{"twitch login", errors.New(":tmi.twitch.tv NOTICE * :Login authentication failed"), ErrCategoryAuth},
		{"bad handshake", errors.New("websocket: bad handshake"), ErrCategoryProtocol},
		{"abnormal close", errors.New("websocket: close 1006 (abnormal closure): unexpected EOF"), ErrCategoryNetwork},
		{"refused", errors.New("dial tcp 127.0.0.1:1: connect: connection refused"), ErrCategoryNetwork},
		{"other", errors.New("something odd"), ErrCategoryUnknown},
		{"already classified", &Error{Category: ErrCategoryAuth, Op: "login", Err: errors.New("x")}, ErrCategoryAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap("dial", nil))

	base := errors.New("connection refused")
	err := Wrap("dial", base)

	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrCategoryNetwork, se.Category)
	assert.Equal(t, "dial", se.Op)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "source: dial [network]: connection refused", err.Error())

	// Wrapping twice keeps the original classification
	assert.Same(t, se, Wrap("receive", err).(*Error))
}

func TestErrorCategory_String(t *testing.T) {
	assert.Equal(t, "network", ErrCategoryNetwork.String())
	assert.Equal(t, "auth", ErrCategoryAuth.String())
	assert.Equal(t, "protocol", ErrCategoryProtocol.String())
	assert.Equal(t, "unknown", ErrCategoryUnknown.String())
	assert.Equal(t, "unknown", ErrorCategory(99).String())
}
