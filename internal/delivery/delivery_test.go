package delivery

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e7canasta/notifier-bridge/internal/envelope"
)

func makeEnvelopes(n int) []envelope.Envelope {
	out := make([]envelope.Envelope, n)
	for i := range out {
		out[i] = envelope.New(uint64(i+1), "test", fmt.Sprintf("#%d", i), envelope.ColorCounter)
	}
	return out
}

func TestPush_DeliversInOrder(t *testing.T) {
	var got []string
	p := NewPush(func(env envelope.Envelope) {
		got = append(got, env.Text)
	})

	for _, env := range makeEnvelopes(5) {
		p.Deliver(env)
	}

	assert.Equal(t, []string{"#0", "#1", "#2", "#3", "#4"}, got)
}

func TestNewPush_NilCallbackPanics(t *testing.T) {
	assert.Panics(t, func() { NewPush(nil) })
}

func TestSinkFunc(t *testing.T) {
	called := 0
	var s Sink = SinkFunc(func(envelope.Envelope) { called++ })
	s.Deliver(envelope.Envelope{})
	assert.Equal(t, 1, called)
}

func TestQueue_DrainInto(t *testing.T) {
	t.Run("moves everything in order", func(t *testing.T) {
		var q Queue
		envs := makeEnvelopes(10)
		for _, env := range envs {
			q.Append(env)
		}
		require.Equal(t, 10, q.Len())

		var dst []envelope.Envelope
		n := q.DrainInto(&dst)

		assert.Equal(t, 10, n)
		assert.Equal(t, envs, dst)
		assert.Equal(t, 0, q.Len())
	})

	t.Run("appends after existing host content", func(t *testing.T) {
		var q Queue
		envs := makeEnvelopes(3)
		q.Append(envs[1])
		q.Append(envs[2])

		dst := []envelope.Envelope{envs[0]}
		n := q.DrainInto(&dst)

		assert.Equal(t, 2, n)
		assert.Equal(t, envs, dst)
	})

	t.Run("second drain is empty", func(t *testing.T) {
		var q Queue
		for _, env := range makeEnvelopes(4) {
			q.Append(env)
		}

		var first, second []envelope.Envelope
		assert.Equal(t, 4, q.DrainInto(&first))
		assert.Equal(t, 0, q.DrainInto(&second))
		assert.Empty(t, second)
	})

	t.Run("queue reuse does not alias drained slice", func(t *testing.T) {
		var q Queue
		envs := makeEnvelopes(4)
		q.Append(envs[0])
		q.Append(envs[1])

		var dst []envelope.Envelope
		q.DrainInto(&dst)

		q.Append(envs[2])
		q.Append(envs[3])

		assert.Equal(t, "#0", dst[0].Text)
		assert.Equal(t, "#1", dst[1].Text)
	})
}

func TestQueue_Reset(t *testing.T) {
	var q Queue
	for _, env := range makeEnvelopes(7) {
		q.Append(env)
	}
	assert.Equal(t, 7, q.Reset())
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, q.Reset())
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "push", ModePush.String())
	assert.Equal(t, "pull", ModePull.String())
	assert.Equal(t, "unknown", Mode(42).String())
}
