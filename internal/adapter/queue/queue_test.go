package queue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New("kafka", "", zap.NewNop())
	assert.ErrorContains(t, err, "unknown queue driver")
}

func TestNew_NoneUsesMemoryQueue(t *testing.T) {
	q, err := New(DriverNone, "", zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryQueue{}, q)
	assert.True(t, q.Connected())
}

func TestMemoryQueue_PublishSubscribe(t *testing.T) {
	// Arrange
	q := NewMemoryQueue(zap.NewNop())
	var got [][]byte
	require.NoError(t, q.Subscribe("voice.query.handled", func(data []byte) error {
		got = append(got, data)
		return nil
	}))
	require.NoError(t, q.Subscribe("voice.query.handled", func(data []byte) error {
		return errors.New("consumer failed")
	}))

	// Act
	err1 := q.Publish("voice.query.handled", []byte(`{"intent":"HELP"}`))
	err2 := q.Publish("other.subject", []byte(`{}`))

	// Assert
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	require.Len(t, got, 1)
	assert.JSONEq(t, `{"intent":"HELP"}`, string(got[0]))
}

func TestMemoryQueue_Close(t *testing.T) {
	q := NewMemoryQueue(zap.NewNop())
	require.NoError(t, q.Close())

	assert.False(t, q.Connected())
	assert.ErrorIs(t, q.Publish("x", nil), ErrClosed)
	assert.ErrorIs(t, q.Subscribe("x", func([]byte) error { return nil }), ErrClosed)
}
