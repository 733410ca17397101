package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_serializeEvent(t *testing.T) {
	t.Run("message event", func(t *testing.T) {
		event := &ServerEvent{
			Message: &ChatMessage{
				User:      "alice",
				Message:   "hi",
				Timestamp: 1000,
			},
		}

		bytes, err := serializeEvent(event)
		assert.NoError(t, err, "expected no error during serialization")
		assert.Equal(t, `{"message":{"user":"alice","message":"hi","timestamp":1000}}`, string(bytes))
	})

	t.Run("viewers update event", func(t *testing.T) {
		event := &ServerEvent{
			ViewersUpdate: []string{"alice", "bob"},
		}

		bytes, err := serializeEvent(event)
		assert.NoError(t, err, "expected no error during serialization")
		assert.Equal(t, `{"viewersUpdate":["alice","bob"]}`, string(bytes))
	})
}

func TestNowMillis(t *testing.T) {
	now := NowMillis()
	assert.InDelta(t, time.Now().UnixMilli(), now, 1000, "expected epoch milliseconds")
}
