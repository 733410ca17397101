package server

import "time"

// ChatMessage is the chat payload as supplied by the client. It is
// re-broadcast verbatim to the room; the relay does not stamp or
// validate any of its fields. Timestamps are epoch milliseconds.
type ChatMessage struct {
	User      string `json:"user"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// ClientEvent is the envelope for events read off a session's socket.
type ClientEvent struct {
	Message *ChatMessage `json:"message,omitempty"`
}

// ServerEvent is the envelope for events fanned out to a room. Exactly
// one field is set per event; the JSON key doubles as the event name.
type ServerEvent struct {
	Message       *ChatMessage `json:"message,omitempty"`
	ViewersUpdate []string     `json:"viewersUpdate,omitempty"`
}

func NowMillis() int64 {
	return time.Now().UnixMilli()
}
