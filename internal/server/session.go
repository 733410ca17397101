package server

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 1024
)

type SessionState int

const (
	SessionConnecting SessionState = iota
	SessionActive
	SessionClosed
)

func (s SessionState) String() string {
	switch s {
	case SessionConnecting:
		return "connecting"
	case SessionActive:
		return "active"
	case SessionClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session is one live connection bound to a single (room, participant)
// pair for its whole lifetime. It moves from connecting to active when
// its room admits it, and to closed when the transport reports
// closure; closed is terminal, a reconnecting client gets a new
// Session.
type Session struct {
	id     string
	roomId string
	userId string
	conn   *websocket.Conn
	relay  *RelayServer
	log    *log.Logger

	mu    sync.RWMutex
	state SessionState
	room  *Room

	send     chan *ServerEvent
	stop     chan struct{}
	stopOnce sync.Once
}

func NewSession(roomId, userId string, conn *websocket.Conn, rs *RelayServer, l *log.Logger) *Session {
	return &Session{
		id:     uuid.NewString(),
		roomId: roomId,
		userId: userId,
		conn:   conn,
		relay:  rs,
		log:    l,
		state:  SessionConnecting,
		send:   make(chan *ServerEvent, 256),
		stop:   make(chan struct{}),
	}
}

func (s *Session) RoomId() string { return s.roomId }
func (s *Session) UserId() string { return s.userId }

func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// activate records the room admitting this session. Only a connecting
// session becomes active; a session closed during the handshake stays
// closed.
func (s *Session) activate(r *Room) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.room = r
	if s.state == SessionConnecting {
		s.state = SessionActive
	}
}

func (s *Session) getRoom() *Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room
}

func (s *Session) Write() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
		s.log.Printf("session %s: write exiting", s.id)
	}()

	for {
		select {
		case event, ok := <-s.send:
			if !ok {
				return
			}

			bytes, err := serializeEvent(event)
			if err != nil {
				s.log.Println("failed to serialize event:", err)
				continue
			}

			if !s.sendMessage(websocket.TextMessage, bytes) {
				return
			}
		case <-s.stop:
			return
		case <-ticker.C:
			if !s.sendMessage(websocket.PingMessage, nil) {
				return
			}
		}
	}
}

func (s *Session) Read() {
	defer func() {
		s.conn.Close()
		s.cleanup()
		s.log.Printf("session %s: read exiting", s.id)
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(appData string) error { s.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.log.Printf("ws: read: %v", err)
			}
			break
		}

		var event ClientEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			s.log.Println("error parsing event:", err)
			continue
		}

		if event.Message == nil {
			continue
		}

		r := s.getRoom()
		if r == nil {
			s.log.Printf("dropping message from %q, session not yet active", s.userId)
			continue
		}

		select {
		case r.chatChan <- event.Message:
		default:
			s.log.Printf("chat channel full on room %q", r.id)
		}
	}
}

// queueEvent hands an event to the write pump without blocking. It
// reports whether the event was queued.
func (s *Session) queueEvent(event *ServerEvent) bool {
	select {
	case s.send <- event:
	default:
		return false
	}

	return true
}

func serializeEvent(event *ServerEvent) ([]byte, error) {
	return json.Marshal(event)
}

func (s *Session) sendMessage(msgType int, msg []byte) bool {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := s.conn.WriteMessage(msgType, msg); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
			websocket.CloseNormalClosure) {
			s.log.Printf("write message: %s", err)
		}
		return false
	}

	return true
}

func (s *Session) stopSession() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

func (s *Session) cleanup() {
	s.mu.Lock()
	s.state = SessionClosed
	s.mu.Unlock()

	select {
	case s.relay.deRegisterChan <- s:
	case <-s.relay.done:
	}

	s.stopSession()
}
