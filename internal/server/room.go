package server

import (
	"log"
)

type exitReq struct {
	// force skips the occupancy check, used on server shutdown
	force bool
	done  chan bool
}

// Room fans chat and presence events out to every session watching the
// same movie. A single goroutine per room serializes that room's
// joins, leaves and chat events, so rooms never contend with each
// other and events are delivered in the order the room accepted them.
type Room struct {
	id        string
	rs        *RelayServer
	registry  *Registry
	joinChan  chan *Session
	leaveChan chan *Session
	chatChan  chan *ChatMessage
	// sessions is every live connection in the room; users groups them
	// by participant identifier so a viewer with two tabs holds one
	// presence slot
	sessions map[*Session]struct{}
	users    map[string]map[*Session]struct{}
	log      *log.Logger
	exit     chan exitReq
}

func newRoom(id string, rs *RelayServer) *Room {
	return &Room{
		id:        id,
		rs:        rs,
		registry:  rs.registry,
		joinChan:  make(chan *Session, 256),
		leaveChan: make(chan *Session, 256),
		chatChan:  make(chan *ChatMessage, 256),
		sessions:  make(map[*Session]struct{}),
		users:     make(map[string]map[*Session]struct{}),
		log:       rs.log,
		exit:      make(chan exitReq),
	}
}

func (r *Room) start() {
	r.log.Printf("starting room %q", r.id)

	for {
		select {
		case s := <-r.joinChan:
			r.handleJoin(s)
		case s := <-r.leaveChan:
			r.handleLeave(s)
		case msg := <-r.chatChan:
			r.handleChat(msg)
		case req := <-r.exit:
			if r.handleExit(req) {
				return
			}
		}
	}
}

func (r *Room) handleJoin(s *Session) {
	// a session can close while its join is still queued; its leave may
	// then be drawn first and consumed as a no-op, so admitting it here
	// would strand it in the room with no leave ever coming. cleanup
	// marks the session closed before it deregisters, so this always
	// sees closed in that interleaving.
	if s.State() == SessionClosed {
		r.log.Printf("refusing closed session for %q in room %q", s.userId, r.id)
		if len(r.sessions) == 0 {
			select {
			case r.rs.unloadRoomChan <- r.id:
			default:
			}
		}
		return
	}

	r.sessions[s] = struct{}{}
	if r.users[s.userId] == nil {
		r.users[s.userId] = make(map[*Session]struct{})
	}
	r.users[s.userId][s] = struct{}{}

	s.activate(r)
	r.registry.Join(r.id, s.userId)

	// a repeat join by the same identifier leaves the set unchanged
	// but still re-broadcasts presence
	r.broadcastPresence()
}

func (r *Room) handleLeave(s *Session) {
	// a session that was never in the room, or already left, is a no-op
	if _, ok := r.sessions[s]; !ok {
		return
	}

	r.log.Printf("removing session for %q from room %q", s.userId, r.id)
	delete(r.sessions, s)

	if userSessions, ok := r.users[s.userId]; ok {
		delete(userSessions, s)
		if len(userSessions) == 0 {
			delete(r.users, s.userId)
			r.registry.Leave(r.id, s.userId)
		}
	}

	if len(r.sessions) == 0 {
		// nobody left to notify; hand the room back to the relay
		select {
		case r.rs.unloadRoomChan <- r.id:
		default:
			r.log.Printf("unload channel full, room %q stays loaded", r.id)
		}
		return
	}

	r.broadcastPresence()
}

func (r *Room) handleChat(msg *ChatMessage) {
	r.broadcast(&ServerEvent{Message: msg})
	r.rs.stats.Incr(StatMessagesBroadcast)
}

// handleExit reports whether the room actually exited. An unload
// request is declined if sessions remain or a join is pending, which
// covers a client registering for the room while its unload request
// was in flight.
func (r *Room) handleExit(req exitReq) bool {
	if !req.force && (len(r.sessions) > 0 || len(r.joinChan) > 0) {
		r.log.Printf("room %q is occupied, declining unload", r.id)
		if req.done != nil {
			req.done <- false
		}
		return false
	}

	r.log.Printf("room %q is exiting", r.id)
	for s := range r.sessions {
		r.registry.Leave(r.id, s.userId)
		s.stopSession()
	}

	if req.done != nil {
		req.done <- true
	}
	return true
}

func (r *Room) broadcastPresence() {
	viewers := r.registry.Participants(r.id)
	r.broadcast(&ServerEvent{ViewersUpdate: viewers})
	r.rs.stats.Incr(StatPresenceUpdates)
}

// broadcast queues the event on every session in the room, the sender
// included. Delivery is best-effort: a session with a full outbound
// buffer misses the event rather than blocking the room.
func (r *Room) broadcast(event *ServerEvent) {
	for s := range r.sessions {
		if !s.queueEvent(event) {
			r.log.Printf("dropping event for %q in room %q, send buffer full", s.userId, r.id)
		}
	}
}
