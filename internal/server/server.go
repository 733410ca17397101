package server

import (
	"context"
	"log"
	"sync"

	"github.com/watchpartyhq/watchparty/internal/stats"
)

const (
	StatActiveConnections = "ActiveConnections"
	StatActiveRooms       = "ActiveRooms"
	StatMessagesBroadcast = "MessagesBroadcast"
	StatPresenceUpdates   = "PresenceUpdates"
)

// RelayServer owns the room table. A single event loop admits and
// removes sessions and loads and unloads rooms; each live room runs
// its own goroutine. The loop never touches a room's participant set
// directly, it only routes sessions to the room's channels.
type RelayServer struct {
	log            *log.Logger
	registry       *Registry
	stats          stats.StatsProvider
	sessions       map[*Session]struct{}
	sessionsLock   sync.Mutex
	rooms          map[string]*Room
	registerChan   chan *Session
	deRegisterChan chan *Session
	unloadRoomChan chan string
	stop           chan struct{}
	done           chan struct{}
}

func NewRelayServer(logger *log.Logger, registry *Registry, su stats.StatsProvider) (*RelayServer, error) {
	for _, name := range []string{
		StatActiveConnections,
		StatActiveRooms,
		StatMessagesBroadcast,
		StatPresenceUpdates,
	} {
		su.RegisterMetric(name)
	}

	return &RelayServer{
		log:            logger,
		registry:       registry,
		stats:          su,
		sessions:       make(map[*Session]struct{}),
		rooms:          make(map[string]*Room),
		registerChan:   make(chan *Session, 256),
		deRegisterChan: make(chan *Session, 256),
		unloadRoomChan: make(chan string, 64),
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}, nil
}

// RegisterSession hands a freshly upgraded connection to the relay.
// The session's room is created on demand and the session becomes
// active once the room admits it.
func (rs *RelayServer) RegisterSession(s *Session) {
	rs.registerChan <- s
}

// Registry exposes the shared room registry.
func (rs *RelayServer) Registry() *Registry {
	return rs.registry
}

func (rs *RelayServer) Run() {
	for {
		select {
		case s := <-rs.registerChan:
			rs.log.Printf("adding session for %q in room %q", s.userId, s.roomId)
			rs.addSession(s)

			room, ok := rs.rooms[s.roomId]
			if !ok {
				room = newRoom(s.roomId, rs)
				rs.rooms[room.id] = room
				go room.start()
				rs.stats.Incr(StatActiveRooms)
			}

			select {
			case room.joinChan <- s:
			default:
				rs.log.Printf("join channel full on room %q", room.id)
			}
			rs.stats.Incr(StatActiveConnections)
		case s := <-rs.deRegisterChan:
			rs.log.Printf("removing session for %q in room %q", s.userId, s.roomId)
			rs.removeSession(s)

			if room, ok := rs.rooms[s.roomId]; ok {
				select {
				case room.leaveChan <- s:
				default:
					rs.log.Printf("leave channel full on room %q", room.id)
				}
			}
			rs.stats.Decr(StatActiveConnections)
		case id := <-rs.unloadRoomChan:
			room, ok := rs.rooms[id]
			if !ok {
				continue
			}

			done := make(chan bool)
			room.exit <- exitReq{done: done}
			if <-done {
				rs.log.Printf("removing room %q", id)
				delete(rs.rooms, id)
				rs.stats.Decr(StatActiveRooms)
			}
		case <-rs.stop:
			rs.log.Println("shutting down rooms")
			for id, room := range rs.rooms {
				done := make(chan bool)
				room.exit <- exitReq{force: true, done: done}
				<-done
				delete(rs.rooms, id)
			}

			close(rs.done)
			return
		}
	}
}

func (rs *RelayServer) addSession(s *Session) {
	rs.sessionsLock.Lock()
	defer rs.sessionsLock.Unlock()
	rs.sessions[s] = struct{}{}
}

func (rs *RelayServer) removeSession(s *Session) {
	rs.sessionsLock.Lock()
	defer rs.sessionsLock.Unlock()
	delete(rs.sessions, s)
}

func (rs *RelayServer) Shutdown(ctx context.Context) error {
	rs.log.Println("received shutdown signal")

	rs.sessionsLock.Lock()
	for s := range rs.sessions {
		s.stopSession()
	}
	rs.sessionsLock.Unlock()

	close(rs.stop)

	select {
	case <-rs.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
