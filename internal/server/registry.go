package server

import "sync"

// Registry tracks which participant identifiers are connected to which
// room. Membership is a set per room: a user connected twice under the
// same identifier occupies one slot. Rooms are created on first join
// and deleted as soon as their set empties, so a room exists here iff
// it has at least one participant.
//
// The registry lock guards only the room table; each entry carries its
// own lock so operations on distinct rooms do not contend. Join and
// Leave for a given room are serialized by that room's actor; the
// per-entry lock exists so Participants can snapshot concurrently.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*roomEntry
}

type roomEntry struct {
	mu      sync.Mutex
	members map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*roomEntry),
	}
}

// Join adds userId to the set for roomId, creating the room if absent.
// Re-joining with the same identifier is a no-op for the set. It
// reports whether this call created the room.
func (reg *Registry) Join(roomId, userId string) bool {
	reg.mu.Lock()
	entry, ok := reg.rooms[roomId]
	if !ok {
		entry = &roomEntry{members: make(map[string]struct{})}
		reg.rooms[roomId] = entry
	}
	reg.mu.Unlock()

	entry.mu.Lock()
	entry.members[userId] = struct{}{}
	entry.mu.Unlock()

	return !ok
}

// Leave removes userId from the room's set. An absent room or user is
// a safe no-op. The room entry is deleted entirely when its set
// empties. It reports whether the user was actually removed.
func (reg *Registry) Leave(roomId, userId string) bool {
	reg.mu.Lock()
	entry, ok := reg.rooms[roomId]
	reg.mu.Unlock()
	if !ok {
		return false
	}

	entry.mu.Lock()
	_, present := entry.members[userId]
	delete(entry.members, userId)
	empty := len(entry.members) == 0
	entry.mu.Unlock()

	if empty {
		reg.mu.Lock()
		delete(reg.rooms, roomId)
		reg.mu.Unlock()
	}

	return present
}

// Participants returns a snapshot of the room's current set. The order
// is unspecified and unstable across calls. An absent room yields nil.
func (reg *Registry) Participants(roomId string) []string {
	reg.mu.Lock()
	entry, ok := reg.rooms[roomId]
	reg.mu.Unlock()
	if !ok {
		return nil
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	members := make([]string, 0, len(entry.members))
	for userId := range entry.members {
		members = append(members, userId)
	}

	return members
}

// HasRoom reports whether the room currently exists in the registry.
func (reg *Registry) HasRoom(roomId string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	_, ok := reg.rooms[roomId]
	return ok
}
