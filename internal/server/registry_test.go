package server

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_Join(t *testing.T) {
	reg := NewRegistry()

	created := reg.Join("m42", "alice")
	assert.True(t, created, "expected first join to create the room")
	assert.True(t, reg.HasRoom("m42"), "expected room to exist after join")
	assert.ElementsMatch(t, []string{"alice"}, reg.Participants("m42"))

	created = reg.Join("m42", "bob")
	assert.False(t, created, "expected second join not to create the room")
	assert.ElementsMatch(t, []string{"alice", "bob"}, reg.Participants("m42"))
}

func TestRegistry_Join_duplicate(t *testing.T) {
	reg := NewRegistry()

	reg.Join("m42", "alice")
	reg.Join("m42", "alice")

	participants := reg.Participants("m42")
	assert.Lenf(t, participants, 1, "expected set semantics, got %v", participants)
}

func TestRegistry_Leave(t *testing.T) {
	t.Run("removes participant", func(t *testing.T) {
		reg := NewRegistry()
		reg.Join("m42", "alice")
		reg.Join("m42", "bob")

		removed := reg.Leave("m42", "bob")
		assert.True(t, removed, "expected leave to report removal")
		assert.ElementsMatch(t, []string{"alice"}, reg.Participants("m42"))
		assert.True(t, reg.HasRoom("m42"), "expected non-empty room to remain")
	})

	t.Run("deletes empty room", func(t *testing.T) {
		reg := NewRegistry()
		reg.Join("m42", "alice")

		reg.Leave("m42", "alice")
		assert.False(t, reg.HasRoom("m42"), "expected empty room to be deleted")
		assert.Nil(t, reg.Participants("m42"), "expected no participants for absent room")
	})

	t.Run("is idempotent", func(t *testing.T) {
		reg := NewRegistry()
		reg.Join("m42", "alice")
		reg.Join("m42", "bob")

		assert.True(t, reg.Leave("m42", "bob"))
		assert.False(t, reg.Leave("m42", "bob"), "expected second leave to be a no-op")
		assert.ElementsMatch(t, []string{"alice"}, reg.Participants("m42"))
	})

	t.Run("absent room is a no-op", func(t *testing.T) {
		reg := NewRegistry()
		assert.False(t, reg.Leave("nosuchroom", "alice"))
	})

	t.Run("absent user is a no-op", func(t *testing.T) {
		reg := NewRegistry()
		reg.Join("m42", "alice")
		assert.False(t, reg.Leave("m42", "mallory"))
		assert.True(t, reg.HasRoom("m42"), "expected room to survive a no-op leave")
	})
}

func TestRegistry_roomsAreIndependent(t *testing.T) {
	reg := NewRegistry()
	reg.Join("m42", "alice")
	reg.Join("m99", "bob")

	reg.Leave("m42", "alice")
	assert.False(t, reg.HasRoom("m42"), "expected emptied room to be deleted")
	assert.True(t, reg.HasRoom("m99"), "expected other room to be untouched")
	assert.ElementsMatch(t, []string{"bob"}, reg.Participants("m99"))
}

func TestRegistry_concurrentRooms(t *testing.T) {
	// join/leave on a given room are serialized by its room actor, so
	// concurrency only needs to be safe across distinct rooms
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			roomId := fmt.Sprintf("room-%d", i)
			for j := range 50 {
				userId := fmt.Sprintf("user-%d", j)
				reg.Join(roomId, userId)
			}
			for j := range 50 {
				userId := fmt.Sprintf("user-%d", j)
				reg.Leave(roomId, userId)
			}
		}()
	}
	wg.Wait()

	for i := range 16 {
		roomId := fmt.Sprintf("room-%d", i)
		assert.Falsef(t, reg.HasRoom(roomId), "expected room %q to be deleted after all leaves", roomId)
	}
}
