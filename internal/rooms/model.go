package rooms

import (
	"encoding/json"
	"slices"
	"sync"
)

// Capacity is the number of players a room holds.
const Capacity = 2

// Phase is the occupancy stage of a room, derived from its member count.
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseWaiting
	PhaseActive
)

// PhaseOf maps a member count to its phase.
func PhaseOf(members int) Phase {
	switch {
	case members <= 0:
		return PhaseEmpty
	case members == 1:
		return PhaseWaiting
	default:
		return PhaseActive
	}
}

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseWaiting:
		return "waiting"
	case PhaseActive:
		return "active"
	default:
		return "unknown"
	}
}

// Room is the shared state of one game session. Members are kept in join
// order; index 0 is the first player. Game and Scores are opaque client
// values stored and republished verbatim.
type Room struct {
	mu      sync.Mutex
	closed  bool
	Name    string
	Members []string
	Game    json.RawMessage
	Scores  json.RawMessage
}

func newRoom(name string) *Room {
	return &Room{
		Name:    name,
		Members: make([]string, 0, Capacity),
	}
}

func (r *Room) has(name string) bool {
	return slices.Contains(r.Members, name)
}

// remove deletes name from the membership and reports whether it was present.
func (r *Room) remove(name string) bool {
	i := slices.Index(r.Members, name)
	if i < 0 {
		return false
	}
	r.Members = slices.Delete(r.Members, i, i+1)
	return true
}

// memberAt returns the member at index i, or nil when the seat is empty.
func (r *Room) memberAt(i int) *string {
	if i < 0 || i >= len(r.Members) {
		return nil
	}
	name := r.Members[i]
	return &name
}

// RoomSnapshot is a point-in-time copy of a room, safe to hold without locks.
type RoomSnapshot struct {
	Name    string
	Members []string
	Game    json.RawMessage
	Scores  json.RawMessage
	Phase   Phase
}

func (r *Room) snapshot() RoomSnapshot {
	return RoomSnapshot{
		Name:    r.Name,
		Members: slices.Clone(r.Members),
		Game:    slices.Clone(r.Game),
		Scores:  slices.Clone(r.Scores),
		Phase:   PhaseOf(len(r.Members)),
	}
}

// absent reports whether a client value carries no state, mirroring an
// omitted or null JSON field.
func absent(v json.RawMessage) bool {
	return len(v) == 0 || string(v) == "null"
}
