// Package rooms coordinates two-player game rooms: admission, turn hand-off,
// authoritative game and score state, and cleanup when players leave.
package rooms

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"roomrelay/internal/events"
	"roomrelay/internal/observability"
	"roomrelay/internal/players"
)

var (
	ErrNameTaken = errors.New("username taken in room")
	ErrRoomFull  = errors.New("room full")
)

// Messages sent to a rejected joiner.
const (
	NameTakenMessage = "Username already taken in this room."
	RoomFullMessage  = "Room is full."
)

// Emitter is the transport the coordinator delivers events through.
type Emitter interface {
	JoinGroup(connID, group string)
	LeaveGroup(connID, group string)
	EmitTo(connID, event string, payload any)
	EmitToGroup(group, event string, payload any)
}

// Coordinator owns every active room and the connection bindings used to
// clean up after a disconnect. All methods are safe for concurrent use.
//
// mu guards the room index only; each Room carries its own lock so unrelated
// rooms never wait on each other. mu is never held while waiting for a room
// lock; an emptied room is marked closed and then dropped from the index.
type Coordinator struct {
	mu       sync.Mutex
	rooms    map[string]*Room
	bindings *players.Store
	emitter  Emitter
	logger   *zap.Logger
	metrics  *observability.Metrics
}

func NewCoordinator(emitter Emitter, logger *zap.Logger, metrics *observability.Metrics) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		rooms:    make(map[string]*Room),
		bindings: players.NewStore(),
		emitter:  emitter,
		logger:   logger,
		metrics:  metrics,
	}
}

// Join admits name into room for the connection connID. The first joiner's
// initialGame becomes the room's game state; later joiners' values are
// ignored. Rejections are reported to connID only, change nothing and are
// returned as ErrNameTaken or ErrRoomFull.
//
// A connection that is already seated somewhere gives up that seat once it
// is admitted to the new one.
func (c *Coordinator) Join(connID, name, room string, initialGame json.RawMessage) error {
	prev, moved, err := c.admit(connID, name, room, initialGame)
	if err != nil {
		return err
	}
	if moved {
		c.vacate(connID, prev)
	}
	return nil
}

// admit runs the join guards and seats name under the room lock. It reports
// the connection's earlier binding when that seat is in another room and
// still has to be vacated.
func (c *Coordinator) admit(connID, name, room string, initialGame json.RawMessage) (players.Binding, bool, error) {
	r := c.lockOrCreate(room)
	defer r.mu.Unlock()

	if r.has(name) {
		c.logger.Debug("join rejected", zap.String("room", room), zap.String("user", name), zap.Error(ErrNameTaken))
		c.emitter.EmitTo(connID, events.ErrorMessage, NameTakenMessage)
		return players.Binding{}, false, ErrNameTaken
	}

	prev, bound := c.bindings.Get(connID)
	sameRoom := bound && prev.Room == room
	if len(r.Members) >= Capacity {
		c.logger.Debug("join rejected", zap.String("room", room), zap.String("user", name), zap.Error(ErrRoomFull))
		c.emitter.EmitTo(connID, events.ErrorMessage, RoomFullMessage)
		return players.Binding{}, false, ErrRoomFull
	}

	// Renaming within the room: the old name gives up its seat here.
	if sameRoom {
		r.remove(prev.Name)
	}
	c.emitter.JoinGroup(connID, room)
	c.bindings.Bind(connID, name, room)
	r.Members = append(r.Members, name)
	if absent(r.Game) {
		r.Game = initialGame
	}
	c.logger.Info("user joined room", zap.String("room", room), zap.String("user", name))

	switch PhaseOf(len(r.Members)) {
	case PhaseActive:
		c.emitter.EmitToGroup(room, events.BeginGame, events.BeginGamePayload{
			FirstPlayer:  r.Members[0],
			SecondPlayer: r.Members[1],
		})
	case PhaseWaiting:
		c.emitter.EmitToGroup(room, events.Waiting, events.WaitingMessage)
	}
	return prev, bound && !sameRoom, nil
}

// Move stores updatedGame and hands the turn to the other seat. ind is the
// index of the player who just moved; anything other than 0, including nil,
// passes the turn to seat 0. An empty room name is ignored.
func (c *Coordinator) Move(room string, updatedGame json.RawMessage, ind *int) {
	if room == "" {
		return
	}
	nextInd := 0
	if ind != nil && *ind == 0 {
		nextInd = 1
	}

	payload := events.MoveMadePayload{UpdatedGame: updatedGame, NextInd: nextInd}
	c.withRoom(room, func(r *Room) {
		if r != nil {
			r.Game = updatedGame
			payload.NextUser = r.memberAt(nextInd)
		}
		c.emitter.EmitToGroup(room, events.MoveMade, payload)
	})
}

// Reset replaces the room's game state with newGame. An empty room name is
// ignored.
func (c *Coordinator) Reset(room string, newGame json.RawMessage) {
	if room == "" {
		return
	}
	c.withRoom(room, func(r *Room) {
		if r != nil {
			r.Game = newGame
		}
		c.emitter.EmitToGroup(room, events.GameReset, newGame)
	})
}

// RecordWin replaces the room's score state with nextScores. An empty room
// name is ignored.
func (c *Coordinator) RecordWin(room string, nextScores json.RawMessage) {
	if room == "" {
		return
	}
	c.withRoom(room, func(r *Room) {
		if r != nil {
			r.Scores = nextScores
		}
		c.emitter.EmitToGroup(room, events.Won, nextScores)
	})
}

// Leave releases the connection's seat. When the room empties, its
// membership, game and scores are discarded together. Remaining players are
// not notified. Connections that never joined are ignored.
func (c *Coordinator) Leave(connID string) {
	b, ok := c.bindings.Release(connID)
	if !ok {
		return
	}
	c.vacate(connID, b)
}

// vacate removes b's name from its room and closes the room once empty. The
// index lock is taken only for the deletion, under the room lock.
func (c *Coordinator) vacate(connID string, b players.Binding) {
	c.emitter.LeaveGroup(connID, b.Room)

	c.mu.Lock()
	r, ok := c.rooms[b.Room]
	c.mu.Unlock()
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || !r.remove(b.Name) {
		return
	}
	c.logger.Info("user left room", zap.String("room", b.Room), zap.String("user", b.Name))
	if len(r.Members) > 0 {
		return
	}

	r.closed = true
	c.mu.Lock()
	if c.rooms[b.Room] == r {
		delete(c.rooms, b.Room)
	}
	c.mu.Unlock()
	c.metrics.RoomClosed()
	c.logger.Debug("room closed", zap.String("room", b.Room))
}

// Snapshot returns a copy of the room's state.
func (c *Coordinator) Snapshot(room string) (RoomSnapshot, bool) {
	var snap RoomSnapshot
	found := false
	c.withRoom(room, func(r *Room) {
		if r != nil {
			snap = r.snapshot()
			found = true
		}
	})
	return snap, found
}

// Phase returns the room's occupancy phase; unknown rooms are empty.
func (c *Coordinator) Phase(room string) Phase {
	snap, _ := c.Snapshot(room)
	return snap.Phase
}

// RoomCount returns the number of rooms with at least one member.
func (c *Coordinator) RoomCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rooms)
}

// SuggestCode returns a fresh room code that no active room is using.
func (c *Coordinator) SuggestCode() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Try up to 10 times to generate an unused code
	for i := 0; i < 10; i++ {
		code, err := GenerateCode()
		if err != nil {
			return "", fmt.Errorf("generating room code: %w", err)
		}
		if _, exists := c.rooms[code]; !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate unused room code after 10 attempts")
}

// PlayerCount returns the number of connections holding a seat.
func (c *Coordinator) PlayerCount() int {
	return c.bindings.Count()
}

// lockOrCreate returns the named room locked, creating it when absent. A room
// closed while we waited for its lock is replaced by a fresh one.
func (c *Coordinator) lockOrCreate(name string) *Room {
	for {
		c.mu.Lock()
		r, ok := c.rooms[name]
		if !ok {
			r = newRoom(name)
			c.rooms[name] = r
			c.metrics.RoomOpened()
		}
		c.mu.Unlock()

		r.mu.Lock()
		if !r.closed {
			return r
		}
		r.mu.Unlock()
	}
}

// withRoom runs fn with the named room locked, or with nil when the room does
// not exist. The index lock is released before the room lock is taken.
func (c *Coordinator) withRoom(name string, fn func(*Room)) {
	c.mu.Lock()
	r, ok := c.rooms[name]
	c.mu.Unlock()
	if !ok {
		fn(nil)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		fn(nil)
		return
	}
	fn(r)
}
