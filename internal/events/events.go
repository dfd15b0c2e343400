// Package events defines the wire protocol spoken between game clients and the
// relay: event names, the envelope every frame travels in, and payload shapes.
package events

import (
	"encoding/json"
	"fmt"
	"math"
)

// Inbound event names.
const (
	JoinRoom  = "join_room"
	MakeMove  = "makeMove"
	ResetGame = "resetGame"
	Win       = "win"
)

// Outbound event names.
const (
	ErrorMessage = "error_message"
	BeginGame    = "begin_game"
	Waiting      = "waiting"
	MoveMade     = "moveMade"
	GameReset    = "gameReset"
	Won          = "won"
)

// WaitingMessage is sent to a room when its first player arrives.
const WaitingMessage = "Waiting for Player 2..."

// Envelope is the JSON structure of every frame in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Encode wraps payload in an envelope and marshals it.
func Encode(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", event, err)
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}

// Decode parses a raw frame into an envelope.
func Decode(frame []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}
	if env.Event == "" {
		return Envelope{}, fmt.Errorf("decoding envelope: missing event name")
	}
	return env, nil
}

// JoinRoomPayload is the data of a join_room event.
type JoinRoomPayload struct {
	Username string          `json:"username"`
	Room     string          `json:"room"`
	Game     json.RawMessage `json:"game"`
}

// MakeMovePayload is the data of a makeMove event. Ind is the index of the
// player who just moved, kept raw so that a malformed index still moves.
type MakeMovePayload struct {
	RoomName    string          `json:"roomName"`
	UpdatedGame json.RawMessage `json:"updatedGame"`
	Ind         json.RawMessage `json:"ind"`
}

// MoverIndex returns Ind when it is a whole JSON number and nil for anything
// else: omitted, null, strings, booleans or fractions.
func (p MakeMovePayload) MoverIndex() *int {
	if len(p.Ind) == 0 || (p.Ind[0] != '-' && (p.Ind[0] < '0' || p.Ind[0] > '9')) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(p.Ind, &f); err != nil {
		return nil
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return nil
	}
	i := int(f)
	return &i
}

type ResetGamePayload struct {
	Room    string          `json:"room"`
	NewGame json.RawMessage `json:"newGame"`
}

type WinPayload struct {
	Room       string          `json:"room"`
	NextScores json.RawMessage `json:"nextScores"`
}

// BeginGamePayload announces both players in join order.
type BeginGamePayload struct {
	FirstPlayer  string `json:"firstPlayer"`
	SecondPlayer string `json:"secondPlayer"`
}

// MoveMadePayload is broadcast after every move. NextUser is omitted when no
// player occupies NextInd.
type MoveMadePayload struct {
	UpdatedGame json.RawMessage `json:"updatedGame"`
	NextUser    *string         `json:"nextUser,omitempty"`
	NextInd     int             `json:"nextInd"`
}
