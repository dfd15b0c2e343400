package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_WrapsPayload(t *testing.T) {
	frame, err := Encode(BeginGame, BeginGamePayload{FirstPlayer: "Alice", SecondPlayer: "Bob"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"begin_game","data":{"firstPlayer":"Alice","secondPlayer":"Bob"}}`, string(frame))
}

func TestEncode_StringPayload(t *testing.T) {
	frame, err := Encode(Waiting, WaitingMessage)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"waiting","data":"Waiting for Player 2..."}`, string(frame))
}

func TestEncode_OpaquePayloadVerbatim(t *testing.T) {
	raw := json.RawMessage(`{"board":["X",null,"O"],"turn":1}`)
	frame, err := Encode(GameReset, raw)
	require.NoError(t, err)

	env, err := Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, GameReset, env.Event)
	assert.JSONEq(t, string(raw), string(env.Data))
}

func TestEncode_MoveMadeOmitsMissingUser(t *testing.T) {
	frame, err := Encode(MoveMade, MoveMadePayload{UpdatedGame: json.RawMessage(`"X"`), NextInd: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"moveMade","data":{"updatedGame":"X","nextInd":1}}`, string(frame))
}

func TestEncode_Unmarshalable(t *testing.T) {
	_, err := Encode(Won, make(chan int))
	assert.Error(t, err)
}

func TestDecode_JoinRoom(t *testing.T) {
	env, err := Decode([]byte(`{"event":"join_room","data":{"username":"Alice","room":"R1","game":[0,0,0]}}`))
	require.NoError(t, err)
	require.Equal(t, JoinRoom, env.Event)

	var p JoinRoomPayload
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "Alice", p.Username)
	assert.Equal(t, "R1", p.Room)
	assert.JSONEq(t, `[0,0,0]`, string(p.Game))
}

func TestDecode_MoveWithoutInd(t *testing.T) {
	var p MakeMovePayload
	require.NoError(t, json.Unmarshal([]byte(`{"roomName":"R1","updatedGame":"X"}`), &p))
	assert.Nil(t, p.MoverIndex())
}

func TestMoverIndex(t *testing.T) {
	zero, one := 0, 1
	tests := []struct {
		ind  string
		want *int
	}{
		{`0`, &zero},
		{`-0`, &zero},
		{`0.0`, &zero},
		{`1`, &one},
		{`null`, nil},
		{`"0"`, nil},
		{`"1"`, nil},
		{`1.5`, nil},
		{`true`, nil},
		{`false`, nil},
		{`[0]`, nil},
		{`1e300`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.ind, func(t *testing.T) {
			var p MakeMovePayload
			require.NoError(t, json.Unmarshal([]byte(`{"roomName":"R1","ind":`+tt.ind+`}`), &p))
			assert.Equal(t, tt.want, p.MoverIndex())
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"data":{}}`))
	assert.Error(t, err)
}
