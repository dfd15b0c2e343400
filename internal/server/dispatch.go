package server

import (
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"roomrelay/internal/events"
	"roomrelay/internal/rooms"
)

// dispatch decodes one inbound frame and hands it to the coordinator.
// Malformed frames and unknown events are dropped without a reply.
func (s *Server) dispatch(connID string, frame []byte) {
	env, err := events.Decode(frame)
	if err != nil {
		s.Logger.Debug("dropping frame", zap.String("conn", connID), zap.Error(err))
		return
	}

	switch env.Event {
	case events.JoinRoom:
		var p events.JoinRoomPayload
		if !s.decode(connID, env, &p) {
			return
		}
		err := s.Rooms.Join(connID, p.Username, p.Room, p.Game)
		switch {
		case errors.Is(err, rooms.ErrNameTaken):
			s.Metrics.JoinRejected("name_taken")
		case errors.Is(err, rooms.ErrRoomFull):
			s.Metrics.JoinRejected("room_full")
		}

	case events.MakeMove:
		var p events.MakeMovePayload
		if !s.decode(connID, env, &p) {
			return
		}
		s.Rooms.Move(p.RoomName, p.UpdatedGame, p.MoverIndex())

	case events.ResetGame:
		var p events.ResetGamePayload
		if !s.decode(connID, env, &p) {
			return
		}
		s.Rooms.Reset(p.Room, p.NewGame)

	case events.Win:
		var p events.WinPayload
		if !s.decode(connID, env, &p) {
			return
		}
		s.Rooms.RecordWin(p.Room, p.NextScores)

	default:
		s.Logger.Debug("unknown event", zap.String("conn", connID), zap.String("event", env.Event))
		return
	}
	s.Metrics.Event(env.Event)
}

func (s *Server) decode(connID string, env events.Envelope, v any) bool {
	if err := json.Unmarshal(env.Data, v); err != nil {
		s.Logger.Debug("dropping event with malformed payload",
			zap.String("conn", connID), zap.String("event", env.Event), zap.Error(err))
		return false
	}
	return true
}
