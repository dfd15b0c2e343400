package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"roomrelay/internal/observability"
	"roomrelay/internal/rooms"
	"roomrelay/internal/wshub"
)

type Server struct {
	Rooms          *rooms.Coordinator
	Hub            *wshub.Hub
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	Registry       *prometheus.Registry
	OriginPatterns []string // websocket handshake origins; nil allows same-origin only
	SendBuffer     int
}

// handleWS upgrades the request and relays events for the connection until
// it closes. A closed connection leaves its room.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.OriginPatterns,
	})
	if err != nil {
		// Accept has already written the error response.
		s.Logger.Warn("websocket accept failed", zap.String("origin", r.Header.Get("Origin")), zap.Error(err))
		return
	}
	defer conn.CloseNow()

	client := wshub.NewClient(uuid.New().String(), conn, s.SendBuffer)
	s.Hub.Register(client)
	log := s.Logger.With(zap.String("conn", client.ID))
	log.Info("user connected", zap.String("remote", r.RemoteAddr))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		if err := client.WritePump(ctx); err != nil && ctx.Err() == nil {
			log.Warn("websocket write failed", zap.Error(err))
		}
		cancel()
	}()

	err = s.readLoop(ctx, client)
	s.Rooms.Leave(client.ID)
	s.Hub.Unregister(client.ID)

	switch status := websocket.CloseStatus(err); {
	case status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway:
		log.Info("user disconnected")
	case errors.Is(err, context.Canceled):
		log.Info("user disconnected", zap.String("reason", "server closing"))
	default:
		log.Info("user disconnected", zap.Error(err))
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

func (s *Server) readLoop(ctx context.Context, c *wshub.Client) error {
	for {
		_, data, err := c.Conn.Read(ctx)
		if err != nil {
			return err
		}
		s.dispatch(c.ID, data)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"rooms":       s.Rooms.RoomCount(),
		"connections": s.Hub.Count(),
		"players":     s.Rooms.PlayerCount(),
	})
}

// handleRoomCode suggests a room code that no active room is using.
func (s *Server) handleRoomCode(w http.ResponseWriter, r *http.Request) {
	code, err := s.Rooms.SuggestCode()
	if err != nil {
		s.Logger.Error("suggesting room code", zap.Error(err))
		http.Error(w, "Failed to generate room code", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"room": code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
