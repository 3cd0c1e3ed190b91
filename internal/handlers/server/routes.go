package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/KirkDiggler/fortuna/internal/models"
	"github.com/KirkDiggler/fortuna/internal/repositories/round_ledger"
	"github.com/KirkDiggler/fortuna/internal/services/room"
)

// RegisterRoutes builds the HTTP handler
func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(s.corsMiddleware)

	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/rooms", s.listRoomsHandler).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/rooms/{roomId}/history", s.roomHistoryHandler).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/games/{gameId}/leaderboard", s.leaderboardHandler).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/ws", s.serveWS)

	return r
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// websocket origins are checked by the upgrader
		if strings.ToLower(r.Header.Get("Upgrade")) == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		origin := r.Header.Get("Origin")
		if s.anyOrig {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin != "" && s.allowOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listRoomsHandler(w http.ResponseWriter, r *http.Request) {
	input := &room.FindPublicRoomsInput{}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		input.Limit = limit
	}

	out, err := s.rooms.FindPublicRooms(r.Context(), input)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list public rooms")
		s.writeError(w, http.StatusInternalServerError, "failed to list rooms")
		return
	}

	s.writeJSON(w, http.StatusOK, struct {
		Rooms []models.RoomSummary `json:"rooms"`
	}{Rooms: out.Rooms})
}

func (s *Server) roomHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		s.writeError(w, http.StatusNotFound, "round history is disabled")
		return
	}

	roomID := mux.Vars(r)["roomId"]
	out, err := s.ledger.GetRoundRecordsForRoom(r.Context(), &round_ledger.GetRoundRecordsForRoomInput{
		RoomID: roomID,
	})
	if err != nil {
		s.log.Error().Err(err).Str("room_id", roomID).Msg("failed to read round history")
		s.writeError(w, http.StatusInternalServerError, "failed to read round history")
		return
	}

	s.writeJSON(w, http.StatusOK, struct {
		RoomID string                `json:"roomId"`
		Rounds []*models.RoundRecord `json:"rounds"`
	}{RoomID: roomID, Rounds: out.Records})
}

func (s *Server) leaderboardHandler(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		s.writeError(w, http.StatusNotFound, "round history is disabled")
		return
	}

	gameID := mux.Vars(r)["gameId"]
	out, err := s.ledger.GetLeaderboard(r.Context(), &round_ledger.GetLeaderboardInput{
		GameID: gameID,
	})
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("failed to read leaderboard")
		s.writeError(w, http.StatusInternalServerError, "failed to read leaderboard")
		return
	}

	s.writeJSON(w, http.StatusOK, out.Leaderboard)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
