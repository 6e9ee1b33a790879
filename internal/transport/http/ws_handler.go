package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"flag-quiz-service/internal/domain"
	"flag-quiz-service/internal/game"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *game.Service
	upgrader websocket.Upgrader
}

func NewWSHandler(service *game.Service) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Input string `json:"input"`
}

type resetPayload struct {
	Mode string `json:"mode"`
}

type answerResult struct {
	Correct bool      `json:"correct"`
	View    game.View `json:"view"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the connection and drives one player's game over it.
// The protocol is strictly request/response, so the read loop is the only
// writer and no write pump is needed.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	mode := domain.GameMode(r.URL.Query().Get("mode"))
	if playerID == "" {
		http.Error(w, "missing playerId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	view, err := h.service.Resume(r.Context(), playerID, mode)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	if err := conn.WriteJSON(outboundMessage[game.View]{Type: "question", Payload: view}); err != nil {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}

		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.writeError(conn, "invalid answer payload")
				continue
			}
			correct, view, err := h.service.SubmitAnswer(r.Context(), playerID, payload.Input)
			if err != nil {
				h.writeError(conn, err.Error())
				continue
			}
			if err := conn.WriteJSON(outboundMessage[answerResult]{Type: "answerResult", Payload: answerResult{Correct: correct, View: view}}); err != nil {
				return
			}

		case "advance":
			view, result, err := h.service.Advance(r.Context(), playerID)
			if err != nil {
				h.writeError(conn, err.Error())
				continue
			}
			if result != nil {
				if err := conn.WriteJSON(outboundMessage[domain.GameResult]{Type: "gameComplete", Payload: *result}); err != nil {
					return
				}
				continue
			}
			if err := conn.WriteJSON(outboundMessage[game.View]{Type: "question", Payload: view}); err != nil {
				return
			}

		case "reset":
			var payload resetPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil && len(inbound.Payload) > 0 {
				h.writeError(conn, "invalid reset payload")
				continue
			}
			resetMode := game.ResetFull
			if payload.Mode == string(game.ResetIncorrectOnly) {
				resetMode = game.ResetIncorrectOnly
			}
			view, err := h.service.Reset(r.Context(), playerID, resetMode)
			if err != nil {
				if errors.Is(err, domain.ErrNotEnoughCountries) {
					h.writeError(conn, "nothing to retry")
					continue
				}
				h.writeError(conn, err.Error())
				continue
			}
			if err := conn.WriteJSON(outboundMessage[game.View]{Type: "question", Payload: view}); err != nil {
				return
			}

		default:
			h.writeError(conn, "unsupported message type")
		}
	}
}

func (h *WSHandler) writeError(conn *websocket.Conn, message string) {
	if err := conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}}); err != nil {
		log.Printf("ws write error: %v", err)
	}
}
