package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"yokomoji-service/internal/app"
	"yokomoji-service/internal/domain"
)

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
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

type configurePayload struct {
	Reset     bool             `json:"reset,omitempty"`
	Mode      *domain.GameMode `json:"mode,omitempty"`
	TimeLimit *int             `json:"timeLimit,omitempty"`
	Category  *string          `json:"category,omitempty"`
}

type answerPayload struct {
	Choice string `json:"choice"`
}

type quitPayload struct {
	Confirm bool `json:"confirm"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and carries the game intents:
// configure, start, answer, quit (confirmed), restart, showDetail,
// backToSummary. Every mutation is answered with a snapshot push.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "missing sessionId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	if _, err := h.service.Open(r.Context(), sessionID); err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "failed to load questions"}})
		return
	}

	updates, cancel, err := h.service.Subscribe(sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()
	defer h.service.Close(sessionID)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "snapshot", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(r, sessionID, inbound, send)
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) dispatch(r *http.Request, sessionID string, inbound inboundMessage, send chan<- outboundMessage[any]) {
	switch inbound.Type {
	case "configure":
		var payload configurePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid configure payload"}}
			return
		}
		h.service.Configure(sessionID, app.ConfigUpdate{
			Reset:     payload.Reset,
			Mode:      payload.Mode,
			TimeLimit: payload.TimeLimit,
			Category:  payload.Category,
		})
	case "start":
		started, err := h.service.Start(r.Context(), sessionID)
		if err != nil {
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "failed to load questions"}}
			return
		}
		if !started {
			send <- outboundMessage[any]{Type: "cannotStart", Payload: errorPayload{Message: "config incomplete or no questions for category"}}
		}
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
			return
		}
		h.service.SubmitAnswer(sessionID, payload.Choice)
	case "quit":
		var payload quitPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || !payload.Confirm {
			// Quitting is destructive; an unconfirmed request is ignored.
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "quit requires confirmation"}}
			return
		}
		h.service.Quit(sessionID)
	case "restart":
		h.service.Restart(sessionID)
	case "showDetail":
		h.service.ShowDetail(sessionID)
	case "backToSummary":
		h.service.BackToSummary(sessionID)
	default:
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
	}
}
