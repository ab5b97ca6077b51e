package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"champion-quiz/internal/app"
	"champion-quiz/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler bridges a local quiz UI to the session state machine.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
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

type enterPayload struct {
	Season string `json:"season"`
	Quiz   string `json:"quiz"`
}

type answerPayload struct {
	Selected *int `json:"selected"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// questionPayload is a question as the player sees it, without the answer.
type questionPayload struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Media   string   `json:"media,omitempty"`
}

type statePayload struct {
	Season   string           `json:"season"`
	Quiz     string           `json:"quiz"`
	Phase    domain.Phase     `json:"phase"`
	Index    int              `json:"index"`
	Total    int              `json:"total"`
	Score    int              `json:"score"`
	Question *questionPayload `json:"question,omitempty"`
	Result   *domain.Result   `json:"result,omitempty"`
	Durable  bool             `json:"durable"`
}

func newStatePayload(v app.SessionView) statePayload {
	p := statePayload{
		Season:  v.SeasonID,
		Quiz:    v.QuizID,
		Phase:   v.Phase,
		Index:   v.Index,
		Total:   v.Total,
		Score:   v.Score,
		Result:  v.Result,
		Durable: v.Durable,
	}
	if v.Question != nil {
		p.Question = &questionPayload{
			ID:      v.Question.ID,
			Prompt:  v.Question.Prompt,
			Options: v.Question.Options,
			Media:   v.Question.Media,
		}
	}
	return p
}

// ServeWS upgrades HTTP requests to websockets and plays quizzes over them.
// The optional season and quiz query params enter a quiz right away.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	seasonID := r.URL.Query().Get("season")
	quizID := r.URL.Query().Get("quiz")
	if (seasonID == "") != (quizID == "") {
		http.Error(w, "season and quiz must be given together", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	// Only the writer goroutine touches the connection for writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	sendError := func(err error) {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
	}
	enter := func(season, quiz string) bool {
		view, err := h.service.Enter(r.Context(), season, quiz)
		if err != nil {
			sendError(err)
			return false
		}
		seasonID, quizID = season, quiz
		send <- outboundMessage[any]{Type: "state", Payload: newStatePayload(view)}
		return true
	}

	if seasonID != "" {
		enter(seasonID, quizID)
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "enter":
			var payload enterPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Season == "" || payload.Quiz == "" {
				sendError(errors.New("invalid enter payload"))
				continue
			}
			enter(payload.Season, payload.Quiz)
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Selected == nil {
				sendError(errors.New("invalid answer payload"))
				continue
			}
			if quizID == "" {
				sendError(domain.ErrSessionNotFound)
				continue
			}
			view, err := h.service.Answer(r.Context(), seasonID, quizID, *payload.Selected)
			if err != nil && !errors.Is(err, domain.ErrQuizCompleted) {
				sendError(err)
				continue
			}
			// A completed quiz replays its stored result.
			send <- outboundMessage[any]{Type: "state", Payload: newStatePayload(view)}
		default:
			sendError(errors.New("unsupported message type"))
		}
	}

	close(send)
	<-writerDone
}
