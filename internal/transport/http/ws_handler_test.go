package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"champion-quiz/internal/app"
	"champion-quiz/internal/domain"
	"champion-quiz/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func TestWebSocketPlaysQuizToCompletion(t *testing.T) {
	conn := dialBridge(t, "/ws?season=s1&quiz=capitals")

	typ, payload := readNext(conn, t, "state")
	if typ != "state" || payload["phase"] != string(domain.PhaseInProgress) {
		t.Fatalf("expected in-progress state, got %s %v", typ, payload)
	}
	question, ok := payload["question"].(map[string]any)
	if !ok {
		t.Fatalf("expected question in payload, got %v", payload)
	}
	if _, leaked := question["correct"]; leaked {
		t.Fatalf("correct option must not be sent to the client")
	}

	sendAnswer(t, conn, 1)
	_, payload = readNext(conn, t, "state")
	if payload["index"].(float64) != 1 || payload["score"].(float64) != 1 {
		t.Fatalf("expected index 1 score 1, got %v", payload)
	}

	sendAnswer(t, conn, 0)
	_, payload = readNext(conn, t, "state")
	if payload["phase"] != string(domain.PhaseCompleted) {
		t.Fatalf("expected completed, got %v", payload)
	}
	result := payload["result"].(map[string]any)
	if result["accuracy"].(float64) != 50 || result["correct"].(float64) != 1 {
		t.Fatalf("unexpected result %v", result)
	}

	// Further answers replay the stored result.
	sendAnswer(t, conn, 1)
	_, payload = readNext(conn, t, "state")
	replayed := payload["result"].(map[string]any)
	if replayed["result_id"] != result["result_id"] {
		t.Fatalf("expected result id %v to be replayed, got %v", result["result_id"], replayed["result_id"])
	}
}

func TestWebSocketRejectsBadMessages(t *testing.T) {
	conn := dialBridge(t, "/ws")

	sendAnswer(t, conn, 0)
	if _, payload := readNext(conn, t, "error"); payload["message"] != domain.ErrSessionNotFound.Error() {
		t.Fatalf("expected session not found, got %v", payload)
	}

	if err := conn.WriteJSON(map[string]any{"type": "enter", "payload": map[string]any{"season": "s1", "quiz": "nope"}}); err != nil {
		t.Fatalf("write enter: %v", err)
	}
	readNext(conn, t, "error")

	if err := conn.WriteJSON(map[string]any{"type": "dance"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	readNext(conn, t, "error")

	if err := conn.WriteJSON(map[string]any{"type": "enter", "payload": map[string]any{"season": "s1", "quiz": "capitals"}}); err != nil {
		t.Fatalf("write enter: %v", err)
	}
	readNext(conn, t, "state")

	sendAnswer(t, conn, 7)
	if _, payload := readNext(conn, t, "error"); payload["message"] == "" {
		t.Fatalf("expected out-of-range option error")
	}
}

func dialBridge(t *testing.T, path string) *websocket.Conn {
	t.Helper()
	quizRepo := memory.NewQuizRepository(memory.NewStaticQuizLoader(sampleQuizzes()), time.Minute)
	service := app.NewQuizService(app.NewStore(memory.NewKV(0)), quizRepo, sampleCatalog())
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	u := "ws" + server.URL[len("http"):] + path
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendAnswer(t *testing.T, conn *websocket.Conn, selected int) {
	t.Helper()
	msg := map[string]any{"type": "answer", "payload": map[string]any{"selected": selected}}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write answer: %v", err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}

func sampleCatalog() domain.Catalog {
	return domain.Catalog{{
		ID:      "s1",
		ShortID: "s1",
		Name:    "Season 1",
		Quizzes: []domain.QuizRef{{ID: "capitals", Prefix: "CAP", Questions: 2}},
	}}
}

func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"capitals": {
			ID:    "capitals",
			Title: "Capitals",
			Questions: []domain.Question{
				{ID: "q1", Prompt: "Capital of France?", Options: []string{"Lyon", "Paris", "Nice"}, Correct: 1},
				{ID: "q2", Prompt: "Capital of Italy?", Options: []string{"Milan", "Rome"}, Correct: 1},
			},
		},
	}
}
