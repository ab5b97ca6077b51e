package http

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"champion-quiz/internal/app"
	"champion-quiz/internal/domain"
	"github.com/julienschmidt/httprouter"
)

const maxCardBytes = 8 << 20

// APIHandler serves the read side of the local bridge plus card submission.
// sync may be nil when no remote backend is configured.
type APIHandler struct {
	catalog domain.Catalog
	quizzes *app.QuizService
	totals  *app.Aggregator
	store   *app.Store
	sync    *app.SyncService
}

func NewAPIHandler(catalog domain.Catalog, quizzes *app.QuizService, totals *app.Aggregator, store *app.Store, sync *app.SyncService) *APIHandler {
	return &APIHandler{catalog: catalog, quizzes: quizzes, totals: totals, store: store, sync: sync}
}

// NewRouter mounts the API, the WebSocket bridge and a health probe.
func NewRouter(api *APIHandler, ws *WSHandler) *httprouter.Router {
	mux := httprouter.New()
	mux.GET("/healthz", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Write([]byte("ok"))
	})
	mux.GET("/ws", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ws.ServeWS(w, r)
	})
	mux.GET("/api/seasons", api.listSeasons)
	mux.GET("/api/seasons/:season/results", api.seasonResults)
	mux.POST("/api/seasons/:season/submit", api.submitSeason)
	mux.GET("/api/profile", api.profile)
	mux.GET("/api/leaderboard", api.leaderboard)
	return mux
}

type seasonSummary struct {
	ID      string              `json:"id"`
	ShortID string              `json:"short_id"`
	Name    string              `json:"name"`
	Quizzes []domain.QuizRef    `json:"quizzes"`
	Totals  domain.SeasonTotals `json:"totals"`
}

type quizResult struct {
	Quiz   string         `json:"quiz"`
	Done   bool           `json:"done"`
	Result *domain.Result `json:"result,omitempty"`
}

func (h *APIHandler) listSeasons(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	out := make([]seasonSummary, 0, len(h.catalog))
	for _, s := range h.catalog {
		totals, err := h.totals.SeasonTotals(r.Context(), s.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		out = append(out, seasonSummary{ID: s.ID, ShortID: s.ShortID, Name: s.Name, Quizzes: s.Quizzes, Totals: totals})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *APIHandler) seasonResults(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	season, err := h.catalog.Season(ps.ByName("season"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]quizResult, 0, len(season.Quizzes))
	for _, ref := range season.Quizzes {
		result, ok, err := h.quizzes.Result(r.Context(), season.ID, ref.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		qr := quizResult{Quiz: ref.ID, Done: ok}
		if ok {
			qr.Result = &result
		}
		out = append(out, qr)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *APIHandler) profile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, h.store.Profile(r.Context()))
}

// submitSeason takes the rendered champion card as the raw request body.
func (h *APIHandler) submitSeason(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if h.sync == nil {
		http.Error(w, "remote backend not configured", http.StatusServiceUnavailable)
		return
	}
	card, err := io.ReadAll(io.LimitReader(r.Body, maxCardBytes))
	if err != nil {
		http.Error(w, "read card", http.StatusBadRequest)
		return
	}
	receipt, err := h.sync.SubmitSeasonResult(r.Context(), ps.ByName("season"), card)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (h *APIHandler) leaderboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.sync == nil {
		http.Error(w, "remote backend not configured", http.StatusServiceUnavailable)
		return
	}
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	showAll, _ := strconv.ParseBool(r.URL.Query().Get("all"))
	view, err := h.sync.Leaderboard(r.Context(), limit, showAll)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSeasonNotFound), errors.Is(err, domain.ErrQuizNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDisplayNameRequired):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
	}
	writeJSON(w, status, errorPayload{Message: err.Error()})
}
