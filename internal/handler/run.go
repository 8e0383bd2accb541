package handler

import (
	"net/http"
	"time"

	"github.com/efreitasn/qualifier/internal/domain"
	"github.com/efreitasn/qualifier/internal/store"
	"github.com/go-chi/chi/v5"
)

// RunHandler serves the status of qualifier runs.
type RunHandler struct {
	runs *store.RunStore
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(runs *store.RunStore) *RunHandler {
	return &RunHandler{runs: runs}
}

// runResponse is the JSON shape of a run. The access token is never exposed.
type runResponse struct {
	RunID      string  `json:"run_id"`
	Status     string  `json:"status"`
	Step       string  `json:"step"`
	Parity     string  `json:"parity,omitempty"`
	Response   string  `json:"response,omitempty"`
	Error      string  `json:"error,omitempty"`
	StartedAt  string  `json:"started_at"`
	FinishedAt *string `json:"finished_at"`
}

// GetLatest handles GET /runs/latest.
func (h *RunHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	run, err := h.runs.Latest()
	if err != nil {
		writeRunError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildRunResponse(run))
}

// Get handles GET /runs/{run_id}.
func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	run, err := h.runs.Get(chi.URLParam(r, "run_id"))
	if err != nil {
		writeRunError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildRunResponse(run))
}

func buildRunResponse(run *domain.Run) runResponse {
	resp := runResponse{
		RunID:     run.RunID,
		Status:    string(run.Status),
		Step:      string(run.Step),
		Parity:    run.Parity,
		Response:  run.Response,
		Error:     run.Error,
		StartedAt: run.StartedAt.UTC().Format(time.RFC3339),
	}
	if !run.FinishedAt.IsZero() {
		finished := run.FinishedAt.UTC().Format(time.RFC3339)
		resp.FinishedAt = &finished
	}
	return resp
}
