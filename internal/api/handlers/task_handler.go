package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kidchores/kidchores-be/internal/auth"
	"github.com/kidchores/kidchores-be/internal/models"
	"github.com/kidchores/kidchores-be/internal/services"
	ws "github.com/kidchores/kidchores-be/internal/websocket"
)

// TaskHandler handles HTTP requests for categories, tasks, and daily
// completions.
type TaskHandler struct {
	service services.TaskServiceProvider
	hub     *ws.Hub
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider, hub *ws.Hub) *TaskHandler {
	return &TaskHandler{service: service, hub: hub}
}

// CompletionPayload names the user and day a completion request targets.
type CompletionPayload struct {
	Username string  `json:"username"`
	DateCode string  `json:"dateCode"`
	Tasks    []int64 `json:"tasks"`
}

// Categories returns every category with its tasks.
func (h *TaskHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetCategories()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// Daily returns the completed set for a user and day from URL parameters.
func (h *TaskHandler) Daily(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "user")
	dateCode := chi.URLParam(r, "datecode")
	h.getCompleted(w, r, username, dateCode)
}

// GetCompleted returns the completed set for the user and day named in the
// body.
func (h *TaskHandler) GetCompleted(w http.ResponseWriter, r *http.Request) {
	var payload CompletionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	h.getCompleted(w, r, payload.Username, payload.DateCode)
}

func (h *TaskHandler) getCompleted(w http.ResponseWriter, r *http.Request, username, dateCode string) {
	if err := h.gate(r, username); err != nil {
		respondError(w, err)
		return
	}

	completion, err := h.service.GetCompleted(username, dateCode)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, completion)
}

// UpdateCompleted replaces the completed set for a user and day, then
// broadcasts the change to watching dashboards.
func (h *TaskHandler) UpdateCompleted(w http.ResponseWriter, r *http.Request) {
	var payload CompletionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.gate(r, payload.Username); err != nil {
		respondError(w, err)
		return
	}

	completion, err := h.service.SetCompleted(payload.Username, payload.DateCode, payload.Tasks)
	if err != nil {
		respondError(w, err)
		return
	}

	if h.hub != nil {
		h.hub.BroadcastTo(payload.Username, ws.NewCompletionMessage(payload.Username, payload.DateCode, completion.TaskIDs))
	}
	respondJSON(w, http.StatusOK, completion)
}

// gate applies the self-or-parent rule to the resource owner.
func (h *TaskHandler) gate(r *http.Request, owner string) error {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return models.ErrNotAuthorized
	}
	return auth.Authorize(claims, owner)
}
