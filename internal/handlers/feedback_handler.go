package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lukz/internal/interfaces"
	"github.com/ternarybob/lukz/internal/services/feedback"
)

const (
	maxFeedbackBody   = 64 << 10
	defaultFeedbackLimit = 50
)

type FeedbackHandler struct {
	feedback FeedbackRecorder
	logger   arbor.ILogger
}

func NewFeedbackHandler(recorder FeedbackRecorder, logger arbor.ILogger) *FeedbackHandler {
	return &FeedbackHandler{
		feedback: recorder,
		logger:   logger,
	}
}

type feedbackRequest struct {
	Message string `json:"message"`
}

// FeedbackHandler handles POST /api/feedback (submit) and GET /api/feedback (list)
func (h *FeedbackHandler) FeedbackHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.submit(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *FeedbackHandler) submit(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFeedbackBody)).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.feedback.Submit(r.Context(), req.Message); err != nil {
		if errors.Is(err, feedback.ErrEmptyMessage) {
			WriteError(w, http.StatusBadRequest, "message is required")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to save feedback")
		return
	}

	WriteSuccess(w)
}

func (h *FeedbackHandler) list(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultFeedbackLimit)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.feedback.List(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list feedback")
		WriteError(w, http.StatusInternalServerError, "Failed to list feedback")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"feedback": records,
		"count":    len(records),
	})
}

// ReviewHandler handles POST /api/feedback/{id}/reviewed
func (h *FeedbackHandler) ReviewHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	id, ok := strings.CutSuffix(strings.TrimPrefix(r.URL.Path, "/api/feedback/"), "/reviewed")
	if !ok || id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusNotFound, "Not Found")
		return
	}

	if err := h.feedback.MarkReviewed(r.Context(), id); err != nil {
		if errors.Is(err, interfaces.ErrFeedbackNotFound) {
			WriteError(w, http.StatusNotFound, "Feedback not found")
			return
		}
		h.logger.Error().Err(err).Str("id", id).Msg("Failed to update feedback")
		WriteError(w, http.StatusInternalServerError, "Failed to update feedback")
		return
	}

	WriteSuccess(w)
}
