package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"colliss.co.uk/intake/models"
)

type updateStatusRequest struct {
	SubmissionID string                  `json:"submissionId"`
	Status       models.SubmissionStatus `json:"status"`
}

// UpdateSubmissionStatus is the status transition function endpoint. All
// sixteen directed transitions between the four statuses are allowed,
// including self-transitions; only unrecognized values are rejected.
func (h *Handler) UpdateSubmissionStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.SubmissionID == "" || req.Status == "" {
		writeError(w, http.StatusBadRequest, "Missing submissionId or status")
		return
	}

	h.applyStatus(w, r, req.SubmissionID, req.Status)
}

// PatchSubmissionStatus is the admin-panel variant of the same operation,
// taking the id from the URL.
func (h *Handler) PatchSubmissionStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status models.SubmissionStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "Missing status")
		return
	}

	h.applyStatus(w, r, mux.Vars(r)["id"], req.Status)
}

func (h *Handler) applyStatus(w http.ResponseWriter, r *http.Request, id string, status models.SubmissionStatus) {
	if !models.ValidStatus(status) {
		writeError(w, http.StatusBadRequest, "Invalid status value")
		return
	}

	subID, err := uuid.Parse(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid submissionId")
		return
	}

	sub, err := h.Store.UpdateSubmissionStatus(r.Context(), subID, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Submission not found")
			return
		}
		log.Println("Error updating submission status:", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    sub,
	})
}
