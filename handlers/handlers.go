package handlers

import (
	"encoding/json"
	"net/http"
)

// Handler wires the HTTP endpoints to storage and the notifier.
type Handler struct {
	Store    Store
	Media    MediaStore
	Notifier *Notifier
}

// NewHandler creates a new Handler
func NewHandler(store Store, media MediaStore, notifier *Notifier) *Handler {
	return &Handler{Store: store, Media: media, Notifier: notifier}
}

// PingHandler answers "ok" for liveness checks
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError emits the single-string error envelope the frontend expects.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
