package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nikhilbhutani/chatbot-backend/internal/assistant"
	"github.com/nikhilbhutani/chatbot-backend/internal/chat"
	"github.com/nikhilbhutani/chatbot-backend/internal/company"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError maps the error taxonomy onto status codes. Unknown errors stay
// a generic 500; everything classified gets its own code so callers can tell
// "tenant missing" from "upstream down".
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, chat.ErrInvalidMessage):
		status = http.StatusBadRequest
	case errors.Is(err, company.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, company.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, company.ErrNotConfigured):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, assistant.ErrUpstream):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
