package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"tracker/internal/core"
)

type profileView struct {
	Name     string `json:"name"`
	Greeting string `json:"greeting"`
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

// handleProfile serves the display name and the time-of-day greeting.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, profileView{
			Name:     s.prefs.UserName(),
			Greeting: core.Greeting(time.Now().Hour()),
		})

	case http.MethodPut:
		var req updateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		name := sanitizeInput(req.Name)
		if len(name) > 100 {
			writeError(w, http.StatusUnprocessableEntity, "name too long (max 100 characters)")
			return
		}

		if err := s.prefs.SetUserName(name); err != nil {
			slog.ErrorContext(r.Context(), "Failed to persist display name", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save profile")
			return
		}

		writeJSON(w, http.StatusOK, profileView{
			Name:     name,
			Greeting: core.Greeting(time.Now().Hour()),
		})

	default:
		w.Header().Set("Allow", "GET, PUT")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
