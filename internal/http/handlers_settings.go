package http

import (
	"net/http"

	"finbook/internal/core"
)

type settingsPayload struct {
	Currency string `json:"currency"`
	Locale   string `json:"locale"`
	Theme    string `json:"theme"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	settings, err := s.storage.GetSettings(r.Context(), uid)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusOK, settingsPayload{
		Currency: settings.Currency,
		Locale:   settings.Locale,
		Theme:    settings.Theme,
	})
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	var req settingsPayload
	if err := decodeBody(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	settings := core.UserSettings{
		UserID:   uid,
		Currency: req.Currency,
		Locale:   req.Locale,
		Theme:    req.Theme,
	}
	if err := settings.Validate(); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	if err := s.storage.SaveSettings(r.Context(), settings); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, req)
}
