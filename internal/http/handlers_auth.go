package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"

	"finbook/internal/auth"
	"finbook/internal/storage"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		respondError(r.Context(), w, fmt.Errorf("%w: invalid email address", errBadRequest))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	user, err := s.storage.CreateUser(r.Context(), req.Email, hash)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	slog.InfoContext(r.Context(), "User registered", "user_id", user.ID)
	respondJSON(w, http.StatusCreated, authResponse{Token: token, UserID: user.ID})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	user, err := s.storage.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Same response as a bad password, to avoid leaking which
			// emails are registered.
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
			return
		}
		respondError(r.Context(), w, err)
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		slog.WarnContext(r.Context(), "Failed login attempt", "user_id", user.ID)
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	slog.InfoContext(r.Context(), "User logged in", "user_id", user.ID)
	respondJSON(w, http.StatusOK, authResponse{Token: token, UserID: user.ID})
}
