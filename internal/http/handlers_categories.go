package http

import (
	"net/http"

	"finbook/internal/core"
)

type categoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func toCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Type: string(c.Type)}
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	c := core.Category{
		UserID: uid,
		Name:   req.Name,
		Type:   core.TransactionType(req.Type),
	}
	if err := c.Validate(); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	created, err := s.storage.CreateCategory(r.Context(), c)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCategoryResponse(created))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	list, err := s.storage.ListCategories(r.Context(), uid)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	out := make([]categoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	if req.Name == "" {
		respondError(r.Context(), w, core.ErrEmptyName)
		return
	}

	if err := s.storage.RenameCategory(r.Context(), id, uid, req.Name); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	c, err := s.storage.GetCategory(r.Context(), id, uid)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCategoryResponse(c))
}

// handleDeleteCategory refuses to delete categories that still have
// transactions attached.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	if err := s.storage.DeleteCategory(r.Context(), id, uid); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
