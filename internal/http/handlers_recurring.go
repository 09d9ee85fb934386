package http

import (
	"net/http"

	"finbook/internal/core"
)

type recurringRequest struct {
	Type        string `json:"type"`
	CategoryID  int64  `json:"category_id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date,omitempty"`
	Every       string `json:"every"`
}

type recurringResponse struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	CategoryID  int64  `json:"category_id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date,omitempty"`
	Every       string `json:"every"`
	LastRun     string `json:"last_run,omitempty"`
}

func toRecurringResponse(rt core.RecurringTransaction) recurringResponse {
	resp := recurringResponse{
		ID:          rt.ID,
		Type:        string(rt.Type),
		CategoryID:  rt.CategoryID,
		Amount:      rt.Amount.String(),
		Description: rt.Description,
		StartDate:   rt.StartDate.Format(dateLayout),
		Every:       string(rt.Every),
	}
	if !rt.EndDate.IsZero() {
		resp.EndDate = rt.EndDate.Format(dateLayout)
	}
	if !rt.LastRun.IsZero() {
		resp.LastRun = rt.LastRun.Format(dateLayout)
	}
	return resp
}

func (req recurringRequest) toDomain(userID int64) (core.RecurringTransaction, error) {
	amount, err := parseAmountField(req.Amount)
	if err != nil {
		return core.RecurringTransaction{}, err
	}
	start, err := parseDateField(req.StartDate)
	if err != nil {
		return core.RecurringTransaction{}, err
	}
	end, err := parseDateField(req.EndDate)
	if err != nil {
		return core.RecurringTransaction{}, err
	}
	return core.RecurringTransaction{
		UserID:      userID,
		Type:        core.TransactionType(req.Type),
		CategoryID:  req.CategoryID,
		Amount:      amount,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		Every:       core.Frequency(req.Every),
	}, nil
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	var req recurringRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	rt, err := req.toDomain(uid)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	if err := rt.Validate(); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	if _, err := s.storage.GetCategory(r.Context(), rt.CategoryID, uid); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	created, err := s.storage.CreateRecurring(r.Context(), rt)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toRecurringResponse(created))
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	list, err := s.storage.ListRecurringByUser(r.Context(), uid)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	out := make([]recurringResponse, 0, len(list))
	for _, rt := range list {
		out = append(out, toRecurringResponse(rt))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateRecurring(w http.ResponseWriter, r *http.Request) {
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

	existing, err := s.storage.GetRecurring(r.Context(), id, uid)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	var req recurringRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	rt, err := req.toDomain(uid)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	rt.ID = existing.ID
	rt.LastRun = existing.LastRun

	if err := rt.Validate(); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	if err := s.storage.UpdateRecurring(r.Context(), rt); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toRecurringResponse(rt))
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
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

	if err := s.storage.DeleteRecurring(r.Context(), id, uid); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
