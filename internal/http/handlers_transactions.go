package http

import (
	"fmt"
	"net/http"
	"strconv"

	"finbook/internal/core"
	"finbook/internal/storage"
)

type transactionRequest struct {
	Type        string `json:"type"`
	CategoryID  int64  `json:"category_id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

type transactionResponse struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	CategoryID  int64  `json:"category_id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Type:        string(t.Type),
		CategoryID:  t.CategoryID,
		Amount:      t.Amount.String(),
		Description: t.Description,
		Date:        t.Date.Format(dateLayout),
	}
}

func (req transactionRequest) toDomain(userID int64) (core.Transaction, error) {
	amount, err := parseAmountField(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := parseDateField(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		UserID:      userID,
		Type:        core.TransactionType(req.Type),
		CategoryID:  req.CategoryID,
		Amount:      amount,
		Description: req.Description,
		Date:        date,
	}, nil
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	t, err := req.toDomain(uid)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	created, err := s.transactions.CreateTransaction(r.Context(), t)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	s.structured.LogTransactionCreated(r.Context(), created.Description, created.Amount.Cents, string(created.Type), created.CategoryID)
	s.invalidateOverview(uid)
	respondJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
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

	t, err := s.storage.GetTransaction(r.Context(), id, uid)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	filter, err := parseTransactionFilter(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	list, err := s.storage.ListTransactions(r.Context(), uid, filter)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	out := make([]transactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTransactionResponse(t))
	}
	respondJSON(w, http.StatusOK, out)
}

func parseTransactionFilter(r *http.Request) (storage.TransactionFilter, error) {
	var f storage.TransactionFilter
	q := r.URL.Query()

	var err error
	if f.From, err = parseDateField(q.Get("from")); err != nil {
		return f, err
	}
	if f.To, err = parseDateField(q.Get("to")); err != nil {
		return f, err
	}

	if raw := q.Get("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return f, fmt.Errorf("%w: invalid category %q", errBadRequest, raw)
		}
		f.CategoryID = id
	}

	if raw := q.Get("type"); raw != "" {
		t := core.TransactionType(raw)
		if !t.Valid() {
			return f, fmt.Errorf("%w: invalid type %q", errBadRequest, raw)
		}
		f.Type = t
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, fmt.Errorf("%w: invalid limit %q", errBadRequest, raw)
		}
		f.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, fmt.Errorf("%w: invalid offset %q", errBadRequest, raw)
		}
		f.Offset = n
	}

	return f, nil
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
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

	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	t, err := req.toDomain(uid)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	t.ID = id

	if err := s.transactions.UpdateTransaction(r.Context(), t); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	s.invalidateOverview(uid)
	respondJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
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

	if err := s.transactions.DeleteTransaction(r.Context(), id, uid); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	s.invalidateOverview(uid)
	respondJSON(w, http.StatusNoContent, nil)
}
