package http

import (
	"net/http"
	"time"

	"finbook/internal/core"
)

type budgetRequest struct {
	CategoryID int64  `json:"category_id"`
	Limit      string `json:"limit"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
}

type budgetResponse struct {
	ID         int64  `json:"id"`
	CategoryID int64  `json:"category_id"`
	Limit      string `json:"limit"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
}

type budgetStatusResponse struct {
	Budget        budgetResponse `json:"budget"`
	Spent         string         `json:"spent"`
	Remaining     string         `json:"remaining"`
	UsedPercent   int            `json:"used_percent"`
	DailyBurn     string         `json:"daily_burn"`
	Projected     string         `json:"projected"`
	DaysRemaining int            `json:"days_remaining"`
	Exceeded      bool           `json:"exceeded"`
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:         b.ID,
		CategoryID: b.CategoryID,
		Limit:      b.Limit.String(),
		Year:       b.Year,
		Month:      b.Month,
	}
}

func (req budgetRequest) toDomain(userID int64) (core.Budget, error) {
	limit, err := parseAmountField(req.Limit)
	if err != nil {
		return core.Budget{}, err
	}
	return core.Budget{
		UserID:     userID,
		CategoryID: req.CategoryID,
		Limit:      limit,
		Year:       req.Year,
		Month:      req.Month,
	}, nil
}

// handleSaveBudget creates or replaces the ceiling for a category+month.
func (s *Server) handleSaveBudget(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	var req budgetRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	b, err := req.toDomain(uid)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	if err := b.Validate(); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	// The category must exist and belong to the caller.
	if _, err := s.storage.GetCategory(r.Context(), b.CategoryID, uid); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	saved, err := s.storage.SaveBudget(r.Context(), b)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBudgetResponse(saved))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
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

	existing, err := s.storage.GetBudget(r.Context(), id, uid)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	var req budgetRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	limit, err := parseAmountField(req.Limit)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	existing.Limit = limit

	saved, err := s.storage.SaveBudget(r.Context(), existing)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetResponse(saved))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	year, month, err := parseYearMonth(r, time.Now())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	list, err := s.storage.ListBudgetsForMonth(r.Context(), uid, year, month)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	out := make([]budgetResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBudgetResponse(b))
	}
	respondJSON(w, http.StatusOK, out)
}

// handleBudgetStatus reports spend against each budget of the month, with
// burn rate and end-of-month projection.
func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	now := time.Now()
	year, month, err := parseYearMonth(r, now)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	budgets, err := s.storage.ListBudgetsForMonth(r.Context(), uid, year, month)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	out := make([]budgetStatusResponse, 0, len(budgets))
	for _, b := range budgets {
		spent, err := s.storage.SpentForBudget(r.Context(), b)
		if err != nil {
			respondError(r.Context(), w, err)
			return
		}
		status := core.NewBudgetStatus(b, spent, now)
		out = append(out, budgetStatusResponse{
			Budget:        toBudgetResponse(b),
			Spent:         status.Spent.String(),
			Remaining:     status.Remaining.String(),
			UsedPercent:   status.UsedPercent,
			DailyBurn:     status.DailyBurn.String(),
			Projected:     status.Projected.String(),
			DaysRemaining: status.DaysRemaining,
			Exceeded:      status.Exceeded(),
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
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

	if err := s.storage.DeleteBudget(r.Context(), id, uid); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
