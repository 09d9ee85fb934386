package http

import (
	"fmt"
	"net/http"
	"time"

	"finbook/internal/core"
	applog "finbook/internal/log"
)

type categoryAmountResponse struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Amount string `json:"amount"`
}

type overviewResponse struct {
	Year       int                      `json:"year"`
	Month      int                      `json:"month"`
	Income     string                   `json:"income"`
	Expense    string                   `json:"expense"`
	Net        string                   `json:"net"`
	ByCategory []categoryAmountResponse `json:"by_category"`
}

func overviewKeyPrefix(userID int64) string {
	return fmt.Sprintf("user:%d:", userID)
}

func overviewKey(userID int64, year, month int) string {
	return fmt.Sprintf("%soverview:%04d-%02d", overviewKeyPrefix(userID), year, month)
}

// handleOverview serves the month summary, cached per user+month. Writes
// invalidate the cache, so a short TTL only covers cross-instance staleness.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
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

	key := overviewKey(uid, year, month)
	overview, hit := s.overviewCache.Get(key)
	if !hit {
		overview, err = s.storage.MonthOverview(r.Context(), uid, year, month)
		if err != nil {
			respondError(r.Context(), w, err)
			return
		}
		s.overviewCache.Set(key, overview)
	} else {
		applog.FromContext(r.Context()).DebugContext(r.Context(), "Overview served from cache", "key", key)
	}

	respondJSON(w, http.StatusOK, toOverviewResponse(overview))
}

func toOverviewResponse(o core.MonthOverview) overviewResponse {
	resp := overviewResponse{
		Year:       o.Year,
		Month:      o.Month,
		Income:     o.Income.String(),
		Expense:    o.Expense.String(),
		Net:        o.Net.String(),
		ByCategory: make([]categoryAmountResponse, 0, len(o.ByCategory)),
	}
	for _, ca := range o.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryAmountResponse{
			Name:   ca.Name,
			Type:   string(ca.Type),
			Amount: ca.Amount.String(),
		})
	}
	return resp
}
