package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"finbook/internal/auth"
	"finbook/internal/core"
	"finbook/internal/storage"

	"github.com/go-chi/chi/v5"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError maps sentinel errors onto HTTP statuses. Unknown errors are
// logged and surfaced as a generic 500 so internals never leak to clients.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, storage.ErrNotFound):
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, storage.ErrDuplicate):
		status, message = http.StatusConflict, "already exists"
	case errors.Is(err, storage.ErrCategoryInUse):
		status, message = http.StatusConflict, "category has transactions"
	case errors.Is(err, auth.ErrInvalidToken):
		status, message = http.StatusUnauthorized, "invalid or expired token"
	case errors.Is(err, auth.ErrWeakPassword):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, errBadRequest):
		status, message = http.StatusBadRequest, err.Error()
	case isValidationError(err):
		status, message = http.StatusBadRequest, err.Error()
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(ctx, "Request failed", "error", err)
	} else {
		slog.WarnContext(ctx, "Request rejected", "status", status, "error", err)
	}

	respondJSON(w, status, errorResponse{Error: message})
}

var validationErrors = []error{
	core.ErrInvalidAmount,
	core.ErrInvalidType,
	core.ErrInvalidFrequency,
	core.ErrEmptyDescription,
	core.ErrEmptyName,
	core.ErrMissingCategory,
	core.ErrInvalidDate,
	core.ErrInvalidMonth,
	core.ErrDateOrder,
	core.ErrDeadlinePast,
	core.ErrInvalidCurrency,
	core.ErrInvalidTheme,
	core.ErrCategoryTypeMismatch,
}

func isValidationError(err error) bool {
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

var errBadRequest = errors.New("bad request")

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body", errBadRequest)
	}
	return nil
}

func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", errBadRequest, raw)
	}
	return id, nil
}

// parseYearMonth reads year and month query params, defaulting to the
// current month when absent.
func parseYearMonth(r *http.Request, now time.Time) (int, int, error) {
	year, month := now.Year(), int(now.Month())

	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1970 || y > 9999 {
			return 0, 0, fmt.Errorf("%w: invalid year %q", errBadRequest, raw)
		}
		year = y
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, fmt.Errorf("%w: invalid month %q", errBadRequest, raw)
		}
		month = m
	}
	return year, month, nil
}

const dateLayout = "2006-01-02"

func parseDateField(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: %v", core.ErrInvalidDate, err)
	}
	return core.Date{Time: t}, nil
}

func parseAmountField(s string) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

func userID(r *http.Request) (int64, error) {
	return auth.UserIDFromContext(r.Context())
}
