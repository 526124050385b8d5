package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"carteira/internal/domain/card"
	"carteira/internal/domain/contract"
	"carteira/internal/domain/forecast"
	"carteira/internal/domain/installment"
	"carteira/internal/domain/notification"
	"carteira/internal/domain/purchase"
	"carteira/internal/shared/middleware"

	"github.com/shopspring/decimal"
)

const (
	maxBodySize = 1 << 20 // 1 MiB
	dateLayout  = "2006-01-02"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	}
	return userID, ok
}

// writeDomainError maps domain sentinels to status codes. Unknown errors are
// logged and reported as 500 with fallback as the message.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, card.ErrCardNotFound),
		errors.Is(err, purchase.ErrPurchaseNotFound),
		errors.Is(err, contract.ErrContractNotFound),
		errors.Is(err, notification.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, card.ErrForbidden),
		errors.Is(err, purchase.ErrForbidden),
		errors.Is(err, contract.ErrForbidden),
		errors.Is(err, notification.ErrForbidden):
		writeError(w, http.StatusForbidden, "Access forbidden")

	case isValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())

	default:
		slog.ErrorContext(r.Context(), fallback, "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

var validationErrors = []error{
	card.ErrInvalidInput,
	card.ErrInvalidClosingDay,
	card.ErrInvalidDueDay,
	card.ErrInvalidLimit,
	card.ErrInvalidLastFour,
	purchase.ErrInvalidInput,
	purchase.ErrInvalidAmount,
	purchase.ErrInvalidInstallmentCount,
	purchase.ErrInvalidKind,
	contract.ErrInvalidInput,
	contract.ErrInvalidAmount,
	contract.ErrInvalidPeriod,
	forecast.ErrInvalidHorizon,
	notification.ErrInvalidToken,
	notification.ErrInvalidDeviceType,
	notification.ErrInvalidCategory,
	notification.ErrInvalidUser,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

// parseDate accepts YYYY-MM-DD and returns midnight UTC.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

// parseMonthParam reads a YYYY-MM query parameter, defaulting to the month of now.
func parseMonthParam(r *http.Request, key string, now time.Time) (installment.Month, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return installment.MonthOf(now), nil
	}
	return installment.ParseMonth(raw)
}
