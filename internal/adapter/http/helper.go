package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"lendbook-backend/internal/domain/ledger"
)

// ---- helpers ----

// statusFor maps the domain error taxonomy onto HTTP. Remote
// unavailability never reaches here: offline writes queue and report
// success, offline reads serve the cache.
func statusFor(err error) int {
	switch {
	case ledger.IsValidation(err):
		return http.StatusBadRequest
	case ledger.IsInvalidState(err):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrDebtorNotFound), errors.Is(err, ledger.ErrLoanNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	return c.JSON(statusFor(err), map[string]string{"error": err.Error()})
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
