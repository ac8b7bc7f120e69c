// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lena-bank/internal/api/types"
	"lena-bank/internal/domain"
	"lena-bank/internal/util" // For custom errors
)

// DefaultTimeout bounds every request, including the store calls it makes.
const DefaultTimeout = 30 * time.Second

// responder holds the JSON helpers shared by every handler.
type responder struct {
	logger *slog.Logger
}

// respondWithJSON sends a JSON response.
func (h responder) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps a service error to a status code and a human-readable message.
func (h responder) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	var validationErr *util.ValidationError
	switch {
	case errors.As(err, &validationErr):
		statusCode = http.StatusBadRequest
		message = validationErr.Error()
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = "Invalid input provided"
	case util.IsError(err, util.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "Account not found"
	case util.IsError(err, util.ErrAttemptsExhausted):
		statusCode = http.StatusForbidden
		message = "Too many incorrect attempts"
	case util.IsError(err, util.ErrAuth):
		statusCode = http.StatusUnauthorized
		message = "Authentication failed"
	case util.IsError(err, util.ErrInsufficientFunds):
		statusCode = http.StatusPaymentRequired // 402 Payment Required
		message = "Insufficient funds"
	case util.IsError(err, util.ErrSameAccountTransfer):
		statusCode = http.StatusBadRequest
		message = "Cannot transfer to the same account"
	case util.IsError(err, util.ErrDuplicateHandle):
		statusCode = http.StatusConflict
		message = "User ID already taken"
	case util.IsError(err, util.ErrConflict):
		statusCode = http.StatusConflict
		message = "Conflict"
	case util.IsError(err, util.ErrTransactionFailed):
		h.logger.Error("Transaction rolled back", "error", err)
		message = "Transaction failed, no changes were applied"
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	h.respondWithJSON(w, statusCode, types.ErrorResponse{Error: message})
}

// decode reads a JSON request body into dst.
func decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return util.Invalid("body", "malformed JSON request")
	}
	return nil
}

// accountRef reads the {ref} path parameter as an account number or user id.
func accountRef(r *http.Request) (domain.AccountRef, error) {
	ref, err := domain.ParseRef(chi.URLParam(r, "ref"))
	if err != nil {
		return domain.AccountRef{}, util.Invalid("account", err.Error())
	}
	return ref, nil
}
