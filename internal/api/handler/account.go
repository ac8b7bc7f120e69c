// internal/api/handler/account.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"lena-bank/internal/api/types"
	"lena-bank/internal/auth"
	"lena-bank/internal/domain"
	"lena-bank/internal/service"
)

// AccountHandler handles HTTP requests for account opening, login and profile changes.
type AccountHandler struct {
	responder
	service service.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		responder: responder{logger: logger},
		service:   svc,
	}
}

// OpenAccountRequest represents the request body for opening an account.
type OpenAccountRequest struct {
	GivenName      string          `json:"given_name"`
	MiddleName     string          `json:"middle_name"`
	FamilyName     string          `json:"family_name"`
	UserID         string          `json:"user_id"`
	Password       string          `json:"password"`
	Pin            string          `json:"pin"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// OpenAccount handles the open account request.
// POST /accounts
func (h *AccountHandler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	var req OpenAccountRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	account, entry, err := h.service.OpenAccount(r.Context(), service.OpenAccountParams{
		Name:           domain.Name{Given: req.GivenName, Middle: req.MiddleName, Family: req.FamilyName},
		Handle:         req.UserID,
		Secret:         req.Password,
		Pin:            req.Pin,
		OpeningBalance: req.OpeningBalance,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	resp := map[string]interface{}{
		"message": "Account created successfully",
		"account": types.NewAccountView(account),
	}
	if entry != nil {
		resp["opening_reference"] = entry.Reference
	}
	h.respondWithJSON(w, http.StatusCreated, resp)
}

// GetAccount returns the public profile of an account; it doubles as the
// account number <-> user id lookup.
// GET /accounts/{ref}
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	ref, err := accountRef(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	account, err := h.service.GetProfile(r.Context(), ref)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewAccountView(account))
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Password string `json:"password"`
}

// Login handles the login request.
// POST /accounts/{ref}/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	ref, err := accountRef(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	var req LoginRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	account, err := h.service.Login(r.Context(), ref, auth.Attempts(req.Password))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"account": types.NewAccountView(account),
	})
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword handles the change password request.
// PUT /accounts/{ref}/password
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ref, err := accountRef(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	var req ChangePasswordRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	if err := h.service.ChangeSecret(r.Context(), ref, auth.Attempts(req.CurrentPassword), req.NewPassword); err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

// ChangePinRequest represents the request body for a PIN change.
type ChangePinRequest struct {
	CurrentPin string `json:"current_pin"`
	NewPin     string `json:"new_pin"`
}

// ChangePin handles the change PIN request.
// PUT /accounts/{ref}/pin
func (h *AccountHandler) ChangePin(w http.ResponseWriter, r *http.Request) {
	ref, err := accountRef(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	var req ChangePinRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	if err := h.service.ChangePin(r.Context(), ref, auth.Attempts(req.CurrentPin), req.NewPin); err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]string{"message": "Transaction PIN updated successfully"})
}

// UpdateNameRequest represents the request body for a name change.
type UpdateNameRequest struct {
	Password   string `json:"password"`
	GivenName  string `json:"given_name"`
	MiddleName string `json:"middle_name"`
	FamilyName string `json:"family_name"`
}

// UpdateName handles the update name request.
// PUT /accounts/{ref}/name
func (h *AccountHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	ref, err := accountRef(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	var req UpdateNameRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	name := domain.Name{Given: req.GivenName, Middle: req.MiddleName, Family: req.FamilyName}
	if err := h.service.UpdateName(r.Context(), ref, auth.Attempts(req.Password), name); err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]string{"message": "Name updated successfully"})
}

// ResetPasswordRequest represents the request body for the forgotten-password flow.
type ResetPasswordRequest struct {
	GivenName   string `json:"given_name"`
	FamilyName  string `json:"family_name"`
	NewPassword string `json:"new_password"`
}

// ResetPassword handles the forgotten-password request.
// POST /accounts/{ref}/password/reset
func (h *AccountHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ref, err := accountRef(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	var req ResetPasswordRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	if err := h.service.ResetSecret(r.Context(), ref, req.GivenName, req.FamilyName, req.NewPassword); err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully"})
}
