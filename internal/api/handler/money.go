// internal/api/handler/money.go
package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"lena-bank/internal/api/types"
	"lena-bank/internal/auth"
	"lena-bank/internal/domain"
	"lena-bank/internal/service"
	"lena-bank/internal/statement"
	"lena-bank/internal/util"
)

// MoneyHandler handles HTTP requests that move money or read balances and history.
type MoneyHandler struct {
	responder
	money    service.MoneyService
	accounts service.AccountService
}

// NewMoneyHandler creates a new MoneyHandler.
func NewMoneyHandler(money service.MoneyService, accounts service.AccountService, logger *slog.Logger) *MoneyHandler {
	return &MoneyHandler{
		responder: responder{logger: logger},
		money:     money,
		accounts:  accounts,
	}
}

// AmountRequest represents the request body for deposit and withdraw.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Pin    string          `json:"pin"`
}

// Deposit handles the deposit money request.
// POST /accounts/{ref}/deposit
func (h *MoneyHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	ref, err := accountRef(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	var req AmountRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	account, entry, err := h.money.Deposit(r.Context(), ref, req.Amount, auth.Attempts(req.Pin))
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":        "Deposit successful",
		"account_number": domain.FormatAccountNumber(account.Number),
		"new_balance":    account.Balance.StringFixed(2),
		"reference":      entry.Reference,
	})
}

// Withdraw handles the withdraw money request.
// POST /accounts/{ref}/withdraw
func (h *MoneyHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	ref, err := accountRef(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	var req AmountRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	account, entry, err := h.money.Withdraw(r.Context(), ref, req.Amount, auth.Attempts(req.Pin))
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":        "Withdrawal successful",
		"account_number": domain.FormatAccountNumber(account.Number),
		"new_balance":    account.Balance.StringFixed(2),
		"reference":      entry.Reference,
	})
}

// TransferRequest represents the request body for transfer.
// From and To accept either an account number or a user id.
type TransferRequest struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
	Pin    string          `json:"pin"`
}

// Transfer handles the transfer money request.
// POST /transfers
func (h *MoneyHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}
	from, err := domain.ParseRef(req.From)
	if err != nil {
		h.respondWithError(w, util.Invalid("from", err.Error()))
		return
	}
	to, err := domain.ParseRef(req.To)
	if err != nil {
		h.respondWithError(w, util.Invalid("to", err.Error()))
		return
	}

	source, destination, entry, err := h.money.Transfer(r.Context(), from, to, req.Amount, auth.Attempts(req.Pin))
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":          "Transfer successful",
		"reference":        entry.Reference,
		"from_account":     domain.FormatAccountNumber(source.Number),
		"to_account":       domain.FormatAccountNumber(destination.Number),
		"from_new_balance": source.Balance.StringFixed(2),
	})
}

// GetBalance handles the get balance request.
// GET /accounts/{ref}/balance
func (h *MoneyHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	ref, err := accountRef(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	balance, err := h.money.GetBalance(r.Context(), ref)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"account": ref.String(),
		"balance": balance.StringFixed(2),
	})
}

// GetTransactionHistory handles the transaction history request.
// GET /accounts/{ref}/transactions?limit=N or ?days=N
func (h *MoneyHandler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	ref, err := accountRef(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	limit, err := positiveQueryInt(r, "limit")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	days, err := queryDays(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	if limit > 0 && days > 0 {
		h.respondWithError(w, util.Invalid("query", "use either limit or days, not both"))
		return
	}

	var entries []domain.LedgerEntry
	if days > 0 {
		entries, err = h.money.WindowHistory(r.Context(), ref, time.Duration(days)*24*time.Hour)
	} else {
		entries, err = h.money.RecentHistory(r.Context(), ref, limit)
	}
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	resp := types.NewListResponse(types.NewEntryViews(entries))
	resp.Limit, resp.Days = limit, days
	h.respondWithJSON(w, http.StatusOK, resp)
}

// GetStatement streams the account's ledger entries as a CSV or XLSX download.
// GET /accounts/{ref}/statement?format=csv|xlsx&days=N
func (h *MoneyHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	ref, err := accountRef(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	format, err := statement.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	days, err := queryDays(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	account, err := h.accounts.GetProfile(r.Context(), ref)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	entries, err := h.money.WindowHistory(r.Context(), account.Ref(), time.Duration(days)*24*time.Hour)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename(account)))
	if err := statement.Write(w, format, account, entries); err != nil {
		h.logger.Error("Failed to write statement", "account", account.Number, "error", err)
	}
}

// queryDays reads the optional days parameter, bounded by service.MaxHistoryDays.
func queryDays(r *http.Request) (int, error) {
	days, err := positiveQueryInt(r, "days")
	if err == nil && days > service.MaxHistoryDays {
		return 0, util.Invalid("days", fmt.Sprintf("must be at most %d", service.MaxHistoryDays))
	}
	return days, err
}

// positiveQueryInt reads an optional positive integer query parameter; absent means 0.
func positiveQueryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, util.Invalid(name, "must be a positive integer")
	}
	return n, nil
}
