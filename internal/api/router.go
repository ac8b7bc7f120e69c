// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lena-bank/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(accountHandler *handler.AccountHandler, moneyHandler *handler.MoneyHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)                       // Add a request ID to the context
	r.Use(middleware.RealIP)                          // Use the real IP address
	r.Use(middleware.Logger)                          // Log HTTP requests
	r.Use(middleware.Recoverer)                       // Recover from panics and return 500
	r.Use(middleware.Timeout(handler.DefaultTimeout)) // Bound every request

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Account API routes; {ref} is an account number or a user id
	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", accountHandler.OpenAccount)
		r.Route("/{ref}", func(r chi.Router) {
			r.Get("/", accountHandler.GetAccount)
			r.Post("/login", accountHandler.Login)
			r.Put("/password", accountHandler.ChangePassword)
			r.Post("/password/reset", accountHandler.ResetPassword)
			r.Put("/pin", accountHandler.ChangePin)
			r.Put("/name", accountHandler.UpdateName)

			r.Post("/deposit", moneyHandler.Deposit)
			r.Post("/withdraw", moneyHandler.Withdraw)
			r.Get("/balance", moneyHandler.GetBalance)
			r.Get("/transactions", moneyHandler.GetTransactionHistory)
			r.Get("/statement", moneyHandler.GetStatement)
		})
	})

	// Transfer is a separate top-level endpoint as it involves two accounts
	r.Post("/transfers", moneyHandler.Transfer)

	logger.Debug("HTTP routes registered")
	return r
}
