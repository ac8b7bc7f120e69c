// internal/commands/root.go
package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	app "lena-bank/internal"
	"lena-bank/internal/service"
	"lena-bank/internal/util"
)

// Backend is what the account and money commands run against.
type Backend struct {
	Money    service.MoneyService
	Accounts service.AccountService
}

// connector opens a Backend for one command run; the returned func releases it.
type connector func(ctx context.Context, opts *options) (*Backend, func(), error)

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath string
	logLevel   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(connectApplication)
}

func newRootCommand(connect connector) *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "lenabank",
		Short: "Lena Bank accounts, transfers and ledger",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file (default $LENA_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	c := &cli{opts: opts, connect: connect}
	rootCmd.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		c.newOpenCommand(),
		c.newLoginCommand(),
		c.newLookupCommand(),
		c.newPasswdCommand(),
		c.newPinCommand(),
		c.newRenameCommand(),
		c.newResetPasswordCommand(),
		c.newDepositCommand(),
		c.newWithdrawCommand(),
		c.newTransferCommand(),
		c.newBalanceCommand(),
		c.newHistoryCommand(),
		c.newStatementCommand(),
	)

	return rootCmd
}

// cli binds the backend-driven subcommands to their connector.
type cli struct {
	opts    *options
	connect connector
}

// run adapts fn into a RunE that opens the backend first and closes it afterwards.
func (c *cli) run(fn func(cmd *cobra.Command, args []string, b *Backend) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		b, release, err := c.connect(cmd.Context(), c.opts)
		if err != nil {
			return err
		}
		defer release()
		return fn(cmd, args, b)
	}
}

func connectApplication(ctx context.Context, opts *options) (*Backend, func(), error) {
	application, err := initApplication(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if err := application.Shutdown(context.Background()); err != nil {
			application.Logger.Error("Application shutdown failed", "error", err)
		}
	}
	return &Backend{Money: application.MoneyService, Accounts: application.AccountService}, release, nil
}

func initApplication(ctx context.Context, opts *options) (*app.Application, error) {
	application := app.NewApplication()
	application.LogLevel = opts.logLevel
	if err := application.Initialize(ctx, opts.configPath); err != nil {
		if application.DB != nil {
			_ = application.DB.Close()
		}
		return nil, err
	}
	return application, nil
}

// Describe turns an error returned by a command into the message shown to the user.
func Describe(err error) string {
	var validationErr *util.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case util.IsError(err, util.ErrInvalidInput):
		return "Invalid input: " + err.Error()
	case util.IsError(err, util.ErrNotFound):
		return "Account not found"
	case util.IsError(err, util.ErrAttemptsExhausted):
		return "Too many incorrect attempts, operation cancelled"
	case util.IsError(err, util.ErrAuth):
		return "Authentication failed"
	case util.IsError(err, util.ErrInsufficientFunds):
		return "Insufficient funds"
	case util.IsError(err, util.ErrSameAccountTransfer):
		return "Cannot transfer to the same account"
	case util.IsError(err, util.ErrDuplicateHandle):
		return "User ID already taken"
	case util.IsError(err, util.ErrTransactionFailed):
		return "Transaction failed, no changes were applied"
	default:
		return "Error: " + err.Error()
	}
}
