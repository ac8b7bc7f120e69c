// internal/commands/money.go
package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"lena-bank/internal/domain"
	"lena-bank/internal/service"
	"lena-bank/internal/statement"
	"lena-bank/internal/util"
)

func (c *cli) newDepositCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <account> <amount>",
		Short: "Deposit money into an account",
		Args:  cobra.ExactArgs(2),
		RunE: c.run(func(cmd *cobra.Command, args []string, b *Backend) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			account, entry, err := b.Money.Deposit(cmd.Context(), ref, amount, newPrompter(cmd).Attempts("PIN"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deposited %s. New balance: %s (ref %s)\n",
				amount.StringFixed(2), account.Balance.StringFixed(2), entry.Reference)
			return nil
		}),
	}
}

func (c *cli) newWithdrawCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <account> <amount>",
		Short: "Withdraw money from an account",
		Args:  cobra.ExactArgs(2),
		RunE: c.run(func(cmd *cobra.Command, args []string, b *Backend) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			account, entry, err := b.Money.Withdraw(cmd.Context(), ref, amount, newPrompter(cmd).Attempts("PIN"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Withdrew %s. New balance: %s (ref %s)\n",
				amount.StringFixed(2), account.Balance.StringFixed(2), entry.Reference)
			return nil
		}),
	}
}

func (c *cli) newTransferCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <from> <to> <amount>",
		Short: "Move money between two accounts",
		Args:  cobra.ExactArgs(3),
		RunE: c.run(func(cmd *cobra.Command, args []string, b *Backend) error {
			from, err := parseRef(args[0])
			if err != nil {
				return err
			}
			to, err := parseRef(args[1])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			source, dest, entry, err := b.Money.Transfer(cmd.Context(), from, to, amount, newPrompter(cmd).Attempts("PIN"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Transferred %s to %s. New balance: %s (ref %s)\n",
				amount.StringFixed(2), dest.Handle, source.Balance.StringFixed(2), entry.Reference)
			return nil
		}),
	}
}

func (c *cli) newBalanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account>",
		Short: "Show the current balance",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string, b *Backend) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			balance, err := b.Money.GetBalance(cmd.Context(), ref)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), balance.StringFixed(2))
			return nil
		}),
	}
}

func (c *cli) newHistoryCommand() *cobra.Command {
	var limit, days int

	cmd := &cobra.Command{
		Use:   "history <account>",
		Short: "List recent ledger entries, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string, b *Backend) error {
			if limit < 0 {
				return util.Invalid("limit", "must be positive")
			}
			if err := checkDays(days); err != nil {
				return err
			}
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			account, err := b.Accounts.GetProfile(cmd.Context(), ref)
			if err != nil {
				return err
			}

			var entries []domain.LedgerEntry
			if days > 0 {
				entries, err = b.Money.WindowHistory(cmd.Context(), account.Ref(), time.Duration(days)*24*time.Hour)
			} else {
				entries, err = b.Money.RecentHistory(cmd.Context(), account.Ref(), limit)
			}
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No transactions found")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, strings.ToUpper(strings.Join(statement.Header[1:], "\t")))
			for _, e := range entries {
				fmt.Fprintln(tw, strings.Join(statement.Row(account, e)[1:], "\t"))
			}
			return tw.Flush()
		}),
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "number of latest entries (default from config)")
	cmd.Flags().IntVar(&days, "days", 0, "show every entry of the last N days instead")
	cmd.MarkFlagsMutuallyExclusive("limit", "days")

	return cmd
}

func (c *cli) newStatementCommand() *cobra.Command {
	var formatName, output string
	var days int

	cmd := &cobra.Command{
		Use:   "statement <account>",
		Short: "Export ledger entries as CSV or XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string, b *Backend) error {
			format, err := statement.ParseFormat(formatName)
			if err != nil {
				return err
			}
			if err := checkDays(days); err != nil {
				return err
			}
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			account, err := b.Accounts.GetProfile(cmd.Context(), ref)
			if err != nil {
				return err
			}
			entries, err := b.Money.WindowHistory(cmd.Context(), account.Ref(), time.Duration(days)*24*time.Hour)
			if err != nil {
				return err
			}

			if output == "" && format == statement.FormatCSV {
				return statement.Write(cmd.OutOrStdout(), format, account, entries)
			}
			if output == "" {
				output = format.Filename(account)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating statement file: %w", err)
			}
			if err := statement.Write(f, format, account, entries); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing statement file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d entries to %s\n", len(entries), output)
			return nil
		}),
	}

	cmd.Flags().StringVar(&formatName, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (csv defaults to stdout)")
	cmd.Flags().IntVar(&days, "days", 0, "trailing window in days (default from config)")

	return cmd
}

func checkDays(days int) error {
	if days < 0 || days > service.MaxHistoryDays {
		return util.Invalid("days", fmt.Sprintf("must be between 1 and %d", service.MaxHistoryDays))
	}
	return nil
}
