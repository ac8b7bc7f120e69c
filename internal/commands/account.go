// internal/commands/account.go
package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"lena-bank/internal/domain"
	"lena-bank/internal/service"
	"lena-bank/internal/util"
)

func (c *cli) newOpenCommand() *cobra.Command {
	var name domain.Name
	var handle, opening string

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open a new account",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string, b *Backend) error {
			balance, err := parseAmount(opening)
			if err != nil {
				return err
			}

			p := newPrompter(cmd)
			secret, err := p.Line("Choose a password: ")
			if err != nil {
				return err
			}
			pin, err := p.Line("Choose a 4-digit transaction PIN: ")
			if err != nil {
				return err
			}

			account, entry, err := b.Accounts.OpenAccount(cmd.Context(), service.OpenAccountParams{
				Name:           name,
				Handle:         handle,
				Secret:         secret,
				Pin:            pin,
				OpeningBalance: balance,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Account %s opened for %s\n", domain.FormatAccountNumber(account.Number), account.Name().FullName())
			fmt.Fprintf(out, "User ID: %s\n", account.Handle)
			fmt.Fprintf(out, "Balance: %s\n", account.Balance.StringFixed(2))
			if entry != nil {
				fmt.Fprintf(out, "Opening deposit reference: %s\n", entry.Reference)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&name.Given, "given-name", "", "given name (required)")
	cmd.Flags().StringVar(&name.Middle, "middle-name", "", "middle name")
	cmd.Flags().StringVar(&name.Family, "family-name", "", "family name (required)")
	cmd.Flags().StringVar(&handle, "user-id", "", "user id of the form name.surname@NNNN (required)")
	cmd.Flags().StringVar(&opening, "opening-balance", "0", "initial deposit")
	_ = cmd.MarkFlagRequired("given-name")
	_ = cmd.MarkFlagRequired("family-name")
	_ = cmd.MarkFlagRequired("user-id")

	return cmd
}

func (c *cli) newLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login <account>",
		Short: "Check a password and show the account summary",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string, b *Backend) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			account, err := b.Accounts.Login(cmd.Context(), ref, newPrompter(cmd).Attempts("Password"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s\n", account.Name().FullName())
			printAccount(cmd, account)
			return nil
		}),
	}
}

func (c *cli) newLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <account-number|user-id>",
		Short: "Translate between an account number and a user id",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string, b *Backend) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			if ref.IsNumber() {
				handle, err := b.Accounts.FindHandleByAccountNumber(cmd.Context(), ref.Number)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), handle)
				return nil
			}
			number, err := b.Accounts.FindAccountNumberByHandle(cmd.Context(), ref.Handle)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), domain.FormatAccountNumber(number))
			return nil
		}),
	}
}

func (c *cli) newPasswdCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd <account>",
		Short: "Change the account password",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string, b *Backend) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			p := newPrompter(cmd)
			newSecret, err := p.Line("New password: ")
			if err != nil {
				return err
			}
			if err := b.Accounts.ChangeSecret(cmd.Context(), ref, p.Attempts("Current password"), newSecret); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password updated successfully")
			return nil
		}),
	}
}

func (c *cli) newPinCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pin <account>",
		Short: "Change the transaction PIN",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string, b *Backend) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			p := newPrompter(cmd)
			newPin, err := p.Line("New PIN: ")
			if err != nil {
				return err
			}
			if err := b.Accounts.ChangePin(cmd.Context(), ref, p.Attempts("Current PIN"), newPin); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Transaction PIN updated successfully")
			return nil
		}),
	}
}

func (c *cli) newRenameCommand() *cobra.Command {
	var name domain.Name

	cmd := &cobra.Command{
		Use:   "rename <account>",
		Short: "Update the account holder's name",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string, b *Backend) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			if err := b.Accounts.UpdateName(cmd.Context(), ref, newPrompter(cmd).Attempts("Password"), name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Name updated to %s\n", name.FullName())
			return nil
		}),
	}

	cmd.Flags().StringVar(&name.Given, "given-name", "", "given name (required)")
	cmd.Flags().StringVar(&name.Middle, "middle-name", "", "middle name")
	cmd.Flags().StringVar(&name.Family, "family-name", "", "family name (required)")
	_ = cmd.MarkFlagRequired("given-name")
	_ = cmd.MarkFlagRequired("family-name")

	return cmd
}

func (c *cli) newResetPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <account>",
		Short: "Set a new password after confirming the holder's name",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string, b *Backend) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			p := newPrompter(cmd)
			answers := make([]string, 3)
			for i, label := range []string{"Given name: ", "Family name: ", "New password: "} {
				if answers[i], err = p.Line(label); err != nil {
					return err
				}
			}
			if err := b.Accounts.ResetSecret(cmd.Context(), ref, answers[0], answers[1], answers[2]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password reset successfully")
			return nil
		}),
	}
}

func printAccount(cmd *cobra.Command, account *domain.Account) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Account: %s\n", domain.FormatAccountNumber(account.Number))
	fmt.Fprintf(out, "User ID: %s\n", account.Handle)
	fmt.Fprintf(out, "Balance: %s\n", account.Balance.StringFixed(2))
}

func parseRef(s string) (domain.AccountRef, error) {
	ref, err := domain.ParseRef(s)
	if err != nil {
		return domain.AccountRef{}, util.Invalid("account", err.Error())
	}
	return ref, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, util.Invalid("amount", fmt.Sprintf("%q is not a number", s))
	}
	return amount, nil
}
