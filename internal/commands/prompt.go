// internal/commands/prompt.go
package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"lena-bank/internal/auth"
)

// prompter reads answers line by line from the command's input.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
}

// Line prints label and returns the next line without its terminator.
// A final line without a newline is still returned; after that, io.EOF.
func (p *prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	s, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// Attempts asks for label once per credential attempt, showing how many are left.
func (p *prompter) Attempts(label string) auth.AttemptSource {
	return auth.AttemptFunc(func(ctx context.Context, remaining int) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return p.Line(fmt.Sprintf("%s (%d attempts left): ", label, remaining))
	})
}
