package auth

import (
	"context"
	"io"
)

// AttemptSource supplies credential attempts one at a time, typically by prompting a user.
// remaining is the number of attempts left including the one being requested.
// Returning io.EOF means no further attempts are available.
type AttemptSource interface {
	Next(ctx context.Context, remaining int) (string, error)
}

// AttemptFunc adapts a function to AttemptSource.
type AttemptFunc func(ctx context.Context, remaining int) (string, error)

// Next calls f.
func (f AttemptFunc) Next(ctx context.Context, remaining int) (string, error) {
	return f(ctx, remaining)
}

// Attempts returns a source that replays values in order and then reports io.EOF.
// It is consumed by use; build a fresh one per verification.
func Attempts(values ...string) AttemptSource {
	i := 0
	return AttemptFunc(func(ctx context.Context, _ int) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if i >= len(values) {
			return "", io.EOF
		}
		v := values[i]
		i++
		return v, nil
	})
}
