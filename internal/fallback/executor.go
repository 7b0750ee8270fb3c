package fallback

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Attempt is one fallible strategy in an ordered chain. Name identifies the
// backing adapter for diagnostics.
type Attempt struct {
	Name string
	Run  func(ctx context.Context) ([]byte, error)
}

// ExhaustedError reports that every attempt in a chain failed. It carries
// the attempted adapter names and the last underlying cause.
type ExhaustedError struct {
	Attempted []string
	Last      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all adapters failed (attempted: %s): %v",
		strings.Join(e.Attempted, ", "), e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// First evaluates attempts strictly in order and returns the first
// successful output together with the winning attempt's name. A failed
// attempt is logged and the chain moves on immediately; there are no
// retries of the same attempt. Once an attempt succeeds no further attempt
// runs. If every attempt fails, an *ExhaustedError is returned.
func First(ctx context.Context, logger zerolog.Logger, attempts []Attempt) ([]byte, string, error) {
	if len(attempts) == 0 {
		return nil, "", &ExhaustedError{Last: fmt.Errorf("no adapters configured")}
	}

	attempted := make([]string, 0, len(attempts))
	var last error
	for _, a := range attempts {
		attempted = append(attempted, a.Name)
		out, err := a.Run(ctx)
		if err == nil {
			return out, a.Name, nil
		}
		last = err
		logger.Warn().Str("adapter", a.Name).Err(err).Msg("adapter attempt failed, trying next")
	}
	return nil, "", &ExhaustedError{Attempted: attempted, Last: last}
}
