// Package suggest asks a generative model for text styling that suits a
// quote. The result only touches the text fields listed in style.Suggestion;
// merging is left to the caller.
package suggest

import (
	"context"
	"errors"
	"fmt"

	"github.com/ByLCY/quotecard/style"
)

// ErrSuggestionFailed wraps every failure of a suggestion request; the message
// is suitable for showing to the user as-is.
var ErrSuggestionFailed = errors.New("Failed to get a design suggestion. Please try again.")

// Suggester produces a design suggestion for a quote.
type Suggester interface {
	Suggest(ctx context.Context, quote string) (style.Suggestion, error)
}

// SuggesterFunc adapts a function to the Suggester interface.
type SuggesterFunc func(ctx context.Context, quote string) (style.Suggestion, error)

// Suggest calls f.
func (f SuggesterFunc) Suggest(ctx context.Context, quote string) (style.Suggestion, error) {
	return f(ctx, quote)
}

// schemaError marks a response that decoded but did not carry the required fields.
type schemaError struct {
	field string
}

func (e *schemaError) Error() string {
	return fmt.Sprintf("response is missing required field %q", e.field)
}

func failed(err error) error {
	return fmt.Errorf("%w: %w", ErrSuggestionFailed, err)
}
