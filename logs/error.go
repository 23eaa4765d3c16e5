package logs

import (
	"context"
	"errors"
	"fmt"
)

// SpanError records the span an error was raised in.
type SpanError struct {
	Span Span
	Err  error
}

func (e *SpanError) Error() string {
	return fmt.Sprintf("%v (span %s)", e.Err, e.Span)
}

func (e *SpanError) Unwrap() error {
	return e.Err
}

func WrapSpan(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	span := SpanFromContext(ctx)
	if span == "" {
		return err
	}
	var spanErr *SpanError
	if errors.As(err, &spanErr) {
		// innermost span wins
		return err
	}
	return &SpanError{
		Span: span,
		Err:  err,
	}
}

func SpanOf(err error) (Span, bool) {
	var spanErr *SpanError
	if errors.As(err, &spanErr) {
		return spanErr.Span, true
	}
	return "", false
}
