package logs

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestWrapSpan(t *testing.T) {
	errFoo := errors.New("foo")
	if err := WrapSpan(context.Background(), errFoo); err != errFoo {
		t.Fatalf("got %v", err)
	}
	if err := WrapSpan(context.Background(), nil); err != nil {
		t.Fatalf("got %v", err)
	}

	ctx := context.WithValue(context.Background(), SpanKey, Span("bar"))
	err := WrapSpan(ctx, errFoo)
	if !errors.Is(err, errFoo) || !strings.Contains(err.Error(), "span bar") {
		t.Fatalf("got %v", err)
	}

	outer := context.WithValue(context.Background(), SpanKey, Span("baz"))
	err = WrapSpan(outer, err)
	span, ok := SpanOf(err)
	if !ok || span != "bar" {
		t.Fatalf("got %v", span)
	}
}
