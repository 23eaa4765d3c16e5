package logs

import (
	"context"
	"crypto/rand"
)

// NewSpan starts a span under parent, or under the span of ctx when parent is
// empty. attrs are logged with the span's first record.
type NewSpan func(ctx context.Context, parent Span, attrs ...any) (context.Context, Span)

func (Module) NewSpan(
	logger Logger,
) NewSpan {
	return func(ctx context.Context, parent Span, attrs ...any) (context.Context, Span) {
		creator := SpanFromContext(ctx)
		if parent == "" {
			parent = creator
		}

		span := Span(rand.Text()[:12])
		ctx = context.WithValue(ctx, SpanKey, span)

		args := make([]any, 0, len(attrs)+4)
		if creator != "" && creator != parent {
			args = append(args, "creator", creator)
		}
		if parent != "" {
			args = append(args, "parent", parent)
		}
		args = append(args, attrs...)
		logger.DebugContext(ctx, "span", args...)

		return ctx, span
	}
}

func SpanFromContext(ctx context.Context) Span {
	span, _ := ctx.Value(SpanKey).(Span)
	return span
}
