package logs

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/tnl/cmds"
	"github.com/reusee/tnl/modes"
)

func TestHandler(t *testing.T) {
	dscope.New(new(Module), modes.ForTest(t)).Call(func(
		logger Logger,
	) {
		logger.Info("test", "hello", "world!")
	})
}

func TestSpanAttr(t *testing.T) {
	buf := new(bytes.Buffer)
	dscope.New(new(Module), modes.ForTest(t)).Fork(
		func() Writer {
			return buf
		},
	).Call(func(
		logger Logger,
	) {
		ctx := context.WithValue(context.Background(), SpanKey, Span("foo"))
		logger.With("stage", "parse").InfoContext(ctx, "hello")
		line := buf.String()
		for _, expected := range []string{
			"mode=test",
			"stage=parse",
			"logs.span=foo",
		} {
			if !strings.Contains(line, expected) {
				t.Fatalf("got %s", line)
			}
		}
	})
}

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")
	if err := SetLevel("DEBUG"); err != nil {
		t.Fatal(err)
	}
	if Level().String() != "DEBUG" {
		t.Fatalf("got %v", Level())
	}
	if err := SetLevel("loud"); err == nil {
		t.Fatal()
	}

	if err := cmds.Execute([]string{"-log-error"}); err != nil {
		t.Fatal(err)
	}
	defer func() {
		levelFlagged = false
	}()
	if err := SetDefaultLevel("debug"); err != nil {
		t.Fatal(err)
	}
	if Level() != slog.LevelError {
		t.Fatalf("got %v", Level())
	}
}

func TestDevelopmentSource(t *testing.T) {
	buf := new(bytes.Buffer)
	dscope.New(new(Module), modes.ForDevelopment()).Fork(
		func() Writer {
			return buf
		},
	).Call(func(
		logger Logger,
	) {
		logger.Warn("hello")
		line := buf.String()
		if !strings.Contains(line, "mode=development") ||
			!strings.Contains(line, "source=") ||
			!strings.Contains(line, "logger_test.go") {
			t.Fatalf("got %s", line)
		}
	})
}
