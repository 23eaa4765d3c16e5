package debugs

import (
	"context"
	"maps"
	"slices"

	"github.com/reusee/tnl/logs"
	"github.com/reusee/tnl/modes"
	"go.starlark.net/repl"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
}

func globalsDict(globals map[string]any) starlark.StringDict {
	ret := make(starlark.StringDict, len(globals))
	for name, value := range globals {
		ret[name] = toStarlarkValue(value)
	}
	return ret
}

// Tap opens a starlark REPL over the globals. Outside interactive modes the
// globals are only converted and logged.
type Tap func(ctx context.Context, what string, globals map[string]any)

func (Module) Tap(
	logger logs.Logger,
	mode modes.Mode,
) Tap {
	return func(ctx context.Context, what string, globals map[string]any) {
		logger.InfoContext(ctx, "tap: "+what,
			"globals", slices.Sorted(maps.Keys(globals)),
		)
		defer func() {
			logger.InfoContext(ctx, "tap end: "+what)
		}()

		mappings := globalsDict(globals)
		if !mode.Interactive() {
			return
		}

		thread := &starlark.Thread{
			Name: "repl",
		}
		repl.REPLOptions(fileOptions, thread, mappings)
	}
}

// Eval evaluates a starlark expression over the globals.
type Eval func(ctx context.Context, expr string, globals map[string]any) (starlark.Value, error)

func (Module) Eval(
	logger logs.Logger,
) Eval {
	return func(ctx context.Context, expr string, globals map[string]any) (starlark.Value, error) {
		logger.DebugContext(ctx, "eval", "expr", expr)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		thread := &starlark.Thread{
			Name: "eval",
		}
		if ctx.Done() != nil {
			stop := context.AfterFunc(ctx, func() {
				thread.Cancel(ctx.Err().Error())
			})
			defer stop()
		}
		return starlark.EvalOptions(fileOptions, thread, "<expr>", expr, globalsDict(globals))
	}
}
