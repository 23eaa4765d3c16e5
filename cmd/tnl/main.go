package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/reusee/dscope"
	"github.com/reusee/tnl/cmds"
	"github.com/reusee/tnl/configs"
	"github.com/reusee/tnl/datasets"
	"github.com/reusee/tnl/debugs"
	"github.com/reusee/tnl/logs"
	"github.com/reusee/tnl/modes"
	"github.com/reusee/tnl/phases"
	"github.com/reusee/tnl/tokens"
	"github.com/reusee/tnl/values"
	"golang.org/x/term"
)

func main() {
	if err := cmds.Execute(os.Args[1:]); err != nil {
		var unknown *cmds.UnknownCommandError
		if errors.As(err, &unknown) {
			fmt.Fprintln(os.Stderr, err)
			cmds.PrintUsage()
			os.Exit(2)
		}
		ce(err)
	}
	if todo == actionNone {
		cmds.PrintUsage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	mode := modes.ForProduction()
	if *dev {
		mode = modes.ForDevelopment()
	}
	scope := dscope.New(
		new(Module),
		mode,
	)

	var cfg configs.Config
	scope.Call(func(
		loader configs.Loader,
	) {
		var err error
		cfg, err = configs.Load(loader)
		if err != nil {
			ce(&phases.ConfigError{
				Field: "config",
				Err:   err,
			})
		}
	})
	if *dev {
		ce(logs.SetDefaultLevel("debug"))
	} else {
		ce(logs.SetDefaultLevel(cfg.LogLevel))
	}
	scope = scope.Fork(
		dscope.Provide(cfg),
	)

	options, err := phases.OptionsFromConfig(cfg)
	ce(err)
	format := cmp.Or(*outputFormat, phases.OutputText)

	scope.Call(func(
		logger logs.Logger,
		load datasets.Load,
		queryTable datasets.QueryTable,
		run phases.Run,
		buildRepl phases.BuildRepl,
		tap debugs.Tap,
	) {

		var ds values.Dataset
		switch {
		case pgConn != "":
			table, err := queryTable(ctx, pgConn, pgQuery)
			if err != nil {
				ce(&phases.ConfigError{
					Field: "table",
					Value: pgQuery,
					Err:   err,
				})
			}
			ds = table
		case tablePath != "":
			table, err := load(ctx, tablePath)
			if err != nil {
				ce(&phases.ConfigError{
					Field: "table",
					Value: tablePath,
					Err:   err,
				})
			}
			ds = table
		}

		var source *tokens.Source
		switch todo {

		case actionRun:
			source = readProgram(programPath)

		case actionEval:
			source = tokens.NewSource("<eval>", programText)

		case actionRepl:
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				// piped programs run once
				source = readProgram("-")
				break
			}
			if ds == nil {
				ce(&phases.ConfigError{
					Field: "table",
					Err:   fmt.Errorf("repl needs a table"),
				})
			}
			_, err := phases.RunPhases(ctx, buildRepl(ds, options, format)(nil), nil)
			ce(err)
			return

		}

		logger.DebugContext(ctx, "program",
			"name", source.Name,
			"bytes", len(source.Content),
		)
		state, err := run(ctx, source, ds, options)
		ce(err)
		ce(phases.Render(os.Stdout, state, format))

		if *inspect {
			tap(ctx, "inspect "+state.Stage.String(), state.Globals())
		}
	})

}

func readProgram(path string) *tokens.Source {
	if path == "-" || path == "" {
		content, err := getStdinContent()
		if err != nil {
			ce(&phases.ConfigError{
				Field: "program",
				Value: "stdin",
				Err:   err,
			})
		}
		return tokens.NewSource("<stdin>", string(content))
	}
	content, err := os.ReadFile(path)
	if err != nil {
		ce(&phases.ConfigError{
			Field: "program",
			Value: path,
			Err:   err,
		})
	}
	return tokens.NewSource(path, string(content))
}

func getStdinContent() ([]byte, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("stdin is a terminal")
	}
	return io.ReadAll(os.Stdin)
}

func ce(err error) {
	if err == nil {
		return
	}
	fmt.Fprint(os.Stderr, phases.FormatError(err))
	os.Exit(1)
}
