package phases

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/peterh/liner"
	"github.com/reusee/tnl/debugs"
	"github.com/reusee/tnl/logs"
	"github.com/reusee/tnl/tokens"
	"github.com/reusee/tnl/values"
)

// LineReader reads REPL input lines.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

type NewLineReader func() LineReader

type linerReader struct {
	*liner.State
	historyPath string
	logger      logs.Logger
}

func (l *linerReader) Close() error {
	if l.historyPath != "" {
		if err := os.MkdirAll(filepath.Dir(l.historyPath), 0755); err != nil {
			l.logger.Warn("create history dir error", "err", err)
		} else if f, err := os.Create(l.historyPath); err != nil {
			l.logger.Warn("create history file error", "err", err)
		} else {
			l.State.WriteHistory(f)
			f.Close()
		}
	}
	return l.State.Close()
}

func (Module) NewLineReader(
	logger logs.Logger,
) NewLineReader {
	getHistoryPath := sync.OnceValues(func() (string, error) {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "tnl-history"), nil
	})

	return func() LineReader {
		line := liner.NewLiner()
		line.SetCtrlCAborts(true)

		historyPath, err := getHistoryPath()
		if err != nil {
			logger.Warn("get history path error", "err", err)
		} else if f, err := os.Open(historyPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}

		return &linerReader{
			State:       line,
			historyPath: historyPath,
			logger:      logger,
		}
	}
}

// Output is where the REPL writes results and diagnostics.
type Output io.Writer

func (Module) Output() Output {
	return os.Stdout
}

// BuildRepl reads queries and runs each one against the dataset until the
// input ends or /quit.
type BuildRepl func(ds values.Dataset, options Options, format OutputFormat) PhaseBuilder

func (Module) BuildRepl(
	run Run,
	newLineReader NewLineReader,
	output Output,
	tap debugs.Tap,
	eval debugs.Eval,
	logger logs.Logger,
) BuildRepl {
	return func(ds values.Dataset, options Options, format OutputFormat) PhaseBuilder {
		return func(cont Phase) Phase {
			return func(ctx context.Context, last *State) (Phase, *State, error) {
				reader := newLineReader()
				defer reader.Close()

				n := 0
				for {
					input, err := reader.Prompt(fmt.Sprintf("%s> ", options.StopAt))
					if err != nil {
						switch err {
						case io.EOF, liner.ErrPromptAborted:
							return cont, last, nil
						}
						return nil, last, err
					}
					input = strings.TrimSpace(input)
					if input == "" {
						continue
					}
					reader.AppendHistory(input)

					command, arg, _ := strings.Cut(input, " ")
					arg = strings.TrimSpace(arg)
					switch command {

					case "/quit", "/exit":
						return cont, last, nil

					case "/stage":
						if arg == "" {
							fmt.Fprintln(output, options.StopAt)
							continue
						}
						stage, err := ParseStage(arg)
						if err != nil {
							fmt.Fprint(output, FormatError(err))
							continue
						}
						options.StopAt = stage

					case "/schema":
						fmt.Fprintln(output, ds.Schema())

					case "/tap":
						globals := map[string]any{}
						if last != nil {
							globals = last.Globals()
						}
						if arg == "" {
							tap(ctx, "tap on repl", globals)
							continue
						}
						value, err := eval(ctx, arg, globals)
						if err != nil {
							fmt.Fprintln(output, err)
							continue
						}
						fmt.Fprintln(output, value)

					default:
						n++
						source := tokens.NewSource(fmt.Sprintf("repl:%d", n), input)
						state, err := run(ctx, source, ds, options)
						if err != nil {
							if errors.Is(err, context.Canceled) {
								return nil, last, err
							}
							fmt.Fprint(output, FormatError(err))
							continue
						}
						last = state
						if err := Render(output, state, format); err != nil {
							return nil, last, err
						}

					}
				}
			}
		}
	}
}
