package phases

import (
	"context"
	"errors"
	"fmt"

	"github.com/reusee/tnl/ir"
	"github.com/reusee/tnl/optimize"
	"github.com/reusee/tnl/symbols"
	"github.com/reusee/tnl/syntax"
	"github.com/reusee/tnl/tokens"
	"github.com/reusee/tnl/vm"
)

// Transition completes the stage after s.Stage.
type Transition func(ctx context.Context, s *State) (*State, error)

// transitions[stage] leads from stage to stage+1
var transitions = []Transition{
	StageSource:   lex,
	StageLex:      parse,
	StageParse:    analyze,
	StageAnalyze:  compile,
	StageCompile:  optimizeGraph,
	StageOptimize: exec,
}

// Next runs the transition leaving s.Stage.
func Next(ctx context.Context, s *State) (*State, error) {
	if int(s.Stage) >= len(transitions) {
		return nil, fmt.Errorf("no stage after %s", s.Stage)
	}
	next, err := transitions[s.Stage](ctx, s)
	if err != nil {
		var stageErr *StageError
		var configErr *ConfigError
		if errors.As(err, &stageErr) || errors.As(err, &configErr) {
			return nil, err
		}
		return nil, &StageError{
			Stage: s.Stage + 1,
			Err:   err,
		}
	}
	return next, nil
}

func (s *State) advance() *State {
	next := *s
	next.Stage++
	return &next
}

func (s *State) lexOptions() []tokens.Option {
	if s.Options.CollectLexErrors {
		return []tokens.Option{tokens.CollectErrors()}
	}
	return nil
}

func lex(ctx context.Context, s *State) (*State, error) {
	if s.Source == nil {
		return nil, &ConfigError{
			Field: "source",
			Err:   fmt.Errorf("no program"),
		}
	}
	next := s.advance()
	if s.Options.StopAt == StageLex {
		toks, err := tokens.Tokenize(s.Source, s.lexOptions()...)
		if err != nil {
			return nil, err
		}
		next.Tokens = toks
		return next, nil
	}
	next.stream = tokens.NewTokenizer(s.Source, s.lexOptions()...)
	return next, nil
}

func parse(ctx context.Context, s *State) (*State, error) {
	stream := s.stream
	if stream == nil {
		if s.Tokens != nil {
			// tokens were materialized by an earlier stop at lex
			prog, err := syntax.Parse(tokens.NewSliceTokenStream(s.Tokens))
			if err != nil {
				return nil, err
			}
			next := s.advance()
			next.Program = prog
			return next, nil
		}
		stream = tokens.NewTokenizer(s.Source, s.lexOptions()...)
	}

	prog, err := syntax.Parse(stream)

	// lexical errors surfacing while parsing belong to the lex stage
	if errs := stream.Errors(); len(errs) > 0 {
		return nil, &StageError{
			Stage: StageLex,
			Err:   tokens.LexErrors(errs),
		}
	}
	var lexErr *tokens.LexError
	if errors.As(err, &lexErr) {
		return nil, &StageError{
			Stage: StageLex,
			Err:   err,
		}
	}
	if err != nil {
		return nil, err
	}

	next := s.advance()
	next.stream = nil
	next.Program = prog
	return next, nil
}

func analyze(ctx context.Context, s *State) (*State, error) {
	if s.Dataset == nil {
		return nil, &ConfigError{
			Field: "table",
			Err:   fmt.Errorf("no table to analyze against"),
		}
	}
	res, err := symbols.Resolve(s.Program, s.Dataset.Schema())
	if err != nil {
		return nil, err
	}
	next := s.advance()
	next.Resolved = res
	return next, nil
}

func compile(ctx context.Context, s *State) (*State, error) {
	g, err := ir.Lower(s.Resolved)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	next := s.advance()
	next.Graph = g
	return next, nil
}

func optimizeGraph(ctx context.Context, s *State) (*State, error) {
	// the unoptimized graph stays inspectable
	optimized, stats := optimize.Optimize(
		s.Graph.Clone(),
		optimize.MaxIterations(s.Options.MaxIterations),
	)
	if err := optimized.Validate(); err != nil {
		return nil, err
	}
	next := s.advance()
	next.Optimized = optimized
	next.Stats = stats
	return next, nil
}

func exec(ctx context.Context, s *State) (*State, error) {
	var options []vm.Option
	if s.Options.Parallel > 1 {
		options = append(options, vm.Parallel(s.Options.Parallel))
	}
	result, err := vm.Execute(ctx, s.Optimized, s.Dataset, options...)
	if err != nil {
		return nil, err
	}
	next := s.advance()
	next.Result = result
	return next, nil
}
