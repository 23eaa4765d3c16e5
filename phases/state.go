package phases

import (
	"github.com/reusee/tnl/ir"
	"github.com/reusee/tnl/optimize"
	"github.com/reusee/tnl/symbols"
	"github.com/reusee/tnl/syntax"
	"github.com/reusee/tnl/tokens"
	"github.com/reusee/tnl/values"
	"github.com/reusee/tnl/vm"
)

type Options struct {
	StopAt           Stage
	CollectLexErrors bool
	MaxIterations    int
	Parallel         int
}

// State is the pipeline after its last completed stage. Transitions return
// a new State and never modify the artifacts of the previous one.
type State struct {
	Stage   Stage
	Options Options
	Source  *tokens.Source
	Dataset values.Dataset

	// Tokens are materialized only when the pipeline stops at lex
	Tokens []*tokens.Token
	// stream feeds the parser lazily otherwise
	stream *tokens.Tokenizer

	Program   *syntax.Program
	Resolved  *symbols.Resolved
	Graph     *ir.Graph
	Optimized *ir.Graph
	Stats     optimize.Stats
	Result    *vm.Result
}

func NewState(source *tokens.Source, ds values.Dataset, options Options) *State {
	return &State{
		Stage:   StageSource,
		Options: options,
		Source:  source,
		Dataset: ds,
	}
}

// Artifact returns the output of the last completed stage.
func (s *State) Artifact() any {
	switch s.Stage {
	case StageSource:
		return s.Source
	case StageLex:
		return s.Tokens
	case StageParse:
		return s.Program
	case StageAnalyze:
		return s.Resolved
	case StageCompile:
		return s.Graph
	case StageOptimize:
		return s.Optimized
	case StageExec:
		return s.Result
	}
	return nil
}

// Done reports whether the stop-at stage is completed.
func (s *State) Done() bool {
	return s.Stage >= s.Options.StopAt
}

// Globals exposes the artifacts by name for inspection.
func (s *State) Globals() map[string]any {
	ret := map[string]any{
		"stage": s.Stage.String(),
	}
	if s.Source != nil {
		ret["source"] = s.Source.Content
	}
	if s.Dataset != nil {
		ret["schema"] = s.Dataset.Schema().String()
		if table, ok := s.Dataset.(*values.Table); ok {
			ret["table"] = table
		}
	}
	if s.Tokens != nil {
		ret["tokens"] = s.Tokens
	}
	if s.Program != nil {
		ret["program"] = syntax.Format(s.Program)
	}
	if s.Resolved != nil {
		ret["output"] = s.Resolved.Output().String()
	}
	if s.Graph != nil {
		ret["graph"] = s.Graph
	}
	if s.Optimized != nil {
		ret["optimized"] = s.Optimized
		ret["stats"] = s.Stats
	}
	if s.Result != nil {
		switch s.Result.Kind {
		case vm.KindTable:
			ret["result"] = s.Result.Table
		case vm.KindColumn:
			ret["result"] = s.Result.Column
		default:
			ret["result"] = s.Result.Scalar
		}
	}
	return ret
}
