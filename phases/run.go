package phases

import (
	"context"

	"github.com/reusee/tnl/configs"
	"github.com/reusee/tnl/logs"
	"github.com/reusee/tnl/tokens"
	"github.com/reusee/tnl/values"
)

// Run compiles and runs a program through the stop-at stage. On failure the
// returned error is a *StageError or a *ConfigError.
type Run func(ctx context.Context, source *tokens.Source, ds values.Dataset, options Options) (*State, error)

func (Module) Run(
	logger logs.Logger,
	newSpan logs.NewSpan,
) Run {
	return func(ctx context.Context, source *tokens.Source, ds values.Dataset, options Options) (*State, error) {
		ctx, _ = newSpan(ctx, "",
			"source", source.Name,
			"stop_at", options.StopAt,
		)
		state, err := RunPhases(
			ctx,
			StagePhase(logger, nil),
			NewState(source, ds, options),
		)
		if err != nil {
			return nil, logs.WrapSpan(ctx, err)
		}
		return state, nil
	}
}

// OptionsFromConfig builds pipeline options from the config. An unknown
// stop-at stage is a *ConfigError.
func OptionsFromConfig(cfg configs.Config) (Options, error) {
	stopAt, err := ParseStage(cfg.StopAt)
	if err != nil {
		return Options{}, err
	}
	return Options{
		StopAt:           stopAt,
		CollectLexErrors: cfg.CollectLexErrors,
		MaxIterations:    cfg.MaxOptimizeIterations,
		Parallel:         cfg.Parallel,
	}, nil
}
