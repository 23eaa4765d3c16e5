package phases

import (
	"context"
	"time"

	"github.com/reusee/tnl/logs"
)

type Phase func(ctx context.Context, prev *State) (Phase, *State, error)

type PhaseBuilder func(cont Phase) Phase

// StagePhase runs the transition leaving the current stage, then continues
// with the next stage, or with cont once the stop-at stage is completed.
func StagePhase(logger logs.Logger, cont Phase) Phase {
	var phase Phase
	phase = func(ctx context.Context, state *State) (Phase, *State, error) {
		if state.Done() {
			return cont, state, nil
		}
		start := time.Now()
		next, err := Next(ctx, state)
		if err != nil {
			logger.DebugContext(ctx, "stage failed",
				"from", state.Stage,
				"error", err,
			)
			return nil, state, err
		}
		logger.DebugContext(ctx, "stage",
			"from", state.Stage,
			"to", next.Stage,
			"duration", time.Since(start),
		)
		return phase, next, nil
	}
	return phase
}

// RunPhases calls phases until one returns nil.
func RunPhases(ctx context.Context, phase Phase, state *State) (*State, error) {
	var err error
	for phase != nil {
		phase, state, err = phase(ctx, state)
		if err != nil {
			return state, err
		}
	}
	return state, nil
}
