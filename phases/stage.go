package phases

import (
	"fmt"
	"strings"
)

type Stage uint8

const (
	StageSource Stage = iota
	StageLex
	StageParse
	StageAnalyze
	StageCompile
	StageOptimize
	StageExec
)

var stageNames = []string{
	StageSource:   "source",
	StageLex:      "lex",
	StageParse:    "parse",
	StageAnalyze:  "analyze",
	StageCompile:  "compile",
	StageOptimize: "optimize",
	StageExec:     "exec",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

// ParseStage accepts the name of a stop-at stage. The source stage is not one.
func ParseStage(name string) (Stage, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, stageName := range stageNames {
		if Stage(i) != StageSource && stageName == name {
			return Stage(i), nil
		}
	}
	return 0, &ConfigError{
		Field: "stop-at",
		Value: name,
		Err:   fmt.Errorf("expecting one of %s", strings.Join(stageNames[StageLex:], ", ")),
	}
}

func (s *Stage) UnmarshalText(text []byte) error {
	stage, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = stage
	return nil
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
