package phases

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reusee/tnl/tokens"
)

// ConfigError reports an invalid setting or an unreadable input. It is not
// a pipeline error.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// StageError is the failure of one pipeline stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FormatError renders an error with the source line and a caret under each
// position it carries.
func FormatError(err error) string {
	var b strings.Builder
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		fmt.Fprintf(&b, "%s error\n", stageErr.Stage)
		err = stageErr.Err
	}

	var lexErrs tokens.LexErrors
	if errors.As(err, &lexErrs) {
		for _, e := range lexErrs {
			b.WriteString(e.Error())
			b.WriteString("\n")
			b.WriteString(tokens.Caret(e.Pos))
		}
		return b.String()
	}

	b.WriteString(err.Error())
	b.WriteString("\n")
	var positioned tokens.Positioned
	if errors.As(err, &positioned) {
		b.WriteString(tokens.Caret(positioned.Position()))
	}
	return b.String()
}
