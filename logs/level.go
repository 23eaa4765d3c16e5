package logs

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/reusee/tnl/cmds"
)

var (
	level = new(slog.LevelVar)
	// set by a command line flag
	levelFlagged bool
)

var levelNames = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func init() {
	for name, l := range levelNames {
		cmds.Define("-log-"+name, cmds.Func(func() {
			level.Set(l)
			levelFlagged = true
		}).Desc("set log level to "+name))
	}
}

// SetLevel sets the level of every Logger by name.
func SetLevel(name string) error {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("unknown log level: %s", name)
	}
	level.Set(l)
	return nil
}

// SetDefaultLevel is SetLevel unless a level flag was given.
func SetDefaultLevel(name string) error {
	if levelFlagged {
		return nil
	}
	return SetLevel(name)
}

func Level() slog.Level {
	return level.Level()
}
