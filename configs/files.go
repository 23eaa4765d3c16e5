package configs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/tnl/logs"
)

//go:embed schema.cue
var Schema string

var configFileNames = []string{
	"tnl.cue",
	".tnl.cue",
}

// SearchDirs lists the directories searched for config files, highest
// precedence first.
type SearchDirs []string

func (Module) SearchDirs() SearchDirs {
	var dirs []string
	// working directory
	if workingDir, err := os.Getwd(); err == nil {
		dirs = append(dirs, workingDir)
	}
	// user config dir
	if configDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, configDir)
	}
	// system wide dir
	dirs = append(dirs, "/etc")
	return dirs
}

func (Module) Loader(
	dirs SearchDirs,
	logger logs.Logger,
) Loader {
	var paths []string
	for _, dir := range dirs {
		for _, filename := range configFileNames {
			path := filepath.Join(dir, filename)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}
	if len(paths) > 0 {
		logger.Debug("config file",
			"paths", paths,
		)
	}
	return NewLoader(paths, Schema)
}
