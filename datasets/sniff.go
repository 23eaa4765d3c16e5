package datasets

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/reusee/tnl/configs"
)

// Sniff guesses the table format from the content, then the file extension.
// CSV is the fallback.
func Sniff(path string, content []byte) configs.TableFormat {
	for mtype := mimetype.Detect(content); mtype != nil; mtype = mtype.Parent() {
		switch {
		case mtype.Is("application/json"), mtype.Is("application/x-ndjson"):
			return configs.FormatJSON
		case mtype.Is("text/csv"), mtype.Is("text/tab-separated-values"):
			return configs.FormatCSV
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonl", ".ndjson":
		return configs.FormatJSON
	}
	return configs.FormatCSV
}
