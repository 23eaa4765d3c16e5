package phases

import (
	"fmt"
	"io"
	"strings"

	"github.com/reusee/tnl/datasets"
	"github.com/reusee/tnl/syntax"
	"github.com/reusee/tnl/vm"
)

type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputCSV  OutputFormat = "csv"
	OutputJSON OutputFormat = "json"
)

func (f *OutputFormat) UnmarshalText(text []byte) error {
	switch format := OutputFormat(text); format {
	case OutputText, OutputCSV, OutputJSON:
		*f = format
		return nil
	}
	return fmt.Errorf("unknown output format: %s", text)
}

// Render writes the artifact of the last completed stage. Table results are
// written in format; other artifacts are always text.
func Render(w io.Writer, s *State, format OutputFormat) (err error) {
	line := func(text string) {
		if err == nil {
			_, err = fmt.Fprintln(w, strings.TrimSuffix(text, "\n"))
		}
	}

	switch s.Stage {

	case StageSource:
		line(s.Source.Content)

	case StageLex:
		for _, tok := range s.Tokens {
			line(tok.String())
		}

	case StageParse:
		line(syntax.Format(s.Program))

	case StageAnalyze:
		for sym := range s.Resolved.Table.All() {
			line(sym.String())
		}
		for i, schema := range s.Resolved.Schemas {
			if i == len(s.Resolved.Schemas)-1 {
				line("output: " + schema.String())
			} else {
				line(fmt.Sprintf("statement %d: %s", i+1, schema))
			}
		}

	case StageCompile:
		line(s.Graph.String())

	case StageOptimize:
		line(s.Optimized.String())
		line(s.Stats.String())

	case StageExec:
		result := s.Result
		if result.Kind != vm.KindTable {
			line(result.String())
			break
		}
		switch format {
		case OutputCSV:
			return datasets.WriteCSV(w, result.Table)
		case OutputJSON:
			return datasets.WriteJSON(w, result.Table)
		}
		line(result.Table.String())

	}
	return
}
