package configs

import (
	"cmp"
	"errors"
	"fmt"

	"github.com/reusee/tnl/cmds"
)

// TableFormat selects how a table file is decoded.
type TableFormat string

const (
	FormatAuto TableFormat = "auto"
	FormatCSV  TableFormat = "csv"
	FormatJSON TableFormat = "json"
)

func (f *TableFormat) UnmarshalText(text []byte) error {
	switch format := TableFormat(text); format {
	case FormatAuto, FormatCSV, FormatJSON:
		*f = format
		return nil
	}
	return fmt.Errorf("unknown table format: %s", text)
}

type Config struct {
	StopAt                string
	MaxOptimizeIterations int
	Parallel              int
	CollectLexErrors      bool
	LogLevel              string
	TableFormat           TableFormat
	CSVDelimiter          rune
	NullLiterals          []string
}

var DefaultNullLiterals = []string{
	"", "NA", "N/A", "NULL", "null", "NaN", "None",
}

var (
	stopAtFlag           = cmds.Var[string]("-stop-at", "last stage to run: lex, parse, analyze, compile, optimize or exec")
	maxIterationsFlag    = cmds.Var[int]("-max-iterations", "cap on optimizer iterations")
	parallelFlag         = cmds.Var[int]("-parallel", "evaluate select items in up to n goroutines")
	collectLexErrorsFlag = cmds.Switch("-collect-lex-errors", "report every lexical error instead of the first")
	formatFlag           = cmds.Var[TableFormat]("-format", "table file format: auto, csv or json")
	delimiterFlag        = cmds.Var[string]("-delimiter", "csv field delimiter")
	nullFlag             = cmds.Collect[string]("-null", "cell text read as null")
)

// Load reads every setting from flags first, then the config files. Null
// literals of all files are combined.
func Load(loader Loader) (cfg Config, err error) {
	if err := loader.Err(); err != nil {
		return cfg, err
	}

	stopAt, err1 := First[string](loader, "stop_at")
	maxIterations, err2 := First[int](loader, "max_optimize_iterations")
	parallel, err3 := First[int](loader, "parallel")
	collectLexErrors, err4 := First[bool](loader, "collect_lex_errors")
	logLevel, err5 := First[string](loader, "log_level")
	format, err6 := First[TableFormat](loader, "table_format")
	delimiter, err7 := First[string](loader, "csv_delimiter")
	if err := errors.Join(err1, err2, err3, err4, err5, err6, err7); err != nil {
		return cfg, wrap(err)
	}

	cfg.StopAt = cmp.Or(*stopAtFlag, stopAt, "exec")
	cfg.MaxOptimizeIterations = cmp.Or(*maxIterationsFlag, maxIterations)
	cfg.Parallel = cmp.Or(*parallelFlag, parallel)
	cfg.CollectLexErrors = *collectLexErrorsFlag || collectLexErrors
	cfg.LogLevel = cmp.Or(logLevel, "warn")
	cfg.TableFormat = cmp.Or(*formatFlag, format, FormatAuto)

	delimiter = cmp.Or(*delimiterFlag, delimiter, ",")
	runes := []rune(delimiter)
	if len(runes) != 1 {
		return cfg, fmt.Errorf("csv delimiter must be one character, got %q", delimiter)
	}
	cfg.CSVDelimiter = runes[0]

	cfg.NullLiterals = *nullFlag
	if len(cfg.NullLiterals) == 0 {
		found := false
		for literals, err := range All[[]string](loader, "null_literals") {
			if err != nil {
				return cfg, wrap(err)
			}
			cfg.NullLiterals = append(cfg.NullLiterals, literals...)
			found = true
		}
		if !found {
			cfg.NullLiterals = DefaultNullLiterals
		}
	}

	return cfg, nil
}

func (Module) Config(
	loader Loader,
) Config {
	cfg, err := Load(loader)
	if err != nil {
		panic(err)
	}
	return cfg
}
