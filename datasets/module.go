package datasets

import (
	"context"
	"fmt"
	"os"

	"github.com/reusee/dscope"
	"github.com/reusee/e5"
	"github.com/reusee/tnl/configs"
	"github.com/reusee/tnl/logs"
	"github.com/reusee/tnl/values"
)

type Module struct {
	dscope.Module
}

var wrap = e5.Wrap.With(e5.WrapStacktrace)

// Load reads a table file. The format comes from the config, or is sniffed
// from the content when it is auto.
type Load func(ctx context.Context, path string) (*values.Table, error)

func (Module) Load(
	cfg configs.Config,
	logger logs.Logger,
) Load {
	return func(ctx context.Context, path string) (*values.Table, error) {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, wrap(err)
		}

		format := cfg.TableFormat
		if format == configs.FormatAuto || format == "" {
			format = Sniff(path, content)
		}
		logger.DebugContext(ctx, "load table",
			"path", path,
			"format", format,
			"bytes", len(content),
		)

		var table *values.Table
		switch format {
		case configs.FormatCSV:
			table, err = ReadCSV(content, CSVOptions{
				Delimiter:    cfg.CSVDelimiter,
				NullLiterals: cfg.NullLiterals,
			})
		case configs.FormatJSON:
			table, err = ReadJSON(content)
		default:
			return nil, fmt.Errorf("unknown table format: %s", format)
		}
		if err != nil {
			return nil, wrap(fmt.Errorf("load %s: %w", path, err))
		}

		logger.DebugContext(ctx, "table loaded",
			"path", path,
			"schema", table.Fields.String(),
			"rows", table.Rows(),
		)
		return table, nil
	}
}

// QueryTable runs a query on a Postgres database.
type QueryTable func(ctx context.Context, connString string, query string) (*values.Table, error)

func (Module) QueryTable(
	logger logs.Logger,
) QueryTable {
	return func(ctx context.Context, connString string, query string) (*values.Table, error) {
		logger.DebugContext(ctx, "query table", "query", query)
		table, err := QueryPostgres(ctx, connString, query)
		if err != nil {
			return nil, wrap(err)
		}
		return table, nil
	}
}
