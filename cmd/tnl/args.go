package main

import (
	"github.com/reusee/tnl/cmds"
	"github.com/reusee/tnl/phases"
	"github.com/samber/lo"
)

type action uint8

const (
	actionNone action = iota
	actionRun
	actionEval
	actionRepl
)

var (
	todo        action
	programPath string
	programText string
	tablePath   string
	pgConn      string
	pgQuery     string

	dev          = cmds.Switch("-dev", "debug logging with source locations")
	inspect      = cmds.Switch("-inspect", "inspect the final state in a starlark shell")
	outputFormat = cmds.Var[phases.OutputFormat]("-output", "result format: text, csv or json")
)

func init() {
	cmds.Define("run", cmds.Func(func(program string, table *string) {
		todo = actionRun
		programPath = program
		tablePath = lo.FromPtr(table)
	}).Desc("run a program file against a table file; - reads the program from stdin"))

	cmds.Define("eval", cmds.Func(func(program string, table *string) {
		todo = actionEval
		programText = program
		tablePath = lo.FromPtr(table)
	}).Desc("run program text against a table file"))

	cmds.Define("repl", cmds.Func(func(table *string) {
		todo = actionRepl
		tablePath = lo.FromPtr(table)
	}).Desc("read programs interactively"))

	cmds.Define("pg", cmds.Func(func(conn string, query string) {
		pgConn = conn
		pgQuery = query
	}).Desc("use the rows of a Postgres query as the table"))
}
