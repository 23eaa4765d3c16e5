package main

import (
	"github.com/reusee/dscope"
	"github.com/reusee/tnl/configs"
	"github.com/reusee/tnl/datasets"
	"github.com/reusee/tnl/phases"
)

type Module struct {
	dscope.Module
	Configs  configs.Module
	Phases   phases.Module
	Datasets datasets.Module
}
