package modes

import (
	"testing"

	"github.com/reusee/dscope"
)

type ModuleForProduction struct {
	dscope.Module
	development bool
}

func ForProduction() ModuleForProduction {
	return ModuleForProduction{}
}

// ForDevelopment is the production wiring with development diagnostics.
func ForDevelopment() ModuleForProduction {
	return ModuleForProduction{
		development: true,
	}
}

func (ModuleForProduction) T() *testing.T {
	return nil
}

func (m ModuleForProduction) Mode() Mode {
	if m.development {
		return ModeDevelopment
	}
	return ModeProduction
}
