package modes

import (
	"testing"

	"github.com/reusee/dscope"
)

// ModuleForTest wires a scope to the test t. Loggers write to t.Output and
// the interactive tap stays closed.
type ModuleForTest struct {
	dscope.Module
	t *testing.T
}

func ForTest(t *testing.T) ModuleForTest {
	return ModuleForTest{t: t}
}

func (m ModuleForTest) T() *testing.T {
	return m.t
}

func (ModuleForTest) Mode() Mode {
	return ModeTest
}
