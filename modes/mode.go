package modes

import "fmt"

type Mode uint8

const (
	ModeProduction Mode = iota + 1
	ModeDevelopment
	ModeTest
)

func (m Mode) String() string {
	switch m {
	case ModeProduction:
		return "production"
	case ModeDevelopment:
		return "development"
	case ModeTest:
		return "test"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// Interactive reports whether the mode may block on a terminal.
func (m Mode) Interactive() bool {
	return m != ModeTest
}
