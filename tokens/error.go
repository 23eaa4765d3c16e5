package tokens

import (
	"errors"
	"fmt"
	"strings"
)

type LexError struct {
	Pos    Pos
	Char   rune
	Reason string
}

func (e *LexError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("lex error at %s: %s", e.Pos, e.Reason)
	}
	return fmt.Sprintf("lex error at %s: unexpected character %q", e.Pos, e.Char)
}

// LexErrors is returned when the tokenizer collects all diagnostics.
type LexErrors []*LexError

func (l LexErrors) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

func (l LexErrors) Unwrap() []error {
	ret := make([]error, len(l))
	for i, e := range l {
		ret[i] = e
	}
	return ret
}

// Positioned is implemented by every stage error that points into the source.
type Positioned interface {
	error
	Position() Pos
}

func (e *LexError) Position() Pos {
	return e.Pos
}

type PosError struct {
	Err error
	Pos Pos
}

func (p PosError) Error() string {
	return fmt.Sprintf("%s at %s", p.Err.Error(), p.Pos)
}

func (p PosError) Unwrap() error {
	return p.Err
}

func (p PosError) Position() Pos {
	return p.Pos
}

func WithPos(err error, pos Pos) error {
	if err == nil {
		return nil
	}
	var positioned Positioned
	if errors.As(err, &positioned) {
		return err
	}
	return PosError{
		Err: err,
		Pos: pos,
	}
}

// Caret renders the source line of pos with a caret under the column.
func Caret(pos Pos) string {
	if pos.Source == nil {
		return ""
	}
	lines := pos.Source.Lines
	idx := pos.Line - 1
	if idx < 0 || idx >= len(lines) {
		return ""
	}

	var sb strings.Builder
	line := lines[idx]
	sb.WriteString(line)
	sb.WriteString("\n")
	col := pos.Column - 1
	for i, r := range []rune(line) {
		if i >= col {
			break
		}
		if r == '\t' {
			sb.WriteString("\t")
		} else {
			for range runeWidth(r) {
				sb.WriteString(" ")
			}
		}
	}
	sb.WriteString("^\n")
	return sb.String()
}

func runeWidth(r rune) int {
	if r == 0 {
		return 0
	}
	if r >= 0x1100 &&
		(r <= 0x115f || r == 0x2329 || r == 0x232a ||
			(r >= 0x2e80 && r <= 0xa4cf && r != 0x303f) ||
			(r >= 0xac00 && r <= 0xd7a3) ||
			(r >= 0xf900 && r <= 0xfaff) ||
			(r >= 0xfe10 && r <= 0xfe19) ||
			(r >= 0xfe30 && r <= 0xfe6f) ||
			(r >= 0xff00 && r <= 0xff60) ||
			(r >= 0xffe0 && r <= 0xffe6)) {
		return 2
	}
	return 1
}
