package syntax

import (
	"fmt"

	"github.com/reusee/tnl/tokens"
)

type SyntaxError struct {
	Pos      tokens.Pos
	Expected string
	Found    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: expected %s, found %s", e.Pos, e.Expected, e.Found)
}

func (e *SyntaxError) Position() tokens.Pos {
	return e.Pos
}

func describe(tok *tokens.Token) string {
	switch tok.Kind {
	case tokens.TokenEOF:
		return "end of input"
	case tokens.TokenString:
		return fmt.Sprintf("string %q", tok.Text)
	}
	return fmt.Sprintf("%s %q", tok.Kind, tok.Text)
}
