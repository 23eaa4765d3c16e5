package tokens

import "fmt"

type Token struct {
	Kind TokenKind
	Text string
	Pos  Pos
}

func (t *Token) String() string {
	return fmt.Sprintf("%-10s %-12q %s", t.Kind, t.Text, t.Pos)
}

// Is reports whether the token is an operator, punctuation or keyword spelled text.
func (t *Token) Is(text string) bool {
	switch t.Kind {
	case TokenOperator, TokenPunct, TokenKeyword:
		return t.Text == text
	}
	return false
}

type TokenKind uint8

const (
	TokenInvalid TokenKind = iota
	TokenEOF
	TokenIdentifier
	TokenKeyword
	TokenInt
	TokenFloat
	TokenString
	TokenOperator
	TokenPunct
)

func (k TokenKind) String() string {
	switch k {
	case TokenInvalid:
		return "invalid"
	case TokenEOF:
		return "eof"
	case TokenIdentifier:
		return "identifier"
	case TokenKeyword:
		return "keyword"
	case TokenInt:
		return "int"
	case TokenFloat:
		return "float"
	case TokenString:
		return "string"
	case TokenOperator:
		return "operator"
	case TokenPunct:
		return "punct"
	}
	return fmt.Sprintf("TokenKind(%d)", uint8(k))
}

var keywords = map[string]bool{
	"filter": true,
	"select": true,
	"let":    true,
	"as":     true,
	"true":   true,
	"false":  true,
	"null":   true,
	"and":    true,
	"or":     true,
	"not":    true,
}

// word operators are normalized to their symbolic spelling
var wordOperators = map[string]string{
	"and": "&&",
	"or":  "||",
	"not": "!",
}

func IsKeyword(s string) bool {
	return keywords[s]
}
