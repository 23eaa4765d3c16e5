package tokens

import (
	"errors"
	"strings"
	"testing"
)

func TestTokenizer(t *testing.T) {
	type TokenInfo struct {
		Kind TokenKind
		Text string
	}

	tests := []struct {
		input  string
		tokens []TokenInfo
	}{
		{
			input: "filter(age >= 18)",
			tokens: []TokenInfo{
				{TokenKeyword, "filter"},
				{TokenPunct, "("},
				{TokenIdentifier, "age"},
				{TokenOperator, ">="},
				{TokenInt, "18"},
				{TokenPunct, ")"},
			},
		},
		{
			input: "  foo_1   _bar  ",
			tokens: []TokenInfo{
				{TokenIdentifier, "foo_1"},
				{TokenIdentifier, "_bar"},
			},
		},
		{
			input: "123 45.67 .5 1e3 2.5E-2",
			tokens: []TokenInfo{
				{TokenInt, "123"},
				{TokenFloat, "45.67"},
				{TokenFloat, ".5"},
				{TokenFloat, "1e3"},
				{TokenFloat, "2.5E-2"},
			},
		},
		{
			input: `'str1' "str2" 'it\'s' "a\tb"`,
			tokens: []TokenInfo{
				{TokenString, "str1"},
				{TokenString, "str2"},
				{TokenString, "it's"},
				{TokenString, "a\tb"},
			},
		},
		{
			input: "+-*/% == != < <= > >= && || ! =",
			tokens: []TokenInfo{
				{TokenOperator, "+"},
				{TokenOperator, "-"},
				{TokenOperator, "*"},
				{TokenOperator, "/"},
				{TokenOperator, "%"},
				{TokenOperator, "=="},
				{TokenOperator, "!="},
				{TokenOperator, "<"},
				{TokenOperator, "<="},
				{TokenOperator, ">"},
				{TokenOperator, ">="},
				{TokenOperator, "&&"},
				{TokenOperator, "||"},
				{TokenOperator, "!"},
				{TokenOperator, "="},
			},
		},
		{
			input: "a and not b or c",
			tokens: []TokenInfo{
				{TokenIdentifier, "a"},
				{TokenOperator, "&&"},
				{TokenOperator, "!"},
				{TokenIdentifier, "b"},
				{TokenOperator, "||"},
				{TokenIdentifier, "c"},
			},
		},
		{
			input: "a # comment\n// another\nb;",
			tokens: []TokenInfo{
				{TokenIdentifier, "a"},
				{TokenIdentifier, "b"},
				{TokenPunct, ";"},
			},
		},
		{
			input: "x/y",
			tokens: []TokenInfo{
				{TokenIdentifier, "x"},
				{TokenOperator, "/"},
				{TokenIdentifier, "y"},
			},
		},
	}

	for _, test := range tests {
		toks, err := Tokenize(NewSource("test", test.input))
		if err != nil {
			t.Fatalf("%q: %v", test.input, err)
		}
		if toks[len(toks)-1].Kind != TokenEOF {
			t.Fatalf("%q: missing eof", test.input)
		}
		toks = toks[:len(toks)-1]
		if len(toks) != len(test.tokens) {
			t.Fatalf("%q: got %v tokens", test.input, toks)
		}
		for i, tok := range toks {
			if tok.Kind != test.tokens[i].Kind || tok.Text != test.tokens[i].Text {
				t.Fatalf("%q: token %d: got %v %q", test.input, i, tok.Kind, tok.Text)
			}
		}
	}
}

func TestTokenizerPos(t *testing.T) {
	toks, err := Tokenize(NewSource("test", "a\n  bb"))
	if err != nil {
		t.Fatal(err)
	}
	if p := toks[0].Pos; p.Line != 1 || p.Column != 1 {
		t.Fatalf("got %v", p)
	}
	if p := toks[1].Pos; p.Line != 2 || p.Column != 3 || p.Offset != 4 {
		t.Fatalf("got %+v", p)
	}
}

func TestTokenizerLazy(t *testing.T) {
	tokenizer := NewTokenizer(NewSource("test", "a $"))
	tok, err := tokenizer.Current()
	if err != nil {
		t.Fatal(err)
	}
	if tok.Text != "a" {
		t.Fatalf("got %v", tok)
	}
	// calling Current again does not advance
	tok, _ = tokenizer.Current()
	if tok.Text != "a" {
		t.Fatalf("got %v", tok)
	}
	tokenizer.Consume()
	_, err = tokenizer.Current()
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("got %v", err)
	}
	if lexErr.Char != '$' || lexErr.Pos.Column != 3 {
		t.Fatalf("got %+v", lexErr)
	}
}

func TestTokenizerErrors(t *testing.T) {
	_, err := Tokenize(NewSource("test", "'abc"))
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("got %v", err)
	}
	if !strings.Contains(lexErr.Error(), "unterminated") {
		t.Fatalf("got %v", lexErr)
	}

	_, err = Tokenize(NewSource("test", "a . b"))
	if !errors.As(err, &lexErr) || lexErr.Char != '.' {
		t.Fatalf("got %v", err)
	}

	// only ASCII digits make numbers
	for _, src := range []string{"\u0661", "1\u0662", "x > \u0663\u0664"} {
		_, err = Tokenize(NewSource("test", src))
		if !errors.As(err, &lexErr) || lexErr.Char < 0x0660 || lexErr.Char > 0x0669 {
			t.Fatalf("%q: got %v", src, err)
		}
	}
}

func TestTokenizerCollectErrors(t *testing.T) {
	toks, err := Tokenize(NewSource("test", "a @ b $ c"), CollectErrors())
	var errs LexErrors
	if !errors.As(err, &errs) {
		t.Fatalf("got %v", err)
	}
	if len(errs) != 2 {
		t.Fatalf("got %v", errs)
	}
	if errs[0].Char != '@' || errs[1].Char != '$' {
		t.Fatalf("got %v", errs)
	}
	var texts []string
	for _, tok := range toks {
		texts = append(texts, tok.Text)
	}
	if s := strings.Join(texts, ","); s != "a,b,c," {
		t.Fatalf("got %s", s)
	}
}

func TestCaret(t *testing.T) {
	src := NewSource("test", "filter(x)\nselect($)")
	_, err := Tokenize(src)
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatal()
	}
	if s := Caret(lexErr.Pos); s != "select($)\n       ^\n" {
		t.Fatalf("got %q", s)
	}
}
