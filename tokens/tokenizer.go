package tokens

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Tokenizer struct {
	source  *Source
	offset  int
	current *Token
	done    bool

	currPos Pos

	collect bool
	errors  []*LexError
}

type Option func(*Tokenizer)

// CollectErrors makes the tokenizer record lexical errors, skip the offending
// character and keep going instead of failing on the first one.
func CollectErrors() Option {
	return func(t *Tokenizer) {
		t.collect = true
	}
}

func NewTokenizer(source *Source, options ...Option) *Tokenizer {
	t := &Tokenizer{
		source: source,
		currPos: Pos{
			Source: source,
			Line:   1,
			Column: 1,
		},
	}
	for _, option := range options {
		option(t)
	}
	return t
}

var _ TokenStream = new(Tokenizer)

func (t *Tokenizer) Current() (*Token, error) {
	if t.current == nil {
		var err error
		t.current, err = t.parseNext()
		if err != nil {
			return nil, err
		}
	}
	return t.current, nil
}

func (t *Tokenizer) Consume() {
	if t.current != nil && t.current.Kind == TokenEOF {
		return
	}
	t.current = nil
}

// Errors returns the diagnostics recorded in collect mode.
func (t *Tokenizer) Errors() []*LexError {
	return t.errors
}

// All yields tokens up to and including EOF. It shares state with Current
// and Consume; the sequence is a single forward pass.
func (t *Tokenizer) All() iter.Seq2[*Token, error] {
	return func(yield func(*Token, error) bool) {
		for !t.done {
			tok, err := t.Current()
			if err != nil {
				t.done = true
				yield(nil, err)
				return
			}
			t.Consume()
			if tok.Kind == TokenEOF {
				t.done = true
			}
			if !yield(tok, nil) {
				return
			}
		}
	}
}

// Tokenize materializes the whole stream.
func Tokenize(source *Source, options ...Option) ([]*Token, error) {
	t := NewTokenizer(source, options...)
	var ret []*Token
	for tok, err := range t.All() {
		if err != nil {
			return nil, err
		}
		ret = append(ret, tok)
	}
	if len(t.errors) > 0 {
		return ret, LexErrors(t.errors)
	}
	return ret, nil
}

func (t *Tokenizer) peek(n int) rune {
	offset := t.offset
	for i := 0; ; i++ {
		if offset >= len(t.source.Content) {
			return 0
		}
		r, size := utf8.DecodeRuneInString(t.source.Content[offset:])
		if i == n {
			return r
		}
		offset += size
	}
}

func (t *Tokenizer) readRune() rune {
	if t.offset >= len(t.source.Content) {
		return 0
	}
	r, size := utf8.DecodeRuneInString(t.source.Content[t.offset:])
	t.offset += size
	t.currPos.Offset = t.offset
	if r == '\n' {
		t.currPos.Line++
		t.currPos.Column = 1
	} else {
		t.currPos.Column++
	}
	return r
}

func (t *Tokenizer) atEnd() bool {
	return t.offset >= len(t.source.Content)
}

func (t *Tokenizer) fail(err *LexError) (*Token, error) {
	if !t.collect {
		return nil, err
	}
	t.errors = append(t.errors, err)
	return t.parseNext()
}

func (t *Tokenizer) parseNext() (*Token, error) {
	t.skipWhitespaceAndComments()
	startPos := t.currPos

	if t.atEnd() {
		return &Token{Kind: TokenEOF, Pos: startPos}, nil
	}

	r := t.peek(0)
	switch {
	case r == '\'' || r == '"':
		return t.parseString(r, startPos)
	case isDigit(r) || r == '.' && isDigit(t.peek(1)):
		return t.parseNumber(startPos)
	case r == '_' || unicode.IsLetter(r):
		return t.parseIdentifier(startPos)
	}

	if op := t.matchOperator(); op != "" {
		kind := TokenOperator
		switch op {
		case "(", ")", ",", ";", ":":
			kind = TokenPunct
		}
		return &Token{
			Kind: kind,
			Text: op,
			Pos:  startPos,
		}, nil
	}

	t.readRune()
	return t.fail(&LexError{
		Pos:  startPos,
		Char: r,
	})
}

var operators = []string{
	// longest first
	"==", "!=", "<=", ">=", "&&", "||",
	"+", "-", "*", "/", "%", "<", ">", "!", "=",
	"(", ")", ",", ";", ":",
}

func (t *Tokenizer) matchOperator() string {
	rest := t.source.Content[t.offset:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			for range len(op) {
				t.readRune()
			}
			return op
		}
	}
	return ""
}

func (t *Tokenizer) skipWhitespaceAndComments() {
	for !t.atEnd() {
		r := t.peek(0)
		switch {
		case unicode.IsSpace(r):
			t.readRune()
		case r == '#', r == '/' && t.peek(1) == '/':
			t.skipComment()
		default:
			return
		}
	}
}

func (t *Tokenizer) skipComment() {
	for !t.atEnd() {
		if t.readRune() == '\n' {
			return
		}
	}
}

func (t *Tokenizer) parseIdentifier(startPos Pos) (*Token, error) {
	start := t.offset
	for !t.atEnd() {
		r := t.peek(0)
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		t.readRune()
	}
	text := t.source.Content[start:t.offset]
	if op, ok := wordOperators[text]; ok {
		return &Token{
			Kind: TokenOperator,
			Text: op,
			Pos:  startPos,
		}, nil
	}
	kind := TokenIdentifier
	if keywords[text] {
		kind = TokenKeyword
	}
	return &Token{
		Kind: kind,
		Text: text,
		Pos:  startPos,
	}, nil
}

func (t *Tokenizer) parseNumber(startPos Pos) (*Token, error) {
	start := t.offset
	kind := TokenInt
	t.readDigits()
	if t.peek(0) == '.' && isDigit(t.peek(1)) {
		kind = TokenFloat
		t.readRune()
		t.readDigits()
	}
	if e := t.peek(0); e == 'e' || e == 'E' {
		next := t.peek(1)
		if isDigit(next) ||
			(next == '+' || next == '-') && isDigit(t.peek(2)) {
			kind = TokenFloat
			t.readRune()
			if next == '+' || next == '-' {
				t.readRune()
			}
			t.readDigits()
		}
	}
	return &Token{
		Kind: kind,
		Text: t.source.Content[start:t.offset],
		Pos:  startPos,
	}, nil
}

// isDigit accepts ASCII digits only; other Unicode digits are not numbers.
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (t *Tokenizer) readDigits() {
	for isDigit(t.peek(0)) && !t.atEnd() {
		t.readRune()
	}
}

func (t *Tokenizer) parseString(quote rune, startPos Pos) (*Token, error) {
	t.readRune() // opening quote
	var buf strings.Builder
	for {
		if t.atEnd() {
			return t.fail(&LexError{
				Pos:    startPos,
				Char:   quote,
				Reason: "unterminated string literal",
			})
		}
		r := t.readRune()
		if r == quote {
			break
		}
		if r != '\\' {
			buf.WriteRune(r)
			continue
		}
		if t.atEnd() {
			continue
		}
		next := t.readRune()
		switch next {
		case 'n':
			buf.WriteRune('\n')
		case 'r':
			buf.WriteRune('\r')
		case 't':
			buf.WriteRune('\t')
		case '\\', '"', '\'':
			buf.WriteRune(next)
		default:
			buf.WriteRune('\\')
			buf.WriteRune(next)
		}
	}
	return &Token{
		Kind: TokenString,
		Text: buf.String(),
		Pos:  startPos,
	}, nil
}
