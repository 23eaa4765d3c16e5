package syntax

import (
	"strconv"

	"github.com/reusee/tnl/tokens"
	"github.com/reusee/tnl/values"
)

type Parser struct {
	stream tokens.TokenStream
	curr   *tokens.Token
}

// Parse pulls tokens from stream on demand and returns the program, or the
// first lexical or syntax error.
func Parse(stream tokens.TokenStream) (*Program, error) {
	p := &Parser{
		stream: stream,
	}
	tok, err := stream.Current()
	if err != nil {
		return nil, err
	}
	p.curr = tok
	return p.parseProgram()
}

func ParseSource(src *tokens.Source) (*Program, error) {
	return Parse(tokens.NewTokenizer(src))
}

func (p *Parser) advance() error {
	p.stream.Consume()
	tok, err := p.stream.Current()
	if err != nil {
		return err
	}
	p.curr = tok
	return nil
}

func (p *Parser) errorf(expected string) error {
	return &SyntaxError{
		Pos:      p.curr.Pos,
		Expected: expected,
		Found:    describe(p.curr),
	}
}

func (p *Parser) expect(text string) (tokens.Pos, error) {
	pos := p.curr.Pos
	if !p.curr.Is(text) {
		return pos, p.errorf(strconv.Quote(text))
	}
	return pos, p.advance()
}

func (p *Parser) parseProgram() (*Program, error) {
	prog := new(Program)
	for p.curr.Kind != tokens.TokenEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
		if p.curr.Is(";") {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	return prog, nil
}

func (p *Parser) parseStatement() (Stmt, error) {
	if p.curr.Kind != tokens.TokenKeyword {
		return nil, p.errorf("statement")
	}
	pos := p.curr.Pos
	switch p.curr.Text {

	case "filter":
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect("("); err != nil {
			return nil, err
		}
		pred, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		return &Filter{
			Pos:       pos,
			Predicate: pred,
		}, nil

	case "select":
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect("("); err != nil {
			return nil, err
		}
		stmt := &Select{
			Pos: pos,
		}
		for {
			item, err := p.parseSelectItem()
			if err != nil {
				return nil, err
			}
			stmt.Items = append(stmt.Items, item)
			if !p.curr.Is(",") {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		return stmt, nil

	case "let":
		return p.parseLet(pos)

	}
	return nil, p.errorf("statement")
}

func (p *Parser) parseSelectItem() (*SelectItem, error) {
	expr, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	item := &SelectItem{
		Expr: expr,
	}
	if p.curr.Is("as") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.curr.Kind != tokens.TokenIdentifier {
			return nil, p.errorf("column alias")
		}
		item.Alias = p.curr.Text
		item.AliasPos = p.curr.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return item, nil
}

func (p *Parser) parseLet(pos tokens.Pos) (*Let, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.curr.Kind != tokens.TokenIdentifier {
		return nil, p.errorf("binding name")
	}
	stmt := &Let{
		Pos:      pos,
		Name:     p.curr.Text,
		Declared: values.TypeUnknown,
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.curr.Is(":") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		t, ok := values.ParseType(p.curr.Text)
		if p.curr.Kind != tokens.TokenIdentifier || !ok {
			return nil, p.errorf("type name")
		}
		stmt.Declared = t
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect("="); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	stmt.Expr = expr
	return stmt, nil
}

// parseExpr is a precedence climbing loop; all binary operators are left associative.
func (p *Parser) parseExpr(minPrec int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.curr.Kind == tokens.TokenOperator {
		prec, ok := binaryPrecedence[p.curr.Text]
		if !ok || prec <= minPrec {
			break
		}
		op := p.curr.Text
		pos := p.curr.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseExpr(prec)
		if err != nil {
			return nil, err
		}
		left = &Binary{
			Pos:   pos,
			Op:    op,
			Left:  left,
			Right: right,
		}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Expr, error) {
	if p.curr.Is("-") || p.curr.Is("!") {
		op := p.curr.Text
		pos := p.curr.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{
			Pos:     pos,
			Op:      op,
			Operand: operand,
		}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.curr
	switch tok.Kind {

	case tokens.TokenInt:
		i, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, p.errorf("integer literal within 64 bits")
		}
		return p.literal(values.Int(i))

	case tokens.TokenFloat:
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.errorf("float literal")
		}
		return p.literal(values.Float(f))

	case tokens.TokenString:
		return p.literal(values.Str(tok.Text))

	case tokens.TokenKeyword:
		switch tok.Text {
		case "true":
			return p.literal(values.Bool(true))
		case "false":
			return p.literal(values.Bool(false))
		case "null":
			return p.literal(values.Null)
		}

	case tokens.TokenIdentifier:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.curr.Is("(") {
			return p.parseCall(tok)
		}
		return &Ident{
			Pos:  tok.Pos,
			Name: tok.Text,
		}, nil

	case tokens.TokenPunct:
		if tok.Text == "(" {
			if err := p.advance(); err != nil {
				return nil, err
			}
			expr, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(")"); err != nil {
				return nil, err
			}
			return expr, nil
		}

	}
	return nil, p.errorf("expression")
}

func (p *Parser) literal(v values.Value) (Expr, error) {
	lit := &Literal{
		Pos:   p.curr.Pos,
		Value: v,
	}
	return lit, p.advance()
}

func (p *Parser) parseCall(name *tokens.Token) (Expr, error) {
	if err := p.advance(); err != nil { // (
		return nil, err
	}
	var args []Expr
	if !p.curr.Is(")") {
		for {
			arg, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.curr.Is(",") {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}

	if IsAggregate(name.Text) {
		if len(args) != 1 {
			return nil, &SyntaxError{
				Pos:      name.Pos,
				Expected: "exactly one argument to " + name.Text,
				Found:    strconv.Itoa(len(args)) + " arguments",
			}
		}
		return &Aggregate{
			Pos:     name.Pos,
			Op:      name.Text,
			Operand: args[0],
		}, nil
	}

	return &Call{
		Pos:  name.Pos,
		Name: name.Text,
		Args: args,
	}, nil
}
