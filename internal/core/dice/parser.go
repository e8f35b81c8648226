package dice

import "strconv"

// Parse tokenizes and parses an expression into a tree.
//
// The grammar has four precedence tiers, loosest first: additive (+ -),
// multiplicative (* /), roll (d), primary (number or parenthesized
// expression). All operators associate left to right. A missing left operand
// on d defaults to 1. Unary minus is folded into a subtraction from zero so
// the tree only ever contains binary nodes: a minus where an expression
// begins binds the following multiplicative term, and a minus in a tight
// operand slot binds the following primary.
func Parse(expression string) (Node, error) {
	tokens, err := tokenize(expression)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, &ParseError{Kind: EmptyExpression}
	}
	last := tokens[len(tokens)-1]
	p := &parser{tokens: tokens, eof: last.Pos + len(last.Text)}
	root, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		if tok.Type == TokenRightParen {
			return nil, &ParseError{Kind: UnbalancedParens, Pos: tok.Pos, Text: tok.Text}
		}
		return nil, &ParseError{Kind: UnexpectedToken, Pos: tok.Pos, Text: tok.Text}
	}
	return root, nil
}

type parser struct {
	tokens []Token
	pos    int
	eof    int
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) match(t TokenType) bool {
	if tok, ok := p.peek(); ok && tok.Type == t {
		p.pos++
		return true
	}
	return false
}

func (p *parser) parseAdditive() (Node, error) {
	var left Node
	if p.match(TokenMinus) {
		// Leading minus negates the whole following term; folding it into
		// a subtraction from zero keeps it in the additive tier.
		term, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: OpSubtract, Left: &Literal{}, Right: term}
	} else {
		var err error
		left, err = p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
	}
	for {
		var op Op
		switch {
		case p.match(TokenPlus):
			op = OpAdd
		case p.match(TokenMinus):
			op = OpSubtract
		default:
			return left, nil
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseMultiplicative() (Node, error) {
	left, err := p.parseRoll()
	if err != nil {
		return nil, err
	}
	for {
		var op Op
		switch {
		case p.match(TokenStar):
			op = OpMultiply
		case p.match(TokenSlash):
			op = OpDivide
		default:
			return left, nil
		}
		right, err := p.parseRoll()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseRoll() (Node, error) {
	var left Node
	if tok, ok := p.peek(); ok && tok.Type == TokenRoll {
		// Bare "d6" rolls a single die.
		left = &Literal{Value: 1}
	} else {
		var err error
		left, err = p.parseUnary()
		if err != nil {
			return nil, err
		}
	}
	for p.match(TokenRoll) {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: OpRoll, Left: left, Right: right}
	}
	return left, nil
}

// parseUnary folds a minus in an operand slot (right of *, / or d) into a
// subtraction from zero around the following primary.
func (p *parser) parseUnary() (Node, error) {
	if p.match(TokenMinus) {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: OpSubtract, Left: &Literal{}, Right: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Node, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, &ParseError{Kind: UnexpectedToken, Pos: p.eof}
	}
	switch tok.Type {
	case TokenNumber:
		p.pos++
		value, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, &ParseError{Kind: InvalidNumber, Pos: tok.Pos, Text: tok.Text}
		}
		return &Literal{Value: value}, nil
	case TokenLeftParen:
		p.pos++
		inner, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		if !p.match(TokenRightParen) {
			return nil, &ParseError{Kind: UnbalancedParens, Pos: tok.Pos, Text: tok.Text}
		}
		return inner, nil
	default:
		return nil, &ParseError{Kind: UnexpectedToken, Pos: tok.Pos, Text: tok.Text}
	}
}
