package dice

import (
	"strings"
	"unicode"
)

// TokenType identifies a lexical token.
type TokenType int

const (
	TokenNumber TokenType = iota
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenRoll
	TokenLeftParen
	TokenRightParen
)

// Token is a single lexical token with its position in the input.
type Token struct {
	Type TokenType
	Text string
	Pos  int
}

// tokenize splits an expression into tokens. Whitespace separates tokens and
// is otherwise ignored. The roll operator accepts both d and D.
func tokenize(input string) ([]Token, error) {
	var tokens []Token
	runes := []rune(input)
	pos := 0
	for pos < len(runes) {
		r := runes[pos]
		switch {
		case unicode.IsSpace(r):
			pos++
		case r >= '0' && r <= '9' || r == '.':
			start := pos
			dots := 0
			for pos < len(runes) && (runes[pos] >= '0' && runes[pos] <= '9' || runes[pos] == '.') {
				if runes[pos] == '.' {
					dots++
				}
				pos++
			}
			text := string(runes[start:pos])
			if dots > 1 || text == "." {
				return nil, &ParseError{Kind: InvalidNumber, Pos: start, Text: text}
			}
			tokens = append(tokens, Token{Type: TokenNumber, Text: text, Pos: start})
		case r == 'd' || r == 'D':
			tokens = append(tokens, Token{Type: TokenRoll, Text: string(r), Pos: pos})
			pos++
		case strings.ContainsRune("+-*/()", r):
			tokens = append(tokens, Token{Type: symbolType(r), Text: string(r), Pos: pos})
			pos++
		default:
			return nil, &ParseError{Kind: UnexpectedToken, Pos: pos, Text: string(r)}
		}
	}
	return tokens, nil
}

func symbolType(r rune) TokenType {
	switch r {
	case '+':
		return TokenPlus
	case '-':
		return TokenMinus
	case '*':
		return TokenStar
	case '/':
		return TokenSlash
	case '(':
		return TokenLeftParen
	default:
		return TokenRightParen
	}
}
