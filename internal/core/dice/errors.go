package dice

import "fmt"

// ParseErrorKind classifies parse failures.
type ParseErrorKind int

const (
	// UnexpectedToken marks a character or token that has no place in the
	// grammar.
	UnexpectedToken ParseErrorKind = iota
	// UnbalancedParens marks a missing closing parenthesis or a stray
	// closing one.
	UnbalancedParens
	// EmptyExpression marks input with no tokens at all.
	EmptyExpression
	// InvalidNumber marks a malformed numeric literal, such as "1.2.3".
	InvalidNumber
)

func (k ParseErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected token"
	case UnbalancedParens:
		return "unbalanced parentheses"
	case EmptyExpression:
		return "empty expression"
	case InvalidNumber:
		return "invalid number"
	default:
		return "unknown parse error"
	}
}

// ParseError reports malformed input. Nothing is evaluated when parsing
// fails.
type ParseError struct {
	Kind ParseErrorKind
	// Pos is the byte offset of the offending token in the expression.
	Pos int
	// Text is the offending token text, when there is one.
	Text string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case EmptyExpression:
		return "empty expression"
	case UnbalancedParens:
		return fmt.Sprintf("unbalanced parentheses at position %d", e.Pos)
	case InvalidNumber:
		return fmt.Sprintf("invalid number %q at position %d", e.Text, e.Pos)
	default:
		return fmt.Sprintf("unexpected token %q at position %d", e.Text, e.Pos)
	}
}

// EvalErrorKind classifies evaluation failures.
type EvalErrorKind int

const (
	// DivisionByZero marks a division whose resolved right operand is zero.
	DivisionByZero EvalErrorKind = iota
)

// EvalError reports a failure during tree reduction. Steps holds the
// reduction log accumulated before the failure so callers can show the user
// where the computation stopped.
type EvalError struct {
	Kind  EvalErrorKind
	Steps []string
}

func (e *EvalError) Error() string {
	switch e.Kind {
	case DivisionByZero:
		return "division by zero"
	default:
		return "evaluation error"
	}
}
