package dice

import (
	"errors"
	"fmt"
	"strconv"
	"testing"
)

// exprString renders a tree as a fully parenthesized expression for
// structural assertions.
func exprString(n Node) string {
	switch node := n.(type) {
	case *Literal:
		return strconv.FormatFloat(node.Value, 'g', -1, 64)
	case *BinaryExpr:
		return fmt.Sprintf("(%s%s%s)", exprString(node.Left), node.Op, exprString(node.Right))
	default:
		return "?"
	}
}

func TestParsePrecedenceAndAssociativity(t *testing.T) {
	tcs := []struct {
		input string
		want  string
	}{
		{"2+3*4", "(2+(3*4))"},
		{"2*3+4", "((2*3)+4)"},
		{"2-3-4", "((2-3)-4)"},
		{"12/3/2", "((12/3)/2)"},
		{"2d6+1", "((2d6)+1)"},
		{"2*3d4", "(2*(3d4))"},
		{"2d3d4", "((2d3)d4)"},
		{"(2+3)*4", "((2+3)*4)"},
		{"2D6", "(2d6)"},
		{"d6", "(1d6)"},
		{"d6+d4", "((1d6)+(1d4))"},
		{"2.5d6", "(2.5d6)"},
		{" 2 + 3 ", "(2+3)"},
	}
	for _, tc := range tcs {
		root, err := Parse(tc.input)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tc.input, err)
		}
		if got := exprString(root); got != tc.want {
			t.Fatalf("Parse(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestParseUnaryMinusFoldsToSubtraction(t *testing.T) {
	tcs := []struct {
		input string
		want  string
	}{
		{"-2", "(0-2)"},
		{"-2*3", "(0-(2*3))"},
		{"-2d6", "(0-(2d6))"},
		{"-2+3", "((0-2)+3)"},
		{"2*-3", "(2*(0-3))"},
		{"2d-4", "(2d(0-4))"},
		{"(-3)d6", "((0-3)d6)"},
		{"2+-3", "(2+(0-3))"},
		{"(-2)*3", "((0-2)*3)"},
	}
	for _, tc := range tcs {
		root, err := Parse(tc.input)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tc.input, err)
		}
		if got := exprString(root); got != tc.want {
			t.Fatalf("Parse(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestParseEmptyExpression(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		_, err := Parse(input)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("Parse(%q) error = %v, want ParseError", input, err)
		}
		if perr.Kind != EmptyExpression {
			t.Fatalf("Parse(%q) kind = %v, want %v", input, perr.Kind, EmptyExpression)
		}
	}
}

func TestParseUnbalancedParens(t *testing.T) {
	for _, input := range []string{"(2 + 3", "((1+2)", "2)", "(2+3))"} {
		_, err := Parse(input)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("Parse(%q) error = %v, want ParseError", input, err)
		}
		if perr.Kind != UnbalancedParens {
			t.Fatalf("Parse(%q) kind = %v, want %v", input, perr.Kind, UnbalancedParens)
		}
	}
}

func TestParseInvalidNumber(t *testing.T) {
	_, err := Parse("1.2.3 + 4")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse error = %v, want ParseError", err)
	}
	if perr.Kind != InvalidNumber {
		t.Fatalf("kind = %v, want %v", perr.Kind, InvalidNumber)
	}
	if perr.Text != "1.2.3" {
		t.Fatalf("offending text = %q, want %q", perr.Text, "1.2.3")
	}
	if perr.Pos != 0 {
		t.Fatalf("position = %d, want 0", perr.Pos)
	}
}

func TestParseUnexpectedToken(t *testing.T) {
	tcs := []struct {
		input string
		pos   int
		text  string
	}{
		{"2 $ 3", 2, "$"},
		{"2 + ", 3, ""},
		{"2 3", 2, "3"},
		{"*2", 0, "*"},
	}
	for _, tc := range tcs {
		_, err := Parse(tc.input)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("Parse(%q) error = %v, want ParseError", tc.input, err)
		}
		if perr.Kind != UnexpectedToken {
			t.Fatalf("Parse(%q) kind = %v, want %v", tc.input, perr.Kind, UnexpectedToken)
		}
		if perr.Pos != tc.pos || perr.Text != tc.text {
			t.Fatalf("Parse(%q) = %q at %d, want %q at %d",
				tc.input, perr.Text, perr.Pos, tc.text, tc.pos)
		}
	}
}

func TestParseErrorMessages(t *testing.T) {
	_, err := Parse("(2 + 3")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "unbalanced parentheses at position 0" {
		t.Fatalf("unexpected message: %q", got)
	}
}
