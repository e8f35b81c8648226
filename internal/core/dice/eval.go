package dice

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// number is a resolved value plus whether it is still on the integer path.
type number struct {
	value    float64
	integral bool
}

func (n number) String() string {
	if n.integral {
		return strconv.FormatInt(int64(n.value), 10)
	}
	return strconv.FormatFloat(n.value, 'g', -1, 64)
}

// DisplayValue formats the final value for presentation, without a decimal
// part when the evaluation stayed on integers.
func (r Result) DisplayValue() string {
	return number{value: r.Value, integral: r.Integral}.String()
}

// evaluator reduces a tree bottom-up, logging one step per reduction.
type evaluator struct {
	src   Source
	steps []string
}

func (e *evaluator) logf(format string, args ...any) {
	e.steps = append(e.steps, fmt.Sprintf(format, args...))
}

func (e *evaluator) eval(node Node) (number, error) {
	switch n := node.(type) {
	case *Literal:
		return number{value: n.Value, integral: n.Value == math.Trunc(n.Value)}, nil
	case *BinaryExpr:
		left, err := e.eval(n.Left)
		if err != nil {
			return number{}, err
		}
		right, err := e.eval(n.Right)
		if err != nil {
			return number{}, err
		}
		if n.Op == OpRoll {
			return e.reduceRoll(left, right), nil
		}
		return e.reduceArithmetic(n.Op, left, right)
	default:
		panic("dice: unhandled node type")
	}
}

func (e *evaluator) reduceArithmetic(op Op, left, right number) (number, error) {
	var result number
	switch op {
	case OpAdd:
		result = number{value: left.value + right.value, integral: left.integral && right.integral}
	case OpSubtract:
		result = number{value: left.value - right.value, integral: left.integral && right.integral}
	case OpMultiply:
		result = number{value: left.value * right.value, integral: left.integral && right.integral}
	case OpDivide:
		if right.value == 0 {
			return number{}, &EvalError{Kind: DivisionByZero, Steps: e.steps}
		}
		quotient := left.value / right.value
		result = number{
			value:    quotient,
			integral: left.integral && right.integral && quotient == math.Trunc(quotient),
		}
	}
	e.logf("%s%s%s=%s", left, op, right, result)
	return result, nil
}

// reduceRoll resolves both operands to integers, rounding toward positive
// infinity, then draws count dice with the requested number of sides.
//
// A negative count rolls the absolute number of dice and negates the sum.
// Negative sides draw uniformly from [sides, -1]. A zero count or zero sides
// short-circuits to zero without consuming the random source.
func (e *evaluator) reduceRoll(left, right number) number {
	count := e.roundUp(left)
	sides := e.roundUp(right)

	invert := false
	if count < 0 {
		invert = true
		count = -count
	}

	var total int64
	var draws []int64
	if sides != 0 {
		for i := int64(0); i < count; i++ {
			var v int64
			if sides > 0 {
				v = e.src.IntInRange(1, sides)
			} else {
				v = e.src.IntInRange(sides, -1)
			}
			draws = append(draws, v)
			total += v
		}
	}

	if len(draws) == 0 {
		e.logf("%dd%d=0", count, sides)
	} else {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%dd%d=%d(", count, sides, total)
		for i, v := range draws {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "🎲%d", v)
		}
		sb.WriteByte(')')
		e.steps = append(e.steps, sb.String())
	}

	if invert {
		e.logf("-(%d)=%d", total, -total)
		total = -total
	}
	return number{value: float64(total), integral: true}
}

// roundUp resolves a roll operand to an integer, rounding toward positive
// infinity and logging the rounding whenever it changes the value.
func (e *evaluator) roundUp(n number) int64 {
	c := math.Ceil(n.value)
	if c != n.value {
		e.logf("ceil(%s)=%d", n, int64(c))
	}
	return int64(c)
}
