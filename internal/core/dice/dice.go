// Package dice evaluates dice-roll expressions such as "2d6+3" or
// "(2+3)d10/2".
//
// The expression language supports the binary roll operator d (case
// insensitive), the four arithmetic operators, and parenthesized grouping.
// Operators associate left to right; d binds tighter than * and /, which
// bind tighter than + and -. A bare "d6" rolls a single die. Evaluation
// produces both a final value and an ordered, human-readable log of every
// reduction step, suitable for echoing back to the requesting user.
//
// Randomness is injected through the Source interface so callers control
// determinism. Evaluation itself is stateless; concurrent calls are safe as
// long as each call gets its own Source.
package dice

import "math/rand"

// Source supplies uniform random integers for die rolls.
//
// IntInRange returns a value in [lo, hi], both bounds inclusive. It is only
// ever called with lo <= hi.
type Source interface {
	IntInRange(lo, hi int64) int64
}

// RandSource adapts math/rand to the Source interface.
//
// RandSource is deterministic with respect to its seed: the same seed and
// the same expression always produce the same result and step log.
type RandSource struct {
	rng *rand.Rand
}

// NewRandSource returns a Source seeded with the provided value.
func NewRandSource(seed int64) *RandSource {
	return &RandSource{rng: rand.New(rand.NewSource(seed))}
}

// IntInRange returns a uniform random value in [lo, hi].
func (s *RandSource) IntInRange(lo, hi int64) int64 {
	return lo + s.rng.Int63n(hi-lo+1)
}

// Result carries the final value of an evaluated expression along with the
// ordered log of reduction steps that produced it.
type Result struct {
	// Value is the final numeric value.
	Value float64

	// Integral reports whether every operation stayed on integers. A
	// division with a non-integral quotient switches the rest of the
	// evaluation to real arithmetic; roll results are always integers.
	Integral bool

	// Steps lists one line per reduction, in evaluation order.
	Steps []string
}

// Evaluate parses and evaluates a dice expression.
//
// On a parse failure the returned error is a *ParseError and nothing was
// evaluated. On an evaluation failure the returned error is a *EvalError
// carrying the steps logged before the failure. Errors never come with a
// usable value.
func Evaluate(expression string, src Source) (Result, error) {
	root, err := Parse(expression)
	if err != nil {
		return Result{}, err
	}
	return EvaluateTree(root, src)
}

// EvaluateTree evaluates an already parsed expression tree.
//
// The tree is not mutated; re-evaluating the same tree with an identically
// scripted Source reproduces the same result and steps.
func EvaluateTree(root Node, src Source) (Result, error) {
	e := &evaluator{src: src}
	value, err := e.eval(root)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: value.value, Integral: value.integral, Steps: e.steps}, nil
}
