package dice

// Op identifies a binary operator.
type Op int

const (
	OpAdd Op = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpRoll
)

func (op Op) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpRoll:
		return "d"
	default:
		return "?"
	}
}

// Node is a node in a parsed expression tree. Parents own their children
// exclusively; trees are never shared between evaluations in progress.
type Node interface {
	exprNode()
}

// Literal is a numeric leaf.
type Literal struct {
	Value float64
}

// BinaryExpr applies Op to the values of its two subtrees. Roll nodes are
// ordinary binary nodes; their evaluation draws from the random source.
type BinaryExpr struct {
	Op    Op
	Left  Node
	Right Node
}

func (*Literal) exprNode()    {}
func (*BinaryExpr) exprNode() {}
