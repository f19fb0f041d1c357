package formula

// Node is a parsed expression tree node. The grammar is deliberately closed:
// arithmetic, decimal literals, bracketed variable references, and the five
// named functions. Nothing else parses, so untrusted formula strings can never
// execute host code.
type Node interface {
	node()
}

// NumberLit is a decimal literal.
type NumberLit struct {
	Value float64
}

// VarRef is a bracket-delimited variable reference, stored normalized.
type VarRef struct {
	Name string
}

// BinaryExpr is one of + - * /.
type BinaryExpr struct {
	Op    rune
	Left  Node
	Right Node
}

// UnaryExpr is a leading + or -.
type UnaryExpr struct {
	Op      rune
	Operand Node
}

// FuncName identifies one of the supported formula functions.
type FuncName string

const (
	FuncRoundUp   FuncName = "ROUNDUP"
	FuncRoundDown FuncName = "ROUNDDOWN"
	FuncRound     FuncName = "ROUND"
	FuncMax       FuncName = "MAX"
	FuncMin       FuncName = "MIN"
)

// CallExpr is a function application.
type CallExpr struct {
	Func FuncName
	Args []Node
}

func (*NumberLit) node()  {}
func (*VarRef) node()     {}
func (*BinaryExpr) node() {}
func (*UnaryExpr) node()  {}
func (*CallExpr) node()   {}

// Variables returns the distinct normalized variable names referenced by the
// expression, in first-appearance order. Used by catalog validation to detect
// out-of-order component references.
func Variables(n Node) []string {
	seen := make(map[string]bool)
	var names []string
	var walk func(Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case *VarRef:
			if !seen[v.Name] {
				seen[v.Name] = true
				names = append(names, v.Name)
			}
		case *BinaryExpr:
			walk(v.Left)
			walk(v.Right)
		case *UnaryExpr:
			walk(v.Operand)
		case *CallExpr:
			for _, arg := range v.Args {
				walk(arg)
			}
		}
	}
	walk(n)
	return names
}
