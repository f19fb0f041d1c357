package formula

import (
	"fmt"
	"math"
	"sync"
)

// Evaluator compiles and evaluates formula strings against a calculation
// context. Evaluation is side-effect free and deterministic: the same
// (formula, context) pair always yields the same result. Compiled trees are
// cached by formula string; the cache is safe for concurrent calculations.
type Evaluator struct {
	cache map[string]Node
	mu    sync.RWMutex
}

// NewEvaluator creates a new formula evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{
		cache: make(map[string]Node),
	}
}

// Evaluate evaluates a formula against the context. A reference to a variable
// absent from the context does not fail the evaluation: the term evaluates to
// 0 and the variable name is returned in missing so callers can surface a
// diagnostic. A formula outside the grammar, or one that divides by zero,
// returns an error instead.
func (e *Evaluator) Evaluate(expression string, ctx Context) (value float64, missing []string, err error) {
	compiled, err := e.getOrCompile(expression)
	if err != nil {
		return 0, nil, err
	}

	ev := &evaluation{ctx: ctx, seen: make(map[string]bool)}
	value, err = ev.eval(compiled)
	if err != nil {
		return 0, ev.missing, fmt.Errorf("failed to evaluate formula %q: %w", expression, err)
	}
	return value, ev.missing, nil
}

// Validate checks if a formula parses within the supported grammar.
func (e *Evaluator) Validate(expression string) error {
	_, err := e.getOrCompile(expression)
	return err
}

// Variables returns the distinct variable names the formula references.
func (e *Evaluator) Variables(expression string) ([]string, error) {
	compiled, err := e.getOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return Variables(compiled), nil
}

func (e *Evaluator) getOrCompile(expression string) (Node, error) {
	e.mu.RLock()
	if compiled, ok := e.cache[expression]; ok {
		e.mu.RUnlock()
		return compiled, nil
	}
	e.mu.RUnlock()

	compiled, err := Parse(expression)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[expression] = compiled
	e.mu.Unlock()

	return compiled, nil
}

// ClearCache clears the compiled formula cache.
func (e *Evaluator) ClearCache() {
	e.mu.Lock()
	e.cache = make(map[string]Node)
	e.mu.Unlock()
}

type evaluation struct {
	ctx     Context
	missing []string
	seen    map[string]bool
}

func (ev *evaluation) eval(n Node) (float64, error) {
	switch v := n.(type) {
	case *NumberLit:
		return v.Value, nil

	case *VarRef:
		value, ok := ev.ctx.Lookup(v.Name)
		if !ok {
			// Leniency policy: missing variables evaluate to 0 and are
			// reported once per name so the caller can warn.
			if !ev.seen[v.Name] {
				ev.seen[v.Name] = true
				ev.missing = append(ev.missing, v.Name)
			}
			return 0, nil
		}
		return value, nil

	case *UnaryExpr:
		operand, err := ev.eval(v.Operand)
		if err != nil {
			return 0, err
		}
		if v.Op == '-' {
			return -operand, nil
		}
		return operand, nil

	case *BinaryExpr:
		left, err := ev.eval(v.Left)
		if err != nil {
			return 0, err
		}
		right, err := ev.eval(v.Right)
		if err != nil {
			return 0, err
		}
		switch v.Op {
		case '+':
			return left + right, nil
		case '-':
			return left - right, nil
		case '*':
			return left * right, nil
		case '/':
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			return left / right, nil
		default:
			return 0, fmt.Errorf("unsupported operator %q", string(v.Op))
		}

	case *CallExpr:
		args := make([]float64, len(v.Args))
		for i, argNode := range v.Args {
			arg, err := ev.eval(argNode)
			if err != nil {
				return 0, err
			}
			args[i] = arg
		}
		switch v.Func {
		case FuncRoundUp:
			return math.Ceil(args[0]), nil
		case FuncRoundDown:
			return math.Floor(args[0]), nil
		case FuncRound:
			return math.Round(args[0]), nil
		case FuncMax:
			return math.Max(args[0], args[1]), nil
		case FuncMin:
			return math.Min(args[0], args[1]), nil
		default:
			return 0, fmt.Errorf("unknown function %q", v.Func)
		}

	default:
		return 0, fmt.Errorf("unknown node type %T", n)
	}
}
