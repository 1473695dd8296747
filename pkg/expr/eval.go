package expr

import (
	"fmt"
	"math"

	"github.com/lemonberrylabs/keycalc/pkg/types"
)

// fold is the result of one x or / operation found in the first pass.
// It consumes the symbols at op-1, op and op+1.
type fold struct {
	op     int
	result float64
}

// chain is a run of folds whose operators sit two positions apart, reduced
// left to right into one value.
type chain struct {
	start, end int // inclusive range of consumed indices
	result     float64
}

// Evaluate reduces a symbol sequence to a single Number symbol.
//
// The first pass folds every x and / left to right, the second sums the
// remaining numbers left to right, each one added or subtracted according to
// the token right before it. No tree is built. Division by a zero operand
// fails with a DivideByZero error as soon as it is seen; a result that is
// not finite fails the same way. The input is not modified.
func Evaluate(symbols []*types.Symbol) (*types.Symbol, error) {
	folds, err := multiplyAndDivide(symbols)
	if err != nil {
		return nil, err
	}

	result, err := addAndSubtract(splice(symbols, chains(folds, len(symbols))))
	if err != nil {
		return nil, err
	}
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return nil, types.NewDivideByZeroError()
	}
	return types.Number(FormatNumber(result)), nil
}

func multiplyAndDivide(symbols []*types.Symbol) ([]fold, error) {
	var folds []fold
	for i, s := range symbols {
		if s.Kind != types.KindOperator || (s.Value != types.OpMultiply && s.Value != types.OpDivide) {
			continue
		}

		var left float64
		if n := len(folds); n > 0 && folds[n-1].op == i-2 {
			left = folds[n-1].result
		} else {
			if i == 0 {
				return nil, fmt.Errorf("operator %q has no left operand: %w", s.Value, types.NewInvalidNumberError(""))
			}
			v, err := ToNumber(symbols[i-1].Value)
			if err != nil {
				return nil, err
			}
			left = v
		}

		right, err := rightOperand(symbols, i)
		if err != nil {
			return nil, err
		}

		var result float64
		if s.Value == types.OpDivide {
			if right == 0 {
				return nil, types.NewDivideByZeroError()
			}
			result = left / right
		} else {
			result = left * right
		}
		if math.IsInf(result, 0) || math.IsNaN(result) {
			return nil, types.NewDivideByZeroError()
		}
		folds = append(folds, fold{op: i, result: result})
	}
	return folds, nil
}

// rightOperand returns the operand after the operator at i. A missing
// operand and a bare sign placeholder both count as 1.
func rightOperand(symbols []*types.Symbol, i int) (float64, error) {
	if i+1 >= len(symbols) {
		return 1, nil
	}
	next := symbols[i+1]
	if next.IsSignPlaceholder() || next.IsEmpty() {
		return 1, nil
	}
	return ToNumber(next.Value)
}

func chains(folds []fold, n int) []chain {
	var out []chain
	for i, f := range folds {
		end := min(f.op+1, n-1)
		if i > 0 && folds[i-1].op == f.op-2 {
			c := &out[len(out)-1]
			c.end = end
			c.result = f.result
			continue
		}
		out = append(out, chain{start: f.op - 1, end: end, result: f.result})
	}
	return out
}

// splice copies symbols, replacing each chain's consumed range with one
// Number holding the chain's result at the position of its first index.
func splice(symbols []*types.Symbol, chains []chain) []*types.Symbol {
	if len(chains) == 0 {
		return symbols
	}
	out := make([]*types.Symbol, 0, len(symbols))
	c := 0
	for i := 0; i < len(symbols); i++ {
		if c < len(chains) && i == chains[c].start {
			out = append(out, types.Number(FormatNumber(chains[c].result)))
			i = chains[c].end
			c++
			continue
		}
		out = append(out, symbols[i])
	}
	return out
}

func addAndSubtract(symbols []*types.Symbol) (float64, error) {
	var acc float64
	for i, s := range symbols {
		if s.Kind != types.KindNumber || s.IsSignPlaceholder() {
			continue
		}
		v, err := ToNumber(s.Value)
		if err != nil {
			return 0, err
		}
		if i > 0 && symbols[i-1].Value == types.OpSubtract {
			acc -= v
		} else {
			acc += v
		}
	}
	return acc, nil
}
