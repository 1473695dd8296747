// Package expr implements the calculator's expression engine: the token
// buffer that merges key entries into symbols, and a two-pass evaluator that
// applies x and / before + and - over the flat symbol sequence.
package expr

import (
	"strings"

	"github.com/lemonberrylabs/keycalc/pkg/types"
)

// Expression is the live token buffer of one calculator. It is not safe for
// concurrent use.
//
// The buffer never holds two adjacent operators, and the only error-bearing
// state is a buffer made of exactly one Error symbol.
type Expression struct {
	symbols []*types.Symbol
}

// New returns an empty expression.
func New() *Expression {
	return &Expression{}
}

// Symbols returns a copy of the buffer's symbols in reading order.
func (e *Expression) Symbols() []*types.Symbol {
	out := make([]*types.Symbol, len(e.symbols))
	for i, s := range e.symbols {
		out[i] = s.Clone()
	}
	return out
}

// Len returns the number of symbols in the buffer.
func (e *Expression) Len() int { return len(e.symbols) }

// IsEmpty reports whether the buffer holds no symbols.
func (e *Expression) IsEmpty() bool { return len(e.symbols) == 0 }

// HasError reports whether the buffer is in the error state.
func (e *Expression) HasError() bool {
	for _, s := range e.symbols {
		if s.Kind == types.KindError {
			return true
		}
	}
	return false
}

func (e *Expression) last() *types.Symbol {
	if len(e.symbols) == 0 {
		return nil
	}
	return e.symbols[len(e.symbols)-1]
}

func (e *Expression) push(s *types.Symbol) {
	e.symbols = append(e.symbols, s)
}

func (e *Expression) dropLast() {
	e.symbols = e.symbols[:len(e.symbols)-1]
}

// Text joins the symbol values in order.
func (e *Expression) Text() string {
	var sb strings.Builder
	for _, s := range e.symbols {
		sb.WriteString(s.Value)
	}
	return sb.String()
}

// Display returns what a display should show: the error text in the error
// state, the joined symbol values otherwise.
func (e *Expression) Display() string {
	if e.HasError() {
		return types.DivideByZeroText
	}
	return e.Text()
}

// Clear empties the buffer unconditionally.
func (e *Expression) Clear() {
	e.symbols = nil
}

// EnterDigit applies a digit or '.' to the buffer.
//
// A new number starts when the buffer is empty or ends with an operator; a
// leading '.' is seeded as "0.". Otherwise the digit extends the trailing
// number, except that a second '.' is rejected and a lone leading zero is
// never followed by another digit ("0"+"0" is ignored, "0"+"5" gives "5").
// A sign placeholder followed by '.' becomes "-0.". Input is ignored in the
// error state.
func (e *Expression) EnterDigit(d string) {
	if !isDigit(d) || e.HasError() {
		return
	}

	last := e.last()
	if last == nil || last.Kind == types.KindOperator {
		if d == "." {
			d = "0."
		}
		e.push(types.Number(d))
		return
	}

	switch {
	case d == "." && last.HasDecimalPoint():
		return
	case d == "." && last.IsSignPlaceholder():
		last.Value = "-0."
		return
	case last.Value == "0" || last.Value == "-0":
		if d == "0" {
			return
		}
		if d != "." {
			last.Pop()
		}
	}
	last.Append(d)
}

// EnterOperator applies an operator to the buffer.
//
// On an empty buffer only '-' is accepted, as a sign placeholder. Nothing may
// follow a bare sign placeholder. After an operator, '-' starts a negative
// operand and any other operator replaces the trailing one. After a complete
// number the operator is appended. Input is ignored in the error state.
func (e *Expression) EnterOperator(op string) {
	if !types.IsOperator(op) || e.HasError() {
		return
	}

	last := e.last()
	switch {
	case last == nil:
		if op == types.OpSubtract {
			e.push(types.Number(types.SignPlaceholder))
		}
	case last.IsSignPlaceholder():
		return
	case last.Kind == types.KindOperator:
		if op == types.OpSubtract {
			e.push(types.Number(types.SignPlaceholder))
			return
		}
		last.Value = op
	default:
		e.push(types.Operator(op))
	}
}

// DeleteLast removes the last typed character.
//
// Deleting in the error state clears the buffer. A trailing operator is
// dropped whole; a trailing number loses one character and disappears once
// empty, so a lone sign placeholder goes with a single delete.
func (e *Expression) DeleteLast() {
	last := e.last()
	if last == nil {
		return
	}
	if e.HasError() {
		e.Clear()
		return
	}
	if last.Kind == types.KindOperator {
		e.dropLast()
		return
	}
	if last.Pop(); last.IsEmpty() {
		e.dropLast()
	}
}

// Evaluate reduces the buffer to a single symbol.
//
// An empty buffer, or one already in the error state, is left untouched.
// Otherwise the buffer becomes exactly one symbol: the result Number, or an
// Error symbol when evaluation fails. The evaluation error is returned so
// callers can tell the cases apart; the buffer is in the error state
// whenever it is non-nil.
func (e *Expression) Evaluate() error {
	if e.IsEmpty() || e.HasError() {
		return nil
	}
	result, err := Evaluate(e.symbols)
	if err != nil {
		e.symbols = []*types.Symbol{types.Error(types.DivideByZeroText)}
		return err
	}
	e.symbols = []*types.Symbol{result}
	return nil
}

func isDigit(d string) bool {
	if len(d) != 1 {
		return false
	}
	return d == "." || (d[0] >= '0' && d[0] <= '9')
}
