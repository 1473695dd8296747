// Package types defines the tokens that make up a calculator expression.
// A Symbol is a number being typed, an operator, or an error message.
package types

import "strings"

// Kind tags a Symbol. The set is closed.
type Kind int

const (
	KindNumber   Kind = iota // number literal, possibly still being typed
	KindOperator             // one of + - x /
	KindError                // error message; terminal until cleared
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindOperator:
		return "operator"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k == KindNumber || k == KindOperator || k == KindError
}

// Operator values.
const (
	OpAdd      = "+"
	OpSubtract = "-"
	OpMultiply = "x"
	OpDivide   = "/"
)

// SignPlaceholder is the value of a Number symbol that holds a leading minus
// with no digits yet.
const SignPlaceholder = "-"

// IsOperator reports whether s is one of the four operator values.
func IsOperator(s string) bool {
	switch s {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return true
	}
	return false
}

// Symbol is a single token of an expression.
type Symbol struct {
	Value string
	Kind  Kind
}

// NewSymbol creates a symbol. It panics with an InvalidKind CalcError when
// kind is not one of the defined kinds.
func NewSymbol(value string, kind Kind) *Symbol {
	if !kind.Valid() {
		panic(NewInvalidKindError(kind))
	}
	return &Symbol{Value: value, Kind: kind}
}

// Number returns a new Number symbol.
func Number(value string) *Symbol { return NewSymbol(value, KindNumber) }

// Operator returns a new Operator symbol.
func Operator(op string) *Symbol { return NewSymbol(op, KindOperator) }

// Error returns a new Error symbol carrying msg.
func Error(msg string) *Symbol { return NewSymbol(msg, KindError) }

// Append adds d to the end of the symbol's value and returns the new value.
func (s *Symbol) Append(d string) string {
	s.Value += d
	return s.Value
}

// Pop removes the last character of the value and returns the new value.
func (s *Symbol) Pop() string {
	if s.Value != "" {
		s.Value = s.Value[:len(s.Value)-1]
	}
	return s.Value
}

// IsEmpty reports whether the value has no characters left.
func (s *Symbol) IsEmpty() bool {
	return s.Value == ""
}

// IsSignPlaceholder reports whether s is a Number holding only "-".
func (s *Symbol) IsSignPlaceholder() bool {
	return s.Kind == KindNumber && s.Value == SignPlaceholder
}

// HasDecimalPoint reports whether the value already contains a '.'.
func (s *Symbol) HasDecimalPoint() bool {
	return strings.Contains(s.Value, ".")
}

// Clone returns a copy that shares nothing with s.
func (s *Symbol) Clone() *Symbol {
	c := *s
	return &c
}

// String returns the symbol's value.
func (s *Symbol) String() string {
	return s.Value
}
