// Package calculator ties key classification to the expression engine. A
// Calculator owns one expression and runs one classify, mutate and
// (maybe) evaluate cycle per key event.
package calculator

import (
	"github.com/lemonberrylabs/keycalc/pkg/expr"
	"github.com/lemonberrylabs/keycalc/pkg/input"
	"github.com/lemonberrylabs/keycalc/pkg/types"
)

// Evaluation records one press of equals on a non-empty buffer.
type Evaluation struct {
	Expression string // buffer text before evaluating
	Result     string // display text after evaluating
	Err        error  // evaluation error, nil on success
}

// Recorder observes evaluations.
type Recorder interface {
	Record(Evaluation)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(Evaluation)

// Record calls f(ev).
func (f RecorderFunc) Record(ev Evaluation) { f(ev) }

// Calculator is a single calculator instance. It is not safe for concurrent
// use; callers that share one must serialize Press calls.
type Calculator struct {
	expr       *expr.Expression
	classifier *input.Classifier
	recorder   Recorder
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithClassifier sets the classifier used for raw keys.
func WithClassifier(c *input.Classifier) Option {
	return func(calc *Calculator) { calc.classifier = c }
}

// WithRecorder sets a recorder notified after every evaluation.
func WithRecorder(r Recorder) Option {
	return func(calc *Calculator) { calc.recorder = r }
}

// New creates a calculator with an empty expression.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		expr:       expr.New(),
		classifier: input.NewClassifier(input.DefaultOptions()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Press handles one raw key event and reports whether it was consumed. An
// unconsumed key leaves the calculator untouched.
//
// While the display shows an error, digits, operators and equals are
// consumed but ignored; only delete or reset clear it.
func (c *Calculator) Press(raw string, src input.Source) bool {
	in, ok := c.classifier.Classify(raw, src)
	if !ok {
		return false
	}
	c.Apply(in)
	return true
}

// Apply runs one cycle for an already classified input.
func (c *Calculator) Apply(in input.Input) {
	switch in.Class {
	case input.ClassDigit:
		c.expr.EnterDigit(in.Value)
	case input.ClassOperator:
		c.expr.EnterOperator(in.Value)
	case input.ClassEqual:
		c.evaluate()
	case input.ClassDelete:
		c.expr.DeleteLast()
	case input.ClassReset:
		c.expr.Clear()
	}
}

func (c *Calculator) evaluate() {
	if c.expr.IsEmpty() || c.expr.HasError() {
		return
	}
	before := c.expr.Text()
	err := c.expr.Evaluate()
	if c.recorder != nil {
		c.recorder.Record(Evaluation{Expression: before, Result: c.expr.Display(), Err: err})
	}
}

// Display returns the text to show: the joined symbols, or the error text.
func (c *Calculator) Display() string {
	return c.expr.Display()
}

// Symbols returns a copy of the current symbols.
func (c *Calculator) Symbols() []*types.Symbol {
	return c.expr.Symbols()
}

// HasError reports whether the calculator is showing an error.
func (c *Calculator) HasError() bool {
	return c.expr.HasError()
}
