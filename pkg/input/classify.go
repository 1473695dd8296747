// Package input maps raw key events, from a pointer click on an on-screen
// keypad or a physical keystroke, to the calculator's input classes.
package input

import (
	"fmt"
	"strings"
)

// Class is the semantic class of a consumed key. The set is closed.
type Class int

const (
	ClassDigit    Class = iota // 0-9 or .
	ClassOperator              // + - x /
	ClassEqual                 // evaluate
	ClassDelete                // remove the last character
	ClassReset                 // clear everything
)

// String returns a debug-friendly representation of the class.
func (c Class) String() string {
	switch c {
	case ClassDigit:
		return "DIGIT"
	case ClassOperator:
		return "OPERATOR"
	case ClassEqual:
		return "EQUAL"
	case ClassDelete:
		return "DELETE"
	case ClassReset:
		return "RESET"
	default:
		return "UNKNOWN"
	}
}

// Source tells where a raw key came from.
type Source int

const (
	SourcePointer  Source = iota // a clicked keypad button
	SourceKeyboard               // a physical keystroke
)

// String returns the source name as used on the wire.
func (s Source) String() string {
	switch s {
	case SourcePointer:
		return "pointer"
	case SourceKeyboard:
		return "keyboard"
	default:
		return "unknown"
	}
}

// ParseSource parses a wire source name. The empty string means pointer.
func ParseSource(name string) (Source, error) {
	switch strings.ToLower(name) {
	case "", "pointer":
		return SourcePointer, nil
	case "keyboard":
		return SourceKeyboard, nil
	default:
		return SourcePointer, fmt.Errorf("unknown key source %q (want pointer or keyboard)", name)
	}
}

// Action names as carried by keypad buttons.
const (
	ActionEqual  = "equal"
	ActionDelete = "delete"
	ActionReset  = "reset"
)

// Input is a classified key.
type Input struct {
	Class Class
	Value string // normalized digit or operator; the action name for actions
}

// Options tune keyboard normalization.
type Options struct {
	// CommaAsDecimal maps the ',' key to '.'.
	CommaAsDecimal bool
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{CommaAsDecimal: true}
}

// Classifier classifies raw keys. The zero value classifies with every
// option off.
type Classifier struct {
	opts Options
}

// NewClassifier creates a classifier with the given options.
func NewClassifier(opts Options) *Classifier {
	return &Classifier{opts: opts}
}

// Classify returns the class and normalized value of raw. It returns false
// when the key is not one the calculator consumes; callers must then leave
// their state alone and let default handling proceed.
func (c *Classifier) Classify(raw string, src Source) (Input, bool) {
	key := raw
	if src == SourceKeyboard {
		key = c.normalizeKeyboard(raw)
	}

	switch {
	case isDigitKey(key):
		return Input{Class: ClassDigit, Value: key}, true
	case key == "+" || key == "-" || key == "x" || key == "/":
		return Input{Class: ClassOperator, Value: key}, true
	case key == ActionEqual:
		return Input{Class: ClassEqual, Value: ActionEqual}, true
	case key == ActionDelete:
		return Input{Class: ClassDelete, Value: ActionDelete}, true
	case key == ActionReset:
		return Input{Class: ClassReset, Value: ActionReset}, true
	default:
		return Input{}, false
	}
}

// normalizeKeyboard lowercases a key name and maps keyboard aliases onto
// keypad values.
func (c *Classifier) normalizeKeyboard(raw string) string {
	key := strings.ToLower(raw)
	switch key {
	case "*":
		return "x"
	case ",":
		if c.opts.CommaAsDecimal {
			return "."
		}
		return key
	case "enter", "=":
		return ActionEqual
	case "backspace", "delete":
		return ActionDelete
	case "escape":
		return ActionReset
	case ActionEqual, ActionReset:
		// Keypad vocabulary, not key names.
		return ""
	default:
		return key
	}
}

func isDigitKey(k string) bool {
	return len(k) == 1 && (k == "." || (k[0] >= '0' && k[0] <= '9'))
}

// Classify classifies raw with the default options.
func Classify(raw string, src Source) (Input, bool) {
	return defaultClassifier.Classify(raw, src)
}

var defaultClassifier = NewClassifier(DefaultOptions())
