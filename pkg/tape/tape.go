// Package tape parses and replays YAML key tapes: scripted sequences of
// key presses with the display expected after each step.
//
//	name: precedence
//	source: keyboard
//	steps:
//	  - keys: "2+3x4"
//	  - key: enter
//	    expect: "14"
package tape

import (
	"fmt"
	"os"

	"github.com/lemonberrylabs/keycalc/pkg/calculator"
	"github.com/lemonberrylabs/keycalc/pkg/input"
	"gopkg.in/yaml.v3"
)

// MaxSteps is the maximum number of steps in one tape.
const MaxSteps = 1000

// Step is one line of a tape. Exactly one of Key and Keys is set.
type Step struct {
	Key    string  `yaml:"key"`    // a single raw key, e.g. "enter"
	Keys   string  `yaml:"keys"`   // typed text, split with input.Split
	Source string  `yaml:"source"` // overrides the tape source
	Expect *string `yaml:"expect"` // display expected after the step
	Line   int     `yaml:"-"`
}

// Tape is a parsed tape.
type Tape struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Steps  []Step `yaml:"steps"`
}

// Mismatch reports a step whose display differed from its expectation.
type Mismatch struct {
	Step int
	Line int
	Want string
	Got  string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("step %d (line %d): display %q, want %q", m.Step+1, m.Line, m.Got, m.Want)
}

// Parse parses tape source.
func Parse(source []byte) (*Tape, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(source, &root); err != nil {
		return nil, fmt.Errorf("yaml parse error: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, fmt.Errorf("empty tape")
	}

	var t Tape
	if err := root.Content[0].Decode(&t); err != nil {
		return nil, fmt.Errorf("tape decode error: %w", err)
	}
	if _, err := input.ParseSource(t.Source); err != nil {
		return nil, err
	}
	if len(t.Steps) == 0 {
		return nil, fmt.Errorf("tape %q has no steps", t.Name)
	}
	if len(t.Steps) > MaxSteps {
		return nil, fmt.Errorf("tape %q has %d steps (max %d)", t.Name, len(t.Steps), MaxSteps)
	}

	stepsNode := findKey(root.Content[0], "steps")
	for i := range t.Steps {
		st := &t.Steps[i]
		if stepsNode != nil && i < len(stepsNode.Content) {
			st.Line = stepsNode.Content[i].Line
		}
		if (st.Key == "") == (st.Keys == "") {
			return nil, fmt.Errorf("step %d (line %d): exactly one of key or keys is required", i+1, st.Line)
		}
		if _, err := input.ParseSource(st.Source); err != nil {
			return nil, fmt.Errorf("step %d (line %d): %w", i+1, st.Line, err)
		}
	}
	return &t, nil
}

// Load reads and parses a tape file.
func Load(path string) (*Tape, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if t.Name == "" {
		t.Name = path
	}
	return t, nil
}

// Run replays the tape on c and returns the steps whose display did not
// match. Unconsumed keys are skipped the way a keypad would ignore them.
func (t *Tape) Run(c *calculator.Calculator) []Mismatch {
	var mismatches []Mismatch
	for i, st := range t.Steps {
		src := t.source(st)
		keys := []string{st.Key}
		if st.Keys != "" {
			keys = input.Split(st.Keys)
		}
		for _, k := range keys {
			c.Press(k, src)
		}
		if st.Expect != nil {
			if got := c.Display(); got != *st.Expect {
				mismatches = append(mismatches, Mismatch{Step: i, Line: st.Line, Want: *st.Expect, Got: got})
			}
		}
	}
	return mismatches
}

func (t *Tape) source(st Step) input.Source {
	name := t.Source
	if st.Source != "" {
		name = st.Source
	}
	// Validated by Parse.
	src, _ := input.ParseSource(name)
	return src
}

// findKey returns the value node for key in a YAML mapping node.
func findKey(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
