package calculator

import (
	"testing"

	"github.com/lemonberrylabs/keycalc/pkg/input"
	"github.com/lemonberrylabs/keycalc/pkg/types"
)

func press(t *testing.T, c *Calculator, src input.Source, keys ...string) {
	t.Helper()
	for _, k := range keys {
		if !c.Press(k, src) {
			t.Fatalf("key %q not consumed", k)
		}
	}
}

func TestPressAndEvaluate(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"precedence", []string{"2", "+", "3", "x", "4", "equal"}, "14"},
		{"mult first", []string{"2", "x", "3", "+", "4", "equal"}, "10"},
		{"chain", []string{"6", "/", "2", "/", "3", "equal"}, "1"},
		{"sign absorbed", []string{"-", "7"}, "-7"},
		{"negative operand", []string{"5", "x", "-", "2", "equal"}, "-10"},
		{"decimal seed", []string{".", "5", "+", ".", "5", "equal"}, "1"},
		{"operator correction", []string{"9", "+", "x", "/", "3", "equal"}, "3"},
		{"delete then continue", []string{"1", "2", "delete", "+", "4", "equal"}, "5"},
		{"reset", []string{"1", "2", "reset", "3"}, "3"},
		{"divide by zero", []string{"8", "/", "0", "equal"}, "Can't divide by 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			press(t, c, input.SourcePointer, tt.keys...)
			if got := c.Display(); got != tt.want {
				t.Errorf("display = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyboardAliases(t *testing.T) {
	c := New()
	press(t, c, input.SourceKeyboard, "1", ",", "5", "*", "2", "Enter")
	if got := c.Display(); got != "3" {
		t.Errorf("display = %q, want 3", got)
	}
	press(t, c, input.SourceKeyboard, "Backspace")
	if got := c.Display(); got != "" {
		t.Errorf("display = %q, want empty", got)
	}
}

func TestUnconsumedKeyLeavesState(t *testing.T) {
	c := New()
	press(t, c, input.SourcePointer, "4", "+")
	for _, k := range []string{"a", "Tab", "(", "*"} {
		if c.Press(k, input.SourcePointer) {
			t.Errorf("%q consumed", k)
		}
	}
	if got := c.Display(); got != "4+" {
		t.Errorf("display = %q, want 4+", got)
	}
}

func TestErrorIsSticky(t *testing.T) {
	tests := []struct {
		name      string
		next      []string
		want      string
		wantError bool
	}{
		{"digit ignored", []string{"7"}, "Can't divide by 0", true},
		{"operator ignored", []string{"+"}, "Can't divide by 0", true},
		{"minus ignored", []string{"-"}, "Can't divide by 0", true},
		{"equal ignored", []string{"equal"}, "Can't divide by 0", true},
		{"delete clears", []string{"delete"}, "", false},
		{"reset clears", []string{"reset"}, "", false},
		{"typing after delete", []string{"9", "delete", "7"}, "7", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			press(t, c, input.SourcePointer, "8", "/", "0", "equal")
			if !c.HasError() {
				t.Fatal("expected error state")
			}
			press(t, c, input.SourcePointer, tt.next...)
			if c.HasError() != tt.wantError {
				t.Errorf("HasError() = %v, want %v", c.HasError(), tt.wantError)
			}
			if got := c.Display(); got != tt.want {
				t.Errorf("display = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorIsStickyForKeyboard(t *testing.T) {
	c := New()
	press(t, c, input.SourceKeyboard, "1", "/", "0", "Enter", "5", "Enter")
	if got := c.Display(); got != "Can't divide by 0" {
		t.Errorf("display = %q", got)
	}
	press(t, c, input.SourceKeyboard, "Backspace", "5")
	if got := c.Display(); got != "5" {
		t.Errorf("display = %q, want 5", got)
	}
}

func TestRecorder(t *testing.T) {
	var got []Evaluation
	c := New(WithRecorder(RecorderFunc(func(ev Evaluation) { got = append(got, ev) })))

	press(t, c, input.SourcePointer, "equal", "2", "x", "3", "equal", "/", "0", "equal", "equal")
	if len(got) != 2 {
		t.Fatalf("expected 2 evaluations, got %d: %+v", len(got), got)
	}
	if got[0].Expression != "2x3" || got[0].Result != "6" || got[0].Err != nil {
		t.Errorf("first evaluation = %+v", got[0])
	}
	if got[1].Expression != "6/0" || got[1].Result != "Can't divide by 0" || !types.HasTag(got[1].Err, types.TagDivideByZero) {
		t.Errorf("second evaluation = %+v", got[1])
	}
}

func TestWithClassifier(t *testing.T) {
	c := New(WithClassifier(input.NewClassifier(input.Options{CommaAsDecimal: false})))
	if c.Press(",", input.SourceKeyboard) {
		t.Error("comma consumed with CommaAsDecimal off")
	}
}
