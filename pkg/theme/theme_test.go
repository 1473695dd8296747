package theme

import "testing"

func TestNext(t *testing.T) {
	tests := []struct {
		in, want Theme
	}{
		{1, 2},
		{2, 3},
		{3, 1},
		{0, 1},
		{9, 1},
	}
	for _, tt := range tests {
		if got := tt.in.Next(); got != tt.want {
			t.Errorf("Theme(%d).Next() = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Theme
	}{
		{"1", 1},
		{"2", 2},
		{"3", 3},
		{"4", Default},
		{"0", Default},
		{"-1", Default},
		{"", Default},
		{"null", Default},
	}
	for _, tt := range tests {
		if got := Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
