// Package theme handles the calculator's color theme switch: three themes
// numbered 1 to 3, cycled by a single toggle.
package theme

import "strconv"

// Theme is a theme index.
type Theme int

const (
	First Theme = 1
	Last  Theme = 3

	// Default is used when nothing valid is stored.
	Default = First
)

// Valid reports whether t is within First..Last.
func (t Theme) Valid() bool {
	return t >= First && t <= Last
}

// Next returns the theme after t, wrapping from Last back to First.
func (t Theme) Next() Theme {
	if !t.Valid() || t == Last {
		return First
	}
	return t + 1
}

// Normalize returns t, or Default when t is out of range.
func Normalize(t Theme) Theme {
	if t.Valid() {
		return t
	}
	return Default
}

// Parse reads a stored theme value. Anything that is not an integer in
// range yields Default.
func Parse(s string) Theme {
	n, err := strconv.Atoi(s)
	if err != nil {
		return Default
	}
	return Normalize(Theme(n))
}

// String returns the decimal index.
func (t Theme) String() string {
	return strconv.Itoa(int(t))
}
