package expr

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/lemonberrylabs/keycalc/pkg/types"
)

// ToNumber converts the value of a Number symbol to a float64.
//
// Accepted forms are the ones the buffer can hold: an optional leading '-',
// digits with at most one '.', and optionally an exponent as produced by
// FormatNumber. The sign placeholder and anything else fail with an
// InvalidNumber error. Literals too large for a float64 convert to ±Inf.
func ToNumber(value string) (float64, error) {
	if !isNumericLiteral(value) {
		return 0, types.NewInvalidNumberError(value)
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return f, nil
		}
		return 0, types.NewInvalidNumberError(value)
	}
	return f, nil
}

// isNumericLiteral reports whether s matches -?digits[.digits][e[+-]digits]
// with at least one digit in the mantissa.
func isNumericLiteral(s string) bool {
	s = strings.TrimPrefix(s, "-")
	mantissa, exp, hasExp := strings.Cut(s, "e")
	digits := 0
	dots := 0
	for i := 0; i < len(mantissa); i++ {
		switch c := mantissa[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return false
		}
	}
	if digits == 0 || dots > 1 {
		return false
	}
	if !hasExp {
		return true
	}
	if exp != "" && (exp[0] == '+' || exp[0] == '-') {
		exp = exp[1:]
	}
	if exp == "" {
		return false
	}
	for i := 0; i < len(exp); i++ {
		if exp[i] < '0' || exp[i] > '9' {
			return false
		}
	}
	return true
}

// FormatNumber renders f the way the display shows evaluation results: the
// shortest decimal that round-trips, switching to exponent form for
// magnitudes of 1e21 and above or below 1e-6. Negative zero prints as "0".
func FormatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		exp = strings.TrimLeft(exp[1:], "0")
		if exp == "" {
			exp = "0"
		}
		return mantissa + "e" + sign + exp
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
