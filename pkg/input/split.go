package input

import "unicode"

// Split breaks a line of typed text into raw keys. Runs of letters form one
// key name ("enter", "backspace"), except that a run made only of 'x' is
// that many multiply keys. Every other non-space character is a key of its
// own. Whitespace only separates.
//
//	Split("12x3 enter") == []string{"1", "2", "x", "3", "enter"}
func Split(line string) []string {
	var keys []string
	runes := []rune(line)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsLetter(r):
			j := i
			for j < len(runes) && unicode.IsLetter(runes[j]) {
				j++
			}
			word := string(runes[i:j])
			if isMultiplyRun(word) {
				for range word {
					keys = append(keys, "x")
				}
			} else {
				keys = append(keys, word)
			}
			i = j
		default:
			keys = append(keys, string(r))
			i++
		}
	}
	return keys
}

func isMultiplyRun(word string) bool {
	for _, r := range word {
		if r != 'x' && r != 'X' {
			return false
		}
	}
	return true
}
