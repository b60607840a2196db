package importer

import (
	"regexp"
	"strings"
)

var valuesRe = regexp.MustCompile(`VALUES\s*`)

// scanState is the tuple tokenizer state. The dump is not full SQL, just
// bulk INSERT lines, so a four-state character scanner is enough.
type scanState int

const (
	stateOutside  scanState = iota // between tuples
	stateUnquoted                  // inside a tuple, bare token
	stateQuoted                    // inside a single-quoted literal
	stateEscape                    // backslash seen inside a quoted literal
)

// parseValues extracts the tuple list of one INSERT statement into rows of
// raw field tokens. Escape sequences are kept verbatim in the token; the
// value normalization step reverses them later. Handles \' and doubled ''
// quote escapes, commas inside quoted literals, and nested parentheses
// (tracked by depth, only the 0<->1 transitions delimit a tuple).
func parseValues(line string) []row {
	m := valuesRe.FindStringIndex(line)
	if m == nil {
		return nil
	}

	data := strings.TrimRight(strings.TrimRight(line[m[1]:], " \t\r\n"), ";")

	var (
		rows  []row
		cur   row
		val   strings.Builder
		state = stateOutside
		depth = 0
		runes = []rune(data)
	)

	endField := func() {
		cur = append(cur, strings.TrimSpace(val.String()))
		val.Reset()
	}

	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		switch state {
		case stateEscape:
			val.WriteRune(ch)
			state = stateQuoted
			continue

		case stateQuoted:
			switch ch {
			case '\\':
				val.WriteRune(ch)
				state = stateEscape
			case '\'':
				// doubled quote is an escaped quote
				if i+1 < len(runes) && runes[i+1] == '\'' {
					val.WriteRune('\'')
					i++
					continue
				}
				state = stateUnquoted
			default:
				val.WriteRune(ch)
			}
			continue
		}

		// outside any quoted literal
		switch ch {
		case '\'':
			state = stateQuoted
		case '(':
			depth++
			if depth == 1 {
				val.Reset()
				cur = nil
				state = stateUnquoted
			}
		case ')':
			depth--
			if depth == 0 {
				endField()
				rows = append(rows, cur)
				cur = nil
				state = stateOutside
			}
		case ',':
			if depth == 1 {
				endField()
			}
			// depth 0: separator between tuples, ignore
		default:
			if depth >= 1 {
				val.WriteRune(ch)
			}
		}
	}

	return rows
}
