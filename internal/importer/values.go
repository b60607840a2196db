package importer

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// row is one raw tuple from the dump. Fields are accessed by the legacy
// schema ordinals exactly once, in records.go; everything downstream works
// with named records.
type row []string

func (r row) isNull(i int) bool {
	return i >= len(r) || r[i] == "NULL" || r[i] == ""
}

// text returns the normalized text of field i: absent values become "",
// numeric tokens are kept as their literal text, everything else is
// unescaped and HTML-entity-decoded.
func (r row) text(i int) string {
	if r.isNull(i) {
		return ""
	}
	tok := r[i]
	if _, err := strconv.ParseFloat(tok, 64); err == nil {
		return tok
	}
	return html.UnescapeString(unescapeSQL(tok))
}

// intAt returns field i as an integer, false when absent or non-numeric.
func (r row) intAt(i int) (int, bool) {
	if r.isNull(i) {
		return 0, false
	}
	n, err := strconv.Atoi(r[i])
	if err != nil {
		return 0, false
	}
	return n, true
}

var sqlUnescaper = strings.NewReplacer(
	`\'`, `'`,
	`\"`, `"`,
	`\n`, "\n",
	`\r`, "\r",
	`\\`, `\`,
)

func unescapeSQL(s string) string {
	return sqlUnescaper.Replace(s)
}

var (
	tagRe   = regexp.MustCompile(`<[^>]+>`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// stripHTML drops markup from legacy rich-text fields and collapses the
// whitespace left behind.
func stripHTML(text string) string {
	if text == "" {
		return ""
	}
	text = tagRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

var (
	pageRangeRe  = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)`)
	pageSingleRe = regexp.MustCompile(`^(\d+)`)
	dashVariants = strings.NewReplacer("–", "-", "—", "-")
)

// parsePages reads a legacy page-range string: "12-25" (hyphen, en or em
// dash) or a bare leading number. Both values absent when unparsable.
func parsePages(s string) (*int, *int) {
	s = dashVariants.Replace(strings.TrimSpace(s))
	if s == "" {
		return nil, nil
	}
	if m := pageRangeRe.FindStringSubmatch(s); m != nil {
		from, _ := strconv.Atoi(m[1])
		to, _ := strconv.Atoi(m[2])
		return &from, &to
	}
	if m := pageSingleRe.FindStringSubmatch(s); m != nil {
		from, _ := strconv.Atoi(m[1])
		return &from, nil
	}
	return nil, nil
}

// leadingInt reads the integer prefix of a compound issue number like
// "5-6"; def is returned when there is none.
func leadingInt(s string, def int) int {
	if m := pageSingleRe.FindStringSubmatch(strings.TrimSpace(s)); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return def
}

// truncate limits s to max runes, appending "..." when cut.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
