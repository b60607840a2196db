// Package authorname decides whether a legacy "authors" entry is a person
// name or institutional/contact noise. The legacy database mixed names,
// job titles, departments and e-mail addresses in one comma-joined field,
// so article by-lines are filtered through this at display time.
package authorname

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxNameLen = 40

// Substrings that mark an entry as a title, department or contact line
// rather than a person. Matched against the lowercased input.
var noiseMarkers = []string{
	"кафедр", "универси", "институт", "факультет", "лаборатор",
	"отдел", "e-mail", "email", "mail.ru", "yandex",
	"сотрудник", "начальник", "директор", "заведующ",
	"академи", "доцент", "профессор",
	"органической", "технической", "государствен",
}

// Name shapes, checked in order: "Иванов И.", "И.И. Иванов", "Smith J.",
// "J.J. Smith". Initials may be one or two.
var nameShapes = []*regexp.Regexp{
	regexp.MustCompile(`[А-ЯЁ][а-яё]+\s+[А-ЯЁ]\.`),
	regexp.MustCompile(`[А-ЯЁ]\.\s?[А-ЯЁ]?\.?\s?[А-ЯЁ][а-яё]+`),
	regexp.MustCompile(`[A-Z][a-z]+\s+[A-Z]\.`),
	regexp.MustCompile(`[A-Z]\.\s?[A-Z]?\.?\s?[A-Z][a-z]+`),
}

// Trailing footnote markers the old site appended to names: digits,
// superscript digits, dashes and the whitespace around them.
var trailingMarkers = regexp.MustCompile(`[\s\d\-−–⁰¹²³⁴⁵⁶⁷⁸⁹]+$`)

// LooksLikeName reports whether text denotes a person's name.
func LooksLikeName(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" || utf8.RuneCountInString(t) > maxNameLen {
		return false
	}

	lower := strings.ToLower(t)
	for _, m := range noiseMarkers {
		if strings.Contains(lower, m) {
			return false
		}
	}

	for _, re := range nameShapes {
		if re.MatchString(t) {
			return true
		}
	}

	// Short string of 2-3 capitalized words is probably a name even
	// without initials ("Иван Петров").
	words := strings.Fields(t)
	if (len(words) == 2 || len(words) == 3) && utf8.RuneCountInString(t) <= 25 {
		for _, w := range words {
			r, _ := utf8.DecodeRuneInString(w)
			if !unicode.IsUpper(r) {
				return false
			}
		}
		return true
	}

	return false
}

// CleanName strips trailing affiliation-index markers from a name.
// Idempotent.
func CleanName(text string) string {
	return strings.TrimSpace(trailingMarkers.ReplaceAllString(text, ""))
}

// DisplayList builds an article by-line from stored author names: keeps
// the ones that look like people, cleans them, joins with ", ". An empty
// result just means no displayable authors.
func DisplayList(names []string) string {
	var kept []string
	for _, n := range names {
		if LooksLikeName(n) {
			kept = append(kept, CleanName(n))
		}
	}
	return strings.Join(kept, ", ")
}
