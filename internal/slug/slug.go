// Package slug derives URL-safe journal identifiers from Cyrillic or
// Latin display names.
package slug

import (
	"regexp"
	"strings"
)

var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

var dashRun = regexp.MustCompile(`-+`)

// Make transliterates Cyrillic and reduces the rest to [a-z0-9-].
// Never returns an empty string.
func Make(text string) string {
	var b strings.Builder
	for _, ch := range strings.ToLower(strings.TrimSpace(text)) {
		if tr, ok := translit[ch]; ok {
			b.WriteString(tr)
		} else if ch >= 'a' && ch <= 'z' || ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		} else if ch == ' ' || ch == '-' || ch == '_' {
			b.WriteByte('-')
		}
	}
	s := strings.Trim(dashRun.ReplaceAllString(b.String(), "-"), "-")
	if s == "" {
		return "journal"
	}
	return s
}

// Normalize lowercases and dash-joins an externally supplied slug.
func Normalize(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(s)), " ", "-")
}
