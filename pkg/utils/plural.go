package utils

// PluralizeRu picks the Russian plural form for n:
// 1 статья, 2 статьи, 5 статей.
func PluralizeRu(n int, form1, form2, form5 string) string {
	if n < 0 {
		n = -n
	}
	n = n % 100
	if n >= 11 && n <= 19 {
		return form5
	}
	switch n % 10 {
	case 1:
		return form1
	case 2, 3, 4:
		return form2
	}
	return form5
}
