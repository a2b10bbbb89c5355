// Package phone implements the region phone filter: area-code extraction,
// best-phone selection against an area-code allow-list, and distribution
// reporting.
package phone

import "strings"

// Digits strips every non-digit character from a phone string.
func Digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ExtractAreaCode returns the 3-digit area code of a US phone number.
// 10-digit numbers yield the first three digits; 11-digit numbers with a
// leading country code 1 yield digits 2-4. Any other length yields ok=false.
func ExtractAreaCode(phone string) (code string, ok bool) {
	digits := Digits(phone)
	switch {
	case len(digits) == 10:
		return digits[:3], true
	case len(digits) == 11 && digits[0] == '1':
		return digits[1:4], true
	default:
		return "", false
	}
}
