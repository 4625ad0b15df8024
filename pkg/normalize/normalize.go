// Package normalize holds the pure normalization helpers shared by the
// patient CRUD, import and export paths.
package normalize

import (
	"strings"
	"unicode"
)

// Mobile canonicalizes a Philippine mobile number into the stored
// "+63 DDD DDD DDDD" form. All non-digit characters are stripped first;
// a local 0XXXXXXXXXX number (11 digits) has its leading 0 replaced with
// the 63 country code, and an international 63XXXXXXXXXX number (12
// digits) is accepted as-is. Every other shape is rejected with ok=false.
func Mobile(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case strings.HasPrefix(digits, "0") && len(digits) == 11:
		digits = "63" + digits[1:]
	case strings.HasPrefix(digits, "63") && len(digits) == 12:
	default:
		return "", false
	}

	return "+63 " + digits[2:5] + " " + digits[5:8] + " " + digits[8:12], true
}

// ProperCase trims the value and title-cases each whitespace-separated
// word: first letter upper, remainder lower. Empty input yields "".
// The function is idempotent.
func ProperCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	runes := []rune(strings.ToLower(s))
	startOfWord := true
	for i, r := range runes {
		if unicode.IsSpace(r) {
			startOfWord = true
			continue
		}
		if startOfWord {
			runes[i] = unicode.ToUpper(r)
			startOfWord = false
		}
	}
	return string(runes)
}

// ColumnName reduces an import-file header to its canonical key by
// lowercasing and dropping everything that is not a letter or digit, so
// "Patient ID", "patient_id" and "PatientID" all resolve to "patientid".
func ColumnName(header string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(header) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
