// Package normalize canonicalizes Brazilian identifiers and contact fields.
// Every function is total: any input yields an output, nothing panics.
//
// Formatters exist for display only; values sent to the backend go through
// Digits (or PhoneDigits for phones).
package normalize

import "strings"

const (
	CPFLen      = 11
	CNPJLen     = 14
	PhoneMaxLen = 11
	CEPMaxLen   = 10

	countryPrefix = "+55"
)

// Digits removes every non-digit character.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// DigitsMax is Digits truncated to at most n digits.
func DigitsMax(s string, n int) string {
	d := Digits(s)
	if n >= 0 && len(d) > n {
		return d[:n]
	}
	return d
}

// PhoneDigits extracts the national phone digits, dropping the "+55"
// prefix FormatPhone renders so formatted values round-trip.
func PhoneDigits(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, countryPrefix) {
		t = t[len(countryPrefix):]
	}
	return DigitsMax(t, PhoneMaxLen)
}

// FormatCPF renders up to 11 digits as 000.000.000-00. Separators appear
// only once a digit follows them.
func FormatCPF(s string) string {
	return mask(DigitsMax(s, CPFLen), []sep{{3, '.'}, {6, '.'}, {9, '-'}})
}

// FormatCNPJ renders up to 14 digits as 00.000.000/0000-00.
func FormatCNPJ(s string) string {
	return mask(DigitsMax(s, CNPJLen), []sep{{2, '.'}, {5, '.'}, {8, '/'}, {12, '-'}})
}

// FormatPhone renders up to 11 digits as "+55 (AA) NNNNN-NNNN". The dash
// splits off the last four digits and is omitted while four or fewer digits
// follow the area code.
func FormatPhone(s string) string {
	d := PhoneDigits(s)
	if d == "" {
		return ""
	}
	if len(d) <= 2 {
		return countryPrefix + " (" + d
	}
	area, rest := d[:2], d[2:]
	out := countryPrefix + " (" + area + ") "
	if len(rest) <= 4 {
		return out + rest
	}
	cut := len(rest) - 4
	return out + rest[:cut] + "-" + rest[cut:]
}

// SanitizeCEP keeps digits and the first hyphen, capped at 10 characters.
func SanitizeCEP(s string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range s {
		if b.Len() >= CEPMaxLen {
			break
		}
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' && !hyphen:
			hyphen = true
			b.WriteRune(r)
		}
	}
	return b.String()
}

type sep struct {
	at int
	ch byte
}

func mask(d string, seps []sep) string {
	var b strings.Builder
	next := 0
	for i := 0; i < len(d); i++ {
		if next < len(seps) && seps[next].at == i {
			b.WriteByte(seps[next].ch)
			next++
		}
		b.WriteByte(d[i])
	}
	return b.String()
}
