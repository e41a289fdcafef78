// Package cpf validates and formats the Brazilian CPF, an 11-digit
// national identifier with two weighted-sum check digits.
package cpf

import (
	"fmt"
	"strings"
)

// OnlyDigits strips every non-digit character from value.
func OnlyDigits(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid reports whether value is a well-formed CPF. Formatting
// characters are ignored; the digits must be exactly 11, not all
// identical, and match both check digits.
func Valid(value string) bool {
	digits := OnlyDigits(value)
	if len(digits) != 11 {
		return false
	}

	if allSame(digits) {
		return false
	}

	return checkDigit(digits, 9, 10) == int(digits[9]-'0') &&
		checkDigit(digits, 10, 11) == int(digits[10]-'0')
}

// Format renders an 11-digit CPF as XXX.XXX.XXX-XX. Values that are
// not 11 digits long are returned unchanged.
func Format(value string) string {
	digits := OnlyDigits(value)
	if len(digits) != 11 {
		return value
	}
	return fmt.Sprintf("%s.%s.%s-%s", digits[0:3], digits[3:6], digits[6:9], digits[9:11])
}

func allSame(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

func checkDigit(digits string, count, startWeight int) int {
	sum := 0
	for i, weight := 0, startWeight; i < count; i, weight = i+1, weight-1 {
		sum += int(digits[i]-'0') * weight
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}
