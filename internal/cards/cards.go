// Package cards holds the stateless card-number logic: Luhn validation,
// issuer classification, and one-way fingerprinting for storage.
package cards

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// Type is the issuer classification of a card number
type Type string

const (
	TypeVisa       Type = "VISA"
	TypeMastercard Type = "MASTERCARD"
	TypeAmex       Type = "AMEX"
	TypeUnknown    Type = "UNKNOWN"
)

var (
	numberPattern = regexp.MustCompile(`^\d{16}$`)
	cvvPattern    = regexp.MustCompile(`^\d{3}$`)
)

// ValidNumber reports whether s is a 16-digit string passing the Luhn
// checksum. Classification says nothing about validity and vice versa.
func ValidNumber(s string) bool {
	if !numberPattern.MatchString(s) {
		return false
	}

	checksum := 0
	double := false
	for i := len(s) - 1; i >= 0; i-- {
		d := int(s[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		checksum += d
		double = !double
	}

	return checksum%10 == 0
}

// ValidCVV reports whether s is exactly three digits.
func ValidCVV(s string) bool {
	return cvvPattern.MatchString(s)
}

// Classify determines the card type from its issuer prefix.
func Classify(s string) Type {
	switch {
	case strings.HasPrefix(s, "4"):
		return TypeVisa
	case len(s) >= 2 && s[0] == '5' && s[1] >= '1' && s[1] <= '5':
		return TypeMastercard
	case strings.HasPrefix(s, "34"), strings.HasPrefix(s, "37"):
		return TypeAmex
	default:
		return TypeUnknown
	}
}

// Fingerprint returns a one-way hash of the card number, used as the stored
// surrogate. The hash is never reversible to the full number.
func Fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// LastFour returns the trailing four digits kept in clear for display.
func LastFour(s string) string {
	if len(s) < 4 {
		return s
	}
	return s[len(s)-4:]
}
