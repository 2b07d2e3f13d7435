package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// Deliberately permissive: rejects whitespace and requires one "@" plus a
	// dotted domain, nothing close to full RFC 5322.
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	namePattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z '\-]*$`)
	cvvPattern   = regexp.MustCompile(`^[0-9]{3,4}$`)
	zipPattern   = regexp.MustCompile(`^[0-9]{5}(-[0-9]{4})?$`)
	// Non-negative amount with at most two decimal places.
	currencyPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?$`)
	expiryPattern   = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)
)

// IsEmail reports whether value matches the permissive email shape.
func IsEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// IsPhone accepts any input whose digit count, ignoring formatting
// characters, falls in [10, 15].
func IsPhone(value string) bool {
	digits := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 10 && digits <= 15
}

// IsName accepts letters, spaces, hyphens and apostrophes.
func IsName(value string) bool {
	return namePattern.MatchString(value)
}

// IsCreditCard reports whether value, after stripping spaces, is 13-19
// digits long and passes the Luhn checksum.
func IsCreditCard(value string) bool {
	stripped := strings.ReplaceAll(value, " ", "")
	if len(stripped) < 13 || len(stripped) > 19 {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return Luhn(stripped)
}

// Luhn computes the mod-10 checksum over a digit string: every second digit
// from the right is doubled, digits above 9 have 9 subtracted, and the sum
// must divide by 10.
func Luhn(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// IsExpiry accepts MM/YY with month in [01,12] where the pair (YY, MM) is not
// strictly before now's (year%100, month).
func IsExpiry(value string, now time.Time) bool {
	match := expiryPattern.FindStringSubmatch(value)
	if match == nil {
		return false
	}
	month, _ := strconv.Atoi(match[1])
	year, _ := strconv.Atoi(match[2])

	nowYear := now.Year() % 100
	nowMonth := int(now.Month())

	if year < nowYear {
		return false
	}
	if year == nowYear && month < nowMonth {
		return false
	}
	return true
}

// IsCVV accepts 3 or 4 digits.
func IsCVV(value string) bool {
	return cvvPattern.MatchString(value)
}

// IsZip accepts 5 digits with an optional -NNNN suffix.
func IsZip(value string) bool {
	return zipPattern.MatchString(value)
}

// IsCurrency accepts a non-negative number with at most two decimal places.
func IsCurrency(value string) bool {
	return currencyPattern.MatchString(value)
}

// MaskCardNumber hides everything but the last four digits, preserving
// nothing of the original grouping.
func MaskCardNumber(value string) string {
	stripped := strings.ReplaceAll(value, " ", "")
	if len(stripped) <= 4 {
		return stripped
	}
	return "•••• •••• •••• " + stripped[len(stripped)-4:]
}
