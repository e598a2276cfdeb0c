package model

import "regexp"

var phoneNumberPattern = regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{3,18}[0-9]$`)

// ValidPhoneNumber reports whether s looks like a dialable phone number: digits, optionally
// grouped with spaces, dashes or parentheses, and an optional leading '+'.
func ValidPhoneNumber(s string) bool {
	return phoneNumberPattern.MatchString(s)
}

var (
	identityCodeWeights1 = [10]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 1}
	identityCodeWeights2 = [10]int{3, 4, 5, 6, 7, 8, 9, 1, 2, 3}
)

// ValidIdentityCode reports whether code is a well formed personal identity code: eleven digits,
// the first one encoding gender and century (1-6) and the last one a check digit.
func ValidIdentityCode(code string) bool {
	if len(code) != 11 {
		return false
	}
	var digits [11]int
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
		digits[i] = int(code[i] - '0')
	}
	if digits[0] < 1 || digits[0] > 6 {
		return false
	}
	return identityCodeCheckDigit(digits) == digits[10]
}

func identityCodeCheckDigit(digits [11]int) int {
	for _, weights := range [][10]int{identityCodeWeights1, identityCodeWeights2} {
		sum := 0
		for i, w := range weights {
			sum += digits[i] * w
		}
		if rest := sum % 11; rest != 10 {
			return rest
		}
	}
	return 0
}
