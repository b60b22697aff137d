package domain

import "strings"

// Expiration dates arrive in several delimiter formats (12/25, 12-2025,
// 12.25, "12 25"). The delimiter is always the character at index 2; this is
// an external contract and deliberately narrow.
const expirationDelimiters = " ./-"

// NormalizeExpirationDate converts an accepted expiration date into the
// MM/YYYY form the tokenization service expects. Two-digit years are
// prefixed with 20. Any other shape is a validation error.
func NormalizeExpirationDate(date string) (string, error) {
	if len(date) < 4 {
		return "", NewValidationError("Expiration date is in invalid format")
	}

	delimiter := string(date[2])
	if !strings.Contains(expirationDelimiters, delimiter) {
		return "", NewValidationError("Expiration date is in invalid format")
	}

	parts := strings.Split(date, delimiter)
	if len(parts) != 2 || parts[1] == "" {
		return "", NewValidationError("Expiration date is in invalid format")
	}

	month, year := parts[0], parts[1]
	if len(year) == 2 {
		year = "20" + year
	}
	return month + "/" + year, nil
}
