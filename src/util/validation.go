package util

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"spendwise-server/src/models"

	"github.com/shopspring/decimal"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	lowerPattern = regexp.MustCompile("[a-z]")
	upperPattern = regexp.MustCompile("[A-Z]")
	digitPattern = regexp.MustCompile("[0-9]")
	otherPattern = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// maxAmount is the first value NUMERIC(10,2) cannot hold.
var maxAmount = decimal.New(1, 8)

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func ValidateUsername(username string) bool {
	return len(username) >= 3 && len(username) <= 30
}

func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	return lowerPattern.MatchString(password) &&
		upperPattern.MatchString(password) &&
		digitPattern.MatchString(password) &&
		otherPattern.MatchString(password)
}

// ValidateName accepts non-blank names of up to 100 characters.
func ValidateName(name string) bool {
	return strings.TrimSpace(name) != "" && utf8.RuneCountInString(name) <= 100
}

// ValidateAmount accepts non-negative amounts that fit the money columns.
// ParseMoney has already rejected extra decimals.
func ValidateAmount(m models.Money) bool {
	return !m.IsNegative() && m.LessThan(maxAmount)
}
