package lookup

import (
	"regexp"
	"strings"

	apperrors "sharewatch/internal/errors"
)

// IdentifierKind classifies a user-entered security identifier.
type IdentifierKind string

const (
	KindTicker IdentifierKind = "TICKER"
	KindISIN   IdentifierKind = "ISIN"
)

// Identifier patterns
var (
	digitsOnlyPattern = regexp.MustCompile(`^[0-9]+$`)
	tickerPattern     = regexp.MustCompile(`^[A-Z]{1,10}$`)
	isinPattern       = regexp.MustCompile(`^[A-Z0-9]{1,20}$`)
)

// Classify normalizes and classifies a user-entered identifier. Alphabetic
// input is a ticker; mixed alphanumeric input is treated as an ISIN.
// Digits-only input is never a valid identifier and is rejected before any
// store or vendor access.
func Classify(identifier string) (string, IdentifierKind, error) {
	id := strings.ToUpper(strings.TrimSpace(identifier))

	if id == "" {
		return "", "", apperrors.NewValidationError("identifier", identifier, "identifier cannot be empty")
	}
	if digitsOnlyPattern.MatchString(id) {
		return "", "", apperrors.NewValidationError("identifier", identifier, "identifier should not be numeric")
	}
	if tickerPattern.MatchString(id) {
		return id, KindTicker, nil
	}
	if isinPattern.MatchString(id) {
		return id, KindISIN, nil
	}
	return "", "", apperrors.NewValidationError("identifier", identifier, "invalid identifier format")
}
