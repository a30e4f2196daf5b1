// Package normalize canonicalizes phone numbers and name queries.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/dshills/callerid-mcp/pkg/types"
)

// phonePattern accepts an optional '+', an optional leading 1 and 9-15 digits
var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// folder is stateless for Fold, so it is safe to share
var folder = cases.Fold()

// Phone returns the canonical form of a phone number: all whitespace
// removed and a leading '+' added when absent. It does not validate.
// Phone(Phone(x)) == Phone(x).
func Phone(raw string) string {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if compact == "" {
		return ""
	}
	if !strings.HasPrefix(compact, "+") {
		compact = "+" + compact
	}
	return compact
}

// PhoneQuery canonicalizes and validates a phone query.
func PhoneQuery(raw string) (string, error) {
	phone := Phone(raw)
	if phone == "" {
		return "", fmt.Errorf("%w: phone number is required", types.ErrInvalidQuery)
	}
	if !phonePattern.MatchString(phone) {
		return "", fmt.Errorf("%w: malformed phone number %q", types.ErrInvalidQuery, raw)
	}
	return phone, nil
}

// ValidPhone reports whether an already canonical number is well formed
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// NameQuery trims a name query and rejects it when empty. The returned
// text keeps its original case; use Fold for comparisons.
func NameQuery(raw string) (string, error) {
	q := strings.TrimSpace(raw)
	if q == "" {
		return "", fmt.Errorf("%w: search query is required", types.ErrInvalidQuery)
	}
	return q, nil
}

// Fold case-folds text for case-insensitive comparison
func Fold(s string) string {
	return folder.String(s)
}
