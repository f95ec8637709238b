// Package cell classifies and formats individual table cells.
package cell

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/models"
)

// KeywordRule maps header-name keywords to a field kind.
type KeywordRule struct {
	Kind     models.FieldKind
	Keywords []string
}

// KeywordRules are checked top to bottom against the lower-cased header name;
// the first rule with a keyword contained in the name wins.
var KeywordRules = []KeywordRule{
	{models.KindCurrency, []string{"amount", "price", "cost", "balance", "total", "fee", "value", "sum"}},
	{models.KindDate, []string{"date", "time", "created", "updated", "timestamp"}},
	{models.KindEmail, []string{"email", "mail"}},
	{models.KindPhone, []string{"phone", "mobile", "tel"}},
	{models.KindLocation, []string{"address", "location", "city", "country", "state"}},
	{models.KindID, []string{"id", "uuid", "reference"}},
	{models.KindName, []string{"name", "user", "customer"}},
	{models.KindCard, []string{"card", "account", "number"}},
	{models.KindStatus, []string{"status", "state", "type"}},
	{models.KindPercentage, []string{"percentage", "rate", "percent"}},
	{models.KindURL, []string{"url", "link", "website"}},
	{models.KindCompany, []string{"company", "organization", "business"}},
}

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	usDatePattern  = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)
	epochPattern   = regexp.MustCompile(`^\d{10,13}$`)
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern   = regexp.MustCompile(`^[\d\s\-+()]+$`)
	urlPattern     = regexp.MustCompile(`^https?://`)
	cardPattern    = regexp.MustCompile(`^\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}$`)
	nonDigits      = regexp.MustCompile(`\D`)
	whitespace     = regexp.MustCompile(`\s`)
)

// Classify infers the semantic kind of a value from its header name and,
// when no keyword matches, from the shape of a string value.
// It is pure: the same arguments always give the same kind.
func Classify(header string, value models.RawValue) models.FieldKind {
	if kind, ok := ClassifyHeader(header); ok {
		return kind
	}
	if s, ok := value.AsString(); ok {
		return ClassifyString(s)
	}
	return models.KindDefault
}

// ClassifyHeader matches header against KeywordRules.
func ClassifyHeader(header string) (models.FieldKind, bool) {
	lower := strings.ToLower(header)
	for _, rule := range KeywordRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Kind, true
			}
		}
	}
	return models.KindDefault, false
}

// ClassifyString detects a kind from the shape of s alone.
// Card numbers are tried before phones since every card shape is also phone-shaped.
func ClassifyString(s string) models.FieldKind {
	switch {
	case IsDateText(s), IsEpochText(s):
		return models.KindDate
	case IsEmail(s):
		return models.KindEmail
	case IsCardNumber(s):
		return models.KindCard
	case IsPhone(s):
		return models.KindPhone
	case IsURL(s):
		return models.KindURL
	case IsUUID(s):
		return models.KindID
	}
	return models.KindDefault
}

// IsDateText reports whether s starts with YYYY-MM-DD or MM/DD/YYYY.
func IsDateText(s string) bool {
	return isoDatePattern.MatchString(s) || usDatePattern.MatchString(s)
}

// IsEpochText reports whether s is a 10 to 13 digit timestamp.
func IsEpochText(s string) bool { return epochPattern.MatchString(s) }

// IsEmail reports whether s is shaped like an email address.
func IsEmail(s string) bool { return emailPattern.MatchString(s) }

// IsPhone reports whether s holds only phone punctuation and at least 10 digits.
func IsPhone(s string) bool {
	return phonePattern.MatchString(s) && len(nonDigits.ReplaceAllString(s, "")) >= 10
}

// IsURL reports whether s starts with http:// or https://.
func IsURL(s string) bool { return urlPattern.MatchString(s) }

// IsUUID reports whether s is a hyphenated UUID.
func IsUUID(s string) bool {
	return len(s) == 36 && uuid.Validate(s) == nil
}

// IsCardNumber reports whether s is 16 digits, optionally grouped by four.
func IsCardNumber(s string) bool {
	return cardPattern.MatchString(whitespace.ReplaceAllString(s, ""))
}
