package cell

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/models"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatted is a presentation-ready cell.
type Formatted struct {
	Text string      `json:"text"`
	Tag  models.Tag  `json:"tag"`
	Tone models.Tone `json:"tone,omitempty"`
	Href string      `json:"href,omitempty"`
}

// DateTimeLayout renders converted epoch timestamps.
const DateTimeLayout = "1/2/2006, 3:04:05 PM"

var (
	positiveStatuses = []string{"active", "success", "approved", "completed", "verified", "valid"}
	negativeStatuses = []string{"inactive", "failed", "rejected", "cancelled", "pending", "invalid"}
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"ZAR": "R",
	"INR": "₹",
}

// FormatOptions configures a Formatter.
type FormatOptions struct {
	// Currency is the ISO 4217 code used for currency cells.
	Currency string
	// Location is the zone epoch timestamps are shown in. Nil means UTC.
	Location *time.Location
}

// DefaultFormatOptions returns US dollars shown in UTC.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{Currency: "USD", Location: time.UTC}
}

// Formatter renders classified values for display. Numbers use
// American English grouping.
type Formatter struct {
	code     string
	symbol   string
	scale    int
	location *time.Location
}

// NewFormatter validates opts and returns a Formatter.
func NewFormatter(opts FormatOptions) (*Formatter, error) {
	code := strings.ToUpper(strings.TrimSpace(opts.Currency))
	if code == "" {
		code = "USD"
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", opts.Currency, err)
	}
	scale, _ := currency.Standard.Rounding(unit)

	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = code + " "
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{code: code, symbol: symbol, scale: scale, location: loc}, nil
}

// DefaultFormatter returns a Formatter built from DefaultFormatOptions.
func DefaultFormatter() *Formatter {
	f, _ := NewFormatter(DefaultFormatOptions())
	return f
}

// Currency returns the ISO code used for currency cells.
func (f *Formatter) Currency() string { return f.code }

// FormatCell classifies c by its field name and formats it.
func (f *Formatter) FormatCell(c models.Cell) Formatted {
	return f.Format(Classify(c.FieldName(), c.Value), c.FieldName(), c.Value)
}

// Format renders value of the given kind. An empty kind is classified from key.
// Nested values are summarized by size and never expanded.
func (f *Formatter) Format(kind models.FieldKind, key string, value models.RawValue) Formatted {
	if kind == "" {
		kind = Classify(key, value)
	}

	switch value.Type() {
	case models.TypeNull:
		return Formatted{Text: "null", Tag: models.TagNull}
	case models.TypeBool:
		if b, _ := value.AsBool(); b {
			return Formatted{Text: "true", Tag: models.TagBooleanTrue}
		}
		return Formatted{Text: "false", Tag: models.TagBooleanFalse}
	case models.TypeNumber:
		n, _ := value.AsNumber()
		return f.formatNumber(kind, n)
	case models.TypeString:
		s, _ := value.AsString()
		return f.formatString(kind, s)
	case models.TypeArray:
		return Formatted{Text: fmt.Sprintf("Array (%s)", plural(value.Len(), "item")), Tag: models.TagArray}
	case models.TypeObject:
		return Formatted{Text: fmt.Sprintf("Object (%s)", plural(value.Len(), "key")), Tag: models.TagObject}
	}
	return Formatted{Text: value.String(), Tag: models.KindTag(models.KindDefault)}
}

func (f *Formatter) formatNumber(kind models.FieldKind, n float64) Formatted {
	switch kind {
	case models.KindCurrency:
		return Formatted{Text: f.Money(n), Tag: models.KindTag(kind)}
	case models.KindPercentage:
		return Formatted{Text: models.FormatNumber(n) + "%", Tag: models.KindTag(kind)}
	case models.KindDate:
		if n == math.Trunc(n) && IsEpochText(strconv.FormatFloat(n, 'f', 0, 64)) {
			return Formatted{Text: f.epochText(int64(n)), Tag: models.KindTag(kind)}
		}
	}
	return Formatted{Text: Grouped(n), Tag: models.KindTag(kind)}
}

// formatString shows date-prefixed text as-is whatever the kind. Epoch digit
// strings are converted only when no other kind was inferred from the header.
func (f *Formatter) formatString(kind models.FieldKind, s string) Formatted {
	if IsDateText(s) {
		return Formatted{Text: s, Tag: models.KindTag(models.KindDate)}
	}
	if (kind == models.KindDate || kind == models.KindDefault) && IsEpochText(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return Formatted{Text: f.epochText(n), Tag: models.KindTag(models.KindDate)}
		}
	}
	if kind == models.KindDefault {
		kind = ClassifyString(s)
	}

	out := Formatted{Text: s, Tag: models.KindTag(kind)}
	switch kind {
	case models.KindURL:
		out.Href = s
	case models.KindStatus:
		out.Tone = StatusTone(s)
	}
	return out
}

// Money renders n as an amount in the formatter's currency, e.g. -$1,234.50.
func (f *Formatter) Money(n float64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	p := message.NewPrinter(language.AmericanEnglish)
	amount := p.Sprint(number.Decimal(n, number.MinFractionDigits(f.scale), number.MaxFractionDigits(f.scale)))
	return sign + f.symbol + amount
}

// Grouped renders n with thousands separators and at most three decimals.
func Grouped(n float64) string {
	p := message.NewPrinter(language.AmericanEnglish)
	return p.Sprint(number.Decimal(n, number.MaxFractionDigits(3)))
}

// epochText treats 10 digits as seconds and longer values as milliseconds.
func (f *Formatter) epochText(n int64) string {
	var t time.Time
	if n < 1e10 {
		t = time.Unix(n, 0)
	} else {
		t = time.UnixMilli(n)
	}
	return t.In(f.location).Format(DateTimeLayout)
}

// StatusTone classifies a status word against fixed allow-lists.
func StatusTone(s string) models.Tone {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, p := range positiveStatuses {
		if lower == p {
			return models.TonePositive
		}
	}
	for _, n := range negativeStatuses {
		if lower == n {
			return models.ToneNegative
		}
	}
	return models.ToneNeutral
}

// HeaderLabel turns a header key into a column title: the first letter is
// upper-cased and underscores become spaces.
func HeaderLabel(header string) string {
	if header == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(header)
	return string(unicode.ToUpper(r)) + strings.ReplaceAll(header[size:], "_", " ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
