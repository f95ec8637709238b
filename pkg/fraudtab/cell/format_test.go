package cell

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/models"
)

func TestFormatNumbers(t *testing.T) {
	f := DefaultFormatter()

	tests := []struct {
		name     string
		kind     models.FieldKind
		value    float64
		expected string
	}{
		{"currency", models.KindCurrency, 1234.5, "$1,234.50"},
		{"negative currency", models.KindCurrency, -20, "-$20.00"},
		{"zero currency", models.KindCurrency, 0, "$0.00"},
		{"percentage", models.KindPercentage, 12.5, "12.5%"},
		{"plain", models.KindDefault, 1234567.891, "1,234,567.891"},
		{"plain rounded", models.KindDefault, 1234.5678, "1,234.568"},
		{"small", models.KindDefault, 42, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Format(tt.kind, "x", models.NewNumber(tt.value))
			assert.Equal(t, tt.expected, got.Text)
			assert.Equal(t, models.KindTag(tt.kind), got.Tag)
		})
	}
}

func TestFormatOtherCurrencies(t *testing.T) {
	zar, err := NewFormatter(FormatOptions{Currency: "zar"})
	require.NoError(t, err)
	assert.Equal(t, "R1,000.00", zar.Money(1000))
	assert.Equal(t, "ZAR", zar.Currency())

	jpy, err := NewFormatter(FormatOptions{Currency: "JPY"})
	require.NoError(t, err)
	assert.Equal(t, "¥1,500", jpy.Money(1500))

	_, err = NewFormatter(FormatOptions{Currency: "DOLLARS"})
	assert.Error(t, err)
}

func TestFormatStructuralValues(t *testing.T) {
	f := DefaultFormatter()

	tests := []struct {
		value models.RawValue
		text  string
		tag   models.Tag
	}{
		{models.NewNull(), "null", models.TagNull},
		{models.NewBool(true), "true", models.TagBooleanTrue},
		{models.NewBool(false), "false", models.TagBooleanFalse},
		{models.NewArray(models.NewNumber(1), models.NewNumber(2)), "Array (2 items)", models.TagArray},
		{models.NewArray(models.NewNumber(1)), "Array (1 item)", models.TagArray},
		{models.NewObject(models.Member{Key: "a", Value: models.NewNull()}), "Object (1 key)", models.TagObject},
		{models.NewObject(), "Object (0 keys)", models.TagObject},
	}

	for _, tt := range tests {
		got := f.Format(models.KindCurrency, "amount", tt.value)
		assert.Equal(t, tt.text, got.Text)
		assert.Equal(t, tt.tag, got.Tag)
	}
}

func TestFormatNullIsNeverEmpty(t *testing.T) {
	f := DefaultFormatter()
	assert.NotEqual(t, f.Format("", "note", models.NewNull()).Text, f.Format("", "note", models.NewString("")).Text)
}

func TestFormatStrings(t *testing.T) {
	f := DefaultFormatter()

	tests := []struct {
		name string
		key  string
		in   string
		text string
		tag  models.Tag
		tone models.Tone
		href string
	}{
		{"iso date", "value_date", "2024-01-05", "2024-01-05", "date", "", ""},
		{"epoch seconds", "notes", "1704067200", "1/1/2024, 12:00:00 AM", "date", "", ""},
		{"epoch millis", "created", "1704067200000", "1/1/2024, 12:00:00 AM", "date", "", ""},
		{"account digits stay", "account_number", "1704067200", "1704067200", "card", "", ""},
		{"email", "contact", "a@b.co", "a@b.co", "email", "", ""},
		{"url", "website", "https://acme.test", "https://acme.test", "url", "", "https://acme.test"},
		{"url by value", "notes", "https://acme.test", "https://acme.test", "url", "", "https://acme.test"},
		{"uuid", "notes", "123e4567-e89b-12d3-a456-426614174000", "123e4567-e89b-12d3-a456-426614174000", "id", "", ""},
		{"positive status", "status", "Approved", "Approved", "status", models.TonePositive, ""},
		{"negative status", "status", "pending", "pending", "status", models.ToneNegative, ""},
		{"neutral status", "status", "review", "review", "status", models.ToneNeutral, ""},
		{"location", "city", "Cape Town", "Cape Town", "location", "", ""},
		{"company", "business", "Acme Ltd", "Acme Ltd", "company", "", ""},
		{"name", "customer", "Jane", "Jane", "name", "", ""},
		{"plain", "description", "Groceries", "Groceries", "default", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Format("", tt.key, models.NewString(tt.in))
			assert.Equal(t, tt.text, got.Text)
			assert.Equal(t, tt.tag, got.Tag)
			assert.Equal(t, tt.tone, got.Tone)
			assert.Equal(t, tt.href, got.Href)
		})
	}
}

func TestFormatNumericEpochUnderDateHeader(t *testing.T) {
	f, err := NewFormatter(FormatOptions{Currency: "USD", Location: time.FixedZone("SAST", 2*60*60)})
	require.NoError(t, err)

	got := f.Format("", "created", models.NewNumber(1704067200))
	assert.Equal(t, "1/1/2024, 2:00:00 AM", got.Text)
	assert.Equal(t, models.Tag("date"), got.Tag)
}

func TestFormatCellUsesFieldName(t *testing.T) {
	f := DefaultFormatter()
	c := models.Cell{Key: "Value", Field: "total_in", Value: models.NewNumber(1000)}

	got := f.FormatCell(c)
	assert.Equal(t, "$1,000.00", got.Text)
	assert.Equal(t, models.Tag("currency"), got.Tag)
}

func TestHeaderLabel(t *testing.T) {
	tests := map[string]string{
		"total_in":               "Total in",
		"important_transactions": "Important transactions",
		"Value":                  "Value",
		"éclair_count":           "Éclair count",
		"":                       "",
	}
	for in, expected := range tests {
		assert.Equal(t, expected, HeaderLabel(in))
	}
}
