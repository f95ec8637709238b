package models

// FieldKind is the semantic classification of a cell.
type FieldKind string

const (
	KindCurrency   FieldKind = "currency"
	KindDate       FieldKind = "date"
	KindEmail      FieldKind = "email"
	KindPhone      FieldKind = "phone"
	KindLocation   FieldKind = "location"
	KindID         FieldKind = "id"
	KindName       FieldKind = "name"
	KindCard       FieldKind = "card"
	KindStatus     FieldKind = "status"
	KindPercentage FieldKind = "percentage"
	KindURL        FieldKind = "url"
	KindCompany    FieldKind = "company"
	KindDefault    FieldKind = "default"
)

// Kinds lists every FieldKind.
var Kinds = []FieldKind{
	KindCurrency, KindDate, KindEmail, KindPhone, KindLocation, KindID, KindName,
	KindCard, KindStatus, KindPercentage, KindURL, KindCompany, KindDefault,
}

// Tag is the semantic tag attached to a formatted cell: either a FieldKind
// or one of the structural tags below.
type Tag string

const (
	TagNull         Tag = "null"
	TagBooleanTrue  Tag = "boolean-true"
	TagBooleanFalse Tag = "boolean-false"
	TagArray        Tag = "array"
	TagObject       Tag = "object"
)

// KindTag returns the tag for a field kind.
func KindTag(k FieldKind) Tag { return Tag(k) }

// Tone is the polarity of a status value.
type Tone string

const (
	ToneNeutral  Tone = "neutral"
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
)
