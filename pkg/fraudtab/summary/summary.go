// Package summary derives a fraud verdict from an analysis result.
package summary

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/models"
)

// Level is the overall verdict.
type Level string

const (
	LevelSafe       Level = "safe"
	LevelSuspicious Level = "suspicious"
	LevelFraudulent Level = "fraudulent"
)

// Label returns the display form of l.
func (l Level) Label() string {
	switch l {
	case LevelFraudulent:
		return "Fraudulent"
	case LevelSuspicious:
		return "Suspicious"
	}
	return "Safe"
}

// Risk buckets a score for display.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

const (
	// SuspiciousScore is the score above which a result is suspicious.
	SuspiciousScore = 50
	// DiscrepancyThreshold is the absolute balance difference flagged as significant.
	DiscrepancyThreshold = 1000
)

var (
	scorePattern  = regexp.MustCompile(`Score:\s*(\d+)`)
	statusPattern = regexp.MustCompile(`Status:\s*(\w+)`)
)

// Verdict summarizes the fraud-relevant fields of an analysis result.
type Verdict struct {
	Summary  string  `json:"summary,omitempty"`
	Score    float64 `json:"score"`
	HasScore bool    `json:"has_score"`
	Status   string  `json:"status,omitempty"`
	Level    Level   `json:"level"`

	BalanceDifference      float64 `json:"balance_difference,omitempty"`
	SignificantDiscrepancy bool    `json:"significant_discrepancy"`

	CreationDate     string `json:"creation_date,omitempty"`
	ModificationDate string `json:"modification_date,omitempty"`
}

// Evaluate reads score, status and summary from an object result.
// ok is false when raw is not an object, or has neither a summary nor both
// score and status.
//
// Score and status come from the top-level fields when both are set,
// otherwise from "Score: NN" and "Status: word" inside the summary text.
func Evaluate(raw models.RawValue) (Verdict, bool) {
	if !raw.IsObject() {
		return Verdict{}, false
	}

	var v Verdict
	v.Summary = stringField(raw, "summary")

	score, hasScore := numberField(raw, "score")
	status := stringField(raw, "status")
	switch {
	case hasScore && score != 0 && status != "":
		v.Score, v.HasScore, v.Status = score, true, status
	case v.Summary != "":
		if m := scorePattern.FindStringSubmatch(v.Summary); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				v.Score, v.HasScore = float64(n), true
			}
		}
		if m := statusPattern.FindStringSubmatch(v.Summary); m != nil {
			v.Status = m[1]
		}
	default:
		return Verdict{}, false
	}

	switch {
	case strings.EqualFold(v.Status, string(LevelFraudulent)):
		v.Level = LevelFraudulent
	case v.HasScore && v.Score > SuspiciousScore:
		v.Level = LevelSuspicious
	default:
		v.Level = LevelSafe
	}

	if diff, ok := numberField(raw, "balance_difference"); ok {
		v.BalanceDifference = diff
		v.SignificantDiscrepancy = math.Abs(diff) > DiscrepancyThreshold
	}

	if tech, ok := raw.Get("technical"); ok {
		v.CreationDate = ParsePDFDate(stringField(tech, "creation_date_raw"))
		v.ModificationDate = ParsePDFDate(stringField(tech, "mod_date_raw"))
	}
	return v, true
}

// Risk buckets the score: above 70 is high, above 40 medium.
func (v Verdict) Risk() Risk {
	switch {
	case v.Score > 70:
		return RiskHigh
	case v.Score > 40:
		return RiskMedium
	}
	return RiskLow
}

// String renders the verdict as one line, e.g. "Verdict: Suspicious (risk score 72/100)".
func (v Verdict) String() string {
	s := "Verdict: " + v.Level.Label()
	if v.HasScore {
		s += fmt.Sprintf(" (risk score %s/100)", models.FormatNumber(v.Score))
	}
	if v.SignificantDiscrepancy {
		s += ", significant balance discrepancy"
	}
	return s
}

// ParsePDFDate shortens a PDF date such as D:20250804151356+02'00' to
// 2025-08-04. Other text is returned unchanged.
func ParsePDFDate(s string) string {
	if !strings.HasPrefix(s, "D:") || len(s) < 10 {
		return s
	}
	d := s[2:10]
	return d[0:4] + "-" + d[4:6] + "-" + d[6:8]
}

func stringField(raw models.RawValue, key string) string {
	v, _ := raw.Get(key)
	s, _ := v.AsString()
	return s
}

func numberField(raw models.RawValue, key string) (float64, bool) {
	v, _ := raw.Get(key)
	return v.AsNumber()
}
