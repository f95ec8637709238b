package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/models"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/summary"
)

const (
	maxCellWidth  = 40
	columnGap     = "  "
	truncateTail  = "…"
	emptyMessage  = "No data to display"
	noMatchFormat = "No rows match %q"
)

var (
	accentColor   = lipgloss.Color("#667EEA")
	positiveColor = lipgloss.Color("#10B981")
	negativeColor = lipgloss.Color("#EF4444")
	warningColor  = lipgloss.Color("#F59E0B")
	mutedColor    = lipgloss.Color("#6B7280")
	linkColor     = lipgloss.Color("#3B82F6")

	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	mutedStyle    = lipgloss.NewStyle().Foreground(mutedColor)
	nullStyle     = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
	positiveStyle = lipgloss.NewStyle().Foreground(positiveColor)
	negativeStyle = lipgloss.NewStyle().Foreground(negativeColor)
	warningStyle  = lipgloss.NewStyle().Foreground(warningColor)
	linkStyle     = lipgloss.NewStyle().Foreground(linkColor).Underline(true)
	numberStyle   = lipgloss.NewStyle().Bold(true)
)

// renderer writes presented pages as aligned text columns.
type renderer struct {
	w     io.Writer
	plain bool
}

func (r renderer) style(s lipgloss.Style, text string) string {
	if r.plain {
		return text
	}
	return s.Render(text)
}

func (r renderer) verdict(v *summary.Verdict) {
	if v == nil {
		return
	}
	s := mutedStyle
	switch v.Level {
	case summary.LevelFraudulent:
		s = negativeStyle.Bold(true)
	case summary.LevelSuspicious:
		s = warningStyle.Bold(true)
	case summary.LevelSafe:
		s = positiveStyle.Bold(true)
	}
	fmt.Fprintln(r.w, r.style(s, v.String()))
	if v.CreationDate != "" || v.ModificationDate != "" {
		fmt.Fprintln(r.w, r.style(mutedStyle,
			fmt.Sprintf("Created %s, modified %s", orDash(v.CreationDate), orDash(v.ModificationDate))))
	}
	fmt.Fprintln(r.w)
}

// page writes the header, the visible rows and the footer of p.
func (r renderer) page(p fraudtab.Page, query string) {
	if p.Empty {
		if query != "" && p.TotalRows == 0 && len(p.Headers) > 0 {
			fmt.Fprintln(r.w, r.style(mutedStyle, fmt.Sprintf(noMatchFormat, query)))
		} else {
			fmt.Fprintln(r.w, r.style(mutedStyle, emptyMessage))
		}
		return
	}

	widths := columnWidths(p)

	header := make([]string, len(p.Labels))
	for i, label := range p.Labels {
		header[i] = r.style(headerStyle, fit(label, widths[i]))
	}
	fmt.Fprintln(r.w, strings.TrimRight(strings.Join(header, columnGap), " "))

	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w)
	}
	fmt.Fprintln(r.w, r.style(mutedStyle, strings.Join(rule, columnGap)))

	for _, row := range p.Rows {
		line := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			line[i] = r.style(cellStyle(c), fit(c.Text, widths[i]))
		}
		fmt.Fprintln(r.w, strings.TrimRight(strings.Join(line, columnGap), " "))
	}

	fmt.Fprintln(r.w)
	footer := p.Range
	if query != "" {
		footer = fmt.Sprintf("%s, %s for %q", p.Range, p.Count, query)
	}
	fmt.Fprintln(r.w, r.style(mutedStyle, footer))
}

func cellStyle(c fraudtab.Cell) lipgloss.Style {
	switch c.Tag {
	case models.TagNull:
		return nullStyle
	case models.TagBooleanTrue:
		return positiveStyle
	case models.TagBooleanFalse:
		return negativeStyle
	case models.TagArray, models.TagObject:
		return mutedStyle
	case models.KindTag(models.KindCurrency):
		if strings.HasPrefix(c.Text, "-") {
			return negativeStyle
		}
		return numberStyle
	case models.KindTag(models.KindURL):
		return linkStyle
	case models.KindTag(models.KindStatus):
		switch c.Tone {
		case models.TonePositive:
			return positiveStyle
		case models.ToneNegative:
			return negativeStyle
		}
		return warningStyle
	}
	return lipgloss.NewStyle()
}

// columnWidths sizes each column to its widest label or cell, capped at maxCellWidth.
func columnWidths(p fraudtab.Page) []int {
	widths := make([]int, len(p.Labels))
	for i, label := range p.Labels {
		widths[i] = runewidth.StringWidth(label)
	}
	for _, row := range p.Rows {
		for i, c := range row.Cells {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(c.Text))
			}
		}
	}
	for i := range widths {
		widths[i] = min(max(widths[i], 1), maxCellWidth)
	}
	return widths
}

// fit truncates or pads s to exactly width terminal cells. Newlines are
// flattened so every row stays on one line.
func fit(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, truncateTail)
	}
	return runewidth.FillRight(s, width)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
