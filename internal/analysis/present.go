package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DisplayModel is what the result view renders.
type DisplayModel struct {
	Overall Status
	Cards   []Card
}

// Card is one section of the result.
type Card struct {
	Title           string
	Status          Status
	Checks          []CheckRow
	Issues          []string
	Recommendations []string
}

// Passed reports whether the card carries a PASS badge.
func (c Card) Passed() bool { return c.Status == StatusPass }

// CheckRow is one labelled check.
type CheckRow struct {
	Label   string
	Status  Status
	Details string
}

// Present derives the display model from a result. Issue and recommendation
// lists are nil when the section has none.
func Present(r Result) DisplayModel {
	dm := DisplayModel{Overall: r.OverallStatus}
	for _, sec := range r.Sections {
		card := Card{Title: Title(sec.Key), Status: sec.Status}
		for _, chk := range sec.Checks {
			card.Checks = append(card.Checks, CheckRow{Label: Title(chk.Key), Status: chk.Status, Details: chk.Details})
		}
		if len(sec.Issues) > 0 {
			card.Issues = append([]string(nil), sec.Issues...)
		}
		if len(sec.Recommendations) > 0 {
			card.Recommendations = append([]string(nil), sec.Recommendations...)
		}
		dm.Cards = append(dm.Cards, card)
	}
	return dm
}

// Title turns a wire key such as "brand_compliance" into "Brand Compliance".
// Only underscores separate words; each word gets an upper-case first letter.
func Title(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
