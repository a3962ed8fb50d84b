package analysis

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Operation is the remote operation a mode maps onto. The set is closed;
// every switch over it must stay exhaustive.
type Operation int

const (
	OpQC Operation = iota
	OpCRMAnalysis
	OpCompetitorAnalyze
	OpCompetitorBatch
	OpCompetitorCompare
	OpFetchAds
)

func (o Operation) String() string {
	switch o {
	case OpQC:
		return "qc"
	case OpCRMAnalysis:
		return "crm_analysis"
	case OpCompetitorAnalyze:
		return "competitor_analyze"
	case OpCompetitorBatch:
		return "competitor_batch"
	case OpCompetitorCompare:
		return "competitor_compare"
	case OpFetchAds:
		return "fetch_ads"
	}
	return "unknown"
}

// RequiresFile reports whether the operation uploads the primary subject file.
func (o Operation) RequiresFile() bool {
	switch o {
	case OpQC, OpCRMAnalysis, OpCompetitorAnalyze, OpCompetitorBatch, OpCompetitorCompare:
		return true
	case OpFetchAds:
		return false
	}
	return false
}

// AcceptsDocument reports whether the operation forwards the secondary PRD document.
func (o Operation) AcceptsDocument() bool {
	switch o {
	case OpQC, OpCRMAnalysis:
		return true
	case OpCompetitorAnalyze, OpCompetitorBatch, OpCompetitorCompare, OpFetchAds:
		return false
	}
	return false
}

// Mode is one of the analyses a user can request.
type Mode struct {
	ID          string
	Name        string
	Description string
	Operation   Operation
	// ResultKey is the key under "analysis" the result sections are expected at.
	ResultKey string
}

// IsZero reports whether no mode has been chosen.
func (m Mode) IsZero() bool { return m.ID == "" }

// AcceptsDocument reports whether a chosen mode forwards the PRD. The zero
// Mode takes nothing.
func (m Mode) AcceptsDocument() bool {
	return !m.IsZero() && m.Operation.AcceptsDocument()
}

var modes = []Mode{
	{ID: "qc", Name: "QC Check", Description: "Quality check for ad compliance", Operation: OpQC, ResultKey: "qc"},
	{ID: "crm", Name: "CRM Analysis", Description: "Customer response analysis", Operation: OpCRMAnalysis, ResultKey: "crm"},
	{ID: "competitor-single", Name: "Competitor Analysis", Description: "Single ad competitor analysis", Operation: OpCompetitorAnalyze, ResultKey: "competitor"},
	{ID: "competitor-batch", Name: "Batch Analysis", Description: "Multiple ads analysis", Operation: OpCompetitorBatch, ResultKey: "batch"},
	{ID: "competitor-compare", Name: "Compare", Description: "Compare with competitors", Operation: OpCompetitorCompare, ResultKey: "compare"},
	{ID: "fetch-ads", Name: "Fetch Ads", Description: "Fetch ads for analysis", Operation: OpFetchAds, ResultKey: "fetch"},
}

// Modes returns the static mode table in display order.
func Modes() []Mode {
	return append([]Mode(nil), modes...)
}

// ModeByID looks up a mode by its id.
func ModeByID(id string) (Mode, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, m := range modes {
		if m.ID == id {
			return m, true
		}
	}
	return Mode{}, false
}

// SuggestMode returns the mode id closest to id, for "did you mean" hints.
// ok is false when nothing is reasonably close.
func SuggestMode(id string) (string, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return "", false
	}
	best, bestDist := "", -1
	for _, m := range modes {
		d := levenshtein.ComputeDistance(id, m.ID)
		if bestDist < 0 || d < bestDist {
			best, bestDist = m.ID, d
		}
	}
	if bestDist > len(best)/2 {
		return "", false
	}
	return best, true
}
