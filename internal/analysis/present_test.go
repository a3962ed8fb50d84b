package analysis

import (
	"testing"

	"github.com/jask/adlens/internal/testdata"
)

func TestPresentSingleComplianceCard(t *testing.T) {
	res, e := ParseResult(qcMode(t), []byte(testdata.PassBody))
	if e != nil {
		t.Fatalf("ParseResult: %v", e)
	}
	dm := Present(res)
	if dm.Overall != StatusPass {
		t.Fatalf("overall = %q", dm.Overall)
	}
	if len(dm.Cards) != 1 {
		t.Fatalf("cards = %d, want 1", len(dm.Cards))
	}
	c := dm.Cards[0]
	if c.Title != "Compliance" || !c.Passed() {
		t.Fatalf("card = %+v", c)
	}
	if c.Issues != nil || c.Recommendations != nil {
		t.Fatal("empty lists must be omitted")
	}
}

func TestPresentFailingSections(t *testing.T) {
	res, e := ParseResult(qcMode(t), []byte(testdata.FailBody))
	if e != nil {
		t.Fatalf("ParseResult: %v", e)
	}
	dm := Present(res)
	if len(dm.Cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(dm.Cards))
	}
	brand := dm.Cards[0]
	if brand.Title != "Brand Compliance" || brand.Passed() {
		t.Fatalf("card = %+v", brand)
	}
	if brand.Checks[0].Label != "Logo Placement" || brand.Checks[0].Status != StatusFail {
		t.Fatalf("check row = %+v", brand.Checks[0])
	}
	if len(brand.Issues) != 1 || len(brand.Recommendations) != 1 {
		t.Fatalf("lists = %v / %v", brand.Issues, brand.Recommendations)
	}
	legibility := dm.Cards[1]
	if legibility.Title != "Text Legibility" || legibility.Issues != nil {
		t.Fatalf("card = %+v", legibility)
	}
}

func TestTitle(t *testing.T) {
	tests := map[string]string{
		"compliance":       "Compliance",
		"brand_compliance": "Brand Compliance",
		"cta-clarity":      "Cta-clarity",
		"already spaced":   "Already spaced",
		"call_to-action":   "Call To-action",
		"":                 "",
		"__x__":            "  X  ",
	}
	for in, want := range tests {
		if got := Title(in); got != want {
			t.Errorf("Title(%q) = %q, want %q", in, got, want)
		}
	}
}
