package analysis

import "testing"

func TestValidatePrimary(t *testing.T) {
	tests := []struct {
		name       string
		file       *SelectedFile
		wantReason string
	}{
		{name: "2MB jpeg", file: &SelectedFile{Name: "ad.jpg", Size: 2 << 20, Kind: KindImage}},
		{name: "exactly at cap", file: &SelectedFile{Name: "ad.png", Size: MaxPrimaryBytes, Kind: KindImage}},
		{name: "one byte over", file: &SelectedFile{Name: "ad.png", Size: MaxPrimaryBytes + 1, Kind: KindImage}, wantReason: ReasonTooLarge},
		{name: "12MB jpeg", file: &SelectedFile{Name: "big.jpg", Size: 12 << 20, Kind: KindImage}, wantReason: ReasonTooLarge},
		{name: "pdf in image slot", file: &SelectedFile{Name: "prd.pdf", Size: 1024, Kind: KindDocument}, wantReason: ReasonUnsupported},
		{name: "nothing picked", file: nil, wantReason: ReasonMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Validate(tt.file, PrimaryConstraint)
			if v.Reason != tt.wantReason {
				t.Fatalf("reason = %q, want %q", v.Reason, tt.wantReason)
			}
			if tt.wantReason == "" && (!v.Accepted() || v.File != tt.file) {
				t.Fatalf("file should be accepted unchanged, got %+v", v)
			}
			if tt.wantReason != "" && v.File != nil {
				t.Fatal("rejected verdict must not carry the file")
			}
		})
	}
}

func TestValidateSecondaryHasNoSizeCap(t *testing.T) {
	prd := &SelectedFile{Name: "prd.pdf", Size: 50 << 20, Kind: KindDocument}
	if v := Validate(prd, SecondaryConstraint); !v.Accepted() {
		t.Fatalf("large PRD rejected: %q", v.Reason)
	}
	if v := Validate(nil, SecondaryConstraint); v.Reason != ReasonMissing {
		t.Fatalf("reason = %q, want %q", v.Reason, ReasonMissing)
	}
}

func TestValidateDoesNotMutate(t *testing.T) {
	f := &SelectedFile{Name: "big.jpg", Size: 12 << 20, Kind: KindImage}
	before := *f
	_ = Validate(f, PrimaryConstraint)
	if f.Name != before.Name || f.Size != before.Size || f.Kind != before.Kind {
		t.Fatalf("file changed: %+v -> %+v", before, *f)
	}
}
