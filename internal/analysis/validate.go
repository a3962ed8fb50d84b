package analysis

// MaxPrimaryBytes caps the subject image at 10 MiB.
const MaxPrimaryBytes int64 = 10 * 1024 * 1024

// Rejection reasons.
const (
	ReasonTooLarge    = "exceeds size limit"
	ReasonUnsupported = "unsupported file type"
	ReasonMissing     = "no file selected"
)

// Constraint describes what a slot accepts. MaxBytes <= 0 disables the size check.
type Constraint struct {
	MaxBytes int64
	Kind     FileKind
}

var (
	PrimaryConstraint   = Constraint{MaxBytes: MaxPrimaryBytes, Kind: KindImage}
	SecondaryConstraint = Constraint{Kind: KindDocument}
)

// Verdict is the outcome of Validate: either the accepted file or a reason.
type Verdict struct {
	File   *SelectedFile
	Reason string
}

// Accepted reports whether the file passed.
func (v Verdict) Accepted() bool { return v.Reason == "" && v.File != nil }

// Validate checks file against c. It has no side effects.
func Validate(file *SelectedFile, c Constraint) Verdict {
	if file == nil {
		return Verdict{Reason: ReasonMissing}
	}
	if c.MaxBytes > 0 && file.Size > c.MaxBytes {
		return Verdict{Reason: ReasonTooLarge}
	}
	if c.Kind != KindOther && file.Kind != c.Kind {
		return Verdict{Reason: ReasonUnsupported}
	}
	return Verdict{File: file}
}
