// Package session owns one submission: the selected mode and files, the
// request in flight and its outcome. All mutation happens through Machine on
// the Bubble Tea update loop.
package session

import "github.com/jask/adlens/internal/analysis"

// Phase is where a submission stands.
type Phase int

const (
	Idle Phase = iota
	Validating
	InFlight
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case InFlight:
		return "in_flight"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether the phase ends an attempt. Terminal phases are left
// again by the next user change.
func (p Phase) Terminal() bool { return p == Succeeded || p == Failed }

// Slot names a file input.
type Slot int

const (
	// SlotPrimary holds the ad image under analysis.
	SlotPrimary Slot = iota
	// SlotSecondary holds the optional PRD document.
	SlotSecondary
)

func (s Slot) String() string {
	switch s {
	case SlotPrimary:
		return "image"
	case SlotSecondary:
		return "prd"
	}
	return "unknown"
}

// Constraint returns the validation rule for files dropped into s.
func (s Slot) Constraint() analysis.Constraint {
	switch s {
	case SlotPrimary:
		return analysis.PrimaryConstraint
	case SlotSecondary:
		return analysis.SecondaryConstraint
	}
	return analysis.PrimaryConstraint
}

// NoStep marks the absence of a progress stage.
const NoStep = -1

// State is a snapshot of a submission. Callers get copies; only Machine
// writes it.
type State struct {
	Mode       analysis.Mode
	Primary    *analysis.SelectedFile
	Secondary  *analysis.SelectedFile
	// Batch holds images sent after Primary by competitor-batch.
	Batch      []*analysis.SelectedFile
	Phase      Phase
	Step       int
	LastError  *analysis.ErrorInfo
	LastResult *analysis.Result
}

// File returns the file in slot s, or nil.
func (s State) File(slot Slot) *analysis.SelectedFile {
	switch slot {
	case SlotPrimary:
		return s.Primary
	case SlotSecondary:
		return s.Secondary
	}
	return nil
}

// CanSubmit mirrors the submit guard so views can disable the action.
func (s State) CanSubmit() bool {
	return !s.Mode.IsZero() && s.Primary != nil && s.Phase != InFlight
}
