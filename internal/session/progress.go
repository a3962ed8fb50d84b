package session

import (
	"fmt"
	"time"
)

// Stage is one informational step shown while a request is in flight. The
// stages never influence the request itself.
type Stage struct {
	Text string
	// Hold is how long the stage shows before the next one. Zero holds forever.
	Hold time.Duration
}

var stages = []Stage{
	{Text: "Analyzing image content...", Hold: 5 * time.Second},
	{Text: "Checking compliance standards...", Hold: 5 * time.Second},
	{Text: "Validating requirements...", Hold: 5 * time.Second},
	{Text: "Preparing detailed analysis..."},
}

// Stages returns the progress sequence.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// FinalStep is the index of the held finalizing stage.
func FinalStep() int { return len(stages) - 1 }

// StageText returns the text for step, or "" for NoStep.
func StageText(step int) string {
	if step < 0 || step >= len(stages) {
		return ""
	}
	return stages[step].Text
}

// StepLabel is the footer under the progress bar.
func StepLabel(step int) string {
	switch {
	case step < 0:
		return ""
	case step >= FinalStep():
		return "Finalizing..."
	}
	return fmt.Sprintf("Step %d of %d", step+1, len(stages))
}

// StepFraction maps a step onto the progress bar.
func StepFraction(step int) float64 {
	if step < 0 {
		return 0
	}
	if step > FinalStep() {
		step = FinalStep()
	}
	return float64(step+1) / float64(len(stages)+1)
}
