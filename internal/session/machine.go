package session

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/adlens/internal/analysis"
	"github.com/jask/adlens/internal/client"
)

// Dispatcher sends one packaged request. *client.Client implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, req analysis.Request) client.Outcome
}

// PhaseObserver is told about every phase change. *metrics.Recorder
// implements it.
type PhaseObserver interface {
	EnterPhase(phase string)
}

// Ticker schedules fn after d. tea.Tick is the default.
type Ticker func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// OutcomeMsg carries the dispatcher's answer for one attempt.
type OutcomeMsg struct {
	Attempt int
	Outcome client.Outcome
}

// ProgressMsg advances the progress stage of one attempt.
type ProgressMsg struct {
	Attempt int
	Step    int
}

// Machine is the submission state machine. It is not safe for concurrent use;
// the Bubble Tea runtime delivers every message on one goroutine.
type Machine struct {
	state State

	dispatcher Dispatcher
	log        *zap.Logger
	observer   PhaseObserver
	tick       Ticker
	base       context.Context

	params  analysis.FetchParams
	attempt int
	// mode captured at submit; the user may pick another while in flight
	sentMode analysis.Mode
	cancel   context.CancelFunc
}

type Option func(*Machine)

func WithLogger(l *zap.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.log = l
		}
	}
}

func WithObserver(o PhaseObserver) Option {
	return func(m *Machine) { m.observer = o }
}

func WithTicker(t Ticker) Option {
	return func(m *Machine) {
		if t != nil {
			m.tick = t
		}
	}
}

// WithContext sets the parent of every request context.
func WithContext(ctx context.Context) Option {
	return func(m *Machine) {
		if ctx != nil {
			m.base = ctx
		}
	}
}

func New(d Dispatcher, opts ...Option) *Machine {
	m := &Machine{
		state:      State{Phase: Idle, Step: NoStep},
		dispatcher: d,
		log:        zap.NewNop(),
		tick:       tea.Tick,
		base:       context.Background(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.Named("session")
	return m
}

// State returns a snapshot.
func (m *Machine) State() State { return m.state }

// Attempt is the number of the latest submit that passed the guard.
func (m *Machine) Attempt() int { return m.attempt }

// SetParams stores the fetch-ads parameters used by the next submit.
func (m *Machine) SetParams(p analysis.FetchParams) { m.params = p }

func (m *Machine) Params() analysis.FetchParams { return m.params }

// SelectMode is allowed in any phase. Leaving a terminal phase clears the
// previous outcome; files stay selected.
func (m *Machine) SelectMode(mode analysis.Mode) {
	m.state.Mode = mode
	if m.state.Phase.Terminal() {
		m.resetOutcome()
	}
	m.log.Debug("mode selected", zap.String("mode", mode.ID))
}

// SelectFile validates file for slot. An accepted file replaces the slot and
// clears the last error; a rejected one fails the submission and leaves the
// slot as it was. Picks are ignored while a request is in flight.
func (m *Machine) SelectFile(slot Slot, file *analysis.SelectedFile) analysis.Verdict {
	if m.state.Phase == InFlight {
		return analysis.Verdict{Reason: "request in flight"}
	}
	v := analysis.Validate(file, slot.Constraint())
	if !v.Accepted() {
		m.log.Info("file rejected",
			zap.String("slot", slot.String()),
			zap.String("reason", v.Reason),
		)
		m.state.LastResult = nil
		m.fail(analysis.NewError(analysis.CategoryValidation, v.Reason))
		return v
	}

	switch slot {
	case SlotPrimary:
		m.state.Primary = v.File
	case SlotSecondary:
		m.state.Secondary = v.File
	}
	m.state.LastError = nil
	if m.state.Phase.Terminal() {
		m.resetOutcome()
	}
	m.log.Debug("file selected",
		zap.String("slot", slot.String()),
		zap.String("name", v.File.Name),
		zap.Int64("size", v.File.Size),
	)
	return v
}

// AddBatchImage appends another subject image for competitor-batch. It is
// validated like the primary slot; a rejected image fails the submission and
// leaves the batch as it was.
func (m *Machine) AddBatchImage(file *analysis.SelectedFile) analysis.Verdict {
	if m.state.Phase == InFlight {
		return analysis.Verdict{Reason: "request in flight"}
	}
	v := analysis.Validate(file, analysis.PrimaryConstraint)
	if !v.Accepted() {
		m.log.Info("batch image rejected", zap.String("reason", v.Reason))
		m.state.LastResult = nil
		m.fail(analysis.NewError(analysis.CategoryValidation, v.Reason))
		return v
	}
	batch := make([]*analysis.SelectedFile, 0, len(m.state.Batch)+1)
	m.state.Batch = append(append(batch, m.state.Batch...), v.File)
	m.state.LastError = nil
	if m.state.Phase.Terminal() {
		m.resetOutcome()
	}
	return v
}

// RemoveFile clears slot in any phase.
func (m *Machine) RemoveFile(slot Slot) {
	switch slot {
	case SlotPrimary:
		m.state.Primary = nil
	case SlotSecondary:
		m.state.Secondary = nil
	}
}

// Submit starts an attempt and returns the commands that carry it out. It
// returns nil without touching state when no mode or primary file is set, or
// when a request is already in flight.
func (m *Machine) Submit() tea.Cmd {
	if !m.state.CanSubmit() {
		return nil
	}
	m.state.LastError = nil
	m.state.LastResult = nil
	m.setPhase(Validating)

	mode := m.state.Mode
	if v := analysis.Validate(m.state.Primary, analysis.PrimaryConstraint); !v.Accepted() {
		m.fail(analysis.NewError(analysis.CategoryValidation, v.Reason))
		return nil
	}
	var secondary *analysis.SelectedFile
	if mode.Operation.AcceptsDocument() && m.state.Secondary != nil {
		if v := analysis.Validate(m.state.Secondary, analysis.SecondaryConstraint); !v.Accepted() {
			m.fail(analysis.NewError(analysis.CategoryValidation, v.Reason))
			return nil
		}
		secondary = m.state.Secondary
	}

	var more []*analysis.SelectedFile
	if mode.Operation == analysis.OpCompetitorBatch {
		for _, f := range m.state.Batch {
			if v := analysis.Validate(f, analysis.PrimaryConstraint); !v.Accepted() {
				m.fail(analysis.NewError(analysis.CategoryValidation, v.Reason))
				return nil
			}
		}
		more = m.state.Batch
	}

	req, err := analysis.Build(mode, m.state.Primary, secondary, m.params, more...)
	if err != nil {
		msg := err.Error()
		var be *analysis.BuildError
		if errors.As(err, &be) {
			msg = be.Reason
		}
		m.fail(analysis.NewError(analysis.CategoryValidation, msg))
		return nil
	}

	m.attempt++
	attempt := m.attempt
	ctx, cancel := context.WithCancel(m.base)
	m.cancel = cancel
	m.sentMode = mode
	m.state.Step = 0
	m.setPhase(InFlight)
	m.log.Info("submit",
		zap.Int("attempt", attempt),
		zap.String("mode", mode.ID),
		zap.Int("parts", len(req.Parts)),
	)

	d := m.dispatcher
	dispatch := func() tea.Msg {
		return OutcomeMsg{Attempt: attempt, Outcome: d.Dispatch(ctx, req)}
	}
	return tea.Batch(dispatch, m.scheduleStep(attempt, 0))
}

// Cancel aborts the request in flight and returns to Idle. A late outcome of
// the aborted attempt is ignored. It reports whether anything was cancelled.
func (m *Machine) Cancel() bool {
	if m.state.Phase != InFlight {
		return false
	}
	m.releaseRequest()
	m.state.Step = NoStep
	m.setPhase(Idle)
	m.log.Info("cancelled", zap.Int("attempt", m.attempt))
	return true
}

// Update applies an asynchronous result. Messages from an attempt that is no
// longer in flight are dropped.
func (m *Machine) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case OutcomeMsg:
		if !m.current(msg.Attempt) {
			m.log.Debug("stale outcome dropped", zap.Int("attempt", msg.Attempt))
			return nil
		}
		m.resolve(msg.Outcome)
	case ProgressMsg:
		if !m.current(msg.Attempt) {
			return nil
		}
		m.state.Step = msg.Step
		return m.scheduleStep(msg.Attempt, msg.Step)
	}
	return nil
}

func (m *Machine) current(attempt int) bool {
	return attempt == m.attempt && m.state.Phase == InFlight
}

func (m *Machine) resolve(out client.Outcome) {
	m.releaseRequest()
	m.state.Step = NoStep
	if out.Err != nil {
		m.fail(out.Err)
		return
	}
	res, perr := analysis.ParseResult(m.sentMode, out.Body)
	if perr != nil {
		m.fail(perr)
		return
	}
	m.state.LastResult = &res
	m.state.LastError = nil
	m.setPhase(Succeeded)
	m.log.Info("analysis complete",
		zap.Int("attempt", m.attempt),
		zap.String("status", string(res.OverallStatus)),
		zap.Int("sections", len(res.Sections)),
	)
}

// scheduleStep arms the timer that moves attempt past step. The final stage
// holds, so nothing is scheduled for it.
func (m *Machine) scheduleStep(attempt, step int) tea.Cmd {
	if step >= FinalStep() {
		return nil
	}
	next := step + 1
	return m.tick(stages[step].Hold, func(time.Time) tea.Msg {
		return ProgressMsg{Attempt: attempt, Step: next}
	})
}

func (m *Machine) fail(e *analysis.ErrorInfo) {
	m.state.LastError = e
	m.state.Step = NoStep
	m.setPhase(Failed)
	m.log.Warn("submission failed",
		zap.String("category", e.Category.String()),
		zap.String("message", e.Message),
	)
}

func (m *Machine) resetOutcome() {
	m.state.LastResult = nil
	m.state.LastError = nil
	m.setPhase(Idle)
}

func (m *Machine) releaseRequest() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Machine) setPhase(p Phase) {
	if m.state.Phase == p {
		return
	}
	m.state.Phase = p
	if m.observer != nil {
		m.observer.EnterPhase(p.String())
	}
}
