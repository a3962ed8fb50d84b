package session

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Await drives m without a Bubble Tea program: it runs cmd, feeds every
// message back through Update on the calling goroutine and returns once the
// attempt leaves InFlight. If ctx ends first the attempt is cancelled.
// onChange, when set, sees the state after each applied message.
func (m *Machine) Await(ctx context.Context, cmd tea.Cmd, onChange func(State)) State {
	msgs := make(chan tea.Msg)
	done := make(chan struct{})
	defer close(done)

	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, sub := range batch {
					run(sub)
				}
				return
			}
			if msg == nil {
				return
			}
			select {
			case msgs <- msg:
			case <-done:
			}
		}()
	}

	notify := func() {
		if onChange != nil {
			onChange(m.state)
		}
	}

	run(cmd)
	for m.state.Phase == InFlight {
		select {
		case <-ctx.Done():
			m.Cancel()
			notify()
		case msg := <-msgs:
			run(m.Update(msg))
			notify()
		}
	}
	return m.state
}
