package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// ListenCmd waits for the next event on ch and returns it as a tea.Msg, or
// nil once ctx is done or ch is closed.
func ListenCmd[T any](ctx context.Context, ch <-chan Event[T]) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			return ev
		}
	}
}

// Listener is a subscription driven from a Bubble Tea update loop: return
// Next() from Init and again after handling each event.
type Listener[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

// NewListener subscribes to s for the lifetime of ctx.
func NewListener[T any](ctx context.Context, s Subscriber[T]) *Listener[T] {
	return &Listener[T]{ctx: ctx, ch: s.Subscribe(ctx)}
}

// Next returns a command delivering the next event.
func (l *Listener[T]) Next() tea.Cmd {
	return ListenCmd(l.ctx, l.ch)
}
