package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// eventBuffer is the capacity of the event channel. Every event only asks the
// model to re-read state, so dropping the oldest when full loses nothing.
const eventBuffer = 16

// eventQueue carries messages from timer and watcher goroutines into the
// Bubble Tea loop.
type eventQueue struct {
	ctx context.Context
	ch  chan tea.Msg
}

func newEventQueue(ctx context.Context) *eventQueue {
	return &eventQueue{ctx: ctx, ch: make(chan tea.Msg, eventBuffer)}
}

// send enqueues msg without blocking. When the queue is full the oldest
// message is dropped so the newest wins.
func (q *eventQueue) send(msg tea.Msg) {
	if q == nil || msg == nil {
		return
	}
	for {
		select {
		case q.ch <- msg:
			return
		case <-q.ctx.Done():
			return
		default:
		}

		select {
		case <-q.ch:
		default:
		}
	}
}

// wait returns a command that delivers the next queued message.
func (q *eventQueue) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-q.ch:
			return msg
		case <-q.ctx.Done():
			return nil
		}
	}
}
