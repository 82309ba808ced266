// Package ui carries presentation state from the engine to whatever renders
// it.
//
// The engine publishes full snapshots, never deltas: each State supersedes
// every earlier one, so a renderer that only sees the latest message still
// shows the right thing. Delivery order is FIFO.
package ui

import (
	"context"
	"strings"

	"smartinput/internal/logging"
)

// State is the authoritative display state of the candidate popup.
type State struct {
	// Visible is false when the popup should be hidden.
	Visible bool `json:"visible"`

	// Buffer is the pinyin typed so far.
	Buffer string `json:"buffer"`

	// Candidates are the ranked Hanzi candidates, at most the engine's topK.
	Candidates []string `json:"candidates"`
}

// Sink consumes presentation states.
type Sink interface {
	Push(State)
}

// Renderer turns a state into something visible.
type Renderer interface {
	Render(State)
}

// Queue is a bounded FIFO sink with a worker goroutine draining it. When the
// queue is full the oldest message is dropped; later states supersede earlier
// ones, so the freshest message is the one that must get through.
type Queue struct {
	ch chan State
}

// NewQueue creates a queue holding up to size pending states.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 64
	}
	return &Queue{ch: make(chan State, size)}
}

// Push enqueues a state without blocking the caller.
func (q *Queue) Push(st State) {
	for {
		select {
		case q.ch <- st:
			return
		default:
		}
		// Full: drop the oldest and retry.
		select {
		case <-q.ch:
		default:
		}
	}
}

// Run drains the queue into the renderer until ctx is cancelled. Pending
// states are abandoned at shutdown; there is nothing left to display.
func (q *Queue) Run(ctx context.Context, r Renderer) {
	logging.Debug("ui worker started")
	for {
		select {
		case <-ctx.Done():
			logging.Debug("ui worker stopped")
			return
		case st := <-q.ch:
			r.Render(st)
		}
	}
}

// ConsoleRenderer is the reference presentation sink: it logs show/hide
// transitions instead of drawing a popup.
type ConsoleRenderer struct{}

// Render logs the display state.
func (ConsoleRenderer) Render(st State) {
	if !st.Visible {
		logging.Info("popup hidden")
		return
	}
	logging.Info("popup",
		"buffer", st.Buffer,
		"candidates", strings.Join(st.Candidates, " "))
}
