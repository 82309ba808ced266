package ui

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

type collectRenderer struct {
	mu     sync.Mutex
	states []State
}

func (c *collectRenderer) Render(st State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states = append(c.states, st)
}

func (c *collectRenderer) snapshot() []State {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]State, len(c.states))
	copy(out, c.states)
	return out
}

func TestQueuePreservesOrder(t *testing.T) {
	q := NewQueue(16)
	r := &collectRenderer{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		q.Run(ctx, r)
		close(done)
	}()

	want := make([]State, 0, 5)
	for i := 0; i < 5; i++ {
		st := State{Visible: true, Buffer: fmt.Sprintf("b%d", i)}
		want = append(want, st)
		q.Push(st)
	}

	deadline := time.After(2 * time.Second)
	for {
		got := r.snapshot()
		if len(got) == len(want) {
			for i := range want {
				if got[i].Buffer != want[i].Buffer {
					t.Fatalf("state %d = %+v, want %+v", i, got[i], want[i])
				}
			}
			break
		}
		select {
		case <-deadline:
			t.Fatalf("rendered %d states, want %d", len(got), len(want))
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on cancel")
	}
}

// A full queue drops the oldest message; the newest one always lands because
// each state supersedes the ones before it.
func TestQueueDropsOldestWhenFull(t *testing.T) {
	q := NewQueue(2)

	q.Push(State{Buffer: "old"})
	q.Push(State{Buffer: "mid"})
	q.Push(State{Buffer: "new"}) // overflows, evicting "old"

	first := <-q.ch
	second := <-q.ch
	if first.Buffer != "mid" || second.Buffer != "new" {
		t.Errorf("queue contents = %q, %q; want mid, new", first.Buffer, second.Buffer)
	}
}

func TestQueuePushNeverBlocks(t *testing.T) {
	q := NewQueue(1)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			q.Push(State{Buffer: "x"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Push blocked on a full queue")
	}
}
