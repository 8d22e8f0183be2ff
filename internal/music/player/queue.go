package player

import (
	"context"
	"slices"
	"sync"
)

// Queue is an unbounded FIFO of tracks. Any number of goroutines may enqueue;
// exactly one goroutine (the playback loop) dequeues.
type Queue struct {
	mu    sync.Mutex
	items []Track
	ready chan struct{}
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{
		items: make([]Track, 0),
		ready: make(chan struct{}, 1),
	}
}

// Enqueue appends t. It never blocks.
func (q *Queue) Enqueue(t Track) {
	q.mu.Lock()
	q.items = append(q.items, t)
	q.mu.Unlock()
	q.signal()
}

// Dequeue removes and returns the first track, waiting until one is available
// or ctx is done.
func (q *Queue) Dequeue(ctx context.Context) (Track, error) {
	for {
		if t, ok := q.tryDequeue(); ok {
			return t, nil
		}
		select {
		case <-q.ready:
		case <-ctx.Done():
			return Track{}, ctx.Err()
		}
	}
}

// Clear drops every pending track and returns how many were removed.
// A track already handed out by Dequeue is unaffected.
func (q *Queue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items)
	q.items = make([]Track, 0)
	return n
}

// Peek returns a copy of the first min(n, Len) tracks.
func (q *Queue) Peek(n int) []Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n <= 0 {
		return []Track{}
	}
	n = min(n, len(q.items))
	return slices.Clone(q.items[:n])
}

// Len returns the number of pending tracks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) tryDequeue() (Track, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Track{}, false
	}
	t := q.items[0]
	q.items[0] = Track{}
	q.items = q.items[1:]
	return t, true
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
