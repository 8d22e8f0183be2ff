package player

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()
	for _, title := range []string{"a", "b", "c"} {
		q.Enqueue(Track{Title: title})
	}

	for _, want := range []string{"a", "b", "c"} {
		got, err := q.Dequeue(context.Background())
		if err != nil {
			t.Fatalf("Dequeue failed: %v", err)
		}
		if got.Title != want {
			t.Errorf("Expected %q, got %q", want, got.Title)
		}
	}
	if q.Len() != 0 {
		t.Errorf("Expected empty queue, got %d", q.Len())
	}
}

func TestQueueDequeueWaitsForEnqueue(t *testing.T) {
	q := NewQueue()
	got := make(chan Track, 1)

	go func() {
		tr, err := q.Dequeue(context.Background())
		if err == nil {
			got <- tr
		}
	}()

	time.Sleep(20 * time.Millisecond)
	q.Enqueue(Track{Title: "late"})

	select {
	case tr := <-got:
		if tr.Title != "late" {
			t.Errorf("Expected 'late', got %q", tr.Title)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Dequeue did not wake up")
	}
}

func TestQueueDequeueHonoursContext(t *testing.T) {
	q := NewQueue()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestQueueClear(t *testing.T) {
	q := NewQueue()
	q.Enqueue(Track{Title: "a"})
	q.Enqueue(Track{Title: "b"})

	if n := q.Clear(); n != 2 {
		t.Errorf("Expected 2 cleared, got %d", n)
	}
	if q.Len() != 0 {
		t.Errorf("Expected empty queue")
	}
	if n := q.Clear(); n != 0 {
		t.Errorf("Expected 0 cleared on empty queue, got %d", n)
	}
}

func TestQueuePeekReturnsCopy(t *testing.T) {
	q := NewQueue()
	q.Enqueue(Track{Title: "a"})
	q.Enqueue(Track{Title: "b"})
	q.Enqueue(Track{Title: "c"})

	peek := q.Peek(2)
	if len(peek) != 2 || peek[0].Title != "a" || peek[1].Title != "b" {
		t.Fatalf("Unexpected peek %v", peek)
	}
	peek[0].Title = "changed"

	if again := q.Peek(1); again[0].Title != "a" {
		t.Errorf("Peek must not expose queue storage")
	}
	if got := q.Peek(10); len(got) != 3 {
		t.Errorf("Expected 3, got %d", len(got))
	}
	if got := q.Peek(0); len(got) != 0 {
		t.Errorf("Expected empty peek, got %d", len(got))
	}
}
