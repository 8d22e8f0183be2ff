package jobmgr

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestStartAsyncRejectsDuplicateName(t *testing.T) {
	m := NewManager(context.Background(), nil)
	release := make(chan struct{})
	defer close(release)

	runner := func(ctx context.Context) error {
		<-release
		return nil
	}

	if err := m.StartAsync("loop", runner); err != nil {
		t.Fatalf("First start failed: %v", err)
	}
	err := m.StartAsync("loop", runner)
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Expected ErrAlreadyRunning, got %v", err)
	}
}

func TestStopCancelsJob(t *testing.T) {
	m := NewManager(context.Background(), nil)
	stopped := make(chan struct{})

	err := m.StartAsync("loop", func(ctx context.Context) error {
		<-ctx.Done()
		close(stopped)
		return nil
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := m.Stop("loop"); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Job did not observe cancellation")
	}

	if err := m.Stop("loop"); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Expected ErrNotRunning, got %v", err)
	}
}

func TestFinishedJobIsRemoved(t *testing.T) {
	m := NewManager(context.Background(), nil)
	done := make(chan struct{})
	_ = m.StartAsync("once", func(ctx context.Context) error {
		defer close(done)
		return nil
	})
	<-done

	deadline := time.Now().Add(2 * time.Second)
	for len(m.List()) != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("Expected no jobs, got %v", m.List())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := m.Status(); got != "No jobs are running." {
		t.Errorf("Unexpected status %q", got)
	}
}

func TestReporterSeesLifecycle(t *testing.T) {
	var mu sync.Mutex
	var events []string
	finished := make(chan struct{})

	m := NewManager(context.Background(), func(s string) {
		mu.Lock()
		events = append(events, s)
		mu.Unlock()
		if s == "error:job:boom" {
			close(finished)
		}
	})
	_ = m.StartAsync("job", func(ctx context.Context) error {
		return errors.New("boom")
	})

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Reporter never saw the error event")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 2 || events[0] != "running:job" {
		t.Errorf("Unexpected events %v", events)
	}
}

func TestStopAllWaitsForJobs(t *testing.T) {
	m := NewManager(context.Background(), nil)
	var mu sync.Mutex
	exited := 0
	for _, name := range []string{"a", "b", "c"} {
		_ = m.StartAsync(name, func(ctx context.Context) error {
			<-ctx.Done()
			time.Sleep(10 * time.Millisecond)
			mu.Lock()
			exited++
			mu.Unlock()
			return nil
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.StopAll(ctx); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if exited != 3 {
		t.Errorf("Expected 3 exited jobs, got %d", exited)
	}
}

func TestParentCancellationStopsJobs(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	m := NewManager(parent, nil)
	stopped := make(chan struct{})
	_ = m.StartAsync("loop", func(ctx context.Context) error {
		<-ctx.Done()
		close(stopped)
		return nil
	})

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Job ignored parent cancellation")
	}
}
