package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/okian/triage/internal/domain/model"
)

func job(id string, index int) model.Job {
	return model.Job{ID: id, Index: index, Request: model.NewRequest(model.VitalSigns{SpO2: 98, RR: 16}, "")}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	stamp := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	q := NewInMemoryQueue(WithCapacity(2), WithClock(func() time.Time { return stamp }))
	ctx := context.Background()

	// Test empty queue
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, job("job1", 0)) {
		t.Error("expected enqueue to succeed")
	}

	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Dequeue(ctx)
	if got.ID != "job1" {
		t.Errorf("expected job1, got %v", got.ID)
	}
	if !got.EnqueuedAt.Equal(stamp) {
		t.Errorf("expected enqueue stamp %v, got %v", stamp, got.EnqueuedAt)
	}

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if q.Capacity() != 2 {
		t.Fatalf("expected capacity 2, got %d", q.Capacity())
	}
	if !q.Enqueue(ctx, job("job1", 0)) || !q.Enqueue(ctx, job("job2", 1)) {
		t.Fatal("expected enqueue to succeed")
	}

	// Try to enqueue when full
	if q.Enqueue(ctx, job("job3", 2)) {
		t.Error("expected enqueue to fail when full")
	}

	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if q.Enqueue(ctx, job("job1", 0)) {
		t.Error("expected enqueue to fail with a cancelled context")
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx := context.Background()
	numGoroutines := 10
	numJobs := 100

	// Start producer goroutines
	done := make(chan bool, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			for j := 0; j < numJobs; j++ {
				for !q.Enqueue(ctx, job(fmt.Sprintf("job%d_%d", id, j), j)) {
					time.Sleep(time.Millisecond)
				}
			}
			done <- true
		}(i)
	}

	// Start consumer goroutines
	consumed := make(chan string, numGoroutines*numJobs)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			for j := range q.Dequeue(ctx) {
				consumed <- j.ID
			}
		}()
	}

	for i := 0; i < numGoroutines; i++ {
		<-done
	}

	deadline := time.After(2 * time.Second)
	for n := 0; n < numGoroutines*numJobs; n++ {
		select {
		case <-consumed:
		case <-deadline:
			t.Fatalf("consumed %d of %d jobs before timeout", n, numGoroutines*numJobs)
		}
	}

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected final length 0, got %d", l)
	}
	_ = q.Close()
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if !q.Enqueue(ctx, job("job1", 0)) || !q.Enqueue(ctx, job("job2", 1)) {
		t.Fatal("expected enqueue to succeed")
	}

	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}

	// Try to enqueue after closing (should fail)
	if q.Enqueue(ctx, job("job3", 2)) {
		t.Error("expected enqueue to fail after closing")
	}

	// Buffered jobs drain, then the channel closes.
	jobs := q.Dequeue(ctx)
	drained := 0
	timeout := time.After(time.Second)
	for {
		select {
		case _, ok := <-jobs:
			if !ok {
				if drained != 2 {
					t.Errorf("expected 2 drained jobs, got %d", drained)
				}
				if err := q.Close(); err != nil {
					t.Errorf("expected second close to succeed, got error: %v", err)
				}
				return
			}
			drained++
		case <-timeout:
			t.Fatal("expected dequeue channel to be closed within timeout")
		}
	}
}
