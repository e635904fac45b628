package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	done := make(chan struct{}, 2)

	q := NewQueue("test", func(ctx context.Context, job Job) error {
		mu.Lock()
		seen = append(seen, job.ID)
		mu.Unlock()
		done <- struct{}{}
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 4})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "job-1", Type: "assignment_run"}))
	require.NoError(t, q.Enqueue(Job{ID: "job-2", Type: "assignment_run"}))

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}
	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"job-1", "job-2"}, seen)
}

func TestQueueEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, job Job) error { return nil }, QueueConfig{})

	err := q.Enqueue(Job{ID: "job-1"})
	require.Error(t, err)
}

func TestQueueNoRetryByDefault(t *testing.T) {
	attempts := make(chan int, 4)

	q := NewQueue("test", func(ctx context.Context, job Job) error {
		attempts <- job.Attempt
		return errors.New("handler failed")
	}, QueueConfig{Workers: 1, BufferSize: 4, RetryDelay: 10 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "job-1"}))

	select {
	case attempt := <-attempts:
		assert.Equal(t, 0, attempt)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for job")
	}

	// With MaxRetries zero the failed job is dropped, not requeued.
	select {
	case <-attempts:
		t.Fatal("job should not be retried")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestQueueRetriesUpToLimit(t *testing.T) {
	attempts := make(chan int, 8)

	q := NewQueue("test", func(ctx context.Context, job Job) error {
		attempts <- job.Attempt
		return errors.New("handler failed")
	}, QueueConfig{Workers: 1, BufferSize: 4, MaxRetries: 2, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "job-1"}))

	var got []int
	for i := 0; i < 3; i++ {
		select {
		case attempt := <-attempts:
			got = append(got, attempt)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d attempts", len(got))
		}
	}
	assert.Equal(t, []int{0, 1, 2}, got)

	select {
	case <-attempts:
		t.Fatal("job exceeded retry limit")
	case <-time.After(100 * time.Millisecond):
	}
}
