package worker

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
)

func TestPoolProcessesEverySubjectExactlyOnce(t *testing.T) {
	subjects := make([]int, 100)
	for i := range subjects {
		subjects[i] = i
	}

	var calls int64
	pool := Pool[int, int]{Workers: 8}
	results, err := pool.Run(context.Background(), subjects, func(_ context.Context, n int) int {
		atomic.AddInt64(&calls, 1)
		return n * 2
	}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if calls != 100 {
		t.Errorf("work invoked %d times, want 100", calls)
	}
	if len(results) != 100 {
		t.Fatalf("got %d results, want 100", len(results))
	}

	sort.Ints(results)
	for i, r := range results {
		if r != i*2 {
			t.Fatalf("results[%d] = %d, want %d", i, r, i*2)
		}
	}
}

func TestPoolCheckpointCadence(t *testing.T) {
	subjects := []int{1, 2, 3, 4, 5, 6, 7}

	var mu sync.Mutex
	var sizes []int
	pool := Pool[int, int]{Workers: 3, Every: 3}
	_, err := pool.Run(context.Background(), subjects, func(_ context.Context, n int) int {
		return n
	}, func(done []int) error {
		mu.Lock()
		defer mu.Unlock()
		sizes = append(sizes, len(done))
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Every 3 completions plus the final flush: 3, 6, 7.
	want := []int{3, 6, 7}
	if len(sizes) != len(want) {
		t.Fatalf("checkpoint sizes = %v, want %v", sizes, want)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Errorf("checkpoint %d saw %d results, want %d", i, sizes[i], want[i])
		}
	}
}

func TestPoolFinalFlushNotDuplicated(t *testing.T) {
	subjects := []int{1, 2, 3, 4, 5, 6}

	var count int
	pool := Pool[int, int]{Workers: 1, Every: 3}
	_, err := pool.Run(context.Background(), subjects, func(_ context.Context, n int) int {
		return n
	}, func(done []int) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// 3 and 6 hit the cadence; 6 is also the end, so exactly one final
	// flush covers it.
	if count != 3 {
		t.Errorf("checkpoint called %d times, want 3", count)
	}
}

func TestPoolCheckpointErrorDoesNotStopBatch(t *testing.T) {
	subjects := []int{1, 2, 3, 4}

	checkpointErr := errors.New("disk full")
	pool := Pool[int, int]{Workers: 2, Every: 2}
	results, err := pool.Run(context.Background(), subjects, func(_ context.Context, n int) int {
		return n
	}, func([]int) error {
		return checkpointErr
	})
	if !errors.Is(err, checkpointErr) {
		t.Errorf("Run() error = %v, want checkpoint error", err)
	}
	if len(results) != 4 {
		t.Errorf("got %d results, want all 4 despite checkpoint failure", len(results))
	}
}

func TestPoolCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	subjects := make([]int, 50)
	for i := range subjects {
		subjects[i] = i
	}

	var processed int64
	pool := Pool[int, int]{Workers: 2}
	_, err := pool.Run(ctx, subjects, func(ctx context.Context, n int) int {
		if atomic.AddInt64(&processed, 1) == 5 {
			cancel()
		}
		return n
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if atomic.LoadInt64(&processed) >= 50 {
		t.Error("cancellation did not stop the batch early")
	}
}

func TestPoolEmptyInput(t *testing.T) {
	pool := Pool[int, int]{Workers: 4, Every: 3}
	results, err := pool.Run(context.Background(), nil, func(_ context.Context, n int) int {
		return n
	}, func([]int) error {
		t.Error("checkpoint must not run for an empty batch")
		return nil
	})
	if err != nil || len(results) != 0 {
		t.Errorf("Run() = (%v, %v), want empty, nil", results, err)
	}
}
