package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func TestDispatcher_RunsEveryJob(t *testing.T) {
	d := NewDispatcher(4, zerolog.Nop())
	d.Start(context.Background())

	var mu sync.Mutex
	seen := make(map[string]int)
	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("k-%d", i%10)
		d.Enqueue(Job{Key: key, Run: func(context.Context) error {
			mu.Lock()
			seen[key]++
			mu.Unlock()
			return nil
		}})
	}
	d.Wait()

	if len(seen) != 10 {
		t.Fatalf("expected 10 keys, got %d", len(seen))
	}
	for k, n := range seen {
		if n != 10 {
			t.Errorf("key %s ran %d times, want 10", k, n)
		}
	}
}

func TestDispatcher_PerKeyOrder(t *testing.T) {
	d := NewDispatcher(3, zerolog.Nop())
	d.Start(context.Background())

	var got []int
	for i := 0; i < 50; i++ {
		// Same key: same worker, so no lock is needed on got.
		d.Enqueue(Job{Key: "partition", Run: func(context.Context) error {
			got = append(got, i)
			return nil
		}})
	}
	d.Wait()

	for i, v := range got {
		if v != i {
			t.Fatalf("job %d ran at position %d", v, i)
		}
	}
	if len(got) != 50 {
		t.Fatalf("expected 50 jobs, got %d", len(got))
	}
}

func TestDispatcher_JobErrorDoesNotStopWorker(t *testing.T) {
	d := NewDispatcher(1, zerolog.Nop())
	d.Start(context.Background())

	ran := 0
	d.Enqueue(Job{Key: "a", Run: func(context.Context) error { return errors.New("boom") }})
	d.Enqueue(Job{Key: "a", Run: func(context.Context) error { ran++; return nil }})
	d.Wait()

	if ran != 1 {
		t.Fatalf("expected job after failure to run, ran=%d", ran)
	}
}

func TestDispatcher_CancelledContextSkipsJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDispatcher(2, zerolog.Nop())
	d.Start(ctx)
	ran := false
	d.Enqueue(Job{Key: "a", Run: func(context.Context) error { ran = true; return nil }})
	d.Wait()

	if ran {
		t.Fatal("job must not run after cancellation")
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	first := d.shardIndex("project_collaborators:p1")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("project_collaborators:p1"); got != first {
			t.Fatalf("shard changed from %d to %d", first, got)
		}
	}
}
