package jobs_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/PhamNghia11/career-web/internal/jobs"
)

func TestMain(m *testing.M) {
	defer goleak.VerifyTestMain(m)
	os.Exit(m.Run())
}

type notice struct {
	To string `json:"to"`
}

func TestSubmitAndProcess(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	handled := make(chan string, 1)
	handlers := map[string]jobs.Handler{
		"test": func(ctx context.Context, task *jobs.Task) error {
			var n notice
			if err := task.Decode(&n); err != nil {
				return err
			}
			handled <- n.To
			return nil
		},
	}
	pool := jobs.NewWorkerPool(handlers, logger, 1, 4, time.Second)
	pool.Start(ctx)
	defer pool.Stop()

	if err := pool.Submit("test", notice{To: "ops@gdu.vn"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	select {
	case got := <-handled:
		if got != "ops@gdu.vn" {
			t.Fatalf("payload = %q", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("handler was not called")
	}
}

func TestSubmitUnknownType(t *testing.T) {
	pool := jobs.NewWorkerPool(map[string]jobs.Handler{}, nil, 1, 1, 0)
	if err := pool.Submit("missing", nil); !errors.Is(err, jobs.ErrNoHandler) {
		t.Fatalf("expected ErrNoHandler, got %v", err)
	}
}

func TestQueueFullDropsTask(t *testing.T) {
	// pool not started: nothing consumes, so the second submit overflows
	pool := jobs.NewWorkerPool(map[string]jobs.Handler{
		"noop": func(ctx context.Context, task *jobs.Task) error { return nil },
	}, nil, 1, 1, 0)

	if err := pool.Submit("noop", 1); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if err := pool.Submit("noop", 2); !errors.Is(err, jobs.ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if pool.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", pool.Pending())
	}
}

func TestStopDrainsAndRejects(t *testing.T) {
	var ran int32
	pool := jobs.NewWorkerPool(map[string]jobs.Handler{
		"count": func(ctx context.Context, task *jobs.Task) error {
			atomic.AddInt32(&ran, 1)
			return nil
		},
	}, nil, 1, 8, 0)

	for i := 0; i < 3; i++ {
		if err := pool.Submit("count", i); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	pool.Start(context.Background())
	pool.Stop()
	pool.Stop()

	if got := atomic.LoadInt32(&ran); got != 3 {
		t.Fatalf("ran = %d, want 3 queued tasks drained", got)
	}
	if err := pool.Submit("count", 4); !errors.Is(err, jobs.ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestHandlerFailuresAreContained(t *testing.T) {
	done := make(chan struct{}, 2)
	pool := jobs.NewWorkerPool(map[string]jobs.Handler{
		"fail": func(ctx context.Context, task *jobs.Task) error {
			done <- struct{}{}
			return errors.New("smtp down")
		},
		"panic": func(ctx context.Context, task *jobs.Task) error {
			done <- struct{}{}
			panic("boom")
		},
	}, nil, 1, 4, 0)
	pool.Start(context.Background())
	defer pool.Stop()

	_ = pool.Submit("fail", nil)
	_ = pool.Submit("panic", nil)
	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(3 * time.Second):
			t.Fatalf("handler %d was not called", i)
		}
	}
}

func TestTaskTimeout(t *testing.T) {
	errc := make(chan error, 1)
	pool := jobs.NewWorkerPool(map[string]jobs.Handler{
		"slow": func(ctx context.Context, task *jobs.Task) error {
			<-ctx.Done()
			errc <- ctx.Err()
			return ctx.Err()
		},
	}, nil, 1, 1, 20*time.Millisecond)
	pool.Start(context.Background())
	defer pool.Stop()

	_ = pool.Submit("slow", nil)
	select {
	case err := <-errc:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("task was not cancelled")
	}
}
