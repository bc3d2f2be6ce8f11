package worker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/zuai/sample-paper-api/repository"
	"github.com/zuai/sample-paper-api/types"
)

type recordingProcessor struct {
	mu        sync.Mutex
	processed []string
	done      chan string
}

func newRecordingProcessor() *recordingProcessor {
	return &recordingProcessor{done: make(chan string, 16)}
}

func (p *recordingProcessor) ProcessTask(ctx context.Context, taskID string) {
	p.mu.Lock()
	p.processed = append(p.processed, taskID)
	p.mu.Unlock()
	p.done <- taskID
}

type memTaskRepo struct {
	mu     sync.Mutex
	tasks  map[string]*types.ExtractionTask
	nextID int
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[string]*types.ExtractionTask)}
}

func (r *memTaskRepo) CreateTask(ctx context.Context, task *types.ExtractionTask) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	task.ID = fmt.Sprintf("task-%d", r.nextID)
	r.tasks[task.ID] = task
	return task.ID, nil
}

func (r *memTaskRepo) GetTask(ctx context.Context, id string) (*types.ExtractionTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return task, nil
}

func (r *memTaskRepo) UpdateTaskStatus(ctx context.Context, id, status, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return repository.ErrNotFound
	}
	task.Status = status
	task.Description = description
	return nil
}

func (r *memTaskRepo) SetTaskResult(ctx context.Context, id, paperID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return repository.ErrNotFound
	}
	task.PaperID = paperID
	return nil
}

func (r *memTaskRepo) ListTasksByStatus(ctx context.Context, statuses []string) ([]*types.ExtractionTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.ExtractionTask
	for _, task := range r.tasks {
		for _, status := range statuses {
			if task.Status == status {
				out = append(out, task)
				break
			}
		}
	}
	return out, nil
}

func waitForTask(t *testing.T, done chan string, want string) {
	t.Helper()
	select {
	case got := <-done:
		if got != want {
			t.Fatalf("expected task %s to be processed, got %s", want, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for task %s", want)
	}
}

func TestPoolProcessesEnqueuedTask(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	processor := newRecordingProcessor()
	pool := NewPool(2, 8, processor, newMemTaskRepo())
	pool.Start(ctx)

	if err := pool.Enqueue("task-1"); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	waitForTask(t, processor.done, "task-1")

	cancel()
	pool.Wait()
}

func TestPoolEnqueueFullQueue(t *testing.T) {
	// No workers started, so the queue never drains.
	pool := NewPool(1, 1, newRecordingProcessor(), newMemTaskRepo())

	if err := pool.Enqueue("task-1"); err != nil {
		t.Fatalf("first enqueue failed: %v", err)
	}
	if err := pool.Enqueue("task-2"); err != ErrQueueFull {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestPoolRecoverReenqueuesUnfinishedTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := newMemTaskRepo()
	pendingID, _ := repo.CreateTask(ctx, &types.ExtractionTask{Status: types.TASK_STATUS_PENDING})
	runningID, _ := repo.CreateTask(ctx, &types.ExtractionTask{Status: types.TASK_STATUS_RUNNING})
	repo.CreateTask(ctx, &types.ExtractionTask{Status: types.TASK_STATUS_COMPLETED})
	repo.CreateTask(ctx, &types.ExtractionTask{Status: types.TASK_STATUS_FAILED})

	processor := newRecordingProcessor()
	pool := NewPool(1, 8, processor, repo)
	pool.Start(ctx)

	if err := pool.Recover(ctx); err != nil {
		t.Fatalf("recover failed: %v", err)
	}

	want := map[string]bool{pendingID: true, runningID: true}
	for i := 0; i < 2; i++ {
		select {
		case got := <-processor.done:
			if !want[got] {
				t.Fatalf("unexpected task processed: %s", got)
			}
			delete(want, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out, still waiting for %v", want)
		}
	}
	if len(want) != 0 {
		t.Fatalf("tasks not recovered: %v", want)
	}

	cancel()
	pool.Wait()
}

func TestPoolStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	processor := newRecordingProcessor()
	pool := NewPool(2, 8, processor, newMemTaskRepo())
	pool.Start(ctx)

	cancel()

	stopped := make(chan struct{})
	go func() {
		pool.Wait()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop after context cancel")
	}
}
