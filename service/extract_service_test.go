package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/zuai/sample-paper-api/repository"
	"github.com/zuai/sample-paper-api/types"
)

type fakeAI struct {
	paper *types.SamplePaper
	err   error
}

func (f *fakeAI) GenerateSamplePaper(ctx context.Context, content string) (*types.SamplePaper, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.paper, nil
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
	copied := *task
	return &copied, nil
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

func TestExtractFromTextSavesPaper(t *testing.T) {
	ctx := context.Background()
	paperRepo := newMemPaperRepo()
	ai := &fakeAI{paper: &types.SamplePaper{Title: "Generated", Type: "mock"}}
	svc := NewExtractService(ai, NewPDFService(), paperRepo, newMemTaskRepo())

	paper, err := svc.ExtractFromText(ctx, "Q1. Define velocity. (2 marks)")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if paper.ID == "" {
		t.Fatal("expected the saved paper to carry an id")
	}
	if _, err := paperRepo.GetPaper(ctx, paper.ID); err != nil {
		t.Errorf("paper not persisted: %v", err)
	}
}

func TestExtractFromTextGenerationError(t *testing.T) {
	ai := &fakeAI{err: errors.New("content generation failed")}
	svc := NewExtractService(ai, NewPDFService(), newMemPaperRepo(), newMemTaskRepo())

	if _, err := svc.ExtractFromText(context.Background(), "anything"); err == nil {
		t.Fatal("expected an error when generation fails")
	}
}

func TestCreatePDFTaskStartsPending(t *testing.T) {
	ctx := context.Background()
	taskRepo := newMemTaskRepo()
	svc := NewExtractService(&fakeAI{}, NewPDFService(), newMemPaperRepo(), taskRepo)

	id, err := svc.CreatePDFTask(ctx, "paper.pdf", "/tmp/paper.pdf")
	if err != nil {
		t.Fatalf("create task failed: %v", err)
	}
	task, err := taskRepo.GetTask(ctx, id)
	if err != nil {
		t.Fatalf("task not persisted: %v", err)
	}
	if task.Status != types.TASK_STATUS_PENDING {
		t.Errorf("expected pending status, got %s", task.Status)
	}
}

func TestProcessTaskMissingFileFails(t *testing.T) {
	ctx := context.Background()
	taskRepo := newMemTaskRepo()
	svc := NewExtractService(&fakeAI{}, NewPDFService(), newMemPaperRepo(), taskRepo)

	id, _ := svc.CreatePDFTask(ctx, "paper.pdf", "/nonexistent/paper.pdf")
	svc.ProcessTask(ctx, id)

	task, _ := taskRepo.GetTask(ctx, id)
	if task.Status != types.TASK_STATUS_FAILED {
		t.Fatalf("expected failed status, got %s", task.Status)
	}
	if task.Description == "" {
		t.Error("expected a failure description")
	}
}

func TestProcessTaskSkipsTerminalTask(t *testing.T) {
	ctx := context.Background()
	taskRepo := newMemTaskRepo()
	svc := NewExtractService(&fakeAI{}, NewPDFService(), newMemPaperRepo(), taskRepo)

	id, _ := taskRepo.CreateTask(ctx, &types.ExtractionTask{
		Status:      types.TASK_STATUS_FAILED,
		Description: "Uploaded file is no longer available",
	})
	svc.ProcessTask(ctx, id)

	task, _ := taskRepo.GetTask(ctx, id)
	if task.Status != types.TASK_STATUS_FAILED {
		t.Fatalf("terminal task was reprocessed, status now %s", task.Status)
	}
}

func TestProcessTaskFinishesCrashedCompletion(t *testing.T) {
	// Paper was inserted but the process died before the final status write.
	ctx := context.Background()
	taskRepo := newMemTaskRepo()
	svc := NewExtractService(&fakeAI{}, NewPDFService(), newMemPaperRepo(), taskRepo)

	id, _ := taskRepo.CreateTask(ctx, &types.ExtractionTask{
		Status:  types.TASK_STATUS_RUNNING,
		PaperID: "paper-42",
	})
	svc.ProcessTask(ctx, id)

	task, _ := taskRepo.GetTask(ctx, id)
	if task.Status != types.TASK_STATUS_COMPLETED {
		t.Fatalf("expected completed status, got %s", task.Status)
	}
	if task.PaperID != "paper-42" {
		t.Errorf("paper id lost during recovery, got %q", task.PaperID)
	}
}
