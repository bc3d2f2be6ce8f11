package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/zuai/sample-paper-api/repository"
	"github.com/zuai/sample-paper-api/types"
)

type fakeTaskRepo struct {
	tasks  map[string]*types.ExtractionTask
	nextID int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*types.ExtractionTask)}
}

func (f *fakeTaskRepo) CreateTask(ctx context.Context, task *types.ExtractionTask) (string, error) {
	f.nextID++
	task.ID = fmt.Sprintf("task-%d", f.nextID)
	f.tasks[task.ID] = task
	return task.ID, nil
}

func (f *fakeTaskRepo) GetTask(ctx context.Context, id string) (*types.ExtractionTask, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return task, nil
}

func (f *fakeTaskRepo) UpdateTaskStatus(ctx context.Context, id, status, description string) error {
	task, ok := f.tasks[id]
	if !ok {
		return repository.ErrNotFound
	}
	task.Status = status
	task.Description = description
	return nil
}

func (f *fakeTaskRepo) SetTaskResult(ctx context.Context, id, paperID string) error {
	task, ok := f.tasks[id]
	if !ok {
		return repository.ErrNotFound
	}
	task.PaperID = paperID
	return nil
}

func (f *fakeTaskRepo) ListTasksByStatus(ctx context.Context, statuses []string) ([]*types.ExtractionTask, error) {
	var out []*types.ExtractionTask
	for _, task := range f.tasks {
		for _, status := range statuses {
			if task.Status == status {
				out = append(out, task)
				break
			}
		}
	}
	return out, nil
}

func newTaskRouter(repo *fakeTaskRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTaskHandler(repo)
	router := gin.New()
	router.GET("/api/v1/tasks/:task_id", h.HandleTaskStatus)
	return router
}

func TestTaskStatusUnknownID(t *testing.T) {
	router := newTaskRouter(newFakeTaskRepo())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/task-99", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown task, got %d", w.Code)
	}
}

func TestTaskStatusPending(t *testing.T) {
	repo := newFakeTaskRepo()
	id, _ := repo.CreateTask(context.Background(), &types.ExtractionTask{
		Status:      types.TASK_STATUS_PENDING,
		Description: "PDF extraction is queued",
	})
	router := newTaskRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/"+id, nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp types.TaskStatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.TaskID != id {
		t.Errorf("expected task id %s, got %s", id, resp.TaskID)
	}
	if resp.Status != types.TASK_STATUS_PENDING {
		t.Errorf("expected status %s, got %s", types.TASK_STATUS_PENDING, resp.Status)
	}
}

func TestTaskStatusCompletedCarriesPaperID(t *testing.T) {
	repo := newFakeTaskRepo()
	id, _ := repo.CreateTask(context.Background(), &types.ExtractionTask{
		Status: types.TASK_STATUS_RUNNING,
	})
	repo.SetTaskResult(context.Background(), id, "paper-7")
	repo.UpdateTaskStatus(context.Background(), id, types.TASK_STATUS_COMPLETED, "Sample paper extracted and saved successfully")
	router := newTaskRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/"+id, nil)
	router.ServeHTTP(w, req)

	var resp types.TaskStatusResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != types.TASK_STATUS_COMPLETED {
		t.Errorf("expected completed status, got %s", resp.Status)
	}
	if resp.PaperID != "paper-7" {
		t.Errorf("expected paper id in response, got %q", resp.PaperID)
	}
}
