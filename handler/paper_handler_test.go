package handler

import (
	"bytes"
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

// fakePaperService stores papers in a map under sequential ids.
type fakePaperService struct {
	papers map[string]*types.SamplePaper
	nextID int
}

func newFakePaperService() *fakePaperService {
	return &fakePaperService{papers: make(map[string]*types.SamplePaper)}
}

func (f *fakePaperService) CreatePaper(ctx context.Context, req *types.CreatePaperRequest) (*types.SamplePaper, error) {
	f.nextID++
	paper := &types.SamplePaper{
		ID:       fmt.Sprintf("paper-%d", f.nextID),
		Title:    req.Title,
		Type:     req.Type,
		Time:     req.Time,
		Marks:    req.Marks,
		Params:   req.Params,
		Tags:     req.Tags,
		Chapters: req.Chapters,
		Sections: req.Sections,
	}
	f.papers[paper.ID] = paper
	return paper, nil
}

func (f *fakePaperService) GetPaper(ctx context.Context, id string) (*types.SamplePaper, error) {
	paper, ok := f.papers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return paper, nil
}

func (f *fakePaperService) PaginatePapers(ctx context.Context, page, limit int64) ([]*types.SamplePaper, int64, error) {
	var papers []*types.SamplePaper
	for _, p := range f.papers {
		papers = append(papers, p)
	}
	return papers, int64(len(papers)), nil
}

func (f *fakePaperService) UpdatePaper(ctx context.Context, id string, req *types.CreatePaperRequest) (*types.SamplePaper, error) {
	paper, ok := f.papers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	paper.Title = req.Title
	paper.Type = req.Type
	paper.Time = req.Time
	paper.Marks = req.Marks
	return paper, nil
}

func (f *fakePaperService) PatchPaper(ctx context.Context, id string, req *types.UpdatePaperRequest) (*types.SamplePaper, error) {
	paper, ok := f.papers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if req.Title != nil {
		paper.Title = *req.Title
	}
	if req.Marks != nil {
		paper.Marks = *req.Marks
	}
	return paper, nil
}

func (f *fakePaperService) DeletePaper(ctx context.Context, id string) error {
	if _, ok := f.papers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.papers, id)
	return nil
}

func newPaperRouter(svc *fakePaperService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPaperHandler(svc)
	router := gin.New()
	router.POST("/api/v1/papers", h.HandleCreatePaper)
	router.GET("/api/v1/papers", h.HandlePaginatePapers)
	router.GET("/api/v1/papers/:id", h.HandleGetPaper)
	router.PUT("/api/v1/papers/:id", h.HandleUpdatePaper)
	router.PATCH("/api/v1/papers/:id", h.HandlePatchPaper)
	router.DELETE("/api/v1/papers/:id", h.HandleDeletePaper)
	return router
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestCreateThenGetPaper(t *testing.T) {
	router := newPaperRouter(newFakePaperService())

	w := doJSON(router, http.MethodPost, "/api/v1/papers", types.CreatePaperRequest{
		Title: "Maths Sample Paper",
		Type:  "previous_year",
		Time:  180,
		Marks: 80,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		Data types.SamplePaper `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("create: invalid response body: %v", err)
	}
	if created.Data.ID == "" {
		t.Fatal("create: expected an id in the response")
	}

	w = doJSON(router, http.MethodGet, "/api/v1/papers/"+created.Data.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	var got struct {
		Data types.SamplePaper `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &got)
	if got.Data.Title != "Maths Sample Paper" {
		t.Errorf("get: expected title round-trip, got %q", got.Data.Title)
	}
}

func TestCreatePaperRejectsMissingTitle(t *testing.T) {
	router := newPaperRouter(newFakePaperService())

	w := doJSON(router, http.MethodPost, "/api/v1/papers", map[string]any{"type": "mock"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing title, got %d", w.Code)
	}
}

func TestGetPaperNotFound(t *testing.T) {
	router := newPaperRouter(newFakePaperService())

	w := doJSON(router, http.MethodGet, "/api/v1/papers/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestPatchPaperUpdatesField(t *testing.T) {
	svc := newFakePaperService()
	router := newPaperRouter(svc)

	w := doJSON(router, http.MethodPost, "/api/v1/papers", types.CreatePaperRequest{
		Title: "Old Title",
		Type:  "mock",
	})
	var created struct {
		Data types.SamplePaper `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &created)

	w = doJSON(router, http.MethodPatch, "/api/v1/papers/"+created.Data.ID, map[string]any{
		"title": "New Title",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d", w.Code)
	}
	if svc.papers[created.Data.ID].Title != "New Title" {
		t.Errorf("patch: title not updated, got %q", svc.papers[created.Data.ID].Title)
	}
}

func TestDeleteThenGetPaper(t *testing.T) {
	router := newPaperRouter(newFakePaperService())

	w := doJSON(router, http.MethodPost, "/api/v1/papers", types.CreatePaperRequest{
		Title: "Physics Sample Paper",
		Type:  "mock",
	})
	var created struct {
		Data types.SamplePaper `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &created)

	w = doJSON(router, http.MethodDelete, "/api/v1/papers/"+created.Data.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}

	w = doJSON(router, http.MethodGet, "/api/v1/papers/"+created.Data.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", w.Code)
	}
}

func TestPaginatePapersDefaults(t *testing.T) {
	svc := newFakePaperService()
	router := newPaperRouter(svc)
	doJSON(router, http.MethodPost, "/api/v1/papers", types.CreatePaperRequest{Title: "A", Type: "mock"})
	doJSON(router, http.MethodPost, "/api/v1/papers", types.CreatePaperRequest{Title: "B", Type: "mock"})

	w := doJSON(router, http.MethodGet, "/api/v1/papers", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp types.PaginateResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 2 {
		t.Errorf("expected total 2, got %d", resp.Total)
	}
	if resp.Page != 1 || resp.Limit != 10 {
		t.Errorf("expected default page 1 limit 10, got page %d limit %d", resp.Page, resp.Limit)
	}
}
