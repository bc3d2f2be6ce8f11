package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/zuai/sample-paper-api/database"
	"github.com/zuai/sample-paper-api/repository"
	"github.com/zuai/sample-paper-api/types"
)

// PaperCache is the slice of the cache store the paper service needs. The
// Redis client satisfies it.
type PaperCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type PaperService interface {
	CreatePaper(ctx context.Context, req *types.CreatePaperRequest) (*types.SamplePaper, error)
	GetPaper(ctx context.Context, id string) (*types.SamplePaper, error)
	PaginatePapers(ctx context.Context, page, limit int64) ([]*types.SamplePaper, int64, error)
	UpdatePaper(ctx context.Context, id string, req *types.CreatePaperRequest) (*types.SamplePaper, error)
	PatchPaper(ctx context.Context, id string, req *types.UpdatePaperRequest) (*types.SamplePaper, error)
	DeletePaper(ctx context.Context, id string) error
}

type paperService struct {
	repo     repository.PaperRepo
	cache    PaperCache
	cacheTTL time.Duration
}

func NewPaperService(repo repository.PaperRepo, cache PaperCache, cacheTTL time.Duration) PaperService {
	return &paperService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func cacheKey(id string) string {
	return "paper:" + id
}

func (s *paperService) CreatePaper(ctx context.Context, req *types.CreatePaperRequest) (*types.SamplePaper, error) {
	paper := &types.SamplePaper{
		Title:    req.Title,
		Type:     req.Type,
		Time:     req.Time,
		Marks:    req.Marks,
		Params:   req.Params,
		Tags:     req.Tags,
		Chapters: req.Chapters,
		Sections: req.Sections,
	}
	id, err := s.repo.CreatePaper(ctx, paper)
	if err != nil {
		return nil, err
	}
	paper.ID = id
	return paper, nil
}

func (s *paperService) GetPaper(ctx context.Context, id string) (*types.SamplePaper, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey(id))
		if err == nil {
			var paper types.SamplePaper
			if err := json.Unmarshal([]byte(cached), &paper); err == nil {
				return &paper, nil
			}
		} else if !database.IsNil(err) {
			log.Printf("Cache read failed for paper %s: %v", id, err)
		}
	}

	paper, err := s.repo.GetPaper(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(paper); err == nil {
			if err := s.cache.Set(ctx, cacheKey(id), string(data), s.cacheTTL); err != nil {
				log.Printf("Failed to cache paper %s: %v", id, err)
			}
		}
	}
	return paper, nil
}

func (s *paperService) PaginatePapers(ctx context.Context, page, limit int64) ([]*types.SamplePaper, int64, error) {
	return s.repo.PaginatePapers(ctx, page, limit)
}

func (s *paperService) UpdatePaper(ctx context.Context, id string, req *types.CreatePaperRequest) (*types.SamplePaper, error) {
	existing, err := s.repo.GetPaper(ctx, id)
	if err != nil {
		return nil, err
	}
	paper := &types.SamplePaper{
		Title:    req.Title,
		Type:     req.Type,
		Time:     req.Time,
		Marks:    req.Marks,
		Params:   req.Params,
		Tags:     req.Tags,
		Chapters: req.Chapters,
		Sections: req.Sections,
		CreateAt: existing.CreateAt,
	}
	if err := s.repo.ReplacePaper(ctx, id, paper); err != nil {
		return nil, err
	}
	paper.ID = id
	s.invalidate(ctx, id)
	return paper, nil
}

func (s *paperService) PatchPaper(ctx context.Context, id string, req *types.UpdatePaperRequest) (*types.SamplePaper, error) {
	fields := make(map[string]interface{})
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Type != nil {
		fields["type"] = *req.Type
	}
	if req.Time != nil {
		fields["time"] = *req.Time
	}
	if req.Marks != nil {
		fields["marks"] = *req.Marks
	}
	if req.Params != nil {
		fields["params"] = *req.Params
	}
	if req.Tags != nil {
		fields["tags"] = req.Tags
	}
	if req.Chapters != nil {
		fields["chapters"] = req.Chapters
	}
	if req.Sections != nil {
		fields["sections"] = req.Sections
	}

	if len(fields) > 0 {
		if err := s.repo.PatchPaper(ctx, id, fields); err != nil {
			return nil, err
		}
		s.invalidate(ctx, id)
	}
	return s.repo.GetPaper(ctx, id)
}

func (s *paperService) DeletePaper(ctx context.Context, id string) error {
	if err := s.repo.DeletePaper(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *paperService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(id)); err != nil {
		log.Printf("Failed to invalidate cache for paper %s: %v", id, err)
	}
}
