package service

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/zuai/sample-paper-api/repository"
	"github.com/zuai/sample-paper-api/types"
)

// ExtractService turns raw text or uploaded PDFs into persisted sample papers.
// Text extraction is synchronous; PDF extraction runs through the task queue.
type ExtractService interface {
	ExtractFromText(ctx context.Context, text string) (*types.SamplePaper, error)
	CreatePDFTask(ctx context.Context, fileName, filePath string) (string, error)
	ProcessTask(ctx context.Context, taskID string)
}

type extractService struct {
	aiService  AIService
	pdfService *PDFService
	paperRepo  repository.PaperRepo
	taskRepo   repository.TaskRepo
}

func NewExtractService(
	aiService AIService,
	pdfService *PDFService,
	paperRepo repository.PaperRepo,
	taskRepo repository.TaskRepo,
) ExtractService {
	return &extractService{
		aiService:  aiService,
		pdfService: pdfService,
		paperRepo:  paperRepo,
		taskRepo:   taskRepo,
	}
}

func (s *extractService) ExtractFromText(ctx context.Context, text string) (*types.SamplePaper, error) {
	paper, err := s.aiService.GenerateSamplePaper(ctx, text)
	if err != nil {
		return nil, err
	}
	id, err := s.paperRepo.CreatePaper(ctx, paper)
	if err != nil {
		return nil, fmt.Errorf("failed to save sample paper: %w", err)
	}
	paper.ID = id
	return paper, nil
}

func (s *extractService) CreatePDFTask(ctx context.Context, fileName, filePath string) (string, error) {
	task := &types.ExtractionTask{
		Status:      types.TASK_STATUS_PENDING,
		Description: "PDF extraction is queued",
		FileName:    fileName,
		FilePath:    filePath,
	}
	return s.taskRepo.CreateTask(ctx, task)
}

// ProcessTask drives one extraction task to a terminal state. It is safe to
// call more than once for the same task: terminal tasks are skipped, and a
// task that already produced a paper is not re-inserted.
func (s *extractService) ProcessTask(ctx context.Context, taskID string) {
	task, err := s.taskRepo.GetTask(ctx, taskID)
	if err != nil {
		log.Printf("Task %s: failed to load: %v", taskID, err)
		return
	}
	if task.Terminal() {
		return
	}
	if task.PaperID != "" {
		// A previous run inserted the paper but crashed before the final
		// status write.
		s.updateStatus(ctx, taskID, types.TASK_STATUS_COMPLETED, "Sample paper extracted and saved successfully")
		return
	}

	s.updateStatus(ctx, taskID, types.TASK_STATUS_RUNNING, "PDF extraction is in process")

	if _, err := os.Stat(task.FilePath); err != nil {
		s.fail(ctx, taskID, "Uploaded file is no longer available")
		return
	}

	if _, err := s.pdfService.PageCount(task.FilePath); err != nil {
		log.Printf("Task %s: invalid PDF: %v", taskID, err)
		s.fail(ctx, taskID, "Uploaded file is not a readable PDF")
		return
	}

	text, err := s.pdfService.ExtractText(task.FilePath)
	if err != nil {
		log.Printf("Task %s: text extraction failed: %v", taskID, err)
		s.fail(ctx, taskID, "Failed to extract text from PDF")
		return
	}

	paper, err := s.aiService.GenerateSamplePaper(ctx, text)
	if err != nil {
		log.Printf("Task %s: content generation failed: %v", taskID, err)
		s.fail(ctx, taskID, "Error during content generation")
		return
	}

	paperID, err := s.paperRepo.CreatePaper(ctx, paper)
	if err != nil {
		log.Printf("Task %s: database error: %v", taskID, err)
		s.fail(ctx, taskID, "Database error while saving sample paper")
		return
	}

	if err := s.taskRepo.SetTaskResult(ctx, taskID, paperID); err != nil {
		log.Printf("Task %s: failed to record result: %v", taskID, err)
	}
	s.updateStatus(ctx, taskID, types.TASK_STATUS_COMPLETED, "Sample paper extracted and saved successfully")
}

func (s *extractService) updateStatus(ctx context.Context, taskID, status, description string) {
	if err := s.taskRepo.UpdateTaskStatus(ctx, taskID, status, description); err != nil {
		log.Printf("Task %s: failed to update status to %s: %v", taskID, status, err)
	}
}

func (s *extractService) fail(ctx context.Context, taskID, description string) {
	s.updateStatus(ctx, taskID, types.TASK_STATUS_FAILED, description)
}
