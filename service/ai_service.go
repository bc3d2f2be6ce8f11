package service

import (
	"context"

	"github.com/zuai/sample-paper-api/types"
)

// AIService generates a structured sample paper from extracted document text.
type AIService interface {
	GenerateSamplePaper(ctx context.Context, content string) (*types.SamplePaper, error)
}
