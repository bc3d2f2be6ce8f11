package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/zuai/sample-paper-api/schema"
	"github.com/zuai/sample-paper-api/types"
)

const generationInstruction = `You are an exam content digitization assistant.
You convert raw exam text into a single JSON document describing a sample paper.
Respond with JSON only, never with markdown or commentary.
The JSON must conform to this schema:
`

const generationPrompt = `Extract a complete sample paper from the following content.
Fill every required field. Derive question_slug values from the question text.
Content:
`

type GeminiService struct {
	apiKeys    []string
	currentKey int
	modelName  string
	client     *genai.Client
	model      *genai.GenerativeModel
	mu         sync.Mutex
}

func NewGeminiService(apiKeys []string, modelName string) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}

	s := &GeminiService{
		apiKeys:    apiKeys,
		currentKey: 0,
		modelName:  modelName,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.initClientLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

// initClientLocked builds a client and model for the current key and swaps
// them in, closing the previous client. Callers must hold s.mu.
func (s *GeminiService) initClientLocked() error {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(s.apiKeys[s.currentKey]))
	if err != nil {
		return err
	}

	model := client.GenerativeModel(s.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(generationInstruction + schema.SamplePaperSchema())},
	}
	model.GenerationConfig.ResponseMIMEType = "application/json"
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
	}

	old := s.client
	s.client = client
	s.model = model
	if old != nil {
		old.Close()
	}
	return nil
}

// currentModel snapshots the active model. Generation calls run against the
// snapshot; a concurrent rotation cannot swap it out from under them.
func (s *GeminiService) currentModel() *genai.GenerativeModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

func (s *GeminiService) rotateAPIKey() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	return s.initClientLocked()
}

// GenerateSamplePaper sends the content to Gemini and decodes the structured
// response. Transient failures are retried, rotating to the next API key
// between attempts.
func (s *GeminiService) GenerateSamplePaper(ctx context.Context, content string) (*types.SamplePaper, error) {
	var text string
	err := retry.Do(
		func() error {
			resp, err := s.currentModel().GenerateContent(ctx, genai.Text(generationPrompt+content))
			if err != nil {
				return err
			}
			text = responseText(resp)
			if text == "" {
				return errors.New("no response generated")
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(len(s.apiKeys)+1)),
		retry.Delay(2*time.Second),
		retry.OnRetry(func(_ uint, err error) {
			_ = s.rotateAPIKey()
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("content generation failed: %w", err)
	}

	return schema.DecodeSamplePaper(text)
}

func responseText(resp *genai.GenerateContentResponse) string {
	content := ""
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content += string(text)
			}
		}
	}
	return content
}

// Close releases the underlying client.
func (s *GeminiService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
