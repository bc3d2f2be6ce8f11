// Package schema owns the structured sample-paper format the AI service must
// produce, and the tolerant parsing needed to get there from raw model output.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/zuai/sample-paper-api/types"
)

// ErrInvalidPaper marks model output that could not be turned into a valid
// sample paper, whether it failed to parse or failed schema validation.
var ErrInvalidPaper = errors.New("model output is not a valid sample paper")

//go:embed sample_paper.json
var samplePaperSchema []byte

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// SamplePaperSchema returns the raw JSON schema document. It is embedded into
// the generation prompt so the model sees exactly what validation will check.
func SamplePaperSchema() string {
	return string(samplePaperSchema)
}

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("sample_paper.json", bytes.NewReader(samplePaperSchema)); err != nil {
			compileErr = fmt.Errorf("failed to load sample paper schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile("sample_paper.json")
	})
	return compiled, compileErr
}

// ParseModelJSON extracts a JSON document from raw model output. Models wrap
// output in markdown fences or commentary often enough that a plain Unmarshal
// is not good enough.
func ParseModelJSON(content string) (json.RawMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty model output", ErrInvalidPaper)
	}

	candidates := []string{content}
	if stripped := stripCodeFences(content); stripped != "" && stripped != content {
		candidates = append(candidates, stripped)
	}
	if extracted := extractJSONCandidate(content); extracted != "" && extracted != content {
		candidates = append(candidates, extracted)
	}

	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		var parsed any
		if err := json.Unmarshal([]byte(candidate), &parsed); err == nil {
			normalized, mErr := json.Marshal(parsed)
			if mErr != nil {
				return nil, fmt.Errorf("failed to normalize model output: %w", mErr)
			}
			return normalized, nil
		}
	}

	return nil, fmt.Errorf("%w: no JSON document in model output", ErrInvalidPaper)
}

// ValidateSamplePaper checks a JSON document against the sample paper schema.
func ValidateSamplePaper(doc json.RawMessage) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("failed to decode document for validation: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPaper, err)
	}
	return nil
}

// DecodeSamplePaper parses raw model output, validates it against the schema
// and unmarshals it into a SamplePaper.
func DecodeSamplePaper(content string) (*types.SamplePaper, error) {
	raw, err := ParseModelJSON(content)
	if err != nil {
		return nil, err
	}
	if err := ValidateSamplePaper(raw); err != nil {
		return nil, err
	}
	var paper types.SamplePaper
	if err := json.Unmarshal(raw, &paper); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPaper, err)
	}
	return &paper, nil
}

func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return ""
	}

	// Drop first fence line.
	lines = lines[1:]
	// Drop trailing fence if present.
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func extractJSONCandidate(content string) string {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(trimmed, "}")
	if end < start {
		return ""
	}
	return strings.TrimSpace(trimmed[start : end+1])
}
