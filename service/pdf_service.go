package service

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PDFService validates uploaded PDFs and extracts their text page by page.
type PDFService struct{}

func NewPDFService() *PDFService {
	return &PDFService{}
}

// PageCount validates that the file is a readable PDF and returns its page
// count. A corrupt or non-PDF file fails here before any AI call is made.
func (s *PDFService) PageCount(filePath string) (int, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pageCount, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("invalid PDF file: %w", err)
	}
	if pageCount == 0 {
		return 0, fmt.Errorf("PDF has no pages")
	}
	return pageCount, nil
}

// ExtractText extracts text from every page of the PDF. Pages that yield no
// text are skipped rather than failing the whole document.
func (s *PDFService) ExtractText(filePath string) (string, error) {
	totalPages, err := s.PageCount(filePath)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	extracted := 0
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		text, err := extractPageWithPdftotext(filePath, pageNum)
		if err != nil {
			continue
		}
		builder.WriteString(cleanText(text))
		builder.WriteString("\n")
		extracted++
	}

	if extracted == 0 {
		return "", fmt.Errorf("no text extracted from %d pages", totalPages)
	}
	return strings.TrimSpace(builder.String()), nil
}

// extractPageWithPdftotext extracts one page using the pdftotext utility
// (poppler-utils).
func extractPageWithPdftotext(filePath string, pageNumber int) (string, error) {
	cmd := exec.Command("pdftotext",
		"-f", strconv.Itoa(pageNumber),
		"-l", strconv.Itoa(pageNumber),
		"-enc", "UTF-8", "-nopgbrk",
		filePath, "-")
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext failed for page %d: %w", pageNumber, err)
	}
	if trimmed := strings.TrimSpace(out.String()); len(trimmed) > 0 {
		return trimmed, nil
	}
	return "", fmt.Errorf("got nothing at page %d", pageNumber)
}

func cleanText(text string) string {
	replacements := map[string]string{
		"\u0000": "",   // Null character
		"\ufffd": "",   // Unicode replacement character
		"\u001b": "",   // Escape character
		"\r":     "",   // Carriage return
		"\f":     "\n", // Form feed to newline
		"  ":     " ",  // Multiple spaces to single space
	}
	cleaned := text
	for old, new := range replacements {
		cleaned = strings.ReplaceAll(cleaned, old, new)
	}
	return strings.TrimSpace(cleaned)
}
