package handler

import (
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zuai/sample-paper-api/schema"
	"github.com/zuai/sample-paper-api/service"
	"github.com/zuai/sample-paper-api/types"
	"github.com/zuai/sample-paper-api/utils"
	"github.com/zuai/sample-paper-api/worker"
)

type ExtractHandler struct {
	extractService service.ExtractService
	pool           *worker.Pool
	uploadDir      string
}

func NewExtractHandler(extractService service.ExtractService, pool *worker.Pool, uploadDir string) *ExtractHandler {
	return &ExtractHandler{
		extractService: extractService,
		pool:           pool,
		uploadDir:      uploadDir,
	}
}

// HandleExtractText godoc
//
//	@Summary		Extract a sample paper from plain text
//	@Description	Generate, validate and store a structured sample paper from raw text. Synchronous.
//	@Tags			extract
//	@Accept			json
//	@Produce		json
//	@Param			input	body		types.ExtractTextRequest	true	"Plain text input"
//	@Success		200		{object}	types.DataResponse
//	@Failure		400		{object}	types.DataResponse
//	@Failure		422		{object}	types.DataResponse
//	@Failure		429		{object}	types.DataResponse
//	@Router			/api/v1/extract/text [post]
func (h *ExtractHandler) HandleExtractText(c *gin.Context) {
	var req types.ExtractTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Only plain text input is allowed",
		})
		return
	}

	paper, err := h.extractService.ExtractFromText(c, req.Text)
	if err != nil {
		// Invalid model output is the caller-visible failure mode;
		// everything else is internal.
		status := http.StatusInternalServerError
		if errors.Is(err, schema.ErrInvalidPaper) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status:  true,
		Message: "Sample paper extracted and saved successfully",
		Data:    paper,
	})
}

// HandleExtractPDF godoc
//
//	@Summary		Extract a sample paper from a PDF
//	@Description	Upload a PDF and get back a task id. Extraction runs in the background; poll /api/v1/tasks/{task_id}.
//	@Tags			extract
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"PDF file"
//	@Success		202		{object}	types.TaskAcceptedResponse
//	@Failure		400		{object}	types.DataResponse
//	@Failure		429		{object}	types.DataResponse
//	@Failure		500		{object}	types.DataResponse
//	@Router			/api/v1/extract/pdf [post]
func (h *ExtractHandler) HandleExtractPDF(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid file",
		})
		return
	}

	if !isPDFUpload(file.Filename, file.Header.Get("Content-Type")) {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Only PDF files are allowed",
		})
		return
	}

	filePath, err := utils.SaveUpload(c, file, h.uploadDir)
	if err != nil {
		log.Printf("Failed to save upload %s: %v", file.Filename, err)
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: "Failed to store uploaded file",
		})
		return
	}

	taskID, err := h.extractService.CreatePDFTask(c, file.Filename, filePath)
	if err != nil {
		log.Printf("Failed to create extraction task for %s: %v", file.Filename, err)
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: "Error initializing task",
		})
		return
	}

	if err := h.pool.Enqueue(taskID); err != nil {
		if errors.Is(err, worker.ErrQueueFull) {
			// The task is persisted; the recovery sweep will pick it up.
			log.Printf("Queue full, task %s stays pending", taskID)
		} else {
			log.Printf("Failed to enqueue task %s: %v", taskID, err)
		}
	}

	c.JSON(http.StatusAccepted, types.TaskAcceptedResponse{
		TaskID:  taskID,
		Status:  types.TASK_STATUS_PENDING,
		Message: "The request for PDF extraction is accepted. Check the task status using the task id.",
	})
}

// isPDFUpload checks the declared type and extension. The worker re-validates
// the actual bytes with pdfcpu before any AI call.
func isPDFUpload(filename, contentType string) bool {
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		return false
	}
	if contentType != "" && contentType != "application/pdf" {
		return false
	}
	return true
}
