package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zuai/sample-paper-api/repository"
	"github.com/zuai/sample-paper-api/service"
	"github.com/zuai/sample-paper-api/types"
)

type PaperHandler struct {
	paperService service.PaperService
}

func NewPaperHandler(paperService service.PaperService) *PaperHandler {
	return &PaperHandler{
		paperService: paperService,
	}
}

// repoErrorStatus maps repository errors onto HTTP status codes.
func repoErrorStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// HandleCreatePaper godoc
//
//	@Summary		Create a sample paper
//	@Description	Store a new sample paper document
//	@Tags			papers
//	@Accept			json
//	@Produce		json
//	@Param			paper	body		types.CreatePaperRequest	true	"Sample paper"
//	@Success		201		{object}	types.DataResponse
//	@Failure		400		{object}	types.DataResponse
//	@Failure		500		{object}	types.DataResponse
//	@Router			/api/v1/papers [post]
func (h *PaperHandler) HandleCreatePaper(c *gin.Context) {
	var req types.CreatePaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	paper, err := h.paperService.CreatePaper(c, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, types.DataResponse{
		Status: true,
		Data:   paper,
	})
}

// HandleGetPaper godoc
//
//	@Summary	Get a sample paper by id
//	@Tags		papers
//	@Produce	json
//	@Param		id	path		string	true	"Paper ID"
//	@Success	200	{object}	types.DataResponse
//	@Failure	400	{object}	types.DataResponse
//	@Failure	404	{object}	types.DataResponse
//	@Router		/api/v1/papers/{id} [get]
func (h *PaperHandler) HandleGetPaper(c *gin.Context) {
	id := c.Param("id")
	paper, err := h.paperService.GetPaper(c, id)
	if err != nil {
		c.JSON(repoErrorStatus(err), types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   paper,
	})
}

// HandlePaginatePapers godoc
//
//	@Summary	List sample papers
//	@Tags		papers
//	@Produce	json
//	@Param		page	query		int	false	"Page number (default 1)"
//	@Param		limit	query		int	false	"Page size (default 10)"
//	@Success	200		{object}	types.PaginateResponse
//	@Failure	500		{object}	types.DataResponse
//	@Router		/api/v1/papers [get]
func (h *PaperHandler) HandlePaginatePapers(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)

	papers, total, err := h.paperService.PaginatePapers(c, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.PaginateResponse{
		Total:    total,
		Page:     page,
		Limit:    limit,
		Elements: papers,
	})
}

// HandleUpdatePaper godoc
//
//	@Summary	Replace a sample paper
//	@Tags		papers
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Paper ID"
//	@Param		paper	body		types.CreatePaperRequest	true	"Full sample paper"
//	@Success	200		{object}	types.DataResponse
//	@Failure	400		{object}	types.DataResponse
//	@Failure	404		{object}	types.DataResponse
//	@Router		/api/v1/papers/{id} [put]
func (h *PaperHandler) HandleUpdatePaper(c *gin.Context) {
	id := c.Param("id")
	var req types.CreatePaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	paper, err := h.paperService.UpdatePaper(c, id, &req)
	if err != nil {
		c.JSON(repoErrorStatus(err), types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   paper,
	})
}

// HandlePatchPaper godoc
//
//	@Summary	Partially update a sample paper
//	@Tags		papers
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Paper ID"
//	@Param		paper	body		types.UpdatePaperRequest	true	"Fields to update"
//	@Success	200		{object}	types.DataResponse
//	@Failure	400		{object}	types.DataResponse
//	@Failure	404		{object}	types.DataResponse
//	@Router		/api/v1/papers/{id} [patch]
func (h *PaperHandler) HandlePatchPaper(c *gin.Context) {
	id := c.Param("id")
	var req types.UpdatePaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	paper, err := h.paperService.PatchPaper(c, id, &req)
	if err != nil {
		c.JSON(repoErrorStatus(err), types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   paper,
	})
}

// HandleDeletePaper godoc
//
//	@Summary	Delete a sample paper
//	@Tags		papers
//	@Produce	json
//	@Param		id	path		string	true	"Paper ID"
//	@Success	200	{object}	types.DataResponse
//	@Failure	400	{object}	types.DataResponse
//	@Failure	404	{object}	types.DataResponse
//	@Router		/api/v1/papers/{id} [delete]
func (h *PaperHandler) HandleDeletePaper(c *gin.Context) {
	id := c.Param("id")
	if err := h.paperService.DeletePaper(c, id); err != nil {
		c.JSON(repoErrorStatus(err), types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status:  true,
		Message: "Sample paper deleted",
	})
}
