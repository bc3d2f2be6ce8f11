package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zuai/sample-paper-api/repository"
	"github.com/zuai/sample-paper-api/types"
)

type TaskHandler struct {
	taskRepo repository.TaskRepo
}

func NewTaskHandler(taskRepo repository.TaskRepo) *TaskHandler {
	return &TaskHandler{
		taskRepo: taskRepo,
	}
}

// HandleTaskStatus godoc
//
//	@Summary	Get extraction task status
//	@Tags		tasks
//	@Produce	json
//	@Param		task_id	path		string	true	"Task ID"
//	@Success	200		{object}	types.TaskStatusResponse
//	@Failure	400		{object}	types.DataResponse
//	@Failure	404		{object}	types.DataResponse
//	@Router		/api/v1/tasks/{task_id} [get]
func (h *TaskHandler) HandleTaskStatus(c *gin.Context) {
	taskID := c.Param("task_id")
	task, err := h.taskRepo.GetTask(c, taskID)
	if err != nil {
		c.JSON(repoErrorStatus(err), types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.TaskStatusResponse{
		TaskID:      task.ID,
		Status:      task.Status,
		Description: task.Description,
		PaperID:     task.PaperID,
	})
}
