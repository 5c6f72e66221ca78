package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// notFoundStatus is what the queue reports for ids it never saw or has purged.
const notFoundStatus = "not_found"

type TasksController struct {
	queue TaskQueue
}

func NewTasksController(queue TaskQueue) *TasksController {
	return &TasksController{queue: queue}
}

// GetTaskStatus reports the state of an enqueued task.
// GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.TaskStatus(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "get task status")
		return
	}
	if status == notFoundStatus {
		respondNotFound(c, "task")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": taskID, "status": status})
}
