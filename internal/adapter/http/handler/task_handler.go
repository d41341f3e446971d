package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	. "noteflow/internal/adapter/http/helper"
	"noteflow/internal/adapter/http/middleware"
	"noteflow/internal/core/model/request"
	"noteflow/internal/core/model/response"
	"noteflow/internal/core/port"
	"noteflow/internal/core/service"
	"noteflow/internal/core/util"
	"noteflow/pkg/logging"
	. "noteflow/pkg/telemetry"
)

type TaskHandler struct {
	svc    port.TaskService
	window *service.DeadlineWindow
	Logger *logging.Logger
}

func NewTaskHandler(svc port.TaskService, window *service.DeadlineWindow, logger *logging.Logger) *TaskHandler {
	return &TaskHandler{
		svc:    svc,
		window: window,
		Logger: logger,
	}
}

func (t *TaskHandler) GetAllTasks(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.task.GetAllTasks", []attribute.KeyValue{
		attribute.String("handler.operation", "GetAllTasks"),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	owner := middleware.CurrentUID(c)
	cursor := c.Query("cursor")

	// No limit means the full owner-scoped list; only an explicit
	// positive limit turns on pagination.
	limit, _ := strconv.Atoi(c.Query("limit"))

	if limit < 0 {
		limit = 0
	}

	span.SetAttributes(
		attribute.String("user.uid", owner),
		attribute.String("task.cursor", cursor),
		attribute.Int("task.limit", limit),
	)

	data, err := t.svc.ListWithPagination(ctx, owner, limit, cursor)

	if err != nil {
		AddSpanError(span, err)

		t.Logger.Logger.Ctx(ctx).Error("Failed to get tasks",
			zap.Error(err),
			zap.String("user_uid", owner),
		)

		SendDomainError(c, err)
		return
	}

	span.SetAttributes(
		attribute.Int("http.status_code", http.StatusOK),
		attribute.String("response.type", "success"),
	)

	c.JSON(http.StatusOK, data)
}

// GetCalendarTasks serves the calendar's visible deadline window. A
// load that lost the race to a newer window change answers 204 so the
// client keeps what it already renders.
func (t *TaskHandler) GetCalendarTasks(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.task.GetCalendarTasks", []attribute.KeyValue{
		attribute.String("handler.operation", "GetCalendarTasks"),
	})

	defer span.End()

	owner := middleware.CurrentUID(c)
	from := c.Query("from")
	to := c.Query("to")

	if from == "" || to == "" {
		SendBadRequestError(c, "range", "from and to are required")
		return
	}

	span.SetAttributes(
		attribute.String("user.uid", owner),
		attribute.String("range.from", from),
		attribute.String("range.to", to),
	)

	tasks, current, err := t.window.Load(ctx, owner, from, to)

	if err != nil {
		AddSpanError(span, err)
		SendDomainError(c, err)
		return
	}

	if !current {
		c.Status(http.StatusNoContent)
		return
	}

	data := make([]response.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		data = append(data, response.FromTask(task))
	}

	SendSuccess(c, http.StatusOK, data)
}

func (t *TaskHandler) CreateTask(c *gin.Context) {
	ctx := c.Request.Context()

	owner := middleware.CurrentUID(c)

	params, err := util.ParamsToMap[request.TaskRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	slog.Info("Task#create", "owner", owner, "title", params.Title)

	task, err := t.svc.Create(ctx, owner, params.Fields(owner))

	if err != nil {
		slog.Error("Error creating task", "error", err)
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusCreated, response.FromTask(task))
}

func (t *TaskHandler) UpdateTask(c *gin.Context) {
	ctx := c.Request.Context()

	owner := middleware.CurrentUID(c)

	params, err := util.ParamsToMap[request.TaskRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	task, err := t.svc.Update(ctx, owner, c.Param("uuid"), params.Fields(owner))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": response.FromTask(task)})
}

func (t *TaskHandler) ToggleTask(c *gin.Context) {
	ctx := c.Request.Context()

	owner := middleware.CurrentUID(c)

	params, err := util.ParamsToMap[request.ToggleRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	task, err := t.svc.ToggleComplete(ctx, owner, c.Param("uuid"), params.Completed)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": response.FromTask(task)})
}

func (t *TaskHandler) DeleteTask(c *gin.Context) {
	ctx := c.Request.Context()

	owner := middleware.CurrentUID(c)

	err := t.svc.Delete(ctx, owner, c.Param("uuid"))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}
