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
	"noteflow/internal/core/util"
	"noteflow/pkg/logging"
	. "noteflow/pkg/telemetry"
)

type NoteHandler struct {
	svc    port.NoteService
	Logger *logging.Logger
}

func NewNoteHandler(svc port.NoteService, logger *logging.Logger) *NoteHandler {
	return &NoteHandler{
		svc:    svc,
		Logger: logger,
	}
}

func (n *NoteHandler) GetAllNotes(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.note.GetAllNotes", []attribute.KeyValue{
		attribute.String("handler.operation", "GetAllNotes"),
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
		attribute.String("note.cursor", cursor),
		attribute.Int("note.limit", limit),
	)

	data, err := n.svc.ListWithPagination(ctx, owner, limit, cursor)

	if err != nil {
		AddSpanError(span, err)

		n.Logger.Logger.Ctx(ctx).Error("Failed to get notes",
			zap.Error(err),
			zap.String("user_uid", owner),
		)

		SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

func (n *NoteHandler) CreateNote(c *gin.Context) {
	ctx := c.Request.Context()

	owner := middleware.CurrentUID(c)

	params, err := util.ParamsToMap[request.NoteRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	note, err := n.svc.Create(ctx, owner, params.Fields(owner))

	if err != nil {
		slog.Error("Error creating note", "error", err)
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusCreated, response.FromNote(note))
}

func (n *NoteHandler) UpdateNote(c *gin.Context) {
	ctx := c.Request.Context()

	owner := middleware.CurrentUID(c)

	params, err := util.ParamsToMap[request.NoteRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	note, err := n.svc.Update(ctx, owner, c.Param("uuid"), params.Fields(owner))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": response.FromNote(note)})
}

func (n *NoteHandler) DeleteNote(c *gin.Context) {
	ctx := c.Request.Context()

	owner := middleware.CurrentUID(c)

	err := n.svc.Delete(ctx, owner, c.Param("uuid"))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Note deleted successfully",
	})
}
