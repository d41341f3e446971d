package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"noteflow/internal/core/domain"
	"noteflow/internal/core/model/response"
	"noteflow/internal/core/port"
	"noteflow/internal/core/schema"
	"noteflow/internal/core/util"
	"noteflow/pkg/db/cursor"
)

type TaskService struct {
	repo port.TaskRepository
}

func NewTaskService(repo port.TaskRepository) *TaskService {
	return &TaskService{repo}
}

func (ts *TaskService) ListWithPagination(ctx context.Context, owner string, limit int, cur string) (*response.CursorResponse, error) {
	if owner == "" {
		return nil, domain.ErrUnauthenticated
	}

	rows, hasNext, err := ts.repo.GetAllWithCursor(ctx, owner, limit, cur)

	data := make([]response.TaskResponse, 0)

	if err != nil {
		dataBytes, _ := util.Serialize(data)

		resp := response.CursorResponse{Size: 0, Data: dataBytes}
		return &resp, err
	}

	for _, task := range rows {
		data = append(data, response.FromTask(task))
	}

	var nextCursor string

	if hasNext && len(rows) > 0 {
		last := rows[len(rows)-1]
		nextCursor = cursor.Encode(last.CreatedAt.Format(time.RFC3339), last.ID)
	}

	dataBytes, _ := util.Serialize(data)

	resp := response.CursorResponse{
		Size: len(data),
		Data: dataBytes,
	}
	resp.Pagination.HasNext = hasNext
	resp.Pagination.NextCursor = nextCursor

	return &resp, nil
}

func (ts *TaskService) List(ctx context.Context, owner string) ([]domain.Task, error) {
	if owner == "" {
		return nil, domain.ErrUnauthenticated
	}

	tasks, _, err := ts.repo.GetAllWithCursor(ctx, owner, 0, "")

	return tasks, err
}

func (ts *TaskService) ListByDeadlineRange(ctx context.Context, owner string, from, to string) ([]domain.Task, error) {
	if owner == "" {
		return nil, domain.ErrUnauthenticated
	}

	return ts.repo.GetByDeadlineRange(ctx, owner, from, to)
}

func (ts *TaskService) Create(ctx context.Context, owner string, fields map[string]any) (domain.Task, error) {
	if owner == "" {
		return domain.Task{}, domain.ErrUnauthenticated
	}

	fields["userId"] = owner

	clean, err := schema.ValidateTask(fields)

	if err != nil {
		return domain.Task{}, err
	}

	now := time.Now().UTC()

	task := taskFromFields(clean)
	task.UUID = uuid.New()
	task.CreatedAt = now
	task.UpdatedAt = now

	if task.Tags == nil {
		task.Tags = []string{}
	}

	saved, err := ts.repo.Create(ctx, task)

	if err != nil {
		slog.Error("Task#Create repository failed", "error", err, "title", task.Title)
		return domain.Task{}, err
	}

	return saved, nil
}

func (ts *TaskService) Update(ctx context.Context, owner, uid string, fields map[string]any) (domain.Task, error) {
	if owner == "" {
		return domain.Task{}, domain.ErrUnauthenticated
	}

	parsed, err := uuid.Parse(uid)

	if err != nil {
		return domain.Task{}, domain.ErrNotFound
	}

	fields["userId"] = owner

	clean, err := schema.ValidateTask(fields)

	if err != nil {
		return domain.Task{}, err
	}

	task := taskFromFields(clean)
	task.UUID = parsed
	task.UpdatedAt = time.Now().UTC()

	if task.Tags == nil {
		task.Tags = []string{}
	}

	return ts.repo.UpdateByUUID(ctx, task)
}

func (ts *TaskService) ToggleComplete(ctx context.Context, owner, uid string, completed bool) (domain.Task, error) {
	if owner == "" {
		return domain.Task{}, domain.ErrUnauthenticated
	}

	return ts.repo.SetCompleted(ctx, owner, uid, completed, time.Now().UTC())
}

func (ts *TaskService) Delete(ctx context.Context, owner, uid string) error {
	if owner == "" {
		return domain.ErrUnauthenticated
	}

	return ts.repo.DeleteByUUID(ctx, owner, uid)
}
