package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"

	"noteflow/internal/adapter/database"
	"noteflow/internal/core/domain"
	"noteflow/internal/core/port"
	tel "noteflow/internal/core/telemetry"
	"noteflow/pkg/db/cursor"
)

type TaskRepository struct {
	db        *database.DB
	scanner   *database.Scanner
	telemetry port.Telemetry
}

func NewTaskRepository(db *database.DB, telemetry port.Telemetry) port.TaskRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskRepository{
		db:        db,
		scanner:   database.NewScanner(),
		telemetry: telemetry,
	}
}

func (tr *TaskRepository) GetAllWithCursor(ctx context.Context, owner string, limit int, cur string) ([]domain.Task, bool, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "GetAllWithCursor", "task", map[string]any{
		"db.table":          "tasks",
		"user.uid":          owner,
		"pagination.limit":  limit,
		"pagination.cursor": cur,
	})
	defer span.End()

	startTime := time.Now()

	query := tr.db.QueryBuilder.Select("*").
		From("tasks").
		Where(sq.Eq{"user_id": owner}).
		OrderBy("created_at DESC, id DESC")

	actualLimit := 0

	if limit > 0 {
		actualLimit = limit + 1
		query = query.Limit(uint64(actualLimit))
	}

	if cur != "" {
		datetimeStr, id, err := cursor.Decode(cur)
		if err != nil {
			span.SetStatus("error", err.Error())
			span.RecordError(err)
			tr.telemetry.RecordRepositoryOperation(ctx, "GetAllWithCursor", "task", time.Since(startTime), err)
			return []domain.Task{}, false, err
		}

		datetime, err := time.Parse(time.RFC3339, datetimeStr)
		if err != nil {
			span.SetStatus("error", err.Error())
			span.RecordError(err)
			tr.telemetry.RecordRepositoryOperation(ctx, "GetAllWithCursor", "task", time.Since(startTime), err)
			return []domain.Task{}, false, err
		}

		query = query.Where(sq.Or{
			sq.Lt{"created_at": datetime},
			sq.And{
				sq.Eq{"created_at": datetime},
				sq.Lt{"id": id},
			},
		})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, "GetAllWithCursor", "task", time.Since(startTime), err)
		return []domain.Task{}, false, domain.WrapStore(err)
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "GetAllWithCursor", "task", sqlStr, args)

	rows, err := tr.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, "GetAllWithCursor", "task", time.Since(startTime), err)
		return []domain.Task{}, false, domain.WrapStore(err)
	}
	defer rows.Close()

	var tasks []domain.Task
	if err := tr.scanner.ScanRowsToSlice(rows, &tasks); err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, "GetAllWithCursor", "task", time.Since(startTime), err)
		return []domain.Task{}, false, domain.WrapStore(err)
	}

	hasNext := actualLimit > 0 && len(tasks) == actualLimit
	if hasNext {
		tasks = tasks[:limit]
	}

	span.SetAttributes(map[string]any{
		"db.rows_returned": len(tasks),
		"db.has_next":      hasNext,
	})

	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, "GetAllWithCursor", "task", time.Since(startTime), nil)

	return tasks, hasNext, nil
}

// GetByDeadlineRange matches deadlines inside [from, to], bounds
// inclusive. Deadlines are ISO-8601 strings, so the comparison is
// lexicographic; callers pass bounds in the same shape as the stored
// values.
func (tr *TaskRepository) GetByDeadlineRange(ctx context.Context, owner string, from, to string) ([]domain.Task, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "GetByDeadlineRange", "task", map[string]any{
		"db.table":   "tasks",
		"user.uid":   owner,
		"range.from": from,
		"range.to":   to,
	})
	defer span.End()

	startTime := time.Now()

	query := tr.db.QueryBuilder.Select("*").
		From("tasks").
		Where(sq.Eq{"user_id": owner}).
		Where("deadline IS NOT NULL").
		Where(sq.GtOrEq{"deadline": from}).
		Where(sq.LtOrEq{"deadline": to})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, "GetByDeadlineRange", "task", time.Since(startTime), err)
		return nil, domain.WrapStore(err)
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "GetByDeadlineRange", "task", sqlStr, args)

	rows, err := tr.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, "GetByDeadlineRange", "task", time.Since(startTime), err)
		return nil, domain.WrapStore(err)
	}
	defer rows.Close()

	var tasks []domain.Task
	if err := tr.scanner.ScanRowsToSlice(rows, &tasks); err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, "GetByDeadlineRange", "task", time.Since(startTime), err)
		return nil, domain.WrapStore(err)
	}

	span.SetAttributes(map[string]any{"db.rows_returned": len(tasks)})
	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, "GetByDeadlineRange", "task", time.Since(startTime), nil)

	return tasks, nil
}

func (tr *TaskRepository) GetByUUID(ctx context.Context, uid string) (domain.Task, bool, error) {
	query := tr.db.QueryBuilder.Select("*").
		From("tasks").
		Where(sq.Eq{"uuid": uid}).
		Limit(1)

	sqlStr, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, false, domain.WrapStore(err)
	}

	rows, err := tr.db.QueryContext(ctx, sqlStr, args...)

	if err != nil {
		return domain.Task{}, false, domain.WrapStore(err)
	}

	defer rows.Close()

	var task domain.Task
	err = tr.scanner.ScanRowToStruct(rows, &task)

	if err == sql.ErrNoRows {
		return domain.Task{}, false, nil
	}

	if err != nil {
		slog.Error("Error getting task by uuid", "error", err)
		return domain.Task{}, false, domain.WrapStore(err)
	}

	return task, true, nil
}

func (tr *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Create", "task", map[string]any{
		"db.table":     "tasks",
		"db.operation": "INSERT",
		"task.uuid":    task.UUID.String(),
		"user.uid":     task.UserID,
	})
	defer span.End()

	startTime := time.Now()

	uid := task.UUID.String()

	query, args, err := tr.db.QueryBuilder.Insert("tasks").
		Columns("uuid", "title", "description", "user_id", "completed", "deadline", "is_daily", "daily_time", "tags", "created_at", "updated_at").
		Values(uid, task.Title, task.Description, task.UserID, task.Completed, task.Deadline, task.IsDaily, task.DailyTime, encodeTags(task.Tags), task.CreatedAt, task.UpdatedAt).
		ToSql()

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, "Create", "task", time.Since(startTime), err)
		return domain.Task{}, domain.WrapStore(err)
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "Create", "task", query, args)

	if _, err := tr.db.ExecContext(ctx, query, args...); err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, "Create", "task", time.Since(startTime), err)
		slog.Error("Insert failed", "error", err, "uuid", uid)
		return domain.Task{}, domain.WrapStore(err)
	}

	saved, found, err := tr.GetByUUID(ctx, uid)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, "Create", "task", time.Since(startTime), err)
		return domain.Task{}, err
	}

	if !found {
		err := fmt.Errorf("task %s missing after insert", uid)
		span.SetStatus("error", err.Error())
		tr.telemetry.RecordRepositoryOperation(ctx, "Create", "task", time.Since(startTime), err)
		return domain.Task{}, domain.WrapStore(err)
	}

	tr.telemetry.RecordBusinessEvent(ctx, "created", "task", uid, saved.UserID, map[string]any{
		"title":      saved.Title,
		"created_at": saved.CreatedAt,
	})

	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, "Create", "task", time.Since(startTime), nil)

	return saved, nil
}

func (tr *TaskRepository) UpdateByUUID(ctx context.Context, task domain.Task) (domain.Task, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "UpdateByUUID", "task", map[string]any{
		"db.table":     "tasks",
		"db.operation": "UPDATE",
		"task.uuid":    task.UUID.String(),
		"user.uid":     task.UserID,
	})
	defer span.End()

	startTime := time.Now()

	uid := task.UUID.String()

	query, args, err := tr.db.QueryBuilder.Update("tasks").
		Set("title", task.Title).
		Set("description", task.Description).
		Set("completed", task.Completed).
		Set("deadline", task.Deadline).
		Set("is_daily", task.IsDaily).
		Set("daily_time", task.DailyTime).
		Set("tags", encodeTags(task.Tags)).
		Set("updated_at", task.UpdatedAt).
		Where(sq.Eq{"uuid": uid, "user_id": task.UserID}).
		ToSql()

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, "UpdateByUUID", "task", time.Since(startTime), err)
		return domain.Task{}, domain.WrapStore(err)
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "UpdateByUUID", "task", query, args)

	result, err := tr.db.ExecContext(ctx, query, args...)
	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, "UpdateByUUID", "task", time.Since(startTime), err)
		return domain.Task{}, domain.WrapStore(err)
	}

	if rowsAffected, err := result.RowsAffected(); err == nil && rowsAffected == 0 {
		err := fmt.Errorf("task with id %s: %w", uid, domain.ErrNotFound)
		span.SetStatus("error", err.Error())
		tr.telemetry.RecordRepositoryOperation(ctx, "UpdateByUUID", "task", time.Since(startTime), err)
		return domain.Task{}, err
	}

	updated, found, err := tr.GetByUUID(ctx, uid)

	if err != nil {
		return domain.Task{}, err
	}

	if !found {
		return domain.Task{}, fmt.Errorf("task with id %s: %w", uid, domain.ErrNotFound)
	}

	tr.telemetry.RecordBusinessEvent(ctx, "updated", "task", uid, updated.UserID, map[string]any{
		"updated_at": updated.UpdatedAt,
	})

	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, "UpdateByUUID", "task", time.Since(startTime), nil)

	return updated, nil
}

// SetCompleted touches only completed and updated_at.
func (tr *TaskRepository) SetCompleted(ctx context.Context, owner, uid string, completed bool, updatedAt time.Time) (domain.Task, error) {
	query, args, err := tr.db.QueryBuilder.Update("tasks").
		Set("completed", completed).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"uuid": uid, "user_id": owner}).
		ToSql()

	if err != nil {
		return domain.Task{}, domain.WrapStore(err)
	}

	result, err := tr.db.ExecContext(ctx, query, args...)

	if err != nil {
		return domain.Task{}, domain.WrapStore(err)
	}

	if rowsAffected, err := result.RowsAffected(); err == nil && rowsAffected == 0 {
		return domain.Task{}, fmt.Errorf("task with id %s: %w", uid, domain.ErrNotFound)
	}

	updated, found, err := tr.GetByUUID(ctx, uid)

	if err != nil {
		return domain.Task{}, err
	}

	if !found {
		return domain.Task{}, fmt.Errorf("task with id %s: %w", uid, domain.ErrNotFound)
	}

	tr.telemetry.RecordBusinessEvent(ctx, "toggled", "task", uid, owner, map[string]any{
		"completed": completed,
	})

	return updated, nil
}

// DeleteByUUID removes the document permanently.
func (tr *TaskRepository) DeleteByUUID(ctx context.Context, owner, uid string) error {
	query, args, err := tr.db.QueryBuilder.Delete("tasks").
		Where(sq.Eq{"uuid": uid, "user_id": owner}).
		ToSql()

	if err != nil {
		return domain.WrapStore(err)
	}

	result, err := tr.db.ExecContext(ctx, query, args...)

	if err != nil {
		return domain.WrapStore(err)
	}

	rowsAffected, _ := result.RowsAffected()

	if rowsAffected == 0 {
		return fmt.Errorf("task with id %s: %w", uid, domain.ErrNotFound)
	}

	return nil
}

func (tr *TaskRepository) CountByOwner(ctx context.Context, owner string) (int, int, error) {
	total, err := tr.countWhere(ctx, sq.Eq{"user_id": owner})

	if err != nil {
		return 0, 0, err
	}

	completed, err := tr.countWhere(ctx, sq.Eq{"user_id": owner, "completed": true})

	if err != nil {
		return 0, 0, err
	}

	return total, completed, nil
}

func (tr *TaskRepository) countWhere(ctx context.Context, pred sq.Eq) (int, error) {
	query, args, err := tr.db.QueryBuilder.Select("COUNT(*)").
		From("tasks").
		Where(pred).
		ToSql()

	if err != nil {
		return 0, domain.WrapStore(err)
	}

	var count int

	if err := tr.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, domain.WrapStore(err)
	}

	return count, nil
}

func encodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}

	encoded, _ := json.Marshal(tags)

	return string(encoded)
}
