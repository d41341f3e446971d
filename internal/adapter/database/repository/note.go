package repository

import (
	"context"
	"database/sql"
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

type NoteRepository struct {
	db        *database.DB
	scanner   *database.Scanner
	telemetry port.Telemetry
}

func NewNoteRepository(db *database.DB, telemetry port.Telemetry) port.NoteRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &NoteRepository{
		db:        db,
		scanner:   database.NewScanner(),
		telemetry: telemetry,
	}
}

// GetAllWithCursor pages the owner's notes most-recently-touched first,
// so an edit bubbles the note back to the top of the list.
func (nr *NoteRepository) GetAllWithCursor(ctx context.Context, owner string, limit int, cur string) ([]domain.Note, bool, error) {
	ctx, span := nr.telemetry.StartRepositorySpan(ctx, "GetAllWithCursor", "note", map[string]any{
		"db.table":          "notes",
		"user.uid":          owner,
		"pagination.limit":  limit,
		"pagination.cursor": cur,
	})
	defer span.End()

	startTime := time.Now()

	query := nr.db.QueryBuilder.Select("*").
		From("notes").
		Where(sq.Eq{"user_id": owner}).
		OrderBy("updated_at DESC, id DESC")

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
			nr.telemetry.RecordRepositoryOperation(ctx, "GetAllWithCursor", "note", time.Since(startTime), err)
			return []domain.Note{}, false, err
		}

		datetime, err := time.Parse(time.RFC3339, datetimeStr)
		if err != nil {
			span.SetStatus("error", err.Error())
			span.RecordError(err)
			nr.telemetry.RecordRepositoryOperation(ctx, "GetAllWithCursor", "note", time.Since(startTime), err)
			return []domain.Note{}, false, err
		}

		query = query.Where(sq.Or{
			sq.Lt{"updated_at": datetime},
			sq.And{
				sq.Eq{"updated_at": datetime},
				sq.Lt{"id": id},
			},
		})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		nr.telemetry.RecordRepositoryOperation(ctx, "GetAllWithCursor", "note", time.Since(startTime), err)
		return []domain.Note{}, false, domain.WrapStore(err)
	}

	nr.telemetry.RecordRepositoryQuery(ctx, "GetAllWithCursor", "note", sqlStr, args)

	rows, err := nr.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		nr.telemetry.RecordRepositoryOperation(ctx, "GetAllWithCursor", "note", time.Since(startTime), err)
		return []domain.Note{}, false, domain.WrapStore(err)
	}
	defer rows.Close()

	var notes []domain.Note
	if err := nr.scanner.ScanRowsToSlice(rows, &notes); err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		nr.telemetry.RecordRepositoryOperation(ctx, "GetAllWithCursor", "note", time.Since(startTime), err)
		return []domain.Note{}, false, domain.WrapStore(err)
	}

	hasNext := actualLimit > 0 && len(notes) == actualLimit
	if hasNext {
		notes = notes[:limit]
	}

	span.SetAttributes(map[string]any{
		"db.rows_returned": len(notes),
		"db.has_next":      hasNext,
	})

	span.SetStatus("ok", "")
	nr.telemetry.RecordRepositoryOperation(ctx, "GetAllWithCursor", "note", time.Since(startTime), nil)

	return notes, hasNext, nil
}

func (nr *NoteRepository) GetByUUID(ctx context.Context, uid string) (domain.Note, bool, error) {
	query := nr.db.QueryBuilder.Select("*").
		From("notes").
		Where(sq.Eq{"uuid": uid}).
		Limit(1)

	sqlStr, args, err := query.ToSql()

	if err != nil {
		return domain.Note{}, false, domain.WrapStore(err)
	}

	rows, err := nr.db.QueryContext(ctx, sqlStr, args...)

	if err != nil {
		return domain.Note{}, false, domain.WrapStore(err)
	}

	defer rows.Close()

	var note domain.Note
	err = nr.scanner.ScanRowToStruct(rows, &note)

	if err == sql.ErrNoRows {
		return domain.Note{}, false, nil
	}

	if err != nil {
		slog.Error("Error getting note by uuid", "error", err)
		return domain.Note{}, false, domain.WrapStore(err)
	}

	return note, true, nil
}

func (nr *NoteRepository) Create(ctx context.Context, note domain.Note) (domain.Note, error) {
	ctx, span := nr.telemetry.StartRepositorySpan(ctx, "Create", "note", map[string]any{
		"db.table":     "notes",
		"db.operation": "INSERT",
		"note.uuid":    note.UUID.String(),
		"user.uid":     note.UserID,
	})
	defer span.End()

	startTime := time.Now()

	uid := note.UUID.String()

	query, args, err := nr.db.QueryBuilder.Insert("notes").
		Columns("uuid", "title", "content", "user_id", "tags", "created_at", "updated_at").
		Values(uid, note.Title, note.Content, note.UserID, encodeTags(note.Tags), note.CreatedAt, note.UpdatedAt).
		ToSql()

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		nr.telemetry.RecordRepositoryOperation(ctx, "Create", "note", time.Since(startTime), err)
		return domain.Note{}, domain.WrapStore(err)
	}

	nr.telemetry.RecordRepositoryQuery(ctx, "Create", "note", query, args)

	if _, err := nr.db.ExecContext(ctx, query, args...); err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		nr.telemetry.RecordRepositoryOperation(ctx, "Create", "note", time.Since(startTime), err)
		slog.Error("Insert failed", "error", err, "uuid", uid)
		return domain.Note{}, domain.WrapStore(err)
	}

	saved, found, err := nr.GetByUUID(ctx, uid)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		nr.telemetry.RecordRepositoryOperation(ctx, "Create", "note", time.Since(startTime), err)
		return domain.Note{}, err
	}

	if !found {
		err := fmt.Errorf("note %s missing after insert", uid)
		span.SetStatus("error", err.Error())
		nr.telemetry.RecordRepositoryOperation(ctx, "Create", "note", time.Since(startTime), err)
		return domain.Note{}, domain.WrapStore(err)
	}

	nr.telemetry.RecordBusinessEvent(ctx, "created", "note", uid, saved.UserID, map[string]any{
		"title":      saved.Title,
		"created_at": saved.CreatedAt,
	})

	span.SetStatus("ok", "")
	nr.telemetry.RecordRepositoryOperation(ctx, "Create", "note", time.Since(startTime), nil)

	return saved, nil
}

func (nr *NoteRepository) UpdateByUUID(ctx context.Context, note domain.Note) (domain.Note, error) {
	ctx, span := nr.telemetry.StartRepositorySpan(ctx, "UpdateByUUID", "note", map[string]any{
		"db.table":     "notes",
		"db.operation": "UPDATE",
		"note.uuid":    note.UUID.String(),
		"user.uid":     note.UserID,
	})
	defer span.End()

	startTime := time.Now()

	uid := note.UUID.String()

	query, args, err := nr.db.QueryBuilder.Update("notes").
		Set("title", note.Title).
		Set("content", note.Content).
		Set("tags", encodeTags(note.Tags)).
		Set("updated_at", note.UpdatedAt).
		Where(sq.Eq{"uuid": uid, "user_id": note.UserID}).
		ToSql()

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		nr.telemetry.RecordRepositoryOperation(ctx, "UpdateByUUID", "note", time.Since(startTime), err)
		return domain.Note{}, domain.WrapStore(err)
	}

	nr.telemetry.RecordRepositoryQuery(ctx, "UpdateByUUID", "note", query, args)

	result, err := nr.db.ExecContext(ctx, query, args...)
	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		nr.telemetry.RecordRepositoryOperation(ctx, "UpdateByUUID", "note", time.Since(startTime), err)
		return domain.Note{}, domain.WrapStore(err)
	}

	if rowsAffected, err := result.RowsAffected(); err == nil && rowsAffected == 0 {
		err := fmt.Errorf("note with id %s: %w", uid, domain.ErrNotFound)
		span.SetStatus("error", err.Error())
		nr.telemetry.RecordRepositoryOperation(ctx, "UpdateByUUID", "note", time.Since(startTime), err)
		return domain.Note{}, err
	}

	updated, found, err := nr.GetByUUID(ctx, uid)

	if err != nil {
		return domain.Note{}, err
	}

	if !found {
		return domain.Note{}, fmt.Errorf("note with id %s: %w", uid, domain.ErrNotFound)
	}

	nr.telemetry.RecordBusinessEvent(ctx, "updated", "note", uid, updated.UserID, map[string]any{
		"updated_at": updated.UpdatedAt,
	})

	span.SetStatus("ok", "")
	nr.telemetry.RecordRepositoryOperation(ctx, "UpdateByUUID", "note", time.Since(startTime), nil)

	return updated, nil
}

// DeleteByUUID removes the document permanently.
func (nr *NoteRepository) DeleteByUUID(ctx context.Context, owner, uid string) error {
	query, args, err := nr.db.QueryBuilder.Delete("notes").
		Where(sq.Eq{"uuid": uid, "user_id": owner}).
		ToSql()

	if err != nil {
		return domain.WrapStore(err)
	}

	result, err := nr.db.ExecContext(ctx, query, args...)

	if err != nil {
		return domain.WrapStore(err)
	}

	rowsAffected, _ := result.RowsAffected()

	if rowsAffected == 0 {
		return fmt.Errorf("note with id %s: %w", uid, domain.ErrNotFound)
	}

	return nil
}

func (nr *NoteRepository) CountByOwner(ctx context.Context, owner string) (int, error) {
	query, args, err := nr.db.QueryBuilder.Select("COUNT(*)").
		From("notes").
		Where(sq.Eq{"user_id": owner}).
		ToSql()

	if err != nil {
		return 0, domain.WrapStore(err)
	}

	var count int

	if err := nr.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, domain.WrapStore(err)
	}

	return count, nil
}
