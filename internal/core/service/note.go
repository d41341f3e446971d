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

type NoteService struct {
	repo port.NoteRepository
}

func NewNoteService(repo port.NoteRepository) *NoteService {
	return &NoteService{repo}
}

func (ns *NoteService) ListWithPagination(ctx context.Context, owner string, limit int, cur string) (*response.CursorResponse, error) {
	if owner == "" {
		return nil, domain.ErrUnauthenticated
	}

	rows, hasNext, err := ns.repo.GetAllWithCursor(ctx, owner, limit, cur)

	data := make([]response.NoteResponse, 0)

	if err != nil {
		dataBytes, _ := util.Serialize(data)

		resp := response.CursorResponse{Size: 0, Data: dataBytes}
		return &resp, err
	}

	for _, note := range rows {
		data = append(data, response.FromNote(note))
	}

	var nextCursor string

	if hasNext && len(rows) > 0 {
		last := rows[len(rows)-1]
		nextCursor = cursor.Encode(last.UpdatedAt.Format(time.RFC3339), last.ID)
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

func (ns *NoteService) List(ctx context.Context, owner string) ([]domain.Note, error) {
	if owner == "" {
		return nil, domain.ErrUnauthenticated
	}

	notes, _, err := ns.repo.GetAllWithCursor(ctx, owner, 0, "")

	return notes, err
}

func (ns *NoteService) Create(ctx context.Context, owner string, fields map[string]any) (domain.Note, error) {
	if owner == "" {
		return domain.Note{}, domain.ErrUnauthenticated
	}

	fields["userId"] = owner

	clean, err := schema.ValidateNote(fields)

	if err != nil {
		return domain.Note{}, err
	}

	now := time.Now().UTC()

	note := noteFromFields(clean)
	note.UUID = uuid.New()
	note.CreatedAt = now
	note.UpdatedAt = now

	if note.Tags == nil {
		note.Tags = []string{}
	}

	saved, err := ns.repo.Create(ctx, note)

	if err != nil {
		slog.Error("Note#Create repository failed", "error", err, "title", note.Title)
		return domain.Note{}, err
	}

	return saved, nil
}

func (ns *NoteService) Update(ctx context.Context, owner, uid string, fields map[string]any) (domain.Note, error) {
	if owner == "" {
		return domain.Note{}, domain.ErrUnauthenticated
	}

	parsed, err := uuid.Parse(uid)

	if err != nil {
		return domain.Note{}, domain.ErrNotFound
	}

	fields["userId"] = owner

	clean, err := schema.ValidateNote(fields)

	if err != nil {
		return domain.Note{}, err
	}

	note := noteFromFields(clean)
	note.UUID = parsed
	note.UpdatedAt = time.Now().UTC()

	if note.Tags == nil {
		note.Tags = []string{}
	}

	return ns.repo.UpdateByUUID(ctx, note)
}

func (ns *NoteService) Delete(ctx context.Context, owner, uid string) error {
	if owner == "" {
		return domain.ErrUnauthenticated
	}

	return ns.repo.DeleteByUUID(ctx, owner, uid)
}
