package service

import (
	"context"

	"noteflow/internal/core/domain"
	"noteflow/internal/core/model/response"
	"noteflow/internal/core/port"
)

// StatsService aggregates the dashboard counters for one owner.
type StatsService struct {
	tasks port.TaskRepository
	notes port.NoteRepository
}

func NewStatsService(tasks port.TaskRepository, notes port.NoteRepository) *StatsService {
	return &StatsService{tasks: tasks, notes: notes}
}

func (ss *StatsService) Summary(ctx context.Context, owner string) (response.StatsResponse, error) {
	if owner == "" {
		return response.StatsResponse{}, domain.ErrUnauthenticated
	}

	total, completed, err := ss.tasks.CountByOwner(ctx, owner)

	if err != nil {
		return response.StatsResponse{}, err
	}

	notes, err := ss.notes.CountByOwner(ctx, owner)

	if err != nil {
		return response.StatsResponse{}, err
	}

	return response.StatsResponse{
		TotalTasks:     total,
		CompletedTasks: completed,
		PendingTasks:   total - completed,
		TotalNotes:     notes,
	}, nil
}
