package http

import (
	"log/slog"

	"noteflow/internal/adapter/database"
	"noteflow/internal/adapter/database/repository"
	"noteflow/internal/adapter/http/handler"
	redisadapter "noteflow/internal/adapter/redis"
	"noteflow/internal/core/port"
	"noteflow/internal/core/service"
	"noteflow/internal/core/telemetry"
	"noteflow/pkg/config"
	"noteflow/pkg/logging"
)

// Container owns every explicit client object. Nothing in here is a
// package-level singleton; constructors receive their collaborators.
type Container struct {
	UserRepo port.UserRepository
	TaskRepo port.TaskRepository
	NoteRepo port.NoteRepository

	TaskUseCase  port.TaskService
	NoteUseCase  port.NoteService
	AuthUseCase  port.AuthService
	StatsUseCase *service.StatsService

	SessionBroker *service.SessionBroker
	TokenRevoker  port.TokenRevoker

	AuthHandler  *handler.AuthHandler
	TaskHandler  *handler.TaskHandler
	NoteHandler  *handler.NoteHandler
	StatsHandler *handler.StatsHandler
}

func NewContainer(db *database.DB, logger *logging.Logger, cfg *config.AppConfig) *Container {
	probe := telemetry.NewOTELProbe(slog.Default())

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db, probe)
	noteRepo := repository.NewNoteRepository(db, probe)

	authSvc := service.NewAuthService(userRepo)
	taskSvc := service.NewTaskService(taskRepo)
	noteSvc := service.NewNoteService(noteRepo)
	statsSvc := service.NewStatsService(taskRepo, noteRepo)
	window := service.NewDeadlineWindow(taskSvc)

	broker := service.NewSessionBroker()

	var revoker port.TokenRevoker
	if cfg.RedisAddr != "" {
		revoker = redisadapter.NewTokenRevoker(cfg.RedisAddr)
	}

	return &Container{
		UserRepo: userRepo,
		TaskRepo: taskRepo,
		NoteRepo: noteRepo,

		TaskUseCase:  taskSvc,
		NoteUseCase:  noteSvc,
		AuthUseCase:  authSvc,
		StatsUseCase: statsSvc,

		SessionBroker: broker,
		TokenRevoker:  revoker,

		AuthHandler:  handler.NewAuthHandler(authSvc, revoker, broker),
		TaskHandler:  handler.NewTaskHandler(taskSvc, window, logger),
		NoteHandler:  handler.NewNoteHandler(noteSvc, logger),
		StatsHandler: handler.NewStatsHandler(statsSvc),
	}
}
