package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"noteflow/internal/adapter/database"
	"noteflow/internal/adapter/http/middleware"
	"noteflow/pkg/config"
	"noteflow/pkg/logging"
	pkgmiddleware "noteflow/pkg/middleware"
	"noteflow/pkg/telemetry"
)

// SetupRouter mounts the shared middleware chain and every route. The
// record routes all sit behind JwtAuth.
func SetupRouter(container *Container, metrics *telemetry.AppMetrics, logger *logging.Logger, cfg *config.AppConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	pkgmiddleware.Setup(router, "noteflow", metrics, logger, cfg)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/signup", container.AuthHandler.RegisterByEmailAndPassword)
	router.POST("/auth", container.AuthHandler.AuthByEmailAndPassword)

	authed := router.Group("/", middleware.JwtAuth(container.TokenRevoker))

	authed.DELETE("/auth", container.AuthHandler.Logout)

	authed.GET("/tasks", container.TaskHandler.GetAllTasks)
	authed.GET("/tasks/calendar", container.TaskHandler.GetCalendarTasks)
	authed.POST("/tasks", container.TaskHandler.CreateTask)
	authed.PUT("/tasks/:uuid", container.TaskHandler.UpdateTask)
	authed.PATCH("/tasks/:uuid/toggle", container.TaskHandler.ToggleTask)
	authed.DELETE("/tasks/:uuid", container.TaskHandler.DeleteTask)

	authed.GET("/notes", container.NoteHandler.GetAllNotes)
	authed.POST("/notes", container.NoteHandler.CreateNote)
	authed.PUT("/notes/:uuid", container.NoteHandler.UpdateNote)
	authed.DELETE("/notes/:uuid", container.NoteHandler.DeleteNote)

	authed.GET("/stats", container.StatsHandler.GetStats)

	return router
}

func StartServer(metrics *telemetry.AppMetrics, logger *logging.Logger) {
	StartServerWithConfig(metrics, logger, config.FromEnv())
}

func StartServerWithConfig(metrics *telemetry.AppMetrics, logger *logging.Logger, cfg *config.AppConfig) {
	db, err := database.New(cfg)

	if err != nil {
		slog.Error("Failed to open database", "error", err)
		return
	}

	defer db.Close()

	container := NewContainer(db, logger, cfg)

	router := SetupRouter(container, metrics, logger, cfg)

	slog.Info("Server starting",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"driver", cfg.DatabaseDriver,
		"rate_limit_enabled", cfg.RateLimitEnabled,
		"https_enforced", cfg.EnforceHTTPS)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server failed to start", "error", err)
	}
}
