package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"noteflow/internal/adapter/database"
	"noteflow/internal/adapter/database/repository"
	"noteflow/internal/adapter/http/middleware"
	"noteflow/internal/core/domain"
	"noteflow/internal/core/model/response"
	"noteflow/internal/core/port"
	"noteflow/internal/core/service"
	"noteflow/pkg/auth"
	"noteflow/pkg/logging"
	"noteflow/pkg/test"
	"noteflow/pkg/test/factory"
)

type TaskHandlerSuite struct {
	suite.Suite
	UserRepo port.UserRepository
	TaskRepo port.TaskRepository
	NoteRepo port.NoteRepository
	Router   *gin.Engine
	DB       *database.DB
}

var ctx = context.Background()

func (s *TaskHandlerSuite) SetupTest() {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("CURSOR_SECRET_KEY", "test-secret")

	gin.SetMode(gin.TestMode)

	s.DB = test.InitTestDB()

	s.UserRepo = repository.NewUserRepository(s.DB)
	s.TaskRepo = repository.NewTaskRepository(s.DB, nil)
	s.NoteRepo = repository.NewNoteRepository(s.DB, nil)

	logger, _ := logging.NewLogger("noteflow-test")

	taskSvc := service.NewTaskService(s.TaskRepo)
	window := service.NewDeadlineWindow(taskSvc)
	statsSvc := service.NewStatsService(s.TaskRepo, s.NoteRepo)

	taskHandler := NewTaskHandler(taskSvc, window, logger)
	statsHandler := NewStatsHandler(statsSvc)

	s.Router = setupTaskTestRouter(taskHandler, statsHandler)
}

func (s *TaskHandlerSuite) TearDownTest() {
	if s.DB != nil {
		s.DB.Close()
	}
}

func TestTaskHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TaskHandlerSuite))
}

func setupTaskTestRouter(taskHandler *TaskHandler, statsHandler *StatsHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	protected := router.Group("/", middleware.JwtAuth(nil))
	{
		protected.GET("/tasks", taskHandler.GetAllTasks)
		protected.GET("/tasks/calendar", taskHandler.GetCalendarTasks)
		protected.POST("/tasks", taskHandler.CreateTask)
		protected.PUT("/tasks/:uuid", taskHandler.UpdateTask)
		protected.PATCH("/tasks/:uuid/toggle", taskHandler.ToggleTask)
		protected.DELETE("/tasks/:uuid", taskHandler.DeleteTask)
		protected.GET("/stats", statsHandler.GetStats)
	}

	return router
}

func (s *TaskHandlerSuite) createUser(email string) domain.User {
	user, err := s.UserRepo.Create(ctx, factory.NewUser[domain.User](map[string]any{
		"UUID":  uuid.New(),
		"Name":  "Test User",
		"Email": email,
	}))

	Expect(err).ToNot(HaveOccurred())

	return user
}

func (s *TaskHandlerSuite) authedRequest(user domain.User, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)

	token, _ := auth.CreateJwtTokenForUser(user.UID(), user.Email)
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func (s *TaskHandlerSuite) TestRejectsMissingToken() {
	req, _ := http.NewRequest("GET", "/tasks", nil)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

func (s *TaskHandlerSuite) TestGetAllTasksWithData() {
	user := s.createUser("user1@example.com")

	task := factory.NewTask(user.UID())
	task.Title = "Review pull requests"

	_, err := s.TaskRepo.Create(ctx, task)
	Expect(err).ToNot(HaveOccurred())

	rr := s.authedRequest(user, "GET", "/tasks", nil)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	data := response.CursorResponse{}
	json.Unmarshal(body, &data)

	var tasks []response.TaskResponse
	json.Unmarshal(data.Data, &tasks)

	Expect(data.Size).To(Equal(1))
	Expect(tasks[0].Title).To(Equal("Review pull requests"))
}

func (s *TaskHandlerSuite) TestOwnerIsolation() {
	user := s.createUser("user1@example.com")
	other := s.createUser("user2@example.com")

	task := factory.NewTask(other.UID())
	_, err := s.TaskRepo.Create(ctx, task)
	Expect(err).ToNot(HaveOccurred())

	rr := s.authedRequest(user, "GET", "/tasks", nil)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	data := response.CursorResponse{}
	json.Unmarshal(body, &data)

	Expect(data.Size).To(Equal(0))
}

func (s *TaskHandlerSuite) TestCreateTask() {
	user := s.createUser("user1@example.com")

	reqBody := strings.NewReader(`{"title": "Buy milk", "completed": false, "isDaily": false}`)

	rr := s.authedRequest(user, "POST", "/tasks", reqBody)

	Expect(rr.Code).To(Equal(http.StatusCreated))

	body, _ := io.ReadAll(rr.Body)

	resp := struct {
		Data response.TaskResponse `json:"data"`
	}{}
	json.Unmarshal(body, &resp)

	Expect(resp.Data.ID).To(Not(BeEmpty()))
	Expect(resp.Data.Title).To(Equal("Buy milk"))
	Expect(resp.Data.Tags).To(Equal([]string{}))
	Expect(resp.Data.CreatedAt.Unix()).To(Equal(resp.Data.UpdatedAt.Unix()))
}

func (s *TaskHandlerSuite) TestCreateTaskValidationError() {
	user := s.createUser("user1@example.com")

	reqBody := strings.NewReader(`{"completed": false, "isDaily": false}`)

	rr := s.authedRequest(user, "POST", "/tasks", reqBody)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	body, _ := io.ReadAll(rr.Body)

	errorResponse := response.ErrorResponse{}
	json.Unmarshal(body, &errorResponse)

	Expect(errorResponse.Error.Code).To(Equal("VALIDATION_ERROR"))
	Expect(errorResponse.Error.Errors[0].Message).To(Equal("title is required"))
}

func (s *TaskHandlerSuite) TestCreateDailyTaskRequiresTime() {
	user := s.createUser("user1@example.com")

	reqBody := strings.NewReader(`{"title": "Morning run", "completed": false, "isDaily": true}`)

	rr := s.authedRequest(user, "POST", "/tasks", reqBody)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	body, _ := io.ReadAll(rr.Body)

	errorResponse := response.ErrorResponse{}
	json.Unmarshal(body, &errorResponse)

	Expect(errorResponse.Error.Errors[0].Message).To(Equal("dailyTime is required for daily tasks"))
}

func (s *TaskHandlerSuite) TestUpdateTask() {
	user := s.createUser("user1@example.com")

	task := factory.NewTask(user.UID())
	saved, err := s.TaskRepo.Create(ctx, task)
	Expect(err).ToNot(HaveOccurred())

	reqBody := strings.NewReader(`{"title": "Renamed task", "completed": false, "isDaily": false}`)

	path := fmt.Sprintf("/tasks/%s", saved.UUID.String())
	rr := s.authedRequest(user, "PUT", path, reqBody)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	resp := struct {
		Data response.TaskResponse `json:"data"`
	}{}
	json.Unmarshal(body, &resp)

	Expect(resp.Data.Title).To(Equal("Renamed task"))
}

func (s *TaskHandlerSuite) TestToggleTask() {
	user := s.createUser("user1@example.com")

	task := factory.NewTask(user.UID())
	saved, err := s.TaskRepo.Create(ctx, task)
	Expect(err).ToNot(HaveOccurred())

	path := fmt.Sprintf("/tasks/%s/toggle", saved.UUID.String())

	rr := s.authedRequest(user, "PATCH", path, strings.NewReader(`{"completed": true}`))

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	resp := struct {
		Data response.TaskResponse `json:"data"`
	}{}
	json.Unmarshal(body, &resp)

	Expect(resp.Data.Completed).To(BeTrue())
	Expect(resp.Data.Title).To(Equal(saved.Title))

	rr = s.authedRequest(user, "PATCH", path, strings.NewReader(`{"completed": false}`))

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ = io.ReadAll(rr.Body)
	json.Unmarshal(body, &resp)

	Expect(resp.Data.Completed).To(BeFalse())
}

func (s *TaskHandlerSuite) TestDeleteTask() {
	user := s.createUser("user1@example.com")

	task := factory.NewTask(user.UID())
	saved, err := s.TaskRepo.Create(ctx, task)
	Expect(err).ToNot(HaveOccurred())

	path := fmt.Sprintf("/tasks/%s", saved.UUID.String())

	rr := s.authedRequest(user, "DELETE", path, nil)

	Expect(rr.Code).To(Equal(http.StatusOK))

	_, found, err := s.TaskRepo.GetByUUID(ctx, saved.UUID.String())
	Expect(err).ToNot(HaveOccurred())
	Expect(found).To(BeFalse())

	rr = s.authedRequest(user, "DELETE", path, nil)

	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TaskHandlerSuite) TestCalendarRange() {
	user := s.createUser("user1@example.com")

	for _, deadline := range []string{"2024-01-10", "2024-01-20", "2024-02-05"} {
		d := deadline
		task := factory.NewTask(user.UID())
		task.Deadline = &d

		_, err := s.TaskRepo.Create(ctx, task)
		Expect(err).ToNot(HaveOccurred())
	}

	rr := s.authedRequest(user, "GET", "/tasks/calendar?from=2024-01-01&to=2024-01-31", nil)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	resp := struct {
		Data []response.TaskResponse `json:"data"`
	}{}
	json.Unmarshal(body, &resp)

	Expect(len(resp.Data)).To(Equal(2))
}

func (s *TaskHandlerSuite) TestCalendarRangeRequiresBounds() {
	user := s.createUser("user1@example.com")

	rr := s.authedRequest(user, "GET", "/tasks/calendar?from=2024-01-01", nil)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *TaskHandlerSuite) TestPaginationWithCursor() {
	user := s.createUser("user1@example.com")

	base := time.Now().UTC().Truncate(time.Second)

	for i := 1; i <= 5; i++ {
		task := factory.NewTask(user.UID())
		task.Title = fmt.Sprintf("Task %d", i)
		task.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		task.UpdatedAt = task.CreatedAt

		_, err := s.TaskRepo.Create(ctx, task)
		Expect(err).ToNot(HaveOccurred())
	}

	rr := s.authedRequest(user, "GET", "/tasks?limit=2", nil)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	data := response.CursorResponse{}
	json.Unmarshal(body, &data)

	var tasks []response.TaskResponse
	json.Unmarshal(data.Data, &tasks)

	Expect(len(tasks)).To(Equal(2))
	Expect(tasks[0].Title).To(Equal("Task 5"))
	Expect(data.Pagination.HasNext).To(BeTrue())
	Expect(data.Pagination.NextCursor).ToNot(BeEmpty())
}

func (s *TaskHandlerSuite) TestListWithoutLimitReturnsAll() {
	user := s.createUser("user1@example.com")

	for i := 1; i <= 12; i++ {
		task := factory.NewTask(user.UID())
		task.Title = fmt.Sprintf("Task %d", i)

		_, err := s.TaskRepo.Create(ctx, task)
		Expect(err).ToNot(HaveOccurred())
	}

	rr := s.authedRequest(user, "GET", "/tasks", nil)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	data := response.CursorResponse{}
	json.Unmarshal(body, &data)

	Expect(data.Size).To(Equal(12))
	Expect(data.Pagination.HasNext).To(BeFalse())
	Expect(data.Pagination.NextCursor).To(BeEmpty())
}

func (s *TaskHandlerSuite) TestStats() {
	user := s.createUser("user1@example.com")

	for i := 0; i < 3; i++ {
		task := factory.NewTask(user.UID())
		task.Completed = i == 0

		_, err := s.TaskRepo.Create(ctx, task)
		Expect(err).ToNot(HaveOccurred())
	}

	note := factory.NewNote(user.UID())
	_, err := s.NoteRepo.Create(ctx, note)
	Expect(err).ToNot(HaveOccurred())

	rr := s.authedRequest(user, "GET", "/stats", nil)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	resp := struct {
		Data response.StatsResponse `json:"data"`
	}{}
	json.Unmarshal(body, &resp)

	Expect(resp.Data.TotalTasks).To(Equal(3))
	Expect(resp.Data.CompletedTasks).To(Equal(1))
	Expect(resp.Data.PendingTasks).To(Equal(2))
	Expect(resp.Data.TotalNotes).To(Equal(1))
}
