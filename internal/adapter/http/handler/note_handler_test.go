package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

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

type NoteHandlerSuite struct {
	suite.Suite
	UserRepo port.UserRepository
	NoteRepo port.NoteRepository
	Router   *gin.Engine
	DB       *database.DB
}

func (s *NoteHandlerSuite) SetupTest() {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("CURSOR_SECRET_KEY", "test-secret")

	gin.SetMode(gin.TestMode)

	s.DB = test.InitTestDB()
	s.UserRepo = repository.NewUserRepository(s.DB)
	s.NoteRepo = repository.NewNoteRepository(s.DB, nil)

	logger, _ := logging.NewLogger("noteflow-test")

	noteHandler := NewNoteHandler(service.NewNoteService(s.NoteRepo), logger)

	router := gin.New()
	router.Use(gin.Recovery())

	protected := router.Group("/", middleware.JwtAuth(nil))
	{
		protected.GET("/notes", noteHandler.GetAllNotes)
		protected.POST("/notes", noteHandler.CreateNote)
		protected.PUT("/notes/:uuid", noteHandler.UpdateNote)
		protected.DELETE("/notes/:uuid", noteHandler.DeleteNote)
	}

	s.Router = router
}

func (s *NoteHandlerSuite) TearDownTest() {
	if s.DB != nil {
		s.DB.Close()
	}
}

func TestNoteHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(NoteHandlerSuite))
}

func (s *NoteHandlerSuite) createUser() domain.User {
	user, err := s.UserRepo.Create(ctx, factory.NewUser[domain.User](map[string]any{
		"UUID":  uuid.New(),
		"Email": "notes@example.com",
	}))

	Expect(err).ToNot(HaveOccurred())

	return user
}

func (s *NoteHandlerSuite) authedRequest(user domain.User, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)

	token, _ := auth.CreateJwtTokenForUser(user.UID(), user.Email)
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func (s *NoteHandlerSuite) TestCreateNote() {
	user := s.createUser()

	reqBody := strings.NewReader(`{"title": "Meeting notes", "content": "Discussed the roadmap", "tags": ["work"]}`)

	rr := s.authedRequest(user, "POST", "/notes", reqBody)

	Expect(rr.Code).To(Equal(http.StatusCreated))

	body, _ := io.ReadAll(rr.Body)

	resp := struct {
		Data response.NoteResponse `json:"data"`
	}{}
	json.Unmarshal(body, &resp)

	Expect(resp.Data.ID).To(Not(BeEmpty()))
	Expect(resp.Data.Content).To(Equal("Discussed the roadmap"))
	Expect(resp.Data.Tags).To(Equal([]string{"work"}))
}

func (s *NoteHandlerSuite) TestCreateNoteValidationError() {
	user := s.createUser()

	reqBody := strings.NewReader(`{"title": "Meeting notes"}`)

	rr := s.authedRequest(user, "POST", "/notes", reqBody)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	body, _ := io.ReadAll(rr.Body)

	errorResponse := response.ErrorResponse{}
	json.Unmarshal(body, &errorResponse)

	Expect(errorResponse.Error.Code).To(Equal("VALIDATION_ERROR"))
	Expect(errorResponse.Error.Errors[0].Message).To(Equal("content is required"))
}

func (s *NoteHandlerSuite) TestGetAllNotes() {
	user := s.createUser()

	note := factory.NewNote(user.UID())
	note.Title = "Grocery list"

	_, err := s.NoteRepo.Create(ctx, note)
	Expect(err).ToNot(HaveOccurred())

	rr := s.authedRequest(user, "GET", "/notes", nil)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	data := response.CursorResponse{}
	json.Unmarshal(body, &data)

	var notes []response.NoteResponse
	json.Unmarshal(data.Data, &notes)

	Expect(data.Size).To(Equal(1))
	Expect(notes[0].Title).To(Equal("Grocery list"))
}

func (s *NoteHandlerSuite) TestListWithoutLimitReturnsAll() {
	user := s.createUser()

	for i := 1; i <= 12; i++ {
		note := factory.NewNote(user.UID())
		note.Title = fmt.Sprintf("Note %d", i)

		_, err := s.NoteRepo.Create(ctx, note)
		Expect(err).ToNot(HaveOccurred())
	}

	rr := s.authedRequest(user, "GET", "/notes", nil)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	data := response.CursorResponse{}
	json.Unmarshal(body, &data)

	Expect(data.Size).To(Equal(12))
	Expect(data.Pagination.HasNext).To(BeFalse())
}

func (s *NoteHandlerSuite) TestUpdateNote() {
	user := s.createUser()

	note := factory.NewNote(user.UID())
	saved, err := s.NoteRepo.Create(ctx, note)
	Expect(err).ToNot(HaveOccurred())

	reqBody := strings.NewReader(`{"title": "Revised", "content": "Updated content"}`)

	path := fmt.Sprintf("/notes/%s", saved.UUID.String())
	rr := s.authedRequest(user, "PUT", path, reqBody)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	resp := struct {
		Data response.NoteResponse `json:"data"`
	}{}
	json.Unmarshal(body, &resp)

	Expect(resp.Data.Title).To(Equal("Revised"))
	Expect(resp.Data.Content).To(Equal("Updated content"))
}

func (s *NoteHandlerSuite) TestDeleteNote() {
	user := s.createUser()

	note := factory.NewNote(user.UID())
	saved, err := s.NoteRepo.Create(ctx, note)
	Expect(err).ToNot(HaveOccurred())

	path := fmt.Sprintf("/notes/%s", saved.UUID.String())

	rr := s.authedRequest(user, "DELETE", path, nil)

	Expect(rr.Code).To(Equal(http.StatusOK))

	rr = s.authedRequest(user, "DELETE", path, nil)

	Expect(rr.Code).To(Equal(http.StatusNotFound))
}
