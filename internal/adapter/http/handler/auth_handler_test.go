package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"noteflow/internal/adapter/database"
	"noteflow/internal/adapter/database/repository"
	"noteflow/internal/adapter/http/middleware"
	adapterredis "noteflow/internal/adapter/redis"
	"noteflow/internal/core/domain"
	"noteflow/internal/core/model/response"
	"noteflow/internal/core/port"
	"noteflow/internal/core/service"
	"noteflow/pkg/test"
	"noteflow/pkg/test/factory"
)

type AuthHandlerSuite struct {
	suite.Suite
	UserRepo port.UserRepository
	Broker   *service.SessionBroker
	Router   *gin.Engine
	DB       *database.DB
}

func (s *AuthHandlerSuite) SetupTest() {
	os.Setenv("JWT_SECRET", "test-secret")

	gin.SetMode(gin.TestMode)

	s.DB = test.InitTestDB()
	s.UserRepo = repository.NewUserRepository(s.DB)
	s.Broker = service.NewSessionBroker()

	mr := miniredis.RunT(s.T())
	revoker := adapterredis.NewTokenRevokerWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	authSvc := service.NewAuthService(s.UserRepo)
	authHandler := NewAuthHandler(authSvc, revoker, s.Broker)

	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/signup", authHandler.RegisterByEmailAndPassword)
	router.POST("/auth", authHandler.AuthByEmailAndPassword)

	protected := router.Group("/", middleware.JwtAuth(revoker))
	{
		protected.DELETE("/auth", authHandler.Logout)
	}

	s.Router = router
}

func (s *AuthHandlerSuite) TearDownTest() {
	if s.DB != nil {
		s.DB.Close()
	}
}

func TestAuthHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) postJSON(path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func (s *AuthHandlerSuite) TestSignUpSuccess() {
	rr := s.postJSON("/signup", `{"name": "New User", "email": "new@example.com", "password": "12345678"}`)

	Expect(rr.Code).To(Equal(http.StatusCreated))

	body, _ := io.ReadAll(rr.Body)

	resp := struct {
		Data response.UserResponse `json:"data"`
	}{}
	json.Unmarshal(body, &resp)

	Expect(resp.Data.UID).To(Not(BeEmpty()))
	Expect(resp.Data.Email).To(Equal("new@example.com"))

	user, err := s.UserRepo.GetByEmail(ctx, "new@example.com")
	Expect(err).ToNot(HaveOccurred())
	Expect(user.Name).To(Equal("New User"))
}

func (s *AuthHandlerSuite) TestSignUpValidationError() {
	rr := s.postJSON("/signup", `{"name": "New User", "email": "new@example.com"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	body, _ := io.ReadAll(rr.Body)

	errorResponse := response.ErrorResponse{}
	json.Unmarshal(body, &errorResponse)

	Expect(errorResponse.Error.Code).To(Equal("VALIDATION_ERROR"))
}

func (s *AuthHandlerSuite) TestSignUpShortPassword() {
	rr := s.postJSON("/signup", `{"email": "new@example.com", "password": "short"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *AuthHandlerSuite) TestSignUpDuplicateEmail() {
	payload := `{"name": "New User", "email": "new@example.com", "password": "12345678"}`

	rr := s.postJSON("/signup", payload)
	Expect(rr.Code).To(Equal(http.StatusCreated))

	rr = s.postJSON("/signup", payload)
	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *AuthHandlerSuite) TestAuthSuccess() {
	_, err := s.UserRepo.Create(ctx, factory.NewUser[domain.User](map[string]any{
		"UUID":  uuid.New(),
		"Name":  "Test User",
		"Email": "user@example.com",
	}))
	Expect(err).ToNot(HaveOccurred())

	sessions, cancel := s.Broker.Subscribe()
	defer cancel()

	rr := s.postJSON("/auth", `{"email": "user@example.com", "password": "12345678"}`)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	authResponse := response.AuthResponse{}
	json.Unmarshal(body, &authResponse)

	Expect(authResponse.Token).To(Not(BeEmpty()))
	Expect(authResponse.User.Email).To(Equal("user@example.com"))

	identity := <-sessions
	Expect(identity.SignedIn()).To(BeTrue())
	Expect(identity.Email).To(Equal("user@example.com"))
}

func (s *AuthHandlerSuite) TestAuthInvalidPassword() {
	_, err := s.UserRepo.Create(ctx, factory.NewUser[domain.User](map[string]any{
		"UUID":  uuid.New(),
		"Email": "user@example.com",
	}))
	Expect(err).ToNot(HaveOccurred())

	rr := s.postJSON("/auth", `{"email": "user@example.com", "password": "wrong-password"}`)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

func (s *AuthHandlerSuite) TestAuthUnknownEmail() {
	rr := s.postJSON("/auth", `{"email": "ghost@example.com", "password": "12345678"}`)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

func (s *AuthHandlerSuite) TestLogoutRevokesToken() {
	_, err := s.UserRepo.Create(ctx, factory.NewUser[domain.User](map[string]any{
		"UUID":  uuid.New(),
		"Email": "user@example.com",
	}))
	Expect(err).ToNot(HaveOccurred())

	rr := s.postJSON("/auth", `{"email": "user@example.com", "password": "12345678"}`)
	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	authResponse := response.AuthResponse{}
	json.Unmarshal(body, &authResponse)

	sessions, cancel := s.Broker.Subscribe()
	defer cancel()

	logout := func() *httptest.ResponseRecorder {
		req, _ := http.NewRequest("DELETE", "/auth", nil)
		req.Header.Set("Authorization", "Bearer "+authResponse.Token)

		rec := httptest.NewRecorder()
		s.Router.ServeHTTP(rec, req)

		return rec
	}

	rec := logout()
	Expect(rec.Code).To(Equal(http.StatusOK))

	identity := <-sessions
	Expect(identity.SignedIn()).To(BeFalse())

	// The revoked token no longer opens the door.
	rec = logout()
	Expect(rec.Code).To(Equal(http.StatusUnauthorized))
}
