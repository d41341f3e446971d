package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	. "noteflow/internal/adapter/http/helper"
	"noteflow/internal/adapter/http/middleware"
	"noteflow/internal/adapter/http/validation"
	"noteflow/internal/core/domain"
	"noteflow/internal/core/model/request"
	"noteflow/internal/core/model/response"
	"noteflow/internal/core/port"
	"noteflow/internal/core/service"
	"noteflow/internal/core/util"
	"noteflow/pkg/auth"
)

type AuthHandler struct {
	svc     port.AuthService
	revoker port.TokenRevoker
	broker  *service.SessionBroker
}

func NewAuthHandler(svc port.AuthService, revoker port.TokenRevoker, broker *service.SessionBroker) *AuthHandler {
	return &AuthHandler{
		svc:     svc,
		revoker: revoker,
		broker:  broker,
	}
}

func (a *AuthHandler) RegisterByEmailAndPassword(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.SignUpRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := a.svc.Registration(ctx, &params)

	if err != nil {
		slog.Error("Auth#Registration", "error", err)
		SendBadRequestError(c, "registration", err.Error())
		return
	}

	userResponse := response.UserResponse{
		UID:       user.UID(),
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	SendSuccess(c, http.StatusCreated, userResponse)
}

func (a *AuthHandler) AuthByEmailAndPassword(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.LoginRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := a.svc.Authenticate(ctx, &params)

	if err != nil {
		slog.Error("Auth#Authenticate", "error", err)
		SendUnauthorizedError(c, "Invalid email or password")
		return
	}

	token, err := auth.CreateJwtTokenForUser(user.UID(), user.Email)

	if err != nil {
		SendUnauthorizedError(c, "Failed to generate access token")
		return
	}

	a.broker.Publish(domain.Identity{UID: user.UID(), Email: user.Email})

	c.JSON(http.StatusOK, response.AuthResponse{
		Token: token,
		User: response.UserResponse{
			UID:   user.UID(),
			Name:  user.Name,
			Email: user.Email,
		},
	})
}

// Logout revokes the presented token for the rest of its lifetime and
// publishes the signed-out identity.
func (a *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	token := c.GetString(middleware.RawTokenKey)

	if token == "" {
		SendUnauthorizedError(c, "Unauthorized request")
		return
	}

	claims, err := auth.VerifyJwtToken(token)

	if err != nil {
		SendUnauthorizedError(c, "Unauthorized request")
		return
	}

	if a.revoker != nil {
		if err := a.revoker.Revoke(ctx, token, auth.RemainingTTL(claims)); err != nil {
			slog.Error("Auth#Logout revoke failed", "error", err)
			SendInternalError(c, "Error signing out")
			return
		}
	}

	a.broker.Publish(domain.Identity{})

	c.JSON(http.StatusOK, gin.H{
		"message": "Signed out successfully",
	})
}
