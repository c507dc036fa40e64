package apis

import (
	"context"
	"net/http"
	"strings"
	"time"

	"event-hub-backend/cmd/event-hub/auth"
	"event-hub-backend/cmd/event-hub/model"

	"github.com/labstack/echo/v4"
)

type IAuthProvider interface {
	Verify(ctx context.Context, creds model.Credentials) (auth.Identity, error)
}

type ITokenIssuer interface {
	ITokenParser
	Issue(id auth.Identity) (string, time.Time, error)
}

type IUserRepo interface {
	GetUser(ctx context.Context, id uint) (model.User, error)
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	UpdateProfile(ctx context.Context, id uint, req model.ProfileUpdateRequest) (model.User, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
}

type AuthAPI struct {
	provider IAuthProvider
	tokens   ITokenIssuer
	userRepo IUserRepo
}

func NewAuthAPI(provider IAuthProvider, tokens ITokenIssuer, userRepo IUserRepo) *AuthAPI {

	return &AuthAPI{
		provider: provider,
		tokens:   tokens,
		userRepo: userRepo,
	}
}

func (a *AuthAPI) Setup(g *echo.Group) {
	g.POST("/auth/login", a.login)
	g.POST("/auth/register", a.register)
	g.GET("/auth/me", a.me, Authenticate(a.tokens))
}

func (a *AuthAPI) login(c echo.Context) error {

	ctx := c.Request().Context()

	var creds model.Credentials
	if err := c.Bind(&creds); err != nil {
		return badRequest(c, err)
	}

	id, err := a.provider.Verify(ctx, creds)
	if err != nil {
		return errorResponse(c, err)
	}

	token, expires, err := a.tokens.Issue(id)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data: model.LoginResponse{
				Token:     token,
				Role:      id.Role,
				ExpiresAt: expires.Unix(),
			},
		},
	)
}

// register always creates a regular user; admins are provisioned out of
// band.
func (a *AuthAPI) register(c echo.Context) error {

	ctx := c.Request().Context()

	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	if err := req.Validate(); err != nil {
		return errorResponse(c, err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return errorResponse(c, err)
	}

	user, err := a.userRepo.CreateUser(ctx, model.User{
		Email:        auth.NormalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         model.RoleUser,
		FullName:     strings.TrimSpace(req.Name),
		Preferences:  model.DefaultNotificationPreferences(),
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusCreated,
		model.BaseResponse{
			Message: "success",
			Data:    user,
		},
	)
}

func (a *AuthAPI) me(c echo.Context) error {

	ctx := c.Request().Context()

	user, err := a.userRepo.GetUser(ctx, identity(c).UserID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    user,
		},
	)
}
