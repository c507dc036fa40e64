package apis

import (
	"errors"
	"net/http"

	"event-hub-backend/cmd/event-hub/auth"
	"event-hub-backend/cmd/event-hub/model"

	"github.com/labstack/echo/v4"
)

var errWrongPassword = errors.New("current password is incorrect")

type ProfileAPI struct {
	userRepo IUserRepo
}

func NewProfileAPI(userRepo IUserRepo) *ProfileAPI {

	return &ProfileAPI{
		userRepo: userRepo,
	}
}

func (a *ProfileAPI) Setup(g *echo.Group) {
	g.GET("/profile", a.getProfile)
	g.PUT("/profile", a.updateProfile)
	g.PUT("/profile/password", a.changePassword)
}

func (a *ProfileAPI) getProfile(c echo.Context) error {

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

func (a *ProfileAPI) updateProfile(c echo.Context) error {

	ctx := c.Request().Context()

	var req model.ProfileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	if err := req.Validate(); err != nil {
		return errorResponse(c, err)
	}

	user, err := a.userRepo.UpdateProfile(ctx, identity(c).UserID, req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "profile updated",
			Data:    user,
		},
	)
}

func (a *ProfileAPI) changePassword(c echo.Context) error {

	ctx := c.Request().Context()
	userID := identity(c).UserID

	var req model.PasswordChangeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	if err := req.Validate(); err != nil {
		return errorResponse(c, err)
	}

	user, err := a.userRepo.GetUser(ctx, userID)
	if err != nil {
		return errorResponse(c, err)
	}

	// A wrong current password is a form error, not a lost session.
	if err := auth.CheckPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		return badRequest(c, errWrongPassword)
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return errorResponse(c, err)
	}

	if err := a.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "password updated",
		},
	)
}
