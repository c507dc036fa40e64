package apis

import (
	"context"
	"net/http"
	"strings"
	"time"

	"event-hub-backend/cmd/event-hub/model"

	"github.com/labstack/echo/v4"
)

type ISuggestionRepo interface {
	CreateSuggestion(ctx context.Context, s model.EventSuggestion) (model.EventSuggestion, error)
	ListSuggestions(ctx context.Context, status model.SuggestionStatus) ([]model.EventSuggestion, error)
	ListUserSuggestions(ctx context.Context, userID uint) ([]model.EventSuggestion, error)
	ReviewSuggestion(ctx context.Context, id uint, to model.SuggestionStatus) (model.EventSuggestion, error)
}

type IUserLookup interface {
	GetUser(ctx context.Context, id uint) (model.User, error)
}

type SuggestionAPI struct {
	suggestionRepo ISuggestionRepo
	userRepo       IUserLookup
}

func NewSuggestionAPI(suggestionRepo ISuggestionRepo, userRepo IUserLookup) *SuggestionAPI {

	return &SuggestionAPI{
		suggestionRepo: suggestionRepo,
		userRepo:       userRepo,
	}
}

// SetupAdmin registers the review queue.
func (a *SuggestionAPI) SetupAdmin(g *echo.Group) {
	g.GET("/suggestions", a.listSuggestions)
	g.PUT("/suggestions/:id/approve", a.review(model.Approved))
	g.PUT("/suggestions/:id/reject", a.review(model.Rejected))
}

func (a *SuggestionAPI) SetupUser(g *echo.Group) {
	g.GET("/suggestions", a.listOwnSuggestions)
	g.POST("/suggestions", a.submitSuggestion)
}

func (a *SuggestionAPI) listSuggestions(c echo.Context) error {

	ctx := c.Request().Context()

	status := model.SuggestionStatus(c.QueryParam("status"))
	switch status {
	case "", model.Pending, model.Approved, model.Rejected:
	default:
		return errorResponse(c, model.ErrInvalidStatus)
	}

	suggestions, err := a.suggestionRepo.ListSuggestions(ctx, status)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    suggestions,
		},
	)
}

func (a *SuggestionAPI) review(to model.SuggestionStatus) echo.HandlerFunc {
	return func(c echo.Context) error {

		ctx := c.Request().Context()

		id, err := paramID(c, "id")
		if err != nil {
			return errorResponse(c, err)
		}

		suggestion, err := a.suggestionRepo.ReviewSuggestion(ctx, id, to)
		if err != nil {
			return errorResponse(c, err)
		}

		return c.JSON(
			http.StatusOK,
			model.BaseResponse{
				Message: "suggestion " + string(to),
				Data:    suggestion,
			},
		)
	}
}

func (a *SuggestionAPI) listOwnSuggestions(c echo.Context) error {

	ctx := c.Request().Context()

	suggestions, err := a.suggestionRepo.ListUserSuggestions(ctx, identity(c).UserID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    suggestions,
		},
	)
}

func (a *SuggestionAPI) submitSuggestion(c echo.Context) error {

	ctx := c.Request().Context()

	var req model.SuggestionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	if err := req.Validate(); err != nil {
		return errorResponse(c, err)
	}

	user, err := a.userRepo.GetUser(ctx, identity(c).UserID)
	if err != nil {
		return errorResponse(c, err)
	}

	suggestion, err := a.suggestionRepo.CreateSuggestion(ctx, model.EventSuggestion{
		UserID:            user.ID,
		UserName:          user.FullName,
		Title:             strings.TrimSpace(req.Title),
		EventType:         req.EventType,
		Description:       req.Description,
		SuggestedDate:     req.SuggestedDate,
		SuggestedTime:     req.SuggestedTime,
		SuggestedLocation: req.SuggestedLocation,
		ExpectedAttendees: req.ExpectedAttendees,
		Goals:             req.Goals,
		Speakers:          req.Speakers,
		SubmittedAt:       time.Now().UTC(),
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusCreated,
		model.BaseResponse{
			Message: "suggestion submitted",
			Data:    suggestion,
		},
	)
}
