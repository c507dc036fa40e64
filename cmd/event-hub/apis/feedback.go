package apis

import (
	"context"
	"net/http"

	"event-hub-backend/cmd/event-hub/model"
	"event-hub-backend/cmd/event-hub/stats"

	"github.com/labstack/echo/v4"
)

type IEventLister interface {
	ListEvents(ctx context.Context) ([]model.Event, error)
}

type FeedbackAPI struct {
	eventRepo IEventLister
}

func NewFeedbackAPI(eventRepo IEventLister) *FeedbackAPI {

	return &FeedbackAPI{
		eventRepo: eventRepo,
	}
}

func (a *FeedbackAPI) Setup(g *echo.Group) {
	g.GET("/feedback", a.listFeedback)
}

func (a *FeedbackAPI) listFeedback(c echo.Context) error {

	ctx := c.Request().Context()

	events, err := a.eventRepo.ListEvents(ctx)
	if err != nil {
		return errorResponse(c, err)
	}

	out := make([]stats.EventFeedback, 0, len(events))
	for _, e := range events {
		out = append(out, stats.FeedbackFor(e))
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    out,
		},
	)
}
