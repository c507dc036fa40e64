package apis

import (
	"net/http"

	"event-hub-backend/cmd/event-hub/model"
	"event-hub-backend/cmd/event-hub/stats"

	"github.com/labstack/echo/v4"
)

type AnalyticsAPI struct {
	eventRepo IEventLister
}

func NewAnalyticsAPI(eventRepo IEventLister) *AnalyticsAPI {

	return &AnalyticsAPI{
		eventRepo: eventRepo,
	}
}

func (a *AnalyticsAPI) Setup(g *echo.Group) {
	g.GET("/analytics", a.summary)
}

func (a *AnalyticsAPI) summary(c echo.Context) error {

	ctx := c.Request().Context()

	events, err := a.eventRepo.ListEvents(ctx)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    stats.Summarize(events),
		},
	)
}
