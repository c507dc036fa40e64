package apis

import (
	"context"
	"net/http"

	"event-hub-backend/cmd/event-hub/model"

	"github.com/labstack/echo/v4"
)

type IBroadcaster interface {
	SendUpdate(ctx context.Context, eventID uint, message string) (model.EventUpdate, error)
}

type IUpdateLog interface {
	ListUpdates(ctx context.Context) ([]model.EventUpdate, error)
}

type UpdateAPI struct {
	broadcaster IBroadcaster
	updateLog   IUpdateLog
}

func NewUpdateAPI(broadcaster IBroadcaster, updateLog IUpdateLog) *UpdateAPI {

	return &UpdateAPI{
		broadcaster: broadcaster,
		updateLog:   updateLog,
	}
}

func (a *UpdateAPI) Setup(g *echo.Group) {
	g.GET("/updates", a.listUpdates)
	g.POST("/updates", a.sendUpdate)
}

func (a *UpdateAPI) listUpdates(c echo.Context) error {

	ctx := c.Request().Context()

	updates, err := a.updateLog.ListUpdates(ctx)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    updates,
		},
	)
}

func (a *UpdateAPI) sendUpdate(c echo.Context) error {

	ctx := c.Request().Context()

	var req model.SendUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	update, err := a.broadcaster.SendUpdate(ctx, req.EventID, req.Message)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusCreated,
		model.BaseResponse{
			Message: "update sent",
			Data:    update,
		},
	)
}
