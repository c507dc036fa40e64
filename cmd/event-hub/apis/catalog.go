package apis

import (
	"context"
	"net/http"
	"slices"

	"event-hub-backend/cmd/event-hub/model"

	"github.com/labstack/echo/v4"
)

type ICatalogRepo interface {
	SearchEvents(ctx context.Context, query, category string) ([]model.Event, error)
	GetEvent(ctx context.Context, id uint) (model.Event, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type IEnrolledEvents interface {
	EnrolledEventIDs(ctx context.Context, userID uint) ([]uint, error)
}

// CatalogAPI is the user-facing event browser.
type CatalogAPI struct {
	catalogRepo ICatalogRepo
	enrollments IEnrolledEvents
}

func NewCatalogAPI(catalogRepo ICatalogRepo, enrollments IEnrolledEvents) *CatalogAPI {

	return &CatalogAPI{
		catalogRepo: catalogRepo,
		enrollments: enrollments,
	}
}

func (a *CatalogAPI) Setup(g *echo.Group) {
	g.GET("/events", a.listEvents)
	g.GET("/events/categories", a.listCategories)
	g.GET("/events/:id", a.getEvent)
}

func (a *CatalogAPI) listEvents(c echo.Context) error {

	ctx := c.Request().Context()

	events, err := a.catalogRepo.SearchEvents(ctx, c.QueryParam("q"), c.QueryParam("category"))
	if err != nil {
		return errorResponse(c, err)
	}

	enrolled, err := a.enrollments.EnrolledEventIDs(ctx, identity(c).UserID)
	if err != nil {
		return errorResponse(c, err)
	}

	out := make([]model.CatalogEvent, 0, len(events))
	for _, e := range events {
		ce := model.NewCatalogEvent(e)
		ce.Enrolled = slices.Contains(enrolled, e.ID)
		out = append(out, ce)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    out,
		},
	)
}

func (a *CatalogAPI) listCategories(c echo.Context) error {

	ctx := c.Request().Context()

	categories, err := a.catalogRepo.ListCategories(ctx)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    categories,
		},
	)
}

func (a *CatalogAPI) getEvent(c echo.Context) error {

	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return errorResponse(c, err)
	}

	event, err := a.catalogRepo.GetEvent(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}

	enrolled, err := a.enrollments.EnrolledEventIDs(ctx, identity(c).UserID)
	if err != nil {
		return errorResponse(c, err)
	}

	ce := model.NewCatalogEvent(event)
	ce.Enrolled = slices.Contains(enrolled, event.ID)

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    ce,
		},
	)
}
