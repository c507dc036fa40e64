package apis

import (
	"context"
	"io"
	"net/http"

	"event-hub-backend/cmd/event-hub/logger"
	"event-hub-backend/cmd/event-hub/model"

	"github.com/labstack/echo/v4"
)

type IEventRepo interface {
	ListEvents(ctx context.Context) ([]model.Event, error)
	GetEvent(ctx context.Context, id uint) (model.Event, error)
	CreateEvent(ctx context.Context, event model.Event) (model.Event, error)
	UpdateEvent(ctx context.Context, id uint, event model.Event) (model.Event, error)
	SetImage(ctx context.Context, id uint, imageURL string) error
	DeleteEvent(ctx context.Context, id uint) error
}

type IAttendanceRepo interface {
	ListEventEnrollments(ctx context.Context, eventID uint) ([]model.Enrollment, error)
	MarkAttendance(ctx context.Context, enrollmentID string, status model.EnrollmentStatus) (model.Enrollment, error)
}

type IImageStore interface {
	Upload(ctx context.Context, file io.Reader) (string, error)
	Delete(ctx context.Context, imageURL string) error
}

type EventAPI struct {
	eventRepo      IEventRepo
	attendanceRepo IAttendanceRepo
	images         IImageStore
	log            *logger.Logger
}

// NewEventAPI wires the admin event routes. images may be nil, in which
// case the upload route is not registered.
func NewEventAPI(eventRepo IEventRepo, attendanceRepo IAttendanceRepo, images IImageStore, log *logger.Logger) *EventAPI {

	return &EventAPI{
		eventRepo:      eventRepo,
		attendanceRepo: attendanceRepo,
		images:         images,
		log:            log,
	}
}

func (a *EventAPI) Setup(g *echo.Group) {
	g.GET("/events", a.listEvents)
	g.POST("/events", a.createEvent)
	g.PUT("/events/:id", a.updateEvent)
	g.DELETE("/events/:id", a.deleteEvent)
	g.GET("/events/:id/enrollments", a.listEnrollments)
	g.PUT("/enrollments/:enrollmentId/attendance", a.markAttendance)

	if a.images != nil {
		g.POST("/events/:id/image", a.uploadImage)
	}
}

func (a *EventAPI) listEvents(c echo.Context) error {

	ctx := c.Request().Context()

	events, err := a.eventRepo.ListEvents(ctx)
	if err != nil {
		return c.JSON(
			http.StatusInternalServerError,
			model.BaseResponse{
				Message: err.Error(),
			},
		)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    events,
		},
	)
}

func (a *EventAPI) createEvent(c echo.Context) error {

	ctx := c.Request().Context()

	var req model.EventCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	if err := req.Validate(); err != nil {
		return errorResponse(c, err)
	}

	event, err := a.eventRepo.CreateEvent(ctx, req.Event())
	if err != nil {
		return errorResponse(c, err)
	}

	a.log.Info("Event created", "event_id", event.ID, "name", event.Name)

	return c.JSON(
		http.StatusCreated,
		model.BaseResponse{
			Message: "success",
			Data:    event,
		},
	)
}

func (a *EventAPI) updateEvent(c echo.Context) error {

	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return errorResponse(c, err)
	}

	var req model.EventCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	if err := req.Validate(); err != nil {
		return errorResponse(c, err)
	}

	event, err := a.eventRepo.UpdateEvent(ctx, id, req.Event())
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    event,
		},
	)
}

// deleteEvent succeeds for ids that do not exist.
func (a *EventAPI) deleteEvent(c echo.Context) error {

	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return errorResponse(c, err)
	}

	if err := a.eventRepo.DeleteEvent(ctx, id); err != nil {
		return errorResponse(c, err)
	}

	a.log.Info("Event deleted", "event_id", id)

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
		},
	)
}

func (a *EventAPI) uploadImage(c echo.Context) error {

	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return errorResponse(c, err)
	}

	event, err := a.eventRepo.GetEvent(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}

	image, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, err)
	}

	f, err := image.Open()
	if err != nil {
		return badRequest(c, err)
	}

	defer f.Close()

	url, err := a.images.Upload(ctx, f)
	if err != nil {
		return errorResponse(c, err)
	}

	if err := a.eventRepo.SetImage(ctx, id, url); err != nil {
		return errorResponse(c, err)
	}

	if event.ImageURL != "" {
		if err := a.images.Delete(ctx, event.ImageURL); err != nil {
			a.log.Warn("Failed to delete previous image", "event_id", id, "url", event.ImageURL, "error", err)
		}
	}

	event.ImageURL = url

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    event,
		},
	)
}

func (a *EventAPI) listEnrollments(c echo.Context) error {

	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return errorResponse(c, err)
	}

	enrollments, err := a.attendanceRepo.ListEventEnrollments(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    enrollments,
		},
	)
}

func (a *EventAPI) markAttendance(c echo.Context) error {

	ctx := c.Request().Context()

	var req model.AttendanceRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	if err := req.Validate(); err != nil {
		return errorResponse(c, err)
	}

	enrollment, err := a.attendanceRepo.MarkAttendance(ctx, c.Param("enrollmentId"), req.Status)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    enrollment,
		},
	)
}
