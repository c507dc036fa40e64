package apis

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"event-hub-backend/cmd/event-hub/logger"
	"event-hub-backend/cmd/event-hub/model"
	"event-hub-backend/cmd/event-hub/report"

	"github.com/goforj/godump"
	"github.com/labstack/echo/v4"
)

type IRSVPRepo interface {
	ListRSVPs(ctx context.Context, department string) ([]model.Event, error)
	ListDepartments(ctx context.Context) ([]string, error)
	AddRSVPs(ctx context.Context, eventID uint, rsvps []model.RSVP) ([]model.RSVP, error)
	CancelRSVP(ctx context.Context, eventID, rsvpID uint) error
}

type RSVPAPI struct {
	rsvpRepo IRSVPRepo
	log      *logger.Logger
	now      func() time.Time
}

func NewRSVPAPI(rsvpRepo IRSVPRepo, log *logger.Logger) *RSVPAPI {

	return &RSVPAPI{
		rsvpRepo: rsvpRepo,
		log:      log,
		now:      time.Now,
	}
}

func (a *RSVPAPI) Setup(g *echo.Group) {
	g.GET("/rsvps", a.listRSVPs)
	g.GET("/rsvps/departments", a.listDepartments)
	g.GET("/rsvps/export", a.exportRSVPs)
	g.POST("/events/:id/rsvps/import", a.importRSVPs)
	g.DELETE("/events/:id/rsvps/:rsvpId", a.cancelRSVP)
}

func (a *RSVPAPI) listRSVPs(c echo.Context) error {

	ctx := c.Request().Context()

	events, err := a.rsvpRepo.ListRSVPs(ctx, c.QueryParam("department"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    events,
		},
	)
}

func (a *RSVPAPI) listDepartments(c echo.Context) error {

	ctx := c.Request().Context()

	departments, err := a.rsvpRepo.ListDepartments(ctx)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    departments,
		},
	)
}

func (a *RSVPAPI) exportRSVPs(c echo.Context) error {

	ctx := c.Request().Context()

	events, err := a.rsvpRepo.ListRSVPs(ctx, c.QueryParam("department"))
	if err != nil {
		return errorResponse(c, err)
	}

	var buf bytes.Buffer
	if err := report.WriteRSVPs(&buf, events); err != nil {
		return errorResponse(c, err)
	}

	c.Response().Header().Set(
		echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", report.RSVPFilename(a.now())),
	)

	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// importRSVPs appends the rows of an uploaded csvfile to the event. The
// sheet is rejected as a whole when any row is incomplete.
func (a *RSVPAPI) importRSVPs(c echo.Context) error {

	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return errorResponse(c, err)
	}

	csvfile, err := c.FormFile("csvfile")
	if err != nil {
		return badRequest(c, err)
	}

	cf, err := csvfile.Open()
	if err != nil {
		return badRequest(c, err)
	}

	defer cf.Close()

	rsvps, err := report.ReadRSVPs(cf, a.now().UTC().Format(time.DateOnly))
	if err != nil {
		return badRequest(c, err)
	}

	if a.log.DebugEnabled() {
		godump.Dump(rsvps)
	}

	added, err := a.rsvpRepo.AddRSVPs(ctx, id, rsvps)
	if err != nil {
		return errorResponse(c, err)
	}

	a.log.Info("RSVPs imported", "event_id", id, "file", csvfile.Filename, "count", len(added))

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    added,
		},
	)
}

func (a *RSVPAPI) cancelRSVP(c echo.Context) error {

	ctx := c.Request().Context()

	eventID, err := paramID(c, "id")
	if err != nil {
		return errorResponse(c, err)
	}

	rsvpID, err := paramID(c, "rsvpId")
	if err != nil {
		return errorResponse(c, err)
	}

	if err := a.rsvpRepo.CancelRSVP(ctx, eventID, rsvpID); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
		},
	)
}
