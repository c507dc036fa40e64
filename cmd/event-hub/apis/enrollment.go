package apis

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"event-hub-backend/cmd/event-hub/model"
	"event-hub-backend/cmd/event-hub/report"

	"github.com/labstack/echo/v4"
)

type IEnrollmentRepo interface {
	Enroll(ctx context.Context, user model.User, eventID uint) (model.EnrolledEvent, error)
	Unenroll(ctx context.Context, userID uint, enrollmentID string) error
	ListEnrollments(ctx context.Context, userID uint) ([]model.EnrolledEvent, error)
	GetEnrollment(ctx context.Context, userID uint, enrollmentID string) (model.EnrolledEvent, error)
	SubmitFeedback(ctx context.Context, user model.User, enrollmentID string, req model.FeedbackRequest) (model.Feedback, error)
}

// EnrollmentAPI serves the participation tracker of the signed-in user.
type EnrollmentAPI struct {
	enrollmentRepo IEnrollmentRepo
	userRepo       IUserLookup
	now            func() time.Time
}

func NewEnrollmentAPI(enrollmentRepo IEnrollmentRepo, userRepo IUserLookup) *EnrollmentAPI {

	return &EnrollmentAPI{
		enrollmentRepo: enrollmentRepo,
		userRepo:       userRepo,
		now:            time.Now,
	}
}

func (a *EnrollmentAPI) Setup(g *echo.Group) {
	g.GET("/enrollments", a.listEnrollments)
	g.POST("/enrollments", a.enroll)
	g.GET("/enrollments/summary", a.summary)
	g.GET("/enrollments/report", a.downloadReport)
	g.DELETE("/enrollments/:enrollmentId", a.unenroll)
	g.POST("/enrollments/:enrollmentId/feedback", a.submitFeedback)
	g.GET("/enrollments/:enrollmentId/certificate", a.downloadCertificate)
}

func (a *EnrollmentAPI) listEnrollments(c echo.Context) error {

	ctx := c.Request().Context()

	events, err := a.enrollmentRepo.ListEnrollments(ctx, identity(c).UserID)
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

func (a *EnrollmentAPI) enroll(c echo.Context) error {

	ctx := c.Request().Context()

	var req model.EnrollRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	if req.EventID == 0 {
		return errorResponse(c, fmt.Errorf("%w: event_id", model.ErrMissingFields))
	}

	user, err := a.userRepo.GetUser(ctx, identity(c).UserID)
	if err != nil {
		return errorResponse(c, err)
	}

	enrolled, err := a.enrollmentRepo.Enroll(ctx, user, req.EventID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusCreated,
		model.BaseResponse{
			Message: fmt.Sprintf("you have been enrolled in %s", enrolled.Name),
			Data:    enrolled,
		},
	)
}

func (a *EnrollmentAPI) unenroll(c echo.Context) error {

	ctx := c.Request().Context()

	err := a.enrollmentRepo.Unenroll(ctx, identity(c).UserID, c.Param("enrollmentId"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
		},
	)
}

func (a *EnrollmentAPI) submitFeedback(c echo.Context) error {

	ctx := c.Request().Context()

	var req model.FeedbackRequest
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

	feedback, err := a.enrollmentRepo.SubmitFeedback(ctx, user, c.Param("enrollmentId"), req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "thank you for your feedback",
			Data:    feedback,
		},
	)
}

func (a *EnrollmentAPI) summary(c echo.Context) error {

	ctx := c.Request().Context()

	events, err := a.enrollmentRepo.ListEnrollments(ctx, identity(c).UserID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    report.Summarize(events),
		},
	)
}

func (a *EnrollmentAPI) downloadReport(c echo.Context) error {

	ctx := c.Request().Context()
	now := a.now()

	events, err := a.enrollmentRepo.ListEnrollments(ctx, identity(c).UserID)
	if err != nil {
		return errorResponse(c, err)
	}

	var buf bytes.Buffer
	if err := report.WriteAttendance(&buf, events, now); err != nil {
		return errorResponse(c, err)
	}

	c.Response().Header().Set(
		echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", report.Filename(now)),
	)

	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, buf.Bytes())
}

// downloadCertificate renders a printable certificate for an attended
// enrollment.
func (a *EnrollmentAPI) downloadCertificate(c echo.Context) error {

	ctx := c.Request().Context()
	userID := identity(c).UserID

	enrolled, err := a.enrollmentRepo.GetEnrollment(ctx, userID, c.Param("enrollmentId"))
	if err != nil {
		return errorResponse(c, err)
	}

	if enrolled.Status != model.Attended || enrolled.CertificateURL == "" {
		return errorResponse(c, model.ErrNoCertificate)
	}

	user, err := a.userRepo.GetUser(ctx, userID)
	if err != nil {
		return errorResponse(c, err)
	}

	var buf bytes.Buffer
	if err := report.WriteCertificate(&buf, report.NewCertificate(enrolled, user.FullName, a.now())); err != nil {
		return errorResponse(c, err)
	}

	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
