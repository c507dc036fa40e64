package apis

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"event-hub-backend/cmd/event-hub/auth"
	"event-hub-backend/cmd/event-hub/logger"
	"event-hub-backend/cmd/event-hub/media"
	"event-hub-backend/cmd/event-hub/model"

	"github.com/labstack/echo/v4"
)

var ErrInvalidID = errors.New("invalid id")

// statusFor maps domain errors to HTTP status codes. Anything unknown is a
// server error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, model.ErrMissingFields),
		errors.Is(err, model.ErrEmptyMessage),
		errors.Is(err, model.ErrInvalidRating),
		errors.Is(err, model.ErrInvalidStatus),
		errors.Is(err, model.ErrPasswordMismatch),
		errors.Is(err, media.ErrInvalidImageURL):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrAlreadyEnrolled),
		errors.Is(err, model.ErrEventFull),
		errors.Is(err, model.ErrSuggestionNotPending),
		errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, model.ErrNotAttended),
		errors.Is(err, model.ErrNoCertificate),
		errors.Is(err, model.ErrEmailTaken):
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

func errorResponse(c echo.Context, err error) error {
	return c.JSON(
		statusFor(err),
		model.BaseResponse{
			Message: err.Error(),
		},
	)
}

func badRequest(c echo.Context, err error) error {
	return c.JSON(
		http.StatusBadRequest,
		model.BaseResponse{
			Message: err.Error(),
		},
	)
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidID, name, c.Param(name))
	}

	return uint(id), nil
}

// ErrorHandler renders every error that escapes a handler, unknown routes
// included, in the same envelope as handler responses.
func ErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := statusFor(err)
		message := err.Error()

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			message = fmt.Sprint(he.Message)
		}

		if code >= http.StatusInternalServerError {
			log.Error("Request failed", "method", c.Request().Method, "path", c.Request().URL.Path, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, model.BaseResponse{Message: message})
		}
		if err != nil {
			log.Error("Failed to write error response", "error", err)
		}
	}
}
