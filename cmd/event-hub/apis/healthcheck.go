package apis

import (
	"context"
	"net/http"
	"time"

	"event-hub-backend/cmd/event-hub/model"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

// HealthStatus is the data of a /healthz response.
type HealthStatus struct {
	Database        string `json:"database"`
	OpenConnections int    `json:"open_connections,omitempty"`
}

type HealthCheckAPI struct {
	db *gorm.DB
}

func NewHealthCheckAPI(db *gorm.DB) *HealthCheckAPI {
	return &HealthCheckAPI{
		db: db,
	}
}

func (a *HealthCheckAPI) Setup(g *echo.Group) {
	g.GET("/healthz", a.healthCheck)
}

// healthCheck reports 503 while the store cannot be reached so a load
// balancer stops routing here.
func (a *HealthCheckAPI) healthCheck(c echo.Context) error {

	sqlDB, err := a.db.DB()
	if err != nil {
		return c.JSON(
			http.StatusInternalServerError,
			model.BaseResponse{
				Message: err.Error(),
			},
		)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), pingTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return c.JSON(
			http.StatusServiceUnavailable,
			model.BaseResponse{
				Message: err.Error(),
				Data:    HealthStatus{Database: "down"},
			},
		)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "healthy",
			Data: HealthStatus{
				Database:        "up",
				OpenConnections: sqlDB.Stats().OpenConnections,
			},
		},
	)
}
