package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event-hub-backend/cmd/event-hub/apis"
	"event-hub-backend/cmd/event-hub/auth"
	"event-hub-backend/cmd/event-hub/logger"
	"event-hub-backend/cmd/event-hub/media"
	"event-hub-backend/cmd/event-hub/model"
	"event-hub-backend/cmd/event-hub/notify"
	"event-hub-backend/cmd/event-hub/repository"
	"event-hub-backend/cmd/event-hub/seed"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/cors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type EnvCfg struct {
	DBDriver      string        `envconfig:"DB_DRIVER" default:"postgres"`
	DBHost        string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort        int           `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER"`
	DBPassword    string        `envconfig:"DB_PASSWORD"`
	DBName        string        `envconfig:"DB_NAME"`
	SQLitePath    string        `envconfig:"SQLITE_PATH" default:"event-hub.db"`
	HTTPAddr      string        `envconfig:"HTTP_ADDR" default:":8080"`
	JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	CORSOrigins   []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	CloudinaryURL string        `envconfig:"CLOUDINARY_URL"`
	Seed          bool          `envconfig:"SEED" default:"false"`
}

func (cfg EnvCfg) Validate() error {
	if cfg.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	return nil
}

func (cfg EnvCfg) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
	)
}

func (cfg EnvCfg) Dialector() (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres":
		return postgres.Open(cfg.PostgresDSN()), nil
	case "sqlite":
		return sqlite.Open(cfg.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func loadConfig() (EnvCfg, error) {

	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return EnvCfg{}, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg EnvCfg
	if err := envconfig.Process("EVENT_HUB", &cfg); err != nil {
		return EnvCfg{}, err
	}
	if err := cfg.Validate(); err != nil {
		return EnvCfg{}, err
	}

	return cfg, nil
}

// redactURI hides the session token that WebSocket clients pass in the
// query string.
func redactURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "[unparseable]"
	}

	q := u.Query()
	if !q.Has("token") {
		return uri
	}
	q.Set("token", "REDACTED")
	u.RawQuery = q.Encode()

	return u.String()
}

func openDB(cfg EnvCfg) (*gorm.DB, error) {

	dialector, err := cfg.Dialector()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if cfg.DBDriver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := repository.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return db, nil
}

// newServer wires every API onto a fresh echo instance. images may be nil,
// in which case event image upload is not offered.
func newServer(db *gorm.DB, cfg EnvCfg, hub *notify.Hub, images apis.IImageStore, log *logger.Logger) *echo.Echo {

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apis.ErrorHandler(log)

	e.Pre(echo.WrapMiddleware(cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
	}).Handler))

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				log.Warn("Request failed", "method", v.Method, "uri", redactURI(v.URI), "status", v.Status, "latency", v.Latency, "error", v.Error)
				return nil
			}
			log.Debug("Request", "method", v.Method, "uri", redactURI(v.URI), "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	rootg := e.Group("")
	v1g := rootg.Group("/api/v1")
	adming := v1g.Group("/admin", apis.Authenticate(tokens), apis.RequireRole(model.RoleAdmin))
	userg := v1g.Group("/user", apis.Authenticate(tokens), apis.RequireRole(model.RoleUser))

	apis.
		NewHealthCheckAPI(db).
		Setup(rootg)

	eventRepo := repository.NewEventRepo(db)
	rsvpRepo := repository.NewRSVPRepo(db)
	enrollmentRepo := repository.NewEnrollmentRepo(db)
	suggestionRepo := repository.NewSuggestionRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)
	userRepo := repository.NewUserRepo(db)

	relay := notify.NewRelay(notificationRepo, enrollmentRepo, hub, log)

	apis.
		NewAuthAPI(auth.NewPasswordProvider(userRepo), tokens, userRepo).
		Setup(v1g)

	apis.
		NewEventAPI(eventRepo, enrollmentRepo, images, log).
		Setup(adming)

	apis.
		NewRSVPAPI(rsvpRepo, log).
		Setup(adming)

	apis.
		NewFeedbackAPI(eventRepo).
		Setup(adming)

	apis.
		NewAnalyticsAPI(eventRepo).
		Setup(adming)

	apis.
		NewUpdateAPI(relay, notificationRepo).
		Setup(adming)

	suggestionAPI := apis.NewSuggestionAPI(suggestionRepo, userRepo)
	suggestionAPI.SetupAdmin(adming)
	suggestionAPI.SetupUser(userg)

	apis.
		NewCatalogAPI(eventRepo, enrollmentRepo).
		Setup(userg)

	apis.
		NewEnrollmentAPI(enrollmentRepo, userRepo).
		Setup(userg)

	apis.
		NewNotificationAPI(relay, notificationRepo, hub, log).
		Setup(userg)

	apis.
		NewProfileAPI(userRepo).
		Setup(userg)

	return e
}

func main() {

	err := os.Setenv("TZ", "UTC")
	if err != nil {
		panic(err)
	}

	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger(cfg.LogLevel)

	db, err := openDB(cfg)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Seed {
		fx, err := seed.Default()
		if err != nil {
			panic(err)
		}
		if _, err := seed.Apply(ctx, db, fx, log); err != nil {
			panic(err)
		}
	}

	var images apis.IImageStore
	if cfg.CloudinaryURL != "" {
		uploader, err := media.NewUploader(cfg.CloudinaryURL, media.DefaultFolder)
		if err != nil {
			panic(err)
		}
		images = uploader
	} else {
		log.Info("Cloudinary not configured, event image upload disabled")
	}

	hub := notify.NewHub()
	e := newServer(db, cfg, hub, images, log)

	go func() {
		log.Info("Starting server", "addr", cfg.HTTPAddr, "db_driver", cfg.DBDriver)
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown failed", "error", err)
	}

}
