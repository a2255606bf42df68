package api

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/terraincognita07/circlecare/internal/db"
	"github.com/terraincognita07/circlecare/internal/services"
	"gorm.io/gorm"
)

const (
	defaultAuthTokenTTL = 7 * 24 * time.Hour
	loginAttemptLimit   = 8
	loginAttemptWindow  = 15 * time.Minute
	minSecretKeyLength  = 32
)

type HandlerOptions struct {
	SecretKey    string
	Location     *time.Location
	CookieSecure bool
	TokenTTL     time.Duration
}

type Handler struct {
	db           *gorm.DB
	repositories *db.Repositories
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	tokenTTL     time.Duration
	loginGuard   *loginThrottle
	validate     *validator.Validate
	metrics      *httpMetrics

	authService   *services.AuthService
	friendService *services.FriendService
	logService    *services.LogService
	statsService  *services.StatsService
}

func NewHandler(database *gorm.DB, options HandlerOptions) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if len(options.SecretKey) < minSecretKeyLength {
		return nil, errors.New("secret key must be at least 32 characters")
	}

	location := options.Location
	if location == nil {
		location = time.UTC
	}
	tokenTTL := options.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = defaultAuthTokenTTL
	}

	metrics := newHTTPMetrics()
	handler := &Handler{
		db:           database,
		secretKey:    []byte(options.SecretKey),
		location:     location,
		cookieSecure: options.CookieSecure,
		tokenTTL:     tokenTTL,
		loginGuard:   newLoginThrottle(loginAttemptLimit, loginAttemptWindow, metrics.loginFailures),
		validate:     newInputValidator(),
		metrics:      metrics,
	}
	return handler.withDependencies(database), nil
}

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.authService = services.NewAuthService(handler.repositories.Users)
	handler.friendService = services.NewFriendService(handler.repositories.Friends)
	handler.logService = services.NewLogService(handler.repositories.LogEntries, handler.location)
	handler.statsService = services.NewStatsService(handler.logService)
	return handler
}
