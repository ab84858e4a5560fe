package api

import (
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/terraincognita07/mealmate/internal/db"
	"github.com/terraincognita07/mealmate/internal/i18n"
	"github.com/terraincognita07/mealmate/internal/services"
	"gorm.io/gorm"
)

const (
	defaultAuthTokenTTL  = 7 * 24 * time.Hour
	rememberAuthTokenTTL = 30 * 24 * time.Hour
)

type Handler struct {
	db           *gorm.DB
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	i18n         *i18n.Manager
	templates    map[string]*template.Template
	partials     map[string]*template.Template
	cookieCodec  *secureCookieCodec
	loginLimiter *attemptLimiter

	repositories       *db.Repositories
	authService        *services.AuthService
	categoryService    *services.CategoryService
	servingUnitService *services.ServingUnitService
	foodService        *services.FoodService
	mealService        *services.MealService
	statsService       *services.StatsService
	exportService      *services.ExportService
}

func NewHandler(database *gorm.DB, secret string, templateDir string, location *time.Location, i18nManager *i18n.Manager, cookieSecure bool) (*Handler, error) {
	if location == nil {
		location = time.Local
	}
	if i18nManager == nil {
		return nil, errors.New("i18n manager is required")
	}

	funcMap := newTemplateFuncMap()
	templates, err := parsePageTemplates(templateDir, funcMap, pageTemplates, partialTemplateFiles)
	if err != nil {
		return nil, err
	}
	partials, err := parsePartialTemplates(templateDir, funcMap, partialTemplateFiles)
	if err != nil {
		return nil, err
	}

	codec, err := newSecureCookieCodec([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("init cookie codec: %w", err)
	}

	handler := &Handler{
		db:           database,
		secretKey:    []byte(secret),
		location:     location,
		cookieSecure: cookieSecure,
		i18n:         i18nManager,
		templates:    templates,
		partials:     partials,
		cookieCodec:  codec,
		loginLimiter: newAttemptLimiter(loginAttemptsLimit, loginAttemptsWindow),
	}
	return handler.withDependencies(database), nil
}
