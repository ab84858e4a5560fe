package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/terraincognita07/mealmate/internal/api"
	"github.com/terraincognita07/mealmate/internal/cli"
	"github.com/terraincognita07/mealmate/internal/db"
	"github.com/terraincognita07/mealmate/internal/i18n"
)

const (
	minSecretKeyLength = 32
	csrfCookieName     = "mealmate_csrf"
	csrfHeaderName     = "X-CSRF-Token"
	csrfFormField      = "csrf_token"
	flashCookieName    = "mealmate_flash"

	loginRateLimitMax    = 20
	loginRateLimitWindow = 15 * time.Minute
)

var (
	insecureSecretKeys = map[string]struct{}{
		"change_me_in_production":                    {},
		"replace_with_at_least_32_random_characters": {},
	}
	errMissingCSRFToken = errors.New("missing csrf token")
)

func main() {
	if err := loadDotEnv(); err != nil {
		log.Fatalf("load .env failed: %v", err)
	}

	dbConfig, err := resolveDatabaseConfig()
	if err != nil {
		log.Fatalf("database config invalid: %v", err)
	}

	if args := os.Args[1:]; cli.IsCommand(args) {
		if err := cli.Run(dbConfig, args, os.Stdout); err != nil {
			log.Fatalf("%s failed: %v", args[0], err)
		}
		return
	}

	location := mustLoadLocation(getEnv("TZ", "UTC"))
	time.Local = location

	secretKey, err := resolveSecretKey()
	if err != nil {
		log.Fatalf("secret key invalid: %v", err)
	}
	port, err := resolvePort()
	if err != nil {
		log.Fatalf("port invalid: %v", err)
	}
	cookieSecure, err := resolveCookieSecure()
	if err != nil {
		log.Fatalf("cookie config invalid: %v", err)
	}
	defaultLanguage := getEnv("DEFAULT_LANGUAGE", "en")

	database, err := db.Open(dbConfig)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	i18nManager, err := i18n.NewManager(defaultLanguage, filepath.Join("internal", "i18n", "locales"))
	if err != nil {
		log.Fatalf("i18n init failed: %v", err)
	}

	handler, err := api.NewHandler(database, secretKey, filepath.Join("internal", "templates"), location, i18nManager, cookieSecure)
	if err != nil {
		log.Fatalf("handler init failed: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "MealMate",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
	}))
	app.Use(compress.New())
	app.Use(handler.LanguageMiddleware)
	app.Use(csrf.New(csrfMiddlewareConfig(cookieSecure)))
	app.Use("/api/auth/login", limiter.New(loginLimiterConfig(cookieSecure)))

	app.Static("/static", filepath.Join("web", "static"))
	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("MealMate listening on http://0.0.0.0:%s (db: %s, tz: %s)", port, describeDatabase(dbConfig), location.String())
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func resolveSecretKey() (string, error) {
	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secret == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(secret)]; insecure {
		return "", errors.New("SECRET_KEY uses a placeholder value")
	}
	if len(secret) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secret, nil
}

func resolvePort() (string, error) {
	raw := strings.TrimSpace(getEnv("PORT", "8080"))
	port, err := strconv.Atoi(raw)
	if err != nil {
		return "", fmt.Errorf("PORT %q is not a number", raw)
	}
	if port < 1 || port > 65535 {
		return "", fmt.Errorf("PORT %d is out of range", port)
	}
	return strconv.Itoa(port), nil
}

func resolveCookieSecure() (bool, error) {
	raw := strings.TrimSpace(os.Getenv("COOKIE_SECURE"))
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("COOKIE_SECURE %q is not a boolean", raw)
	}
	return value, nil
}

func resolveDatabaseConfig() (db.Config, error) {
	driver := strings.ToLower(strings.TrimSpace(getEnv("DB_DRIVER", db.DriverSQLite)))
	switch driver {
	case db.DriverSQLite:
		return db.Config{
			Driver: db.DriverSQLite,
			Path:   getEnv("DB_PATH", filepath.Join("data", "mealmate.db")),
		}, nil
	case db.DriverPostgres:
		dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
		if dsn == "" {
			return db.Config{}, errors.New("DATABASE_URL is required for the postgres driver")
		}
		return db.Config{Driver: db.DriverPostgres, DSN: dsn}, nil
	default:
		return db.Config{}, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func describeDatabase(config db.Config) string {
	if config.Driver == db.DriverPostgres {
		return "postgres"
	}
	return config.Path
}

func csrfMiddlewareConfig(cookieSecure bool) csrf.Config {
	return csrf.Config{
		Next:           skipCSRFCheck,
		KeyLookup:      "form:" + csrfFormField,
		CookieName:     csrfCookieName,
		CookieSameSite: "Lax",
		CookieHTTPOnly: true,
		CookieSecure:   cookieSecure,
		ContextKey:     "csrf",
		Extractor:      extractCSRFToken,
		ErrorHandler:   csrfErrorHandler,
	}
}

// skipCSRFCheck exempts requests a browser cannot send cross-site without a
// CORS preflight: JSON bodies and unsafe methods other than POST.
func skipCSRFCheck(c *fiber.Ctx) bool {
	switch c.Method() {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions, fiber.MethodTrace:
		return false
	case fiber.MethodPost:
		return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON)
	default:
		return true
	}
}

// extractCSRFToken reads the HTMX header first and falls back to the form
// field.
func extractCSRFToken(c *fiber.Ctx) (string, error) {
	if token := strings.TrimSpace(c.Get(csrfHeaderName)); token != "" {
		return token, nil
	}
	if token := strings.TrimSpace(c.FormValue(csrfFormField)); token != "" {
		return token, nil
	}
	return "", errMissingCSRFToken
}

func csrfErrorHandler(c *fiber.Ctx, _ error) error {
	if strings.EqualFold(c.Get("HX-Request"), "true") {
		return c.Status(fiber.StatusForbidden).SendString("<div class=\"status-error\">Session expired. Reload the page.</div>")
	}
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "invalid csrf token"})
}

func loginLimiterConfig(cookieSecure bool) limiter.Config {
	return limiter.Config{
		Max:        loginRateLimitMax,
		Expiration: loginRateLimitWindow,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() != fiber.MethodPost
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return redirectWithErrorCode(c, "/login", "too many login attempts", cookieSecure)
		},
	}
}

// redirectWithErrorCode answers a rate-limited login. Browsers go back to path
// with the error and the typed email in the flash cookie.
func redirectWithErrorCode(c *fiber.Ctx, path string, message string, cookieSecure bool) error {
	accept := strings.ToLower(c.Get(fiber.HeaderAccept))
	contentType := strings.ToLower(c.Get(fiber.HeaderContentType))
	if strings.Contains(accept, fiber.MIMEApplicationJSON) || strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": message})
	}

	payload := api.FlashPayload{
		AuthError:  message,
		LoginEmail: strings.ToLower(strings.TrimSpace(c.FormValue("email"))),
	}
	serialized, err := json.Marshal(payload)
	if err == nil {
		c.Cookie(&fiber.Cookie{
			Name:     flashCookieName,
			Value:    base64.RawURLEncoding.EncodeToString(serialized),
			Path:     "/",
			HTTPOnly: true,
			Secure:   cookieSecure,
			SameSite: "Lax",
			Expires:  time.Now().Add(5 * time.Minute),
		})
	}

	if strings.EqualFold(c.Get("HX-Request"), "true") {
		c.Set("HX-Redirect", path)
		return c.SendStatus(fiber.StatusOK)
	}
	return c.Redirect(path, fiber.StatusSeeOther)
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
