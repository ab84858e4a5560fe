package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/mealmate/internal/models"
)

var errUnauthenticated = errors.New("unauthenticated")

type authClaims struct {
	UserID uint   `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*models.User, error) {
	rawCookie := strings.TrimSpace(c.Cookies(authCookieName))
	if rawCookie == "" {
		return nil, errUnauthenticated
	}
	tokenValue, err := handler.cookieCodec.open(authCookiePurpose, rawCookie)
	if err != nil {
		return nil, errUnauthenticated
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(string(tokenValue), claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errUnauthenticated
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, errUnauthenticated
	}

	handler.ensureDependencies()
	user, err := handler.authService.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (handler *Handler) optionalAuthenticatedUser(c *fiber.Ctx) *models.User {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		return nil
	}
	return user
}

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		if strings.HasPrefix(c.Path(), "/api/") {
			return apiError(c, fiber.StatusUnauthorized, "unauthorized")
		}
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	c.Locals(contextUserKey, user)
	if user.MustChangePassword && !isPasswordChangePath(c.Path()) {
		if strings.HasPrefix(c.Path(), "/api/") {
			return apiError(c, fiber.StatusForbidden, "password change required")
		}
		return c.Redirect("/change-password", fiber.StatusSeeOther)
	}
	return c.Next()
}

// AdminOnly must run after AuthRequired.
func (handler *Handler) AdminOnly(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !user.IsAdmin() {
		if strings.HasPrefix(c.Path(), "/api/") || acceptsJSON(c) {
			return apiError(c, fiber.StatusForbidden, "admin access required")
		}
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}
	return c.Next()
}

func isPasswordChangePath(path string) bool {
	switch strings.TrimSpace(path) {
	case "/change-password", "/api/auth/change-password", "/api/auth/logout":
		return true
	default:
		return false
	}
}
