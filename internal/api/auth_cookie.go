package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/mealmate/internal/models"
)

// setAuthCookie issues a session for user. Without remember-me the cookie
// has no expiry and ends with the browser session; the token itself still
// expires after defaultAuthTokenTTL.
func (handler *Handler) setAuthCookie(c *fiber.Ctx, user *models.User, rememberMe bool) error {
	ttl := defaultAuthTokenTTL
	var expires time.Time
	if rememberMe {
		ttl = rememberAuthTokenTTL
		expires = time.Now().Add(ttl)
	}

	token, err := handler.signSessionToken(user, time.Now(), ttl)
	if err != nil {
		return err
	}
	sealed, err := handler.cookieCodec.seal(authCookiePurpose, []byte(token))
	if err != nil {
		return err
	}

	c.Cookie(handler.baseCookie(authCookieName, sealed, expires))
	return nil
}

func (handler *Handler) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(handler.baseCookie(authCookieName, "", time.Unix(0, 0)))
}

// baseCookie carries the attributes every MealMate cookie shares. A zero
// expires makes a session cookie.
func (handler *Handler) baseCookie(name string, value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

func (handler *Handler) signSessionToken(user *models.User, issuedAt time.Time, ttl time.Duration) (string, error) {
	claims := authClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(handler.secretKey)
}
