package api

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const flashCookieTTL = 5 * time.Minute

// FlashPayload survives exactly one redirect.
type FlashPayload struct {
	AuthError  string `json:"auth_error,omitempty"`
	Error      string `json:"error,omitempty"`
	Success    string `json:"success,omitempty"`
	LoginEmail string `json:"login_email,omitempty"`
}

func (payload FlashPayload) normalized() FlashPayload {
	return FlashPayload{
		AuthError:  strings.TrimSpace(payload.AuthError),
		Error:      strings.TrimSpace(payload.Error),
		Success:    strings.TrimSpace(payload.Success),
		LoginEmail: normalizeLoginEmail(payload.LoginEmail),
	}
}

func (payload FlashPayload) empty() bool {
	return payload == FlashPayload{}
}

func (handler *Handler) setFlashCookie(c *fiber.Ctx, payload FlashPayload) {
	payload = payload.normalized()
	if payload.empty() {
		handler.clearFlashCookie(c)
		return
	}

	serialized, err := json.Marshal(payload)
	if err != nil {
		return
	}
	encoded := base64.RawURLEncoding.EncodeToString(serialized)
	c.Cookie(handler.baseCookie(flashCookieName, encoded, time.Now().Add(flashCookieTTL)))
}

func (handler *Handler) popFlashCookie(c *fiber.Ctx) FlashPayload {
	raw := strings.TrimSpace(c.Cookies(flashCookieName))
	if raw == "" {
		return FlashPayload{}
	}
	handler.clearFlashCookie(c)

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return FlashPayload{}
	}
	payload := FlashPayload{}
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return FlashPayload{}
	}
	return payload.normalized()
}

func (handler *Handler) clearFlashCookie(c *fiber.Ctx) {
	c.Cookie(handler.baseCookie(flashCookieName, "", time.Unix(0, 0)))
}

func normalizeLoginEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if len(email) > 254 {
		return ""
	}
	return email
}
