package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const languageCookieTTL = 365 * 24 * time.Hour

// LanguageMiddleware stores the request language and its message catalog in
// locals. An explicit cookie wins over Accept-Language; the cookie is
// rewritten whenever it is missing or names an unsupported language.
func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	language, persist := handler.resolveLanguage(c)
	if persist {
		handler.setLanguageCookie(c, language)
	}

	c.Locals(contextLanguageKey, language)
	c.Locals(contextMessagesKey, handler.i18n.Messages(language))
	return c.Next()
}

func (handler *Handler) resolveLanguage(c *fiber.Ctx) (string, bool) {
	stored := c.Cookies(languageCookieName)
	if stored == "" {
		return handler.i18n.DetectFromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage)), true
	}
	language := handler.i18n.NormalizeLanguage(stored)
	return language, language != stored
}

// SetLanguage switches the UI language and returns to ?next=, which must be a
// local path.
func (handler *Handler) SetLanguage(c *fiber.Ctx) error {
	handler.setLanguageCookie(c, handler.i18n.NormalizeLanguage(c.Params("lang")))
	return redirectOrJSON(c, sanitizeRedirectPath(c.Query("next"), "/"))
}

func (handler *Handler) setLanguageCookie(c *fiber.Ctx, language string) {
	cookie := handler.baseCookie(languageCookieName, language, time.Now().Add(languageCookieTTL))
	cookie.HTTPOnly = false
	c.Cookie(cookie)
}
