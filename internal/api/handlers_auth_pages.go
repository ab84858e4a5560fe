package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ShowLoginPage(c *fiber.Ctx) error {
	if redirected, err := handler.redirectAuthenticatedUserIfPresent(c); redirected || err != nil {
		return err
	}

	flash := handler.popFlashCookie(c)
	messages := currentMessages(c)
	return handler.render(c, "login", fiber.Map{
		"Title":        localizedPageTitle(messages, "meta.title.login", "MealMate | Sign In"),
		"ErrorMessage": localizedErrorMessage(c, flash.AuthError),
		"Email":        flash.LoginEmail,
	})
}

func (handler *Handler) ShowRegisterPage(c *fiber.Ctx) error {
	if redirected, err := handler.redirectAuthenticatedUserIfPresent(c); redirected || err != nil {
		return err
	}

	flash := handler.popFlashCookie(c)
	messages := currentMessages(c)
	return handler.render(c, "register", fiber.Map{
		"Title":        localizedPageTitle(messages, "meta.title.register", "MealMate | Sign Up"),
		"ErrorMessage": localizedErrorMessage(c, flash.AuthError),
	})
}

func (handler *Handler) ShowChangePasswordPage(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	flash := handler.popFlashCookie(c)
	messages := currentMessages(c)
	return handler.render(c, "change_password", fiber.Map{
		"Title":        localizedPageTitle(messages, "meta.title.change_password", "MealMate | Change Password"),
		"ErrorMessage": localizedErrorMessage(c, flash.AuthError),
		"Forced":       user.MustChangePassword,
	})
}

func (handler *Handler) redirectAuthenticatedUserIfPresent(c *fiber.Ctx) (bool, error) {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		return false, nil
	}
	target := "/dashboard"
	if user.MustChangePassword {
		target = "/change-password"
	}
	return true, c.Redirect(target, fiber.StatusSeeOther)
}
