package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	registerPageRoutes(app, handler)
	registerAPIRoutes(app, handler)
}

func registerPageRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/lang/:lang", handler.SetLanguage)

	app.Get("/login", handler.ShowLoginPage)
	app.Get("/register", handler.ShowRegisterPage)
	app.Get("/change-password", handler.AuthRequired, handler.ShowChangePasswordPage)
	app.Get("/", handler.AuthRequired, handler.ShowDashboard)
	app.Get("/dashboard", handler.AuthRequired, handler.ShowDashboard)
	app.Get("/meals", handler.AuthRequired, handler.ShowMeals)
	app.Get("/foods/picker", handler.AuthRequired, handler.FoodPicker)

	admin := app.Group("/admin", handler.AuthRequired, handler.AdminOnly)
	admin.Get("/foods", handler.ShowAdminFoods)
	admin.Get("/categories", handler.ShowAdminCategories)
	admin.Get("/serving-units", handler.ShowAdminServingUnits)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Post("/change-password", handler.AuthRequired, handler.ChangePassword)

	foods := api.Group("/foods", handler.AuthRequired)
	foods.Get("", handler.ListFoods)
	foods.Get("/:id", handler.GetFood)
	foods.Post("", handler.AdminOnly, handler.CreateFood)
	foods.Put("/:id", handler.AdminOnly, handler.UpdateFood)
	foods.Delete("/:id", handler.AdminOnly, handler.DeleteFood)

	categories := api.Group("/categories", handler.AuthRequired)
	categories.Get("", handler.ListCategories)
	categories.Post("", handler.AdminOnly, handler.CreateCategory)
	categories.Put("/:id", handler.AdminOnly, handler.UpdateCategory)
	categories.Delete("/:id", handler.AdminOnly, handler.DeleteCategory)

	units := api.Group("/serving-units", handler.AuthRequired)
	units.Get("", handler.ListServingUnits)
	units.Post("", handler.AdminOnly, handler.CreateServingUnit)
	units.Put("/:id", handler.AdminOnly, handler.UpdateServingUnit)
	units.Delete("/:id", handler.AdminOnly, handler.DeleteServingUnit)

	meals := api.Group("/meals", handler.AuthRequired)
	meals.Get("", handler.ListMeals)
	meals.Get("/summary", handler.MealSummary)
	meals.Post("", handler.CreateMeal)
	meals.Get("/:id", handler.GetMeal)
	meals.Put("/:id", handler.UpdateMeal)
	meals.Delete("/:id", handler.DeleteMeal)

	api.Get("/stats/daily", handler.AuthRequired, handler.DailyStats)
	api.Get("/pagination/next", handler.NextPage)

	export := api.Group("/export", handler.AuthRequired)
	export.Get("/summary", handler.ExportSummary)
	export.Get("/csv", handler.ExportCSV)
	export.Get("/json", handler.ExportJSON)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
