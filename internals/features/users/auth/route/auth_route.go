package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "surveyku_backend/internals/features/users/auth/controller"
	"surveyku_backend/internals/middlewares"
	authMiddleware "surveyku_backend/internals/middlewares/auth"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	authCtrl := authController.NewAuthController(db)

	api := app.Group("/api/auth")
	api.Post("/register", middlewares.RegisterRateLimiter(), authCtrl.Register)
	api.Post("/login", middlewares.LoginRateLimiter(), authCtrl.Login)
	api.Post("/logout", authMiddleware.AuthMiddleware(db), authCtrl.Logout)
}
