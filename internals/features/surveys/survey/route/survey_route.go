package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	surveyController "surveyku_backend/internals/features/surveys/survey/controller"
	authMiddleware "surveyku_backend/internals/middlewares/auth"
)

func SurveyRoutes(app *fiber.App, db *gorm.DB) {
	surveyCtrl := surveyController.NewSurveyController(db)

	api := app.Group("/api/surveys")

	// 📋 Read routes: publik, tanpa login
	api.Get("/", surveyCtrl.GetAll)
	api.Get("/:id", surveyCtrl.GetByID)

	// 📝 Mutating routes: wajib login.
	// Auth dipasang per-route: middleware group di Fiber nempel ke prefix,
	// jadi kalau ditaruh di group, GET publik ikut kena.
	requireAuth := authMiddleware.AuthMiddleware(db)
	api.Post("/", requireAuth, surveyCtrl.Create)
	api.Patch("/:id/edit-survey", requireAuth, surveyCtrl.EditSurvey)
	api.Patch("/:id/vote", requireAuth, surveyCtrl.Vote)
	api.Delete("/:id", requireAuth, surveyCtrl.Delete)
}
