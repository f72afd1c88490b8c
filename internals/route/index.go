// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authRoute "surveyku_backend/internals/features/users/auth/route"
	surveyRoute "surveyku_backend/internals/features/surveys/survey/route"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, db)

	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(app, db)

	log.Println("[INFO] Setting up SurveyRoutes...")
	surveyRoute.SurveyRoutes(app, db)
}
