package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"surveyku_backend/internals/features/users/auth/service"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// db mengikat DB ke context request (timeout dari middleware ikut ke query)
func (ac *AuthController) db(c *fiber.Ctx) *gorm.DB {
	return ac.DB.WithContext(c.UserContext())
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	return service.Register(ac.db(c), c)
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	return service.Login(ac.db(c), c)
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	return service.Logout(ac.db(c), c)
}
