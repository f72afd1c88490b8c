package service

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"surveyku_backend/internals/configs"
	authRepo "surveyku_backend/internals/features/users/auth/repository"
	userModel "surveyku_backend/internals/features/users/user/model"
	helpers "surveyku_backend/internals/helpers"
)

const accessTokenTTL = 24 * time.Hour

/* ==========================
   REGISTER
========================== */

func Register(db *gorm.DB, c *fiber.Ctx) error {
	var input userModel.UserModel
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	input.UserName = strings.TrimSpace(input.UserName)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	if err := input.Validate(); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	// Hash password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Password hashing failed")
	}
	input.Password = string(passwordHash)
	input.IsActive = true

	// Create user
	if err := authRepo.CreateUser(db, &input); err != nil {
		low := strings.ToLower(err.Error())
		if strings.Contains(low, "duplicate key") || strings.Contains(low, "unique") {
			return helpers.JsonError(c, fiber.StatusBadRequest, "Email atau username sudah terdaftar")
		}
		log.Printf("[register] create user failed: %v", err)
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Failed to create user")
	}

	return helpers.JsonCreated(c, "Registration successful", fiber.Map{
		"id":        input.ID,
		"user_name": input.UserName,
		"email":     input.Email,
	})
}

/* ==========================
   LOGIN
========================== */

func Login(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	input.Identifier = strings.TrimSpace(input.Identifier)
	if input.Identifier == "" || input.Password == "" {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Identifier dan password wajib diisi")
	}

	user, err := authRepo.FindUserByEmailOrUsername(db, input.Identifier)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Identifier atau Password salah")
	}
	if !user.IsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "Akun Anda telah dinonaktifkan. Hubungi admin.")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Identifier atau Password salah")
	}

	return issueAccessToken(c, user)
}

func issueAccessToken(c *fiber.Ctx, user *userModel.UserModel) error {
	secret := configs.JWTSecret
	if secret == "" {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Missing JWT Secret")
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":       user.ID.String(),
		"user_name": user.UserName,
		"iat":       now.Unix(),
		"exp":       now.Add(accessTokenTTL).Unix(),
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		log.Printf("[login] sign token failed: %v", err)
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  now.Add(accessTokenTTL),
	})

	return helpers.JsonOK(c, "Login successful", fiber.Map{
		"access_token": accessToken,
		"user": fiber.Map{
			"id":        user.ID,
			"user_name": user.UserName,
			"email":     user.Email,
		},
	})
}

/* ==========================
   LOGOUT
========================== */

func Logout(db *gorm.DB, c *fiber.Ctx) error {
	accessToken := helpers.GetRawAccessToken(c)

	// Blacklist access token (idempotent)
	if accessToken != "" {
		if err := authRepo.BlacklistToken(db, accessToken, resolveBlacklistTTL(accessToken)); err != nil {
			log.Printf("[WARN] Failed to blacklist token: %v", err)
		}
	} else {
		log.Println("[INFO] Logout tanpa access token; lanjut clear cookies (idempotent)")
	}

	// Hapus cookie
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  time.Now().UTC().Add(-time.Hour),
		MaxAge:   -1,
	})

	return helpers.JsonOK(c, "Logout successful", nil)
}

// resolveBlacklistTTL: blacklist cukup sampai token itu sendiri expired
func resolveBlacklistTTL(accessToken string) time.Duration {
	ttl := accessTokenTTL
	if tok, err := jwt.Parse(accessToken, func(t *jwt.Token) (any, error) {
		return []byte(configs.JWTSecret), nil
	}); err == nil {
		if claims, ok := tok.Claims.(jwt.MapClaims); ok && tok.Valid {
			if expFloat, ok := claims["exp"].(float64); ok {
				if until := time.Until(time.Unix(int64(expFloat), 0)); until > 0 {
					ttl = until
				}
			}
		}
	}
	return ttl
}
