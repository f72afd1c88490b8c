// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"surveyku_backend/internals/configs"
	authModel "surveyku_backend/internals/features/users/auth/model"
	userModel "surveyku_backend/internals/features/users/user/model"
)

// AuthMiddleware memverifikasi JWT (header Bearer / cookie), cek blacklist,
// lalu menaruh user_id ke c.Locals untuk dipakai controller.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1) Ambil Authorization (atau cookie)
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		reqDB := db.WithContext(c.UserContext())

		// 2) Cek blacklist (sekali per request). Entry yang sudah lewat
		// expired_at diabaikan: token-nya sendiri sudah expired
		if c.Locals("token_checked") == nil {
			var existing authModel.TokenBlacklist
			if err := reqDB.Where("token = ? AND expired_at > ?", tokenString, time.Now()).First(&existing).Error; err == nil {
				log.Println("[WARNING] Token ditemukan di blacklist")
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token is blacklisted")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Println("[ERROR] DB error saat cek blacklist:", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
			}
			c.Locals("token_checked", true)
		}

		// 3) Parse & verifikasi JWT
		secretKey := configs.JWTSecret
		if secretKey == "" {
			log.Println("[ERROR] JWT_SECRET kosong")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		}); err != nil {
			log.Println("[ERROR] Gagal parse token:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		// 4) Validasi exp
		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			log.Println("[ERROR] Exp validation:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		// 5) Ambil user_id & validasi user aktif
		userID, err := extractUserID(claims)
		if err != nil {
			log.Println("[ERROR] user_id:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}
		c.Locals("user_id", userID.String())

		if err := ensureUserActive(reqDB, userID); err != nil {
			log.Println("[ERROR] ensureUserActive:", err)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - User not found")
			}
			return fiber.NewError(fiber.StatusForbidden, "Akun Anda telah dinonaktifkan")
		}

		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) (string, error) {
	authHeader := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(authHeader, "Bearer ") {
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token != "" {
			return token, nil
		}
	}
	if cookie := strings.TrimSpace(c.Cookies("access_token")); cookie != "" {
		return cookie, nil
	}
	return "", errors.New("Unauthorized - Missing token")
}

// validateTokenExpiry: exp wajib ada; leeway untuk clock skew antar node
func validateTokenExpiry(claims jwt.MapClaims, leeway time.Duration) error {
	expRaw, ok := claims["exp"]
	if !ok {
		return errors.New("claim exp tidak ada")
	}
	expFloat, ok := expRaw.(float64)
	if !ok {
		return errors.New("claim exp bukan angka")
	}
	expiry := time.Unix(int64(expFloat), 0)
	if time.Now().After(expiry.Add(leeway)) {
		return fmt.Errorf("token expired pada %s", expiry.Format(time.RFC3339))
	}
	return nil
}

func extractUserID(claims jwt.MapClaims) (uuid.UUID, error) {
	for _, key := range []string{"sub", "user_id", "id"} {
		if raw, ok := claims[key]; ok {
			if s, ok := raw.(string); ok && s != "" {
				return uuid.Parse(s)
			}
		}
	}
	return uuid.Nil, errors.New("user id claim tidak ditemukan")
}

func ensureUserActive(db *gorm.DB, userID uuid.UUID) error {
	var user userModel.UserModel
	if err := db.Select("id", "is_active").First(&user, "id = ?", userID).Error; err != nil {
		return err
	}
	if !user.IsActive {
		return errors.New("user nonaktif")
	}
	return nil
}
