package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GetRawAccessToken mengambil raw token dari Authorization header (Bearer)
// atau fallback ke cookie "access_token". Kosong = tidak ada token.
func GetRawAccessToken(c *fiber.Ctx) string {
	authHeader := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return strings.TrimSpace(c.Cookies("access_token"))
}
