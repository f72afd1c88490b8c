package repository

import (
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	authModel "surveyku_backend/internals/features/users/auth/model"
	userModel "surveyku_backend/internals/features/users/user/model"
)

func CreateUser(db *gorm.DB, user *userModel.UserModel) error {
	return db.Create(user).Error
}

// FindUserByEmailOrUsername: identifier login boleh email atau user_name
func FindUserByEmailOrUsername(db *gorm.DB, identifier string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.
		Where("email = ? OR user_name = ?", identifier, identifier).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// BlacklistToken menyimpan token ke blacklist (idempotent untuk token yang
// sama). Sekalian membersihkan entry yang masa berlakunya sudah lewat
// supaya tabel tidak tumbuh terus.
func BlacklistToken(db *gorm.DB, token string, ttl time.Duration) error {
	now := time.Now()
	if err := db.Unscoped().
		Where("expired_at < ?", now).
		Delete(&authModel.TokenBlacklist{}).Error; err != nil {
		log.Printf("[WARN] purge expired blacklist entries: %v", err)
	}

	entry := authModel.TokenBlacklist{
		Token:     token,
		ExpiredAt: now.Add(ttl),
	}
	err := db.Create(&entry).Error
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}

// Deteksi unique violation Postgres (kode "23505")
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	// string fallback (kompatibel untuk lib/pq & pgx yang dibungkus)
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "23505")
}
