// Package testutil menyediakan database test in-memory untuk service &
// controller test. SQLite (pure Go) dipakai supaya test jalan tanpa
// Postgres; MaxOpenConns(1) menserialisasi akses sehingga test konkuren
// tidak kena SQLITE_BUSY.
package testutil

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	surveyModel "surveyku_backend/internals/features/surveys/survey/model"
	authModel "surveyku_backend/internals/features/users/auth/model"
	userModel "surveyku_backend/internals/features/users/user/model"
)

// SetupTestDB membuat database in-memory segar per test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&authModel.TokenBlacklist{},
		&surveyModel.SurveyModel{},
		&surveyModel.UserSurveyModel{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// CreateTestUser menyimpan user siap pakai (password sudah berupa hash dummy).
func CreateTestUser(t *testing.T, db *gorm.DB, userName string) *userModel.UserModel {
	t.Helper()

	user := userModel.UserModel{
		UserName: userName,
		Email:    userName + "@example.com",
		Password: "$2a$10$N9qo8uLOickgx2ZMRZoMye.IjPeGWn0ZsVyXo0/0l5hQO9C1G2C7W",
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user %s: %v", userName, err)
	}
	return &user
}

// CreateTestSurvey menyimpan survei + entry owner (seperti CreateSurvey service).
func CreateTestSurvey(t *testing.T, db *gorm.DB, ownerID uuid.UUID, question string, answers []string, finishing time.Time) *surveyModel.SurveyModel {
	t.Helper()

	survey := surveyModel.SurveyModel{
		SurveyQuestion:      question,
		SurveyAnswers:       surveyModel.SeedAnswers(answers),
		SurveyFinishingDate: finishing,
	}
	if err := db.Create(&survey).Error; err != nil {
		t.Fatalf("Failed to create test survey: %v", err)
	}
	owner := surveyModel.UserSurveyModel{
		UserSurveyUserID:   ownerID,
		UserSurveySurveyID: survey.SurveyID,
		UserSurveyIsOwner:  true,
	}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("Failed to create owner entry: %v", err)
	}
	return &survey
}
