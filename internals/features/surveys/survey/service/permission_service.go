package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "surveyku_backend/internals/features/surveys/survey/model"
)

// Predicate otorisasi per aksi. Pesan penolakan ada di ErrAlreadyVoted /
// ErrNotOwner (survey_service.go).

// HasNotVoted: aksi vote hanya boleh kalau belum ada entry (user, survey)
// dengan is_voted = true. Entry yang belum ada dihitung "belum vote".
// Untuk dipakai di dalam transaksi vote, kirim tx sebagai db.
func HasNotVoted(db *gorm.DB, userID, surveyID uuid.UUID) (bool, error) {
	var entry model.UserSurveyModel
	err := db.
		Where("user_survey_user_id = ? AND user_survey_survey_id = ?", userID, surveyID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return !entry.UserSurveyIsVoted, nil
}

// IsOwner: aksi edit/delete hanya boleh oleh pemilik survei
// (entry dengan is_owner = true; dibuat sekali saat create).
func IsOwner(db *gorm.DB, userID, surveyID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&model.UserSurveyModel{}).
		Where("user_survey_user_id = ? AND user_survey_survey_id = ? AND user_survey_is_owner = true",
			userID, surveyID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
