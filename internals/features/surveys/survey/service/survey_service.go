package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dto "surveyku_backend/internals/features/surveys/survey/dto"
	model "surveyku_backend/internals/features/surveys/survey/model"
)

// Error taxonomy — controller memetakan ke status HTTP:
// not found → 404, policy → 403, invalid answer → 400, conflict → 500.
var (
	ErrSurveyNotFound = errors.New("Survey not found")
	ErrSurveyFinished = errors.New("Survey already finished!")
	ErrAlreadyVoted   = errors.New("You already voted!")
	ErrNotOwner       = errors.New("You are not owner!")
	ErrInvalidAnswer  = errors.New("voted_answer is not one of the survey answers")
	// ErrOwnerConflict = pelanggaran invariant internal: entry owner untuk
	// survei baru ternyata sudah ada. Tidak boleh terjadi pada call
	// discipline yang benar.
	ErrOwnerConflict = errors.New("owner entry already exists for this survey")
)

// withRowLock menambah SELECT ... FOR UPDATE di Postgres. SQLite (dipakai
// di test) tidak punya FOR UPDATE; single-writer lock-nya sudah
// menserialisasi penulis.
func withRowLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func ListSurveys(db *gorm.DB) ([]model.SurveyModel, error) {
	var surveys []model.SurveyModel
	if err := db.Order("created_at DESC").Find(&surveys).Error; err != nil {
		return nil, err
	}
	return surveys, nil
}

func GetSurvey(db *gorm.DB, surveyID uuid.UUID) (*model.SurveyModel, error) {
	var survey model.SurveyModel
	if err := db.First(&survey, "survey_id = ?", surveyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSurveyNotFound
		}
		return nil, err
	}
	return &survey, nil
}

// CreateSurvey menyimpan survei + entry owner dalam SATU transaksi:
// survei tidak boleh pernah ada tanpa tepat satu entry owner.
func CreateSurvey(db *gorm.DB, userID uuid.UUID, survey *model.SurveyModel) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(survey).Error; err != nil {
			return err
		}

		// record_owner: pasangan (user, survey) harus fresh
		var count int64
		if err := tx.Model(&model.UserSurveyModel{}).
			Where("user_survey_user_id = ? AND user_survey_survey_id = ?", userID, survey.SurveyID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrOwnerConflict
		}

		owner := model.UserSurveyModel{
			UserSurveyUserID:   userID,
			UserSurveySurveyID: survey.SurveyID,
			UserSurveyIsOwner:  true,
		}
		if err := tx.Create(&owner).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrOwnerConflict
			}
			return err
		}
		return nil
	})
}

// PerformVote adalah koordinator transaksi vote: SELECT FOR UPDATE pada row
// survei menserialisasi semua penulis untuk survei yang sama, sehingga
// lifecycle check + not-voted check + increment tally + upsert is_voted
// jalan sebagai satu unit atomik. Pesanan concurrent oleh user yang sama:
// tepat satu yang diterima, sisanya ErrAlreadyVoted.
func PerformVote(db *gorm.DB, userID, surveyID uuid.UUID, votedAnswer string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// 1) Load survei di bawah row lock
		var survey model.SurveyModel
		if err := withRowLock(tx).First(&survey, "survey_id = ?", surveyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSurveyNotFound
			}
			return err
		}

		// 2) Lifecycle gate — dievaluasi pada state di dalam transaksi ini,
		// bukan state basi dari pre-check di luar
		if !survey.CanVote() {
			return ErrSurveyFinished
		}

		// 3) Not-yet-voted gate, pada ledger di bawah lock yang sama
		var entry model.UserSurveyModel
		err := withRowLock(tx).
			Where("user_survey_user_id = ? AND user_survey_survey_id = ?", userID, surveyID).
			First(&entry).Error
		haveEntry := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if haveEntry && entry.UserSurveyIsVoted {
			return ErrAlreadyVoted
		}

		// 4) Label harus salah satu key tally
		if !survey.HasAnswer(votedAnswer) {
			return ErrInvalidAnswer
		}

		// 5) Increment tally + persist
		if err := survey.IncrementAnswer(votedAnswer); err != nil {
			return err
		}
		if err := tx.Model(&model.SurveyModel{}).
			Where("survey_id = ?", surveyID).
			Update("survey_answers", survey.SurveyAnswers).Error; err != nil {
			return err
		}

		// 6) Upsert entry (user, survey) → is_voted = true
		if haveEntry {
			if err := tx.Model(&entry).
				Update("user_survey_is_voted", true).Error; err != nil {
				return err
			}
			return nil
		}
		fresh := model.UserSurveyModel{
			UserSurveyUserID:   userID,
			UserSurveySurveyID: surveyID,
			UserSurveyIsVoted:  true,
		}
		if err := tx.Create(&fresh).Error; err != nil {
			// backstop: unique index pasangan menangkap race yang lolos lock
			if isUniqueViolation(err) {
				return ErrAlreadyVoted
			}
			return err
		}
		return nil
	})
}

// EditSurvey: hanya owner; hanya finishing date & flag finish yang bisa
// diubah (question dan answers immutable).
func EditSurvey(db *gorm.DB, userID, surveyID uuid.UUID, req *dto.EditSurveyRequest) (*model.SurveyModel, error) {
	var updated model.SurveyModel
	err := db.Transaction(func(tx *gorm.DB) error {
		var survey model.SurveyModel
		if err := withRowLock(tx).First(&survey, "survey_id = ?", surveyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSurveyNotFound
			}
			return err
		}

		ok, err := IsOwner(tx, userID, surveyID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotOwner
		}

		updates := map[string]any{}
		if req.SurveyFinishingDate != nil {
			updates["survey_finishing_date"] = *req.SurveyFinishingDate
		}
		if req.SurveyIsFinished != nil {
			updates["survey_is_finished"] = *req.SurveyIsFinished
		}
		if len(updates) > 0 {
			if err := tx.Model(&survey).Updates(updates).Error; err != nil {
				return err
			}
		}
		updated = survey
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteSurvey: hanya owner; entry ledger ikut terhapus eksplisit di
// transaksi yang sama (cascade).
func DeleteSurvey(db *gorm.DB, userID, surveyID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var survey model.SurveyModel
		if err := withRowLock(tx).First(&survey, "survey_id = ?", surveyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSurveyNotFound
			}
			return err
		}

		ok, err := IsOwner(tx, userID, surveyID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotOwner
		}

		if err := tx.
			Where("user_survey_survey_id = ?", surveyID).
			Delete(&model.UserSurveyModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&survey).Error
	})
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
