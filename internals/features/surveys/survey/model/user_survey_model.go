package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "surveyku_backend/internals/features/users/user/model"
)

// UserSurveyModel adalah junction (user, survey): pasangan unik.
// is_owner hanya di-set true saat create survei (satu entry per survei),
// is_voted di-set true saat user berhasil vote dan tidak pernah di-reset.
type UserSurveyModel struct {
	UserSurveyID       uuid.UUID `gorm:"column:user_survey_id;type:uuid;primaryKey" json:"user_survey_id"`
	UserSurveyUserID   uuid.UUID `gorm:"column:user_survey_user_id;type:uuid;not null;uniqueIndex:uq_user_survey_pair" json:"user_survey_user_id"`
	UserSurveySurveyID uuid.UUID `gorm:"column:user_survey_survey_id;type:uuid;not null;uniqueIndex:uq_user_survey_pair;index" json:"user_survey_survey_id"`
	UserSurveyIsOwner  bool      `gorm:"column:user_survey_is_owner;not null;default:false" json:"user_survey_is_owner"`
	UserSurveyIsVoted  bool      `gorm:"column:user_survey_is_voted;not null;default:false" json:"user_survey_is_voted"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relasi: hapus user / survei ikut menghapus entry ledger-nya
	User   *userModel.UserModel `gorm:"foreignKey:UserSurveyUserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Survey *SurveyModel         `gorm:"foreignKey:UserSurveySurveyID;references:SurveyID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserSurveyModel) TableName() string {
	return "user_surveys"
}

func (us *UserSurveyModel) BeforeCreate(tx *gorm.DB) error {
	if us.UserSurveyID == uuid.Nil {
		us.UserSurveyID = uuid.New()
	}
	return nil
}
