package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SurveyModel merepresentasikan tabel surveys.
// SurveyAnswers adalah tally jsonb: label jawaban → jumlah suara.
// Set label ditentukan saat create dan tidak pernah berubah setelahnya.
type SurveyModel struct {
	SurveyID            uuid.UUID         `gorm:"column:survey_id;type:uuid;primaryKey" json:"survey_id"`
	SurveyQuestion      string            `gorm:"column:survey_question;size:50;not null" json:"survey_question"`
	SurveyAnswers       datatypes.JSONMap `gorm:"column:survey_answers;not null" json:"survey_answers"`
	SurveyFinishingDate time.Time         `gorm:"column:survey_finishing_date;not null" json:"survey_finishing_date"`
	SurveyIsFinished    bool              `gorm:"column:survey_is_finished;not null;default:false" json:"survey_is_finished"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SurveyModel) TableName() string {
	return "surveys"
}

func (s *SurveyModel) BeforeCreate(tx *gorm.DB) error {
	if s.SurveyID == uuid.Nil {
		s.SurveyID = uuid.New()
	}
	return nil
}

// CanVote: survei masih menerima suara selama belum di-finish
// dan finishing date masih di depan.
func (s *SurveyModel) CanVote() bool {
	return !s.SurveyIsFinished && s.SurveyFinishingDate.After(time.Now())
}

// SeedAnswers membangun tally awal: setiap label mulai dari 0.
func SeedAnswers(labels []string) datatypes.JSONMap {
	answers := make(datatypes.JSONMap, len(labels))
	for _, label := range labels {
		answers[label] = 0
	}
	return answers
}

// HasAnswer: label harus salah satu key tally (key set tetap sejak create).
func (s *SurveyModel) HasAnswer(label string) bool {
	_, ok := s.SurveyAnswers[label]
	return ok
}

// AnswerCount membaca satu counter. jsonb pulang dari DB sebagai float64.
func (s *SurveyModel) AnswerCount(label string) int {
	return coerceCount(s.SurveyAnswers[label])
}

// IncrementAnswer menambah satu counter tepat +1.
func (s *SurveyModel) IncrementAnswer(label string) error {
	raw, ok := s.SurveyAnswers[label]
	if !ok {
		return fmt.Errorf("label %q bukan jawaban survei ini", label)
	}
	s.SurveyAnswers[label] = coerceCount(raw) + 1
	return nil
}

// TotalVotes = jumlah semua counter (== jumlah user dengan is_voted).
func (s *SurveyModel) TotalVotes() int {
	total := 0
	for _, v := range s.SurveyAnswers {
		total += coerceCount(v)
	}
	return total
}

func coerceCount(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case json.Number:
		n, _ := t.Int64()
		return int(n)
	default:
		return 0
	}
}
