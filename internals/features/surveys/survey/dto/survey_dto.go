package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	model "surveyku_backend/internals/features/surveys/survey/model"
)

var validate = validator.New()

/* ===============================
   Requests
=================================*/

type CreateSurveyRequest struct {
	SurveyQuestion      string    `json:"survey_question" validate:"required,max=50"`
	SurveyAnswers       []string  `json:"survey_answers" validate:"required,min=1,dive,required,max=80"`
	SurveyFinishingDate time.Time `json:"survey_finishing_date" validate:"required"`
}

// Validate: aturan field + jawaban harus unik & tidak kosong (setelah trim).
func (r *CreateSurveyRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(r.SurveyAnswers))
	for _, answer := range r.SurveyAnswers {
		if strings.TrimSpace(answer) == "" {
			return errors.New("The answers must not be empty!")
		}
		if _, dup := seen[answer]; dup {
			return errors.New("The answers must be unique!")
		}
		seen[answer] = struct{}{}
	}
	return nil
}

func (r *CreateSurveyRequest) ToModel() *model.SurveyModel {
	return &model.SurveyModel{
		SurveyQuestion:      strings.TrimSpace(r.SurveyQuestion),
		SurveyAnswers:       model.SeedAnswers(r.SurveyAnswers),
		SurveyFinishingDate: r.SurveyFinishingDate,
	}
}

// EditSurveyRequest: partial update — hanya finishing date & flag finish.
// Question dan answers immutable setelah create.
type EditSurveyRequest struct {
	SurveyFinishingDate *time.Time `json:"survey_finishing_date"`
	SurveyIsFinished    *bool      `json:"survey_is_finished"`
}

type VoteRequest struct {
	VotedAnswer string `json:"voted_answer" validate:"required"`
}

func (r *VoteRequest) Validate() error {
	return validate.Struct(r)
}

/* ===============================
   Responses
=================================*/

type SurveyListItem struct {
	SurveyID       uuid.UUID `json:"survey_id"`
	SurveyQuestion string    `json:"survey_question"`
}

type SurveyResponse struct {
	SurveyID            uuid.UUID      `json:"survey_id"`
	SurveyQuestion      string         `json:"survey_question"`
	SurveyAnswers       map[string]int `json:"survey_answers"`
	SurveyFinishingDate time.Time      `json:"survey_finishing_date"`
	SurveyIsFinished    bool           `json:"survey_is_finished"`
}

func FromModel(s *model.SurveyModel) SurveyResponse {
	answers := make(map[string]int, len(s.SurveyAnswers))
	for label := range s.SurveyAnswers {
		answers[label] = s.AnswerCount(label)
	}
	return SurveyResponse{
		SurveyID:            s.SurveyID,
		SurveyQuestion:      s.SurveyQuestion,
		SurveyAnswers:       answers,
		SurveyFinishingDate: s.SurveyFinishingDate,
		SurveyIsFinished:    s.SurveyIsFinished,
	}
}

func FromModelList(surveys []model.SurveyModel) []SurveyListItem {
	items := make([]SurveyListItem, 0, len(surveys))
	for i := range surveys {
		items = append(items, SurveyListItem{
			SurveyID:       surveys[i].SurveyID,
			SurveyQuestion: surveys[i].SurveyQuestion,
		})
	}
	return items
}
