package dto

import (
	"testing"
	"time"

	model "surveyku_backend/internals/features/surveys/survey/model"
)

func validCreateRequest() CreateSurveyRequest {
	return CreateSurveyRequest{
		SurveyQuestion:      "Test survey",
		SurveyAnswers:       []string{"1", "2"},
		SurveyFinishingDate: time.Now().Add(24 * time.Hour),
	}
}

func TestCreateSurveyRequestValidate(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		req := validCreateRequest()
		if err := req.Validate(); err != nil {
			t.Errorf("Validate() err = %v, want nil", err)
		}
	})

	t.Run("duplicate answers rejected", func(t *testing.T) {
		req := validCreateRequest()
		req.SurveyAnswers = []string{"1", "1"}
		if err := req.Validate(); err == nil {
			t.Error("expected error for duplicate answers, got nil")
		}
	})

	t.Run("blank answer rejected", func(t *testing.T) {
		req := validCreateRequest()
		req.SurveyAnswers = []string{"1", "   "}
		if err := req.Validate(); err == nil {
			t.Error("expected error for blank answer, got nil")
		}
	})

	t.Run("empty answers rejected", func(t *testing.T) {
		req := validCreateRequest()
		req.SurveyAnswers = nil
		if err := req.Validate(); err == nil {
			t.Error("expected error for missing answers, got nil")
		}
	})

	t.Run("missing question rejected", func(t *testing.T) {
		req := validCreateRequest()
		req.SurveyQuestion = ""
		if err := req.Validate(); err == nil {
			t.Error("expected error for missing question, got nil")
		}
	})
}

func TestCreateSurveyRequestToModel(t *testing.T) {
	req := validCreateRequest()
	m := req.ToModel()

	if m.SurveyQuestion != "Test survey" {
		t.Errorf("question = %q", m.SurveyQuestion)
	}
	if len(m.SurveyAnswers) != 2 {
		t.Fatalf("tally has %d keys, want 2", len(m.SurveyAnswers))
	}
	for _, label := range req.SurveyAnswers {
		if m.AnswerCount(label) != 0 {
			t.Errorf("label %q seeded to %d, want 0", label, m.AnswerCount(label))
		}
	}
	if m.SurveyIsFinished {
		t.Error("new survey must not be finished")
	}
}

func TestFromModel(t *testing.T) {
	m := &model.SurveyModel{
		SurveyQuestion: "q",
		SurveyAnswers:  map[string]any{"a": float64(2), "b": 0},
	}
	resp := FromModel(m)
	if resp.SurveyAnswers["a"] != 2 || resp.SurveyAnswers["b"] != 0 {
		t.Errorf("answers = %v, want a:2 b:0", resp.SurveyAnswers)
	}
}

func TestVoteRequestValidate(t *testing.T) {
	if err := (&VoteRequest{VotedAnswer: "1"}).Validate(); err != nil {
		t.Errorf("valid vote rejected: %v", err)
	}
	if err := (&VoteRequest{}).Validate(); err == nil {
		t.Error("expected error for empty voted_answer, got nil")
	}
}
