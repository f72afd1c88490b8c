package model

import (
	"testing"
	"time"
)

func TestCanVote(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	tests := []struct {
		name       string
		isFinished bool
		finishing  time.Time
		want       bool
	}{
		{"open survey, future deadline", false, future, true},
		{"finished flag set", true, future, false},
		{"deadline passed", false, past, false},
		{"finished and passed", true, past, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SurveyModel{
				SurveyIsFinished:    tt.isFinished,
				SurveyFinishingDate: tt.finishing,
			}
			if got := s.CanVote(); got != tt.want {
				t.Errorf("CanVote() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeedAnswers(t *testing.T) {
	answers := SeedAnswers([]string{"1", "2", "3"})
	if len(answers) != 3 {
		t.Fatalf("expected 3 labels, got %d", len(answers))
	}
	s := SurveyModel{SurveyAnswers: answers}
	for _, label := range []string{"1", "2", "3"} {
		if !s.HasAnswer(label) {
			t.Errorf("label %q missing from seeded answers", label)
		}
		if got := s.AnswerCount(label); got != 0 {
			t.Errorf("seeded count for %q = %d, want 0", label, got)
		}
	}
}

func TestIncrementAnswer(t *testing.T) {
	s := SurveyModel{SurveyAnswers: SeedAnswers([]string{"a", "b"})}

	if err := s.IncrementAnswer("a"); err != nil {
		t.Fatalf("IncrementAnswer(a) err = %v", err)
	}
	if got := s.AnswerCount("a"); got != 1 {
		t.Errorf("count a = %d, want 1", got)
	}
	if got := s.AnswerCount("b"); got != 0 {
		t.Errorf("count b = %d, want 0", got)
	}
	if got := s.TotalVotes(); got != 1 {
		t.Errorf("TotalVotes = %d, want 1", got)
	}

	if err := s.IncrementAnswer("zzz"); err == nil {
		t.Error("expected error for unknown label, got nil")
	}
	// key set tidak boleh berubah
	if len(s.SurveyAnswers) != 2 {
		t.Errorf("tally keys changed: %d labels, want 2", len(s.SurveyAnswers))
	}
}

func TestAnswerCountCoercion(t *testing.T) {
	// jsonb kembali dari DB sebagai float64, bukan int
	s := SurveyModel{SurveyAnswers: map[string]any{"x": float64(7)}}
	if got := s.AnswerCount("x"); got != 7 {
		t.Errorf("count x = %d, want 7", got)
	}
	if err := s.IncrementAnswer("x"); err != nil {
		t.Fatalf("IncrementAnswer err = %v", err)
	}
	if got := s.AnswerCount("x"); got != 8 {
		t.Errorf("count x after increment = %d, want 8", got)
	}
}
