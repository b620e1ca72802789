package progression

import (
	"errors"
	"testing"

	"certifree/internal/app_errors"
	"certifree/internal/models"

	"github.com/google/uuid"
)

func TestGradeEmptyQuizRejected(t *testing.T) {
	quiz := models.Quiz{ID: uuid.New(), PassPercentage: 50}
	_, err := Grade(quiz, map[uuid.UUID]string{})
	if !errors.Is(err, app_errors.ErrQuizEmpty) {
		t.Fatalf("expected ErrQuizEmpty, got %v", err)
	}
}

func TestGradeShortAnswerNormalization(t *testing.T) {
	question := models.QuizQuestion{
		ID:            uuid.New(),
		Type:          models.QuestionTypeShortAnswer,
		CorrectAnswer: "Paris",
	}
	quiz := models.Quiz{ID: uuid.New(), PassPercentage: 100, Questions: []models.QuizQuestion{question}}

	testCases := []struct {
		name      string
		submitted string
		passed    bool
	}{
		{"exact", "Paris", true},
		{"lowercase", "paris", true},
		{"surrounding whitespace", "  Paris  ", true},
		{"both", " pArIs ", true},
		{"wrong", "London", false},
		{"internal whitespace differs", "Pa ris", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Grade(quiz, map[uuid.UUID]string{question.ID: tc.submitted})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Passed != tc.passed {
				t.Errorf("submitted %q: expected passed=%v, got %v", tc.submitted, tc.passed, res.Passed)
			}
		})
	}
}

func TestGradeChoiceQuestionsExactMatch(t *testing.T) {
	mc := models.QuizQuestion{
		ID:            uuid.New(),
		Type:          models.QuestionTypeMultipleChoice,
		Options:       []string{"TCP", "UDP", "ICMP"},
		CorrectAnswer: "UDP",
	}
	tf := models.QuizQuestion{
		ID:            uuid.New(),
		Type:          models.QuestionTypeTrueFalse,
		CorrectAnswer: "true",
	}
	quiz := models.Quiz{ID: uuid.New(), PassPercentage: 100, Questions: []models.QuizQuestion{mc, tf}}

	res, err := Grade(quiz, map[uuid.UUID]string{mc.ID: "UDP", tf.ID: "true"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.CorrectCount != 2 || !res.Passed {
		t.Errorf("expected full score, got %+v", res)
	}

	// Case must not fold for choice questions.
	res, err = Grade(quiz, map[uuid.UUID]string{mc.ID: "udp", tf.ID: "True"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.CorrectCount != 0 {
		t.Errorf("choice answers must match exactly, got %d correct", res.CorrectCount)
	}
}

func TestGradeScoreAndThreshold(t *testing.T) {
	quiz := *buildQuiz(uuid.New(), nil, models.QuizKindModule, 80, 2)

	testCases := []struct {
		name    string
		correct int
		score   float64
		passed  bool
	}{
		{"none correct", 0, 0, false},
		{"half correct below threshold", 1, 50, false},
		{"all correct", 2, 100, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			answers := make(map[uuid.UUID]string)
			for i := 0; i < tc.correct; i++ {
				answers[quiz.Questions[i].ID] = quiz.Questions[i].CorrectAnswer
			}
			for i := tc.correct; i < len(quiz.Questions); i++ {
				answers[quiz.Questions[i].ID] = "b"
			}

			res, err := Grade(quiz, answers)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.ScorePercentage != tc.score {
				t.Errorf("expected score %.0f, got %.2f", tc.score, res.ScorePercentage)
			}
			if res.Passed != tc.passed {
				t.Errorf("expected passed=%v at score %.0f", tc.passed, tc.score)
			}
		})
	}
}

func TestGradePassAtExactThreshold(t *testing.T) {
	quiz := *buildQuiz(uuid.New(), nil, models.QuizKindModule, 50, 2)
	answers := map[uuid.UUID]string{quiz.Questions[0].ID: quiz.Questions[0].CorrectAnswer}

	res, err := Grade(quiz, answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Passed {
		t.Errorf("score equal to pass percentage must pass")
	}
}

func TestGradeUnansweredCountsWrong(t *testing.T) {
	quiz := *buildQuiz(uuid.New(), nil, models.QuizKindModule, 50, 2)

	res, err := Grade(quiz, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.CorrectCount != 0 || res.ScorePercentage != 0 {
		t.Errorf("missing answers must score zero, got %+v", res)
	}
}
