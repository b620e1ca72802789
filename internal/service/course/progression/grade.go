package progression

import (
	"strings"

	"certifree/internal/app_errors"
	"certifree/internal/models"

	"github.com/google/uuid"
)

// GradeResult is the outcome of grading one submission.
type GradeResult struct {
	ScorePercentage float64
	CorrectCount    int
	TotalQuestions  int
	Passed          bool
}

// Grade scores a submitted answer map against the quiz questions.
// Choice and true/false questions require an exact match; short answers
// are compared case-folded and trimmed. A quiz with no questions cannot
// be graded.
func Grade(quiz models.Quiz, answers map[uuid.UUID]string) (GradeResult, error) {
	total := len(quiz.Questions)
	if total == 0 {
		return GradeResult{}, app_errors.ErrQuizEmpty
	}

	correct := 0
	for _, q := range quiz.Questions {
		submitted, ok := answers[q.ID]
		if !ok {
			continue
		}
		if answerCorrect(q, submitted) {
			correct++
		}
	}

	score := float64(correct) / float64(total) * 100
	return GradeResult{
		ScorePercentage: score,
		CorrectCount:    correct,
		TotalQuestions:  total,
		Passed:          score >= quiz.PassPercentage,
	}, nil
}

func answerCorrect(q models.QuizQuestion, submitted string) bool {
	switch q.Type {
	case models.QuestionTypeShortAnswer:
		return normalizeAnswer(submitted) == normalizeAnswer(q.CorrectAnswer)
	default:
		return submitted == q.CorrectAnswer
	}
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
