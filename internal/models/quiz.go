package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	QuizKindModule = "module_quiz"
	QuizKindFinal  = "final_quiz"

	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeShortAnswer    = "short_answer"
)

type Quiz struct {
	ID             uuid.UUID      `json:"id"`
	CourseID       uuid.UUID      `json:"course_id"`
	ModuleID       *uuid.UUID     `json:"module_id,omitempty"`
	Kind           string         `json:"kind"`
	Title          string         `json:"title"`
	PassPercentage float64        `json:"pass_percentage"`
	Questions      []QuizQuestion `json:"questions"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type QuizQuestion struct {
	ID            uuid.UUID `json:"id"`
	QuizID        uuid.UUID `json:"quiz_id"`
	Type          string    `json:"type"`
	Prompt        string    `json:"prompt"`
	Options       []string  `json:"options,omitempty"`
	CorrectAnswer string    `json:"correct_answer"`
	Explanation   string    `json:"explanation"`
	Order         int       `json:"order"`
}

// QuizAttempt is the immutable record of one grading event. Attempt
// numbers are 1-based and strictly increasing per user per quiz.
type QuizAttempt struct {
	ID              uuid.UUID            `json:"id"`
	UserID          uuid.UUID            `json:"user_id"`
	QuizID          uuid.UUID            `json:"quiz_id"`
	ScorePercentage float64              `json:"score_percentage"`
	Passed          bool                 `json:"passed"`
	AttemptNumber   int                  `json:"attempt_number"`
	Answers         map[uuid.UUID]string `json:"answers"`
	CreatedAt       time.Time            `json:"created_at"`
}
