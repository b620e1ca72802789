package models

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment is the progression snapshot for one (user, course) pair.
// Every mutation replaces the whole snapshot; nothing patches it in place.
type Enrollment struct {
	ID                    uuid.UUID   `json:"id"`
	UserID                uuid.UUID   `json:"user_id"`
	CourseID              uuid.UUID   `json:"course_id"`
	Progress              int         `json:"progress"`
	ProgressArray         []int       `json:"progress_array"`
	CompletedModulesCount int         `json:"completed_modules_count"`
	PassedQuizzes         []uuid.UUID `json:"passed_quizzes"`
	CompletedAt           *time.Time  `json:"completed_at,omitempty"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

// HasLesson reports whether the lesson order is marked complete.
func (e Enrollment) HasLesson(order int) bool {
	for _, o := range e.ProgressArray {
		if o == order {
			return true
		}
	}
	return false
}

// HasPassedQuiz reports whether the quiz id is in the passed set.
func (e Enrollment) HasPassedQuiz(id uuid.UUID) bool {
	for _, q := range e.PassedQuizzes {
		if q == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so a transition never aliases the slices of
// the snapshot it was derived from.
func (e Enrollment) Clone() Enrollment {
	out := e
	out.ProgressArray = append([]int(nil), e.ProgressArray...)
	out.PassedQuizzes = append([]uuid.UUID(nil), e.PassedQuizzes...)
	if e.CompletedAt != nil {
		t := *e.CompletedAt
		out.CompletedAt = &t
	}
	return out
}
