package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    string    `json:"duration"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Module struct {
	ID        uuid.UUID `json:"id"`
	CourseID  uuid.UUID `json:"course_id"`
	Title     string    `json:"title"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Lesson order is unique across the whole course, not just within its
// module; the enrollment progress array stores these values.
type Lesson struct {
	ID        uuid.UUID `json:"id"`
	CourseID  uuid.UUID `json:"course_id"`
	ModuleID  uuid.UUID `json:"module_id"`
	Title     string    `json:"title"`
	Order     int       `json:"order"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ModuleContent is one module with its ordered lessons and optional quiz.
type ModuleContent struct {
	Module  Module   `json:"module"`
	Lessons []Lesson `json:"lessons"`
	Quiz    *Quiz    `json:"quiz,omitempty"`
}

// CourseContent is the full read-only graph the progression engine runs on:
// modules ordered by position, each with its lessons ordered by position,
// plus the course final quiz when one is defined.
type CourseContent struct {
	Course    Course          `json:"course"`
	Modules   []ModuleContent `json:"modules"`
	FinalQuiz *Quiz           `json:"final_quiz,omitempty"`
}

// TotalLessons counts lessons across every module of the course.
func (c CourseContent) TotalLessons() int {
	n := 0
	for _, m := range c.Modules {
		n += len(m.Lessons)
	}
	return n
}

// QuizByID looks a quiz up among the module quizzes and the final quiz.
func (c CourseContent) QuizByID(id uuid.UUID) *Quiz {
	for _, m := range c.Modules {
		if m.Quiz != nil && m.Quiz.ID == id {
			return m.Quiz
		}
	}
	if c.FinalQuiz != nil && c.FinalQuiz.ID == id {
		return c.FinalQuiz
	}
	return nil
}

// LessonByID returns the lesson and its owning module content.
func (c CourseContent) LessonByID(id uuid.UUID) (*Lesson, *ModuleContent) {
	for i := range c.Modules {
		for j := range c.Modules[i].Lessons {
			if c.Modules[i].Lessons[j].ID == id {
				return &c.Modules[i].Lessons[j], &c.Modules[i]
			}
		}
	}
	return nil, nil
}
