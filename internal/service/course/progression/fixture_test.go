package progression

import (
	"certifree/internal/models"

	"github.com/google/uuid"
)

// buildCourse assembles a course graph for tests. Each entry of
// lessonsPerModule adds a module in order; withQuiz marks which modules
// carry a quiz. Lesson orders are assigned course-wide starting at 1.
func buildCourse(lessonsPerModule []int, withQuiz []bool, passPct float64, questionsPerQuiz int, finalQuiz bool) models.CourseContent {
	courseID := uuid.New()
	content := models.CourseContent{
		Course: models.Course{ID: courseID, Title: "test course"},
	}

	lessonOrder := 0
	for i, count := range lessonsPerModule {
		moduleID := uuid.New()
		mc := models.ModuleContent{
			Module: models.Module{ID: moduleID, CourseID: courseID, Order: i + 1},
		}
		for j := 0; j < count; j++ {
			lessonOrder++
			mc.Lessons = append(mc.Lessons, models.Lesson{
				ID:       uuid.New(),
				CourseID: courseID,
				ModuleID: moduleID,
				Order:    lessonOrder,
			})
		}
		if withQuiz[i] {
			mc.Quiz = buildQuiz(courseID, &moduleID, models.QuizKindModule, passPct, questionsPerQuiz)
		}
		content.Modules = append(content.Modules, mc)
	}

	if finalQuiz {
		content.FinalQuiz = buildQuiz(courseID, nil, models.QuizKindFinal, 100, 1)
	}
	return content
}

func buildQuiz(courseID uuid.UUID, moduleID *uuid.UUID, kind string, passPct float64, questions int) *models.Quiz {
	q := &models.Quiz{
		ID:             uuid.New(),
		CourseID:       courseID,
		ModuleID:       moduleID,
		Kind:           kind,
		PassPercentage: passPct,
	}
	for i := 0; i < questions; i++ {
		q.Questions = append(q.Questions, models.QuizQuestion{
			ID:            uuid.New(),
			QuizID:        q.ID,
			Type:          models.QuestionTypeMultipleChoice,
			Options:       []string{"a", "b", "c"},
			CorrectAnswer: "a",
			Order:         i + 1,
		})
	}
	return q
}

// enrolled returns a fresh enrollment snapshot for the course.
func enrolled(c models.CourseContent) models.Enrollment {
	return models.Enrollment{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		CourseID: c.Course.ID,
	}
}

// completeLessons marks every lesson of the module index done.
func completeLessons(c models.CourseContent, e models.Enrollment, moduleIdx int) models.Enrollment {
	out := e.Clone()
	for _, l := range c.Modules[moduleIdx].Lessons {
		if !out.HasLesson(l.Order) {
			out.ProgressArray = append(out.ProgressArray, l.Order)
		}
	}
	return out
}

// passQuiz adds the quiz id to the passed set.
func passQuiz(e models.Enrollment, id uuid.UUID) models.Enrollment {
	out := e.Clone()
	out.PassedQuizzes = append(out.PassedQuizzes, id)
	return out
}

// correctAnswers builds a fully correct submission for the quiz.
func correctAnswers(q *models.Quiz) map[uuid.UUID]string {
	answers := make(map[uuid.UUID]string, len(q.Questions))
	for _, question := range q.Questions {
		answers[question.ID] = question.CorrectAnswer
	}
	return answers
}
