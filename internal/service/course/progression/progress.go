package progression

import (
	"math"

	"certifree/internal/models"
)

const (
	lessonWeight     = 0.7
	moduleQuizWeight = 0.3
)

// Overall computes the 0..100 progress value for the snapshot. Lesson
// completion weighs 70%, module-quiz completion 30%. The value is pinned
// to 99 while the course final quiz exists and is unpassed, so nothing
// downstream treats the learner as done before the gating quiz.
func Overall(c models.CourseContent, e models.Enrollment) int {
	overall := int(math.Round((lessonShare(c, e)*lessonWeight + moduleQuizShare(c, e)*moduleQuizWeight) * 100))
	if overall == 100 && c.FinalQuiz != nil && !e.HasPassedQuiz(c.FinalQuiz.ID) {
		return 99
	}
	return overall
}

// lessonShare is the fraction of course lessons marked complete. Only
// orders that belong to a real lesson count, so stale entries in the
// progress array cannot inflate the value.
func lessonShare(c models.CourseContent, e models.Enrollment) float64 {
	total := c.TotalLessons()
	if total == 0 {
		return 1
	}
	done := 0
	for _, m := range c.Modules {
		for _, l := range m.Lessons {
			if e.HasLesson(l.Order) {
				done++
			}
		}
	}
	return float64(done) / float64(total)
}

// moduleQuizShare is the fraction of modules whose quiz is passed, with
// quizless modules counting as passed.
func moduleQuizShare(c models.CourseContent, e models.Enrollment) float64 {
	total := len(c.Modules)
	if total == 0 {
		return 1
	}
	passed := 0
	for _, m := range c.Modules {
		if m.Quiz == nil || e.HasPassedQuiz(m.Quiz.ID) {
			passed++
		}
	}
	return float64(passed) / float64(total)
}
