package content

import (
	"context"

	"certifree/internal/models"
	"certifree/internal/service/course/progression"
	"certifree/pkg/logger"

	"github.com/google/uuid"
)

type contentRepo interface {
	CourseContent(ctx context.Context, courseID uuid.UUID) (models.CourseContent, error)
}

type enrollmentRepo interface {
	ByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error)
}

// QuizView is a quiz stripped of answer keys. Learners only ever see
// quizzes through it; grading happens server side.
type QuizView struct {
	ID             uuid.UUID          `json:"id"`
	Kind           string             `json:"kind"`
	Title          string             `json:"title"`
	PassPercentage float64            `json:"pass_percentage"`
	Questions      []QuizQuestionView `json:"questions"`
}

type QuizQuestionView struct {
	ID      uuid.UUID `json:"id"`
	Type    string    `json:"type"`
	Prompt  string    `json:"prompt"`
	Options []string  `json:"options,omitempty"`
	Order   int       `json:"order"`
}

type ModuleView struct {
	Module     models.Module   `json:"module"`
	Lessons    []models.Lesson `json:"lessons"`
	Quiz       *QuizView       `json:"quiz,omitempty"`
	Locked     bool            `json:"locked"`
	QuizLocked bool            `json:"quiz_locked"`
	Completed  bool            `json:"completed"`
}

// CourseContentView is the course as one learner sees it: every module
// annotated with its lock state, lesson bodies blanked while the module
// is locked.
type CourseContentView struct {
	Course          models.Course `json:"course"`
	Modules         []ModuleView  `json:"modules"`
	FinalQuiz       *QuizView     `json:"final_quiz,omitempty"`
	FinalQuizLocked bool          `json:"final_quiz_locked"`
}

type ContentService struct {
	log            logger.Log
	contentRepo    contentRepo
	enrollmentRepo enrollmentRepo
}

func NewContentService(log logger.Log, c contentRepo, e enrollmentRepo) *ContentService {
	return &ContentService{log: log, contentRepo: c, enrollmentRepo: e}
}

// Outline returns the course structure without lesson bodies or quiz
// questions. It needs no enrollment.
func (s *ContentService) Outline(ctx context.Context, courseID uuid.UUID) (*CourseContentView, error) {
	content, err := s.contentRepo.CourseContent(ctx, courseID)
	if err != nil {
		return nil, err
	}
	view := buildView(content, models.Enrollment{})
	for i := range view.Modules {
		view.Modules[i].Locked = i > 0
		view.Modules[i].QuizLocked = true
		view.Modules[i].Completed = false
		blankLessons(view.Modules[i].Lessons)
		view.Modules[i].Quiz = trimQuestions(view.Modules[i].Quiz)
	}
	view.FinalQuizLocked = view.FinalQuiz != nil
	view.FinalQuiz = trimQuestions(view.FinalQuiz)
	return &view, nil
}

// ContentFor returns the full learner view for an enrolled user.
func (s *ContentService) ContentFor(ctx context.Context, userID, courseID uuid.UUID) (*CourseContentView, error) {
	content, err := s.contentRepo.CourseContent(ctx, courseID)
	if err != nil {
		return nil, err
	}
	enrollment, err := s.enrollmentRepo.ByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	view := buildView(content, *enrollment)
	return &view, nil
}

func buildView(content models.CourseContent, enrollment models.Enrollment) CourseContentView {
	locks := progression.Locks(content, enrollment)

	view := CourseContentView{
		Course:          content.Course,
		Modules:         make([]ModuleView, 0, len(content.Modules)),
		FinalQuizLocked: locks.FinalQuizLocked,
	}
	for i, m := range content.Modules {
		mv := ModuleView{
			Module:     m.Module,
			Lessons:    append([]models.Lesson(nil), m.Lessons...),
			Quiz:       sanitizeQuiz(m.Quiz),
			Locked:     locks.Modules[i].Locked,
			QuizLocked: locks.Modules[i].QuizLocked,
			Completed:  locks.Modules[i].Completed,
		}
		if mv.Locked {
			blankLessons(mv.Lessons)
		}
		view.Modules = append(view.Modules, mv)
	}
	view.FinalQuiz = sanitizeQuiz(content.FinalQuiz)
	return view
}

func sanitizeQuiz(quiz *models.Quiz) *QuizView {
	if quiz == nil {
		return nil
	}
	view := QuizView{
		ID:             quiz.ID,
		Kind:           quiz.Kind,
		Title:          quiz.Title,
		PassPercentage: quiz.PassPercentage,
		Questions:      make([]QuizQuestionView, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		view.Questions = append(view.Questions, QuizQuestionView{
			ID:      q.ID,
			Type:    q.Type,
			Prompt:  q.Prompt,
			Options: q.Options,
			Order:   q.Order,
		})
	}
	return &view
}

func blankLessons(lessons []models.Lesson) {
	for i := range lessons {
		lessons[i].Content = ""
	}
}

func trimQuestions(quiz *QuizView) *QuizView {
	if quiz == nil {
		return nil
	}
	quiz.Questions = nil
	return quiz
}
