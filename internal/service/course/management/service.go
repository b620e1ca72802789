package management

import (
	"context"
	"strings"

	"certifree/internal/app_errors"
	"certifree/internal/models"
	"certifree/pkg/logger"

	"github.com/google/uuid"
)

type courseRepo interface {
	CreateCourse(ctx context.Context, course models.Course) (*models.Course, error)
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	CourseContent(ctx context.Context, courseID uuid.UUID) (models.CourseContent, error)
	CreateModule(ctx context.Context, module models.Module) (*models.Module, error)
	CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error)
	DeleteLessonAndUpdateOrder(ctx context.Context, lessonID, courseID uuid.UUID, lessonOrder int) error
	DeleteModuleAndUpdateOrder(ctx context.Context, moduleID, courseID uuid.UUID, moduleOrder int) error
	CreateQuiz(ctx context.Context, quiz models.Quiz) (*models.Quiz, error)
	CreateQuestion(ctx context.Context, question models.QuizQuestion) (*models.QuizQuestion, error)
}

type CourseManagementService struct {
	log        logger.Log
	courseRepo courseRepo
}

func NewCourseManagementService(log logger.Log, c courseRepo) *CourseManagementService {
	return &CourseManagementService{log: log, courseRepo: c}
}

func (s *CourseManagementService) CreateCourse(ctx context.Context, course models.Course) (*models.Course, error) {
	return s.courseRepo.CreateCourse(ctx, course)
}

func (s *CourseManagementService) CourseContent(ctx context.Context, courseID uuid.UUID) (models.CourseContent, error) {
	return s.courseRepo.CourseContent(ctx, courseID)
}

func (s *CourseManagementService) CreateModule(ctx context.Context, module models.Module) (*models.Module, error) {
	if _, err := s.courseRepo.CourseByID(ctx, module.CourseID); err != nil {
		return nil, err
	}
	content, err := s.courseRepo.CourseContent(ctx, module.CourseID)
	if err != nil {
		return nil, err
	}
	if module.Order < 1 || module.Order > len(content.Modules)+1 {
		module.Order = len(content.Modules) + 1
	}
	return s.courseRepo.CreateModule(ctx, module)
}

func (s *CourseManagementService) CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error) {
	content, err := s.courseRepo.CourseContent(ctx, lesson.CourseID)
	if err != nil {
		return nil, err
	}
	var owner *models.ModuleContent
	for i := range content.Modules {
		if content.Modules[i].Module.ID == lesson.ModuleID {
			owner = &content.Modules[i]
			break
		}
	}
	if owner == nil {
		return nil, app_errors.ErrModuleNotFound
	}
	if lesson.Order < 1 || lesson.Order > content.TotalLessons()+1 {
		lesson.Order = content.TotalLessons() + 1
	}
	return s.courseRepo.CreateLesson(ctx, lesson)
}

func (s *CourseManagementService) DeleteLesson(ctx context.Context, courseID, lessonID uuid.UUID) error {
	content, err := s.courseRepo.CourseContent(ctx, courseID)
	if err != nil {
		return err
	}
	lesson, _ := content.LessonByID(lessonID)
	if lesson == nil {
		return app_errors.ErrLessonNotFound
	}
	return s.courseRepo.DeleteLessonAndUpdateOrder(ctx, lessonID, courseID, lesson.Order)
}

func (s *CourseManagementService) DeleteModule(ctx context.Context, courseID, moduleID uuid.UUID) error {
	content, err := s.courseRepo.CourseContent(ctx, courseID)
	if err != nil {
		return err
	}
	for _, m := range content.Modules {
		if m.Module.ID == moduleID {
			return s.courseRepo.DeleteModuleAndUpdateOrder(ctx, moduleID, courseID, m.Module.Order)
		}
	}
	return app_errors.ErrModuleNotFound
}

// CreateQuiz attaches either a module quiz or the course final quiz.
// At most one of each exists; the unique index backs this up.
func (s *CourseManagementService) CreateQuiz(ctx context.Context, quiz models.Quiz) (*models.Quiz, error) {
	content, err := s.courseRepo.CourseContent(ctx, quiz.CourseID)
	if err != nil {
		return nil, err
	}

	switch quiz.Kind {
	case models.QuizKindFinal:
		if content.FinalQuiz != nil {
			return nil, app_errors.ErrFinalQuizExists
		}
		quiz.ModuleID = nil
	case models.QuizKindModule:
		if quiz.ModuleID == nil {
			return nil, app_errors.ErrModuleNotFound
		}
		found := false
		for _, m := range content.Modules {
			if m.Module.ID == *quiz.ModuleID {
				if m.Quiz != nil {
					return nil, app_errors.ErrModuleQuizExists
				}
				found = true
				break
			}
		}
		if !found {
			return nil, app_errors.ErrModuleNotFound
		}
	default:
		return nil, app_errors.ErrQuizNotFound
	}

	if quiz.PassPercentage < 0 || quiz.PassPercentage > 100 {
		quiz.PassPercentage = 100
	}
	return s.courseRepo.CreateQuiz(ctx, quiz)
}

func (s *CourseManagementService) CreateQuestion(ctx context.Context, courseID uuid.UUID, question models.QuizQuestion) (*models.QuizQuestion, error) {
	content, err := s.courseRepo.CourseContent(ctx, courseID)
	if err != nil {
		return nil, err
	}
	quiz := content.QuizByID(question.QuizID)
	if quiz == nil {
		return nil, app_errors.ErrQuizNotFound
	}

	if err := validateQuestion(&question); err != nil {
		return nil, err
	}
	if question.Order < 1 {
		question.Order = len(quiz.Questions) + 1
	}
	return s.courseRepo.CreateQuestion(ctx, question)
}

func validateQuestion(q *models.QuizQuestion) error {
	q.Prompt = strings.TrimSpace(q.Prompt)
	q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)
	if q.Prompt == "" || q.CorrectAnswer == "" {
		return app_errors.ErrInvalidQuestion
	}

	switch q.Type {
	case models.QuestionTypeMultipleChoice:
		if len(q.Options) < 2 {
			return app_errors.ErrInvalidQuestion
		}
		found := false
		for _, o := range q.Options {
			if o == q.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return app_errors.ErrInvalidQuestion
		}
	case models.QuestionTypeTrueFalse:
		q.Options = []string{"true", "false"}
		if q.CorrectAnswer != "true" && q.CorrectAnswer != "false" {
			return app_errors.ErrInvalidQuestion
		}
	case models.QuestionTypeShortAnswer:
		q.Options = nil
	default:
		return app_errors.ErrInvalidQuestion
	}
	return nil
}
