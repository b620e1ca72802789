package management

import (
	"context"
	"errors"
	"testing"

	"certifree/internal/app_errors"
	"certifree/internal/models"
	"certifree/pkg/logger"

	"github.com/google/uuid"
)

type fakeCourseRepo struct {
	content models.CourseContent

	createdQuizzes   []models.Quiz
	createdQuestions []models.QuizQuestion
	createdLessons   []models.Lesson
	deletedLessons   []uuid.UUID
	deletedModules   []uuid.UUID
}

func (f *fakeCourseRepo) CreateCourse(_ context.Context, course models.Course) (*models.Course, error) {
	course.ID = uuid.New()
	return &course, nil
}

func (f *fakeCourseRepo) CourseByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	if id != f.content.Course.ID {
		return nil, app_errors.ErrCourseNotFound
	}
	out := f.content.Course
	return &out, nil
}

func (f *fakeCourseRepo) CourseContent(_ context.Context, courseID uuid.UUID) (models.CourseContent, error) {
	if courseID != f.content.Course.ID {
		return models.CourseContent{}, app_errors.ErrCourseNotFound
	}
	return f.content, nil
}

func (f *fakeCourseRepo) CreateModule(_ context.Context, module models.Module) (*models.Module, error) {
	module.ID = uuid.New()
	return &module, nil
}

func (f *fakeCourseRepo) CreateLesson(_ context.Context, lesson models.Lesson) (*models.Lesson, error) {
	lesson.ID = uuid.New()
	f.createdLessons = append(f.createdLessons, lesson)
	return &lesson, nil
}

func (f *fakeCourseRepo) DeleteLessonAndUpdateOrder(_ context.Context, lessonID, courseID uuid.UUID, lessonOrder int) error {
	f.deletedLessons = append(f.deletedLessons, lessonID)
	return nil
}

func (f *fakeCourseRepo) DeleteModuleAndUpdateOrder(_ context.Context, moduleID, courseID uuid.UUID, moduleOrder int) error {
	f.deletedModules = append(f.deletedModules, moduleID)
	return nil
}

func (f *fakeCourseRepo) CreateQuiz(_ context.Context, quiz models.Quiz) (*models.Quiz, error) {
	quiz.ID = uuid.New()
	f.createdQuizzes = append(f.createdQuizzes, quiz)
	return &quiz, nil
}

func (f *fakeCourseRepo) CreateQuestion(_ context.Context, question models.QuizQuestion) (*models.QuizQuestion, error) {
	question.ID = uuid.New()
	f.createdQuestions = append(f.createdQuestions, question)
	return &question, nil
}

func courseWithOneModule() models.CourseContent {
	courseID := uuid.New()
	moduleID := uuid.New()
	return models.CourseContent{
		Course: models.Course{ID: courseID, Title: "go fundamentals"},
		Modules: []models.ModuleContent{
			{
				Module: models.Module{ID: moduleID, CourseID: courseID, Order: 1},
				Lessons: []models.Lesson{
					{ID: uuid.New(), CourseID: courseID, ModuleID: moduleID, Order: 1},
				},
			},
		},
	}
}

func newService(content models.CourseContent) (*CourseManagementService, *fakeCourseRepo) {
	repo := &fakeCourseRepo{content: content}
	return NewCourseManagementService(logger.New("local"), repo), repo
}

func TestCreateQuizRejectsSecondFinal(t *testing.T) {
	content := courseWithOneModule()
	content.FinalQuiz = &models.Quiz{ID: uuid.New(), CourseID: content.Course.ID, Kind: models.QuizKindFinal}
	svc, _ := newService(content)

	_, err := svc.CreateQuiz(context.Background(), models.Quiz{
		CourseID: content.Course.ID,
		Kind:     models.QuizKindFinal,
		Title:    "final",
	})
	if !errors.Is(err, app_errors.ErrFinalQuizExists) {
		t.Fatalf("expected ErrFinalQuizExists, got %v", err)
	}
}

func TestCreateQuizRejectsSecondModuleQuiz(t *testing.T) {
	content := courseWithOneModule()
	moduleID := content.Modules[0].Module.ID
	content.Modules[0].Quiz = &models.Quiz{ID: uuid.New(), CourseID: content.Course.ID, ModuleID: &moduleID, Kind: models.QuizKindModule}
	svc, _ := newService(content)

	_, err := svc.CreateQuiz(context.Background(), models.Quiz{
		CourseID: content.Course.ID,
		ModuleID: &moduleID,
		Kind:     models.QuizKindModule,
		Title:    "checkpoint",
	})
	if !errors.Is(err, app_errors.ErrModuleQuizExists) {
		t.Fatalf("expected ErrModuleQuizExists, got %v", err)
	}
}

func TestCreateQuizUnknownModule(t *testing.T) {
	content := courseWithOneModule()
	svc, _ := newService(content)

	other := uuid.New()
	_, err := svc.CreateQuiz(context.Background(), models.Quiz{
		CourseID: content.Course.ID,
		ModuleID: &other,
		Kind:     models.QuizKindModule,
		Title:    "checkpoint",
	})
	if !errors.Is(err, app_errors.ErrModuleNotFound) {
		t.Fatalf("expected ErrModuleNotFound, got %v", err)
	}
}

func TestCreateQuizClampsPassPercentage(t *testing.T) {
	content := courseWithOneModule()
	moduleID := content.Modules[0].Module.ID
	svc, repo := newService(content)

	quiz, err := svc.CreateQuiz(context.Background(), models.Quiz{
		CourseID:       content.Course.ID,
		ModuleID:       &moduleID,
		Kind:           models.QuizKindModule,
		Title:          "checkpoint",
		PassPercentage: 250,
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	if quiz.PassPercentage != 100 {
		t.Errorf("out-of-range pass percentage must clamp to 100, got %v", quiz.PassPercentage)
	}
	if len(repo.createdQuizzes) != 1 {
		t.Fatalf("expected one stored quiz, got %d", len(repo.createdQuizzes))
	}
}

func TestCreateQuestionValidation(t *testing.T) {
	content := courseWithOneModule()
	moduleID := content.Modules[0].Module.ID
	quizID := uuid.New()
	content.Modules[0].Quiz = &models.Quiz{ID: quizID, CourseID: content.Course.ID, ModuleID: &moduleID, Kind: models.QuizKindModule}
	svc, _ := newService(content)

	cases := []struct {
		name     string
		question models.QuizQuestion
		wantErr  error
	}{
		{
			name: "choice answer must be an option",
			question: models.QuizQuestion{
				QuizID:        quizID,
				Type:          models.QuestionTypeMultipleChoice,
				Prompt:        "pick one",
				Options:       []string{"a", "b"},
				CorrectAnswer: "c",
			},
			wantErr: app_errors.ErrInvalidQuestion,
		},
		{
			name: "choice needs at least two options",
			question: models.QuizQuestion{
				QuizID:        quizID,
				Type:          models.QuestionTypeMultipleChoice,
				Prompt:        "pick one",
				Options:       []string{"a"},
				CorrectAnswer: "a",
			},
			wantErr: app_errors.ErrInvalidQuestion,
		},
		{
			name: "true false answer constrained",
			question: models.QuizQuestion{
				QuizID:        quizID,
				Type:          models.QuestionTypeTrueFalse,
				Prompt:        "really?",
				CorrectAnswer: "maybe",
			},
			wantErr: app_errors.ErrInvalidQuestion,
		},
		{
			name: "unknown type rejected",
			question: models.QuizQuestion{
				QuizID:        quizID,
				Type:          "essay",
				Prompt:        "write",
				CorrectAnswer: "x",
			},
			wantErr: app_errors.ErrInvalidQuestion,
		},
		{
			name: "unknown quiz rejected",
			question: models.QuizQuestion{
				QuizID:        uuid.New(),
				Type:          models.QuestionTypeShortAnswer,
				Prompt:        "capital of France",
				CorrectAnswer: "Paris",
			},
			wantErr: app_errors.ErrQuizNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateQuestion(context.Background(), content.Course.ID, tc.question)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateQuestionShortAnswer(t *testing.T) {
	content := courseWithOneModule()
	moduleID := content.Modules[0].Module.ID
	quizID := uuid.New()
	content.Modules[0].Quiz = &models.Quiz{ID: quizID, CourseID: content.Course.ID, ModuleID: &moduleID, Kind: models.QuizKindModule}
	svc, repo := newService(content)

	q, err := svc.CreateQuestion(context.Background(), content.Course.ID, models.QuizQuestion{
		QuizID:        quizID,
		Type:          models.QuestionTypeShortAnswer,
		Prompt:        "  capital of France  ",
		Options:       []string{"stale"},
		CorrectAnswer: " Paris ",
	})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	if q.Prompt != "capital of France" || q.CorrectAnswer != "Paris" {
		t.Errorf("prompt and answer must be trimmed, got %q / %q", q.Prompt, q.CorrectAnswer)
	}
	if q.Options != nil {
		t.Errorf("short answer questions carry no options")
	}
	if q.Order != 1 {
		t.Errorf("order defaults to the next position, got %d", q.Order)
	}
	if len(repo.createdQuestions) != 1 {
		t.Fatalf("expected one stored question, got %d", len(repo.createdQuestions))
	}
}

func TestDeleteLessonResolvesOrder(t *testing.T) {
	content := courseWithOneModule()
	svc, repo := newService(content)

	lessonID := content.Modules[0].Lessons[0].ID
	if err := svc.DeleteLesson(context.Background(), content.Course.ID, lessonID); err != nil {
		t.Fatalf("delete lesson: %v", err)
	}
	if len(repo.deletedLessons) != 1 || repo.deletedLessons[0] != lessonID {
		t.Fatalf("expected lesson %s deleted", lessonID)
	}

	if err := svc.DeleteLesson(context.Background(), content.Course.ID, uuid.New()); !errors.Is(err, app_errors.ErrLessonNotFound) {
		t.Fatalf("expected ErrLessonNotFound, got %v", err)
	}
}
