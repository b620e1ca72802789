package enrollment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"certifree/internal/app_errors"
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
	Create(ctx context.Context, enrollment models.Enrollment) (*models.Enrollment, error)
	Update(ctx context.Context, enrollment models.Enrollment) (*models.Enrollment, error)
}

type attemptRepo interface {
	CountByUserAndQuiz(ctx context.Context, userID, quizID uuid.UUID) (int, error)
	Create(ctx context.Context, attempt models.QuizAttempt) (*models.QuizAttempt, error)
}

type eventPublisher interface {
	Publish(eventType string, payload interface{}) error
}

// EnrollmentService owns every mutation of the enrollment snapshot.
// Each operation re-reads the persisted snapshot before applying its
// change, and operations for the same (user, course) pair are serialized
// so a toggle fully lands before a dependent quiz submission is
// evaluated.
type EnrollmentService struct {
	log            logger.Log
	contentRepo    contentRepo
	enrollmentRepo enrollmentRepo
	attemptRepo    attemptRepo
	events         eventPublisher

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEnrollmentService(l logger.Log, content contentRepo, enrollments enrollmentRepo, attempts attemptRepo, events eventPublisher) *EnrollmentService {
	return &EnrollmentService{
		log:            l,
		contentRepo:    content,
		enrollmentRepo: enrollments,
		attemptRepo:    attempts,
		events:         events,
		locks:          make(map[string]*sync.Mutex),
	}
}

func (s *EnrollmentService) pairLock(userID, courseID uuid.UUID) *sync.Mutex {
	key := userID.String() + "/" + courseID.String()
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// Enroll creates the enrollment for (user, course) or returns the
// existing one. Enrolling twice is a no-op.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	l := s.pairLock(userID, courseID)
	l.Lock()
	defer l.Unlock()

	if _, err := s.contentRepo.CourseContent(ctx, courseID); err != nil {
		return nil, err
	}

	existing, err := s.enrollmentRepo.ByUserAndCourse(ctx, userID, courseID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, app_errors.ErrNotEnrolled) {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.enrollmentRepo.Create(ctx, models.Enrollment{
		ID:            uuid.New(),
		UserID:        userID,
		CourseID:      courseID,
		ProgressArray: []int{},
		PassedQuizzes: []uuid.UUID{},
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		// Lost a race with another session; the stored row wins.
		if errors.Is(err, app_errors.ErrAlreadyEnrolled) {
			return s.enrollmentRepo.ByUserAndCourse(ctx, userID, courseID)
		}
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	s.publish("enrollment.created", created)
	return created, nil
}

// ToggleLesson flips the completion mark of one lesson and persists the
// recomputed snapshot. Toggling a lesson of a locked module is rejected
// before any mutation.
func (s *EnrollmentService) ToggleLesson(ctx context.Context, userID, courseID, lessonID uuid.UUID) (*models.Enrollment, error) {
	l := s.pairLock(userID, courseID)
	l.Lock()
	defer l.Unlock()

	content, err := s.contentRepo.CourseContent(ctx, courseID)
	if err != nil {
		return nil, err
	}
	current, err := s.enrollmentRepo.ByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	lesson, owner := content.LessonByID(lessonID)
	if lesson == nil {
		return nil, app_errors.ErrLessonNotFound
	}
	if progression.ModuleLocked(content, *current, owner.Module.ID) {
		return nil, app_errors.ErrModuleLocked
	}

	next := current.Clone()
	if next.HasLesson(lesson.Order) {
		kept := next.ProgressArray[:0]
		for _, o := range next.ProgressArray {
			if o != lesson.Order {
				kept = append(kept, o)
			}
		}
		next.ProgressArray = kept
	} else {
		next.ProgressArray = append(next.ProgressArray, lesson.Order)
	}

	next = recompute(content, next, time.Now().UTC())
	updated, err := s.enrollmentRepo.Update(ctx, next)
	if err != nil {
		return nil, fmt.Errorf("failed to persist enrollment: %w", err)
	}

	s.publish("enrollment.updated", updated)
	return updated, nil
}

// SubmitQuiz grades a submission, records the attempt and, when passed,
// folds the quiz into the snapshot. A failed attempt is persisted but
// leaves the passed set untouched.
func (s *EnrollmentService) SubmitQuiz(ctx context.Context, userID, courseID, quizID uuid.UUID, answers map[uuid.UUID]string) (*models.QuizAttempt, *models.Enrollment, error) {
	l := s.pairLock(userID, courseID)
	l.Lock()
	defer l.Unlock()

	content, err := s.contentRepo.CourseContent(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	current, err := s.enrollmentRepo.ByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, nil, err
	}

	quiz := content.QuizByID(quizID)
	if quiz == nil {
		return nil, nil, app_errors.ErrQuizNotFound
	}
	if progression.QuizLocked(content, *current, quizID) {
		return nil, nil, app_errors.ErrQuizLocked
	}

	result, err := progression.Grade(*quiz, answers)
	if err != nil {
		return nil, nil, err
	}

	prior, err := s.attemptRepo.CountByUserAndQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, nil, err
	}

	attempt, err := s.attemptRepo.Create(ctx, models.QuizAttempt{
		ID:              uuid.New(),
		UserID:          userID,
		QuizID:          quizID,
		ScorePercentage: result.ScorePercentage,
		Passed:          result.Passed,
		AttemptNumber:   prior + 1,
		Answers:         answers,
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to persist quiz attempt: %w", err)
	}
	s.publish("quiz.attempted", attempt)

	if !result.Passed {
		return attempt, current, nil
	}

	next := current.Clone()
	if !next.HasPassedQuiz(quizID) {
		next.PassedQuizzes = append(next.PassedQuizzes, quizID)
	}
	next = recompute(content, next, time.Now().UTC())
	updated, err := s.enrollmentRepo.Update(ctx, next)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to persist enrollment: %w", err)
	}

	s.publish("enrollment.updated", updated)
	return attempt, updated, nil
}

// ProgressView is the read model for the learner's course page.
type ProgressView struct {
	Enrollment models.Enrollment     `json:"enrollment"`
	Locks      progression.LockState `json:"locks"`
}

// Progress returns the current snapshot with its derived lock state.
func (s *EnrollmentService) Progress(ctx context.Context, userID, courseID uuid.UUID) (*ProgressView, error) {
	content, err := s.contentRepo.CourseContent(ctx, courseID)
	if err != nil {
		return nil, err
	}
	current, err := s.enrollmentRepo.ByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return &ProgressView{
		Enrollment: *current,
		Locks:      progression.Locks(content, *current),
	}, nil
}

// recompute derives the stored aggregates from scratch; nothing is
// incrementally patched.
func recompute(content models.CourseContent, e models.Enrollment, now time.Time) models.Enrollment {
	e.CompletedModulesCount = progression.CompletedModules(content, e)
	e.Progress = progression.Overall(content, e)
	if e.Progress == 100 {
		if e.CompletedAt == nil {
			e.CompletedAt = &now
		}
	} else {
		e.CompletedAt = nil
	}
	e.UpdatedAt = now
	return e
}

func (s *EnrollmentService) publish(eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(eventType, payload); err != nil {
		s.log.ErrorErr("failed to publish event", err, "type", eventType)
	}
}
