package enrollment

import (
	"context"
	"errors"
	"testing"

	"certifree/internal/app_errors"
	"certifree/internal/models"
	"certifree/pkg/logger"

	"github.com/google/uuid"
)

type fakeContentRepo struct {
	content models.CourseContent
}

func (f *fakeContentRepo) CourseContent(_ context.Context, courseID uuid.UUID) (models.CourseContent, error) {
	if courseID != f.content.Course.ID {
		return models.CourseContent{}, app_errors.ErrCourseNotFound
	}
	return f.content, nil
}

type fakeEnrollmentRepo struct {
	rows       map[string]models.Enrollment
	failUpdate bool
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{rows: make(map[string]models.Enrollment)}
}

func key(userID, courseID uuid.UUID) string {
	return userID.String() + "/" + courseID.String()
}

func (f *fakeEnrollmentRepo) ByUserAndCourse(_ context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	row, ok := f.rows[key(userID, courseID)]
	if !ok {
		return nil, app_errors.ErrNotEnrolled
	}
	out := row.Clone()
	return &out, nil
}

func (f *fakeEnrollmentRepo) Create(_ context.Context, e models.Enrollment) (*models.Enrollment, error) {
	k := key(e.UserID, e.CourseID)
	if _, ok := f.rows[k]; ok {
		return nil, app_errors.ErrAlreadyEnrolled
	}
	f.rows[k] = e.Clone()
	out := e.Clone()
	return &out, nil
}

func (f *fakeEnrollmentRepo) Update(_ context.Context, e models.Enrollment) (*models.Enrollment, error) {
	if f.failUpdate {
		return nil, errors.New("write failed")
	}
	f.rows[key(e.UserID, e.CourseID)] = e.Clone()
	out := e.Clone()
	return &out, nil
}

type fakeAttemptRepo struct {
	attempts []models.QuizAttempt
}

func (f *fakeAttemptRepo) CountByUserAndQuiz(_ context.Context, userID, quizID uuid.UUID) (int, error) {
	n := 0
	for _, a := range f.attempts {
		if a.UserID == userID && a.QuizID == quizID {
			n++
		}
	}
	return n, nil
}

func (f *fakeAttemptRepo) Create(_ context.Context, a models.QuizAttempt) (*models.QuizAttempt, error) {
	f.attempts = append(f.attempts, a)
	out := a
	return &out, nil
}

type recordedEvent struct {
	eventType string
	payload   interface{}
}

type fakeEvents struct {
	events []recordedEvent
}

func (f *fakeEvents) Publish(eventType string, payload interface{}) error {
	f.events = append(f.events, recordedEvent{eventType, payload})
	return nil
}

// scenarioCourse builds the two-module course used throughout: module 1
// has two lessons and a quiz at 80% with two questions, module 2 has one
// lesson and no quiz, and the course carries a one-question final quiz
// at 100%.
func scenarioCourse() models.CourseContent {
	courseID := uuid.New()
	m1 := uuid.New()
	m2 := uuid.New()

	content := models.CourseContent{
		Course: models.Course{ID: courseID, Title: "network fundamentals"},
		Modules: []models.ModuleContent{
			{
				Module: models.Module{ID: m1, CourseID: courseID, Order: 1},
				Lessons: []models.Lesson{
					{ID: uuid.New(), CourseID: courseID, ModuleID: m1, Order: 1},
					{ID: uuid.New(), CourseID: courseID, ModuleID: m1, Order: 2},
				},
				Quiz: &models.Quiz{
					ID:             uuid.New(),
					CourseID:       courseID,
					ModuleID:       &m1,
					Kind:           models.QuizKindModule,
					PassPercentage: 80,
					Questions: []models.QuizQuestion{
						{ID: uuid.New(), Type: models.QuestionTypeMultipleChoice, Options: []string{"a", "b"}, CorrectAnswer: "a", Order: 1},
						{ID: uuid.New(), Type: models.QuestionTypeTrueFalse, CorrectAnswer: "true", Order: 2},
					},
				},
			},
			{
				Module: models.Module{ID: m2, CourseID: courseID, Order: 2},
				Lessons: []models.Lesson{
					{ID: uuid.New(), CourseID: courseID, ModuleID: m2, Order: 3},
				},
			},
		},
		FinalQuiz: &models.Quiz{
			ID:             uuid.New(),
			CourseID:       courseID,
			Kind:           models.QuizKindFinal,
			PassPercentage: 100,
			Questions: []models.QuizQuestion{
				{ID: uuid.New(), Type: models.QuestionTypeShortAnswer, CorrectAnswer: "Paris", Order: 1},
			},
		},
	}
	return content
}

func newService(content models.CourseContent) (*EnrollmentService, *fakeEnrollmentRepo, *fakeAttemptRepo, *fakeEvents) {
	enrollments := newFakeEnrollmentRepo()
	attempts := &fakeAttemptRepo{}
	events := &fakeEvents{}
	svc := NewEnrollmentService(logger.New("local"), &fakeContentRepo{content: content}, enrollments, attempts, events)
	return svc, enrollments, attempts, events
}

func TestEnrollIsIdempotent(t *testing.T) {
	content := scenarioCourse()
	svc, repo, _, _ := newService(content)
	userID := uuid.New()
	ctx := context.Background()

	first, err := svc.Enroll(ctx, userID, content.Course.ID)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if first.Progress != 0 || len(first.ProgressArray) != 0 || first.CompletedAt != nil {
		t.Errorf("fresh enrollment must be empty: %+v", first)
	}

	second, err := svc.Enroll(ctx, userID, content.Course.ID)
	if err != nil {
		t.Fatalf("second enroll: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second enroll must return the existing enrollment")
	}
	if len(repo.rows) != 1 {
		t.Errorf("expected exactly one stored enrollment, got %d", len(repo.rows))
	}
}

func TestEnrollUnknownCourse(t *testing.T) {
	content := scenarioCourse()
	svc, _, _, _ := newService(content)

	_, err := svc.Enroll(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, app_errors.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestToggleLessonRequiresEnrollment(t *testing.T) {
	content := scenarioCourse()
	svc, _, _, _ := newService(content)

	_, err := svc.ToggleLesson(context.Background(), uuid.New(), content.Course.ID, content.Modules[0].Lessons[0].ID)
	if !errors.Is(err, app_errors.ErrNotEnrolled) {
		t.Fatalf("expected ErrNotEnrolled, got %v", err)
	}
}

func TestToggleLessonRejectsLockedModule(t *testing.T) {
	content := scenarioCourse()
	svc, _, _, _ := newService(content)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := svc.Enroll(ctx, userID, content.Course.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	_, err := svc.ToggleLesson(ctx, userID, content.Course.ID, content.Modules[1].Lessons[0].ID)
	if !errors.Is(err, app_errors.ErrModuleLocked) {
		t.Fatalf("expected ErrModuleLocked, got %v", err)
	}
}

func TestToggleLessonOnAndOff(t *testing.T) {
	content := scenarioCourse()
	svc, _, _, _ := newService(content)
	userID := uuid.New()
	ctx := context.Background()
	lessonID := content.Modules[0].Lessons[0].ID

	if _, err := svc.Enroll(ctx, userID, content.Course.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	on, err := svc.ToggleLesson(ctx, userID, content.Course.ID, lessonID)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !on.HasLesson(1) {
		t.Errorf("lesson order 1 must be in the progress array")
	}
	// 1/3 lessons plus the quizless module's granted quiz share:
	// 0.333*0.7*100 + 0.5*0.3*100 = 38.33 -> 38.
	if on.Progress != 38 {
		t.Errorf("expected progress 38 after one lesson, got %d", on.Progress)
	}

	off, err := svc.ToggleLesson(ctx, userID, content.Course.ID, lessonID)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if off.HasLesson(1) {
		t.Errorf("toggling again must remove the lesson order")
	}
	if off.Progress != 15 {
		t.Errorf("expected progress to drop back to 15, got %d", off.Progress)
	}
}

func TestSubmitQuizRejectsLockedQuiz(t *testing.T) {
	content := scenarioCourse()
	svc, _, _, _ := newService(content)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := svc.Enroll(ctx, userID, content.Course.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	// Module quiz before its lessons are done.
	_, _, err := svc.SubmitQuiz(ctx, userID, content.Course.ID, content.Modules[0].Quiz.ID, nil)
	if !errors.Is(err, app_errors.ErrQuizLocked) {
		t.Fatalf("expected ErrQuizLocked for module quiz, got %v", err)
	}

	// Final quiz before any module is completed.
	_, _, err = svc.SubmitQuiz(ctx, userID, content.Course.ID, content.FinalQuiz.ID, nil)
	if !errors.Is(err, app_errors.ErrQuizLocked) {
		t.Fatalf("expected ErrQuizLocked for final quiz, got %v", err)
	}
}

func TestAttemptNumbersIncrease(t *testing.T) {
	content := scenarioCourse()
	svc, _, attempts, _ := newService(content)
	userID := uuid.New()
	ctx := context.Background()
	quiz := content.Modules[0].Quiz

	if _, err := svc.Enroll(ctx, userID, content.Course.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	for _, l := range content.Modules[0].Lessons {
		if _, err := svc.ToggleLesson(ctx, userID, content.Course.ID, l.ID); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}

	wrong := map[uuid.UUID]string{quiz.Questions[0].ID: "b", quiz.Questions[1].ID: "false"}
	for i := 1; i <= 3; i++ {
		attempt, _, err := svc.SubmitQuiz(ctx, userID, content.Course.ID, quiz.ID, wrong)
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		if attempt.AttemptNumber != i {
			t.Errorf("expected attempt number %d, got %d", i, attempt.AttemptNumber)
		}
	}
	if len(attempts.attempts) != 3 {
		t.Errorf("every submission must persist an attempt, got %d", len(attempts.attempts))
	}
}

func TestFailedAttemptDoesNotMutatePassedQuizzes(t *testing.T) {
	content := scenarioCourse()
	svc, repo, _, _ := newService(content)
	userID := uuid.New()
	ctx := context.Background()
	quiz := content.Modules[0].Quiz

	if _, err := svc.Enroll(ctx, userID, content.Course.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	for _, l := range content.Modules[0].Lessons {
		if _, err := svc.ToggleLesson(ctx, userID, content.Course.ID, l.ID); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}

	// 1/2 correct = 50%, below the 80% threshold.
	half := map[uuid.UUID]string{quiz.Questions[0].ID: quiz.Questions[0].CorrectAnswer, quiz.Questions[1].ID: "false"}
	attempt, snapshot, err := svc.SubmitQuiz(ctx, userID, content.Course.ID, quiz.ID, half)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if attempt.Passed {
		t.Errorf("50%% against an 80%% threshold must fail")
	}
	if attempt.ScorePercentage != 50 {
		t.Errorf("expected score 50, got %.2f", attempt.ScorePercentage)
	}
	if len(snapshot.PassedQuizzes) != 0 {
		t.Errorf("failed attempt must not touch the passed set")
	}
	stored := repo.rows[key(userID, content.Course.ID)]
	if len(stored.PassedQuizzes) != 0 {
		t.Errorf("stored snapshot must not record a failed quiz")
	}
}

func TestPersistenceFailureLeavesStoredSnapshot(t *testing.T) {
	content := scenarioCourse()
	svc, repo, _, _ := newService(content)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := svc.Enroll(ctx, userID, content.Course.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	before := repo.rows[key(userID, content.Course.ID)]

	repo.failUpdate = true
	_, err := svc.ToggleLesson(ctx, userID, content.Course.ID, content.Modules[0].Lessons[0].ID)
	if err == nil {
		t.Fatalf("expected toggle to surface the write failure")
	}

	after := repo.rows[key(userID, content.Course.ID)]
	if len(after.ProgressArray) != len(before.ProgressArray) || after.Progress != before.Progress {
		t.Errorf("failed write must leave the stored snapshot untouched")
	}
}

func TestEndToEndScenario(t *testing.T) {
	content := scenarioCourse()
	svc, _, _, events := newService(content)
	userID := uuid.New()
	ctx := context.Background()
	moduleQuiz := content.Modules[0].Quiz

	if _, err := svc.Enroll(ctx, userID, content.Course.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	// Complete both module 1 lessons.
	for _, l := range content.Modules[0].Lessons {
		if _, err := svc.ToggleLesson(ctx, userID, content.Course.ID, l.ID); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}

	// Fail the module quiz at 1/2 correct: module 1 stays incomplete and
	// module 2 stays locked.
	half := map[uuid.UUID]string{moduleQuiz.Questions[0].ID: moduleQuiz.Questions[0].CorrectAnswer, moduleQuiz.Questions[1].ID: "false"}
	if _, _, err := svc.SubmitQuiz(ctx, userID, content.Course.ID, moduleQuiz.ID, half); err != nil {
		t.Fatalf("failing submit: %v", err)
	}
	view, err := svc.Progress(ctx, userID, content.Course.ID)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if view.Locks.Modules[0].Completed {
		t.Errorf("module 1 must be incomplete while its quiz is unpassed")
	}
	if !view.Locks.Modules[1].Locked {
		t.Errorf("module 2 must still be locked")
	}
	if view.Enrollment.CompletedModulesCount != 0 {
		t.Errorf("expected 0 completed modules, got %d", view.Enrollment.CompletedModulesCount)
	}

	// Pass the module quiz at 2/2, then complete module 2's lesson.
	full := map[uuid.UUID]string{moduleQuiz.Questions[0].ID: moduleQuiz.Questions[0].CorrectAnswer, moduleQuiz.Questions[1].ID: moduleQuiz.Questions[1].CorrectAnswer}
	if _, _, err := svc.SubmitQuiz(ctx, userID, content.Course.ID, moduleQuiz.ID, full); err != nil {
		t.Fatalf("passing submit: %v", err)
	}
	snapshot, err := svc.ToggleLesson(ctx, userID, content.Course.ID, content.Modules[1].Lessons[0].ID)
	if err != nil {
		t.Fatalf("module 2 lesson: %v", err)
	}
	if snapshot.Progress != 99 {
		t.Errorf("progress must read 99 with the final quiz unpassed, got %d", snapshot.Progress)
	}
	if snapshot.CompletedAt != nil {
		t.Errorf("completed_at must stay unset at 99")
	}

	view, err = svc.Progress(ctx, userID, content.Course.ID)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if view.Locks.FinalQuizLocked {
		t.Errorf("final quiz must be unlocked once both modules are completed")
	}

	// Pass the final quiz; short answers are normalized.
	_, done, err := svc.SubmitQuiz(ctx, userID, content.Course.ID, content.FinalQuiz.ID,
		map[uuid.UUID]string{content.FinalQuiz.Questions[0].ID: " paris "})
	if err != nil {
		t.Fatalf("final submit: %v", err)
	}
	if done.Progress != 100 {
		t.Errorf("progress must reach 100, got %d", done.Progress)
	}
	if done.CompletedAt == nil {
		t.Errorf("completed_at must be stamped at 100")
	}
	if done.CompletedModulesCount != 2 {
		t.Errorf("expected 2 completed modules, got %d", done.CompletedModulesCount)
	}

	sawUpdate := false
	for _, ev := range events.events {
		if ev.eventType == "enrollment.updated" {
			sawUpdate = true
		}
	}
	if !sawUpdate {
		t.Errorf("mutations must broadcast enrollment.updated events")
	}
}
