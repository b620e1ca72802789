package certificate

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

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
	snapshot *models.Enrollment
}

func (f *fakeEnrollmentRepo) ByUserAndCourse(_ context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	if f.snapshot == nil {
		return nil, app_errors.ErrNotEnrolled
	}
	out := f.snapshot.Clone()
	return &out, nil
}

type fakeCertificateRepo struct {
	stored []models.Certificate
	// missNextLookup makes one ByUserAndCourse report not-found even when
	// a row exists, mimicking another session inserting concurrently.
	missNextLookup bool
}

func (f *fakeCertificateRepo) ByUserAndCourse(_ context.Context, userID, courseID uuid.UUID) (*models.Certificate, error) {
	if f.missNextLookup {
		f.missNextLookup = false
		return nil, app_errors.ErrCertificateNotFound
	}
	for _, c := range f.stored {
		if c.UserID == userID && c.CourseID == courseID {
			out := c
			return &out, nil
		}
	}
	return nil, app_errors.ErrCertificateNotFound
}

func (f *fakeCertificateRepo) Create(_ context.Context, cert models.Certificate) (*models.Certificate, error) {
	for _, c := range f.stored {
		if c.UserID == cert.UserID && c.CourseID == cert.CourseID {
			return nil, app_errors.ErrCertificateExists
		}
	}
	f.stored = append(f.stored, cert)
	out := cert
	return &out, nil
}

type fakeUserRepo struct {
	user models.User
}

func (f *fakeUserRepo) UserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	out := f.user
	return &out, nil
}

type fakeRenderer struct {
	renders int
	fail    bool
}

func (f *fakeRenderer) Render(userName, courseTitle string, issuedAt time.Time) ([]byte, error) {
	if f.fail {
		return nil, errors.New("render failed")
	}
	f.renders++
	return []byte("png"), nil
}

type fakeStore struct {
	uploads int
}

func (f *fakeStore) UploadCertificate(_ context.Context, userID, courseID uuid.UUID, data []byte) (string, error) {
	f.uploads++
	return fmt.Sprintf("certificates/%s/%s.png", courseID, userID), nil
}

func (f *fakeStore) CertificateURL(_ context.Context, objectKey string) (string, error) {
	return "https://storage.local/" + objectKey, nil
}

func completedCourse() (models.CourseContent, models.Enrollment) {
	courseID := uuid.New()
	moduleID := uuid.New()
	quiz := &models.Quiz{
		ID:             uuid.New(),
		CourseID:       courseID,
		Kind:           models.QuizKindFinal,
		PassPercentage: 100,
		Questions:      []models.QuizQuestion{{ID: uuid.New(), Type: models.QuestionTypeTrueFalse, CorrectAnswer: "true", Order: 1}},
	}
	content := models.CourseContent{
		Course: models.Course{ID: courseID, Title: "cloud essentials"},
		Modules: []models.ModuleContent{
			{
				Module:  models.Module{ID: moduleID, CourseID: courseID, Order: 1},
				Lessons: []models.Lesson{{ID: uuid.New(), CourseID: courseID, ModuleID: moduleID, Order: 1}},
			},
		},
		FinalQuiz: quiz,
	}
	snapshot := models.Enrollment{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		CourseID:      courseID,
		Progress:      100,
		ProgressArray: []int{1},
		PassedQuizzes: []uuid.UUID{quiz.ID},
	}
	return content, snapshot
}

func newService(content models.CourseContent, snapshot *models.Enrollment) (*CertificateService, *fakeCertificateRepo, *fakeStore, *fakeRenderer) {
	certs := &fakeCertificateRepo{}
	store := &fakeStore{}
	renderer := &fakeRenderer{}
	svc := NewCertificateService(
		logger.New("local"),
		&fakeContentRepo{content: content},
		&fakeEnrollmentRepo{snapshot: snapshot},
		certs,
		&fakeUserRepo{user: models.User{ID: uuid.New(), Username: "ada"}},
		renderer,
		store,
		nil,
	)
	return svc, certs, store, renderer
}

func TestIssueRejectsIncompleteCourse(t *testing.T) {
	content, snapshot := completedCourse()
	snapshot.PassedQuizzes = nil // final quiz unpassed
	svc, certs, _, _ := newService(content, &snapshot)

	_, err := svc.Issue(context.Background(), snapshot.UserID, content.Course.ID)
	if !errors.Is(err, app_errors.ErrCourseNotCompleted) {
		t.Fatalf("expected ErrCourseNotCompleted, got %v", err)
	}
	if len(certs.stored) != 0 {
		t.Errorf("no certificate may be stored on a rejected issue")
	}
}

func TestIssueRejectsWithoutEnrollment(t *testing.T) {
	content, snapshot := completedCourse()
	svc, _, _, _ := newService(content, nil)

	_, err := svc.Issue(context.Background(), snapshot.UserID, content.Course.ID)
	if !errors.Is(err, app_errors.ErrNotEnrolled) {
		t.Fatalf("expected ErrNotEnrolled, got %v", err)
	}
}

func TestIssueCreatesExactlyOnce(t *testing.T) {
	content, snapshot := completedCourse()
	svc, certs, store, renderer := newService(content, &snapshot)
	ctx := context.Background()

	first, err := svc.Issue(ctx, snapshot.UserID, content.Course.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if first.DownloadURL == "" {
		t.Errorf("issued certificate must carry a download url")
	}

	second, err := svc.Issue(ctx, snapshot.UserID, content.Course.ID)
	if err != nil {
		t.Fatalf("second issue: %v", err)
	}
	if second.Certificate.ID != first.Certificate.ID {
		t.Errorf("second issue must return the existing certificate")
	}
	if len(certs.stored) != 1 {
		t.Errorf("expected exactly one stored certificate, got %d", len(certs.stored))
	}
	if store.uploads != 1 || renderer.renders != 1 {
		t.Errorf("repeat issue must not render or upload again: uploads=%d renders=%d", store.uploads, renderer.renders)
	}
}

func TestIssueWithoutFinalQuiz(t *testing.T) {
	content, snapshot := completedCourse()
	content.FinalQuiz = nil
	snapshot.PassedQuizzes = nil
	svc, _, _, _ := newService(content, &snapshot)

	view, err := svc.Issue(context.Background(), snapshot.UserID, content.Course.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if view.Certificate.StoragePath == "" {
		t.Errorf("certificate must reference the stored artifact")
	}
}

func TestIssueSurvivesCreateRace(t *testing.T) {
	content, snapshot := completedCourse()
	svc, certs, _, _ := newService(content, &snapshot)

	// Another session inserts between our lookup and our create: the
	// lookup misses, the insert hits the unique index, and Issue must
	// fall back to the stored row.
	winner := models.Certificate{
		ID:          uuid.New(),
		UserID:      snapshot.UserID,
		CourseID:    content.Course.ID,
		StoragePath: "certificates/existing.png",
	}
	certs.stored = append(certs.stored, winner)
	certs.missNextLookup = true

	got, err := svc.Issue(context.Background(), snapshot.UserID, content.Course.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if got.Certificate.ID != winner.ID {
		t.Errorf("issue must return the certificate that won the race")
	}
}

func TestGetUnissued(t *testing.T) {
	content, snapshot := completedCourse()
	svc, _, _, _ := newService(content, &snapshot)

	_, err := svc.Get(context.Background(), snapshot.UserID, content.Course.ID)
	if !errors.Is(err, app_errors.ErrCertificateNotFound) {
		t.Fatalf("expected ErrCertificateNotFound, got %v", err)
	}
}
