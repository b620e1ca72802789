package certificate

import (
	"context"
	"errors"
	"fmt"
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
}

type certificateRepo interface {
	ByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Certificate, error)
	Create(ctx context.Context, cert models.Certificate) (*models.Certificate, error)
}

type userRepo interface {
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type artifactRenderer interface {
	Render(userName, courseTitle string, issuedAt time.Time) ([]byte, error)
}

type artifactStore interface {
	UploadCertificate(ctx context.Context, userID, courseID uuid.UUID, data []byte) (string, error)
	CertificateURL(ctx context.Context, objectKey string) (string, error)
}

type eventPublisher interface {
	Publish(eventType string, payload interface{}) error
}

// CertificateService gates and performs issuance. Issuance is triggered
// by an explicit learner request, never automatically on reaching 100%.
type CertificateService struct {
	log             logger.Log
	contentRepo     contentRepo
	enrollmentRepo  enrollmentRepo
	certificateRepo certificateRepo
	userRepo        userRepo
	renderer        artifactRenderer
	store           artifactStore
	events          eventPublisher
}

func NewCertificateService(l logger.Log, content contentRepo, enrollments enrollmentRepo, certs certificateRepo, users userRepo, renderer artifactRenderer, store artifactStore, events eventPublisher) *CertificateService {
	return &CertificateService{
		log:             l,
		contentRepo:     content,
		enrollmentRepo:  enrollments,
		certificateRepo: certs,
		userRepo:        users,
		renderer:        renderer,
		store:           store,
		events:          events,
	}
}

// Issue creates the certificate for (user, course) when the completion
// preconditions hold. Issuing again is a no-op returning the existing
// record.
func (s *CertificateService) Issue(ctx context.Context, userID, courseID uuid.UUID) (*models.CertificateView, error) {
	existing, err := s.certificateRepo.ByUserAndCourse(ctx, userID, courseID)
	if err == nil {
		return s.view(ctx, existing)
	}
	if !errors.Is(err, app_errors.ErrCertificateNotFound) {
		return nil, err
	}

	content, err := s.contentRepo.CourseContent(ctx, courseID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.enrollmentRepo.ByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !progression.CourseCompleted(content, *snapshot) {
		return nil, app_errors.ErrCourseNotCompleted
	}

	user, err := s.userRepo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	issuedAt := time.Now().UTC()
	artifact, err := s.renderer.Render(user.Username, content.Course.Title, issuedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to render certificate: %w", err)
	}
	objectKey, err := s.store.UploadCertificate(ctx, userID, courseID, artifact)
	if err != nil {
		return nil, fmt.Errorf("failed to store certificate: %w", err)
	}

	created, err := s.certificateRepo.Create(ctx, models.Certificate{
		ID:          uuid.New(),
		UserID:      userID,
		CourseID:    courseID,
		StoragePath: objectKey,
		CreatedAt:   issuedAt,
	})
	if err != nil {
		// A concurrent request won the unique (user, course) index; the
		// stored certificate is the one that counts.
		if errors.Is(err, app_errors.ErrCertificateExists) {
			stored, lookupErr := s.certificateRepo.ByUserAndCourse(ctx, userID, courseID)
			if lookupErr != nil {
				return nil, lookupErr
			}
			return s.view(ctx, stored)
		}
		return nil, fmt.Errorf("failed to persist certificate: %w", err)
	}

	if s.events != nil {
		if pubErr := s.events.Publish("certificate.issued", created); pubErr != nil {
			s.log.ErrorErr("failed to publish event", pubErr, "type", "certificate.issued")
		}
	}
	return s.view(ctx, created)
}

// Get returns the issued certificate with a download URL.
func (s *CertificateService) Get(ctx context.Context, userID, courseID uuid.UUID) (*models.CertificateView, error) {
	cert, err := s.certificateRepo.ByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cert)
}

func (s *CertificateService) view(ctx context.Context, cert *models.Certificate) (*models.CertificateView, error) {
	url, err := s.store.CertificateURL(ctx, cert.StoragePath)
	if err != nil {
		s.log.ErrorErr("failed to presign certificate url", err)
		url = ""
	}
	return &models.CertificateView{Certificate: *cert, DownloadURL: url}, nil
}
