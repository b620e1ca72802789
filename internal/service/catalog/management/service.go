package management

import (
	"context"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"certifree/internal/app_errors"
	"certifree/internal/models"
	"certifree/pkg/logger"

	"github.com/google/uuid"
)

const maxLogoSizeBytes = 5 << 20

type certificationRepo interface {
	CreateCategory(ctx context.Context, category models.Category) (*models.Category, error)
	CreateCertification(ctx context.Context, cert models.Certification) (*models.Certification, error)
	UpdateCertification(ctx context.Context, cert models.Certification) error
	DeleteCertification(ctx context.Context, id uuid.UUID) error
	CertificationByID(ctx context.Context, id uuid.UUID) (*models.Certification, error)
	CategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type searchRepo interface {
	Index(ctx context.Context, certification models.Certification) error
	Update(ctx context.Context, certification models.Certification) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type logoRepo interface {
	UploadLogo(ctx context.Context, certificationID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (objectKey string, err error)
	GetLogoURL(ctx context.Context, objectKey string) (string, error)
	DeleteLogo(ctx context.Context, objectKey string) error
}

type CatalogManagementService struct {
	log               logger.Log
	certificationRepo certificationRepo
	searchRepo        searchRepo
	logoRepo          logoRepo
}

func NewCatalogManagementService(log logger.Log, c certificationRepo, s searchRepo, l logoRepo) *CatalogManagementService {
	return &CatalogManagementService{
		log:               log,
		certificationRepo: c,
		searchRepo:        s,
		logoRepo:          l,
	}
}

func (s *CatalogManagementService) CreateCategory(ctx context.Context, name, slug string) (*models.Category, error) {
	return s.certificationRepo.CreateCategory(ctx, models.Category{Name: name, Slug: slug})
}

// CreateCertification stores the entry hidden. It enters the catalog
// and the search index on Publish.
func (s *CatalogManagementService) CreateCertification(ctx context.Context, cert models.Certification) (*models.Certification, error) {
	if _, err := s.certificationRepo.CategoryByID(ctx, cert.CategoryID); err != nil {
		return nil, err
	}
	cert.Status = models.StatusHidden
	return s.certificationRepo.CreateCertification(ctx, cert)
}

func (s *CatalogManagementService) UpdateCertification(ctx context.Context, cert models.Certification) error {
	current, err := s.certificationRepo.CertificationByID(ctx, cert.ID)
	if err != nil {
		return err
	}
	cert.Status = current.Status
	cert.LogoObjectKey = current.LogoObjectKey
	if err := s.certificationRepo.UpdateCertification(ctx, cert); err != nil {
		return err
	}
	if cert.Status == models.StatusPublic {
		if err := s.searchRepo.Update(ctx, cert); err != nil {
			s.log.ErrorErr("failed to update search index", err)
		}
	}
	return nil
}

func (s *CatalogManagementService) Publish(ctx context.Context, id uuid.UUID) error {
	cert, err := s.certificationRepo.CertificationByID(ctx, id)
	if err != nil {
		return err
	}
	cert.Status = models.StatusPublic
	if err := s.certificationRepo.UpdateCertification(ctx, *cert); err != nil {
		return err
	}
	if err := s.searchRepo.Index(ctx, *cert); err != nil {
		s.log.ErrorErr("error indexing certification", err)
		return err
	}
	return nil
}

func (s *CatalogManagementService) Hide(ctx context.Context, id uuid.UUID) error {
	cert, err := s.certificationRepo.CertificationByID(ctx, id)
	if err != nil {
		return err
	}
	cert.Status = models.StatusHidden
	if err := s.certificationRepo.UpdateCertification(ctx, *cert); err != nil {
		return err
	}
	if err := s.searchRepo.Delete(ctx, id); err != nil {
		s.log.ErrorErr("failed to remove certification from search index", err)
	}
	return nil
}

func (s *CatalogManagementService) DeleteCertification(ctx context.Context, id uuid.UUID) error {
	cert, err := s.certificationRepo.CertificationByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.certificationRepo.DeleteCertification(ctx, id); err != nil {
		return err
	}
	if cert.LogoObjectKey != "" {
		if err := s.logoRepo.DeleteLogo(ctx, cert.LogoObjectKey); err != nil {
			s.log.ErrorErr("failed to delete certification logo", err)
		}
	}
	if err := s.searchRepo.Delete(ctx, id); err != nil {
		s.log.ErrorErr("failed to remove certification from search index", err)
	}
	return nil
}

func (s *CatalogManagementService) UploadCertificationLogo(
	ctx context.Context,
	certificationID uuid.UUID,
	filename string,
	reader io.Reader,
	size int64,
	contentType string,
) (string, error) {
	cert, err := s.certificationRepo.CertificationByID(ctx, certificationID)
	if err != nil {
		return "", err
	}

	if size > maxLogoSizeBytes {
		return "", app_errors.ErrFileSize
	}

	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", app_errors.ErrNotImage
	}

	if cert.LogoObjectKey != "" {
		if err := s.logoRepo.DeleteLogo(ctx, cert.LogoObjectKey); err != nil {
			s.log.ErrorErr("failed to delete previous logo", err)
		}
	}

	objectKey, err := s.logoRepo.UploadLogo(ctx, certificationID, filename, reader, size, contentType)
	if err != nil {
		s.log.ErrorErr("failed to upload logo to storage", err)
		return "", err
	}

	cert.LogoObjectKey = objectKey
	if err = s.certificationRepo.UpdateCertification(ctx, *cert); err != nil {
		s.log.ErrorErr("failed to save logo key to db", err)
		return "", err
	}

	url, err := s.logoRepo.GetLogoURL(ctx, objectKey)
	if err != nil {
		s.log.ErrorErr("failed to get presigned URL", err)
		return "", err
	}
	return url, nil
}
