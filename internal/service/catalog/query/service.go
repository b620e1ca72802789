package query

import (
	"context"
	"fmt"

	"certifree/internal/app_errors"
	"certifree/internal/models"
	"certifree/pkg/logger"

	"github.com/google/uuid"
)

type certificationRepo interface {
	CertificationByID(ctx context.Context, id uuid.UUID) (*models.Certification, error)
	ListPublicCertifications(ctx context.Context, categoryID *uuid.UUID, limit, offset int) ([]models.Certification, error)
	CountPublicCertifications(ctx context.Context, categoryID *uuid.UUID) (int, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type logoRepo interface {
	GetLogoURL(ctx context.Context, objectKey string) (string, error)
}

type searchRepo interface {
	Search(ctx context.Context, query string, size int) ([]uuid.UUID, error)
	Count(ctx context.Context, query string) (int, error)
}

type CatalogQueryService struct {
	log               logger.Log
	certificationRepo certificationRepo
	logoRepo          logoRepo
	searchRepo        searchRepo
}

func NewCatalogQueryService(log logger.Log, c certificationRepo, l logoRepo, s searchRepo) *CatalogQueryService {
	return &CatalogQueryService{
		log:               log,
		certificationRepo: c,
		logoRepo:          l,
		searchRepo:        s,
	}
}

func (s *CatalogQueryService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.certificationRepo.ListCategories(ctx)
}

// CertificationByID returns one public entry. Hidden entries behave as
// absent for clients.
func (s *CatalogQueryService) CertificationByID(ctx context.Context, id uuid.UUID) (*models.CertificationPreview, error) {
	cert, err := s.certificationRepo.CertificationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cert.Status != models.StatusPublic {
		return nil, app_errors.ErrCertificationHidden
	}
	preview := s.preview(ctx, *cert)
	return &preview, nil
}

func (s *CatalogQueryService) CertificationsPreview(ctx context.Context, categoryID *uuid.UUID, count, offset int) ([]models.CertificationPreview, int, error) {
	certifications, err := s.certificationRepo.ListPublicCertifications(ctx, categoryID, count, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.certificationRepo.CountPublicCertifications(ctx, categoryID)
	if err != nil {
		return nil, 0, err
	}

	previews := make([]models.CertificationPreview, 0, len(certifications))
	for _, c := range certifications {
		previews = append(previews, s.preview(ctx, c))
	}
	return previews, total, nil
}

func (s *CatalogQueryService) SearchCertificationsPreview(ctx context.Context, query string, count, offset int) ([]models.CertificationPreview, int, error) {
	ids, err := s.searchRepo.Search(ctx, query, count+offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search preview: elastic search failed: %w", err)
	}

	if len(ids) > offset {
		ids = ids[offset:]
	} else {
		ids = nil
	}
	if len(ids) > count {
		ids = ids[:count]
	}
	if len(ids) == 0 {
		return []models.CertificationPreview{}, 0, nil
	}

	total, err := s.searchRepo.Count(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("search count failed: %w", err)
	}

	previews := make([]models.CertificationPreview, 0, len(ids))
	for _, id := range ids {
		cert, err := s.certificationRepo.CertificationByID(ctx, id)
		if err != nil {
			s.log.ErrorErr("search preview: failed to load certification by id", err)
			continue
		}
		if cert.Status != models.StatusPublic {
			continue
		}
		previews = append(previews, s.preview(ctx, *cert))
	}

	return previews, total, nil
}

func (s *CatalogQueryService) GetCertificationLogoURL(ctx context.Context, id uuid.UUID) (string, error) {
	cert, err := s.certificationRepo.CertificationByID(ctx, id)
	if err != nil {
		return "", err
	}
	if cert.Status != models.StatusPublic {
		return "", app_errors.ErrCertificationHidden
	}
	if cert.LogoObjectKey == "" {
		return "", app_errors.ErrImageNotFound
	}
	url, err := s.logoRepo.GetLogoURL(ctx, cert.LogoObjectKey)
	if err != nil {
		s.log.ErrorErr("failed to get logo URL", err)
		return "", err
	}
	return url, nil
}

func (s *CatalogQueryService) preview(ctx context.Context, c models.Certification) models.CertificationPreview {
	desc := c.Description
	if len(desc) > 200 {
		desc = desc[:200] + "…"
	}

	logoURL := ""
	if c.LogoObjectKey != "" {
		u, err := s.logoRepo.GetLogoURL(ctx, c.LogoObjectKey)
		if err != nil {
			s.log.ErrorErr("preview: failed to get logo URL", err)
		} else {
			logoURL = u
		}
	}

	categoryName := ""
	category, err := s.certificationRepo.CategoryByID(ctx, c.CategoryID)
	if err != nil {
		s.log.ErrorErr("preview: failed to get category", err)
	} else {
		categoryName = category.Name
	}

	return models.CertificationPreview{
		ID:           c.ID,
		Title:        c.Title,
		Provider:     c.Provider,
		Description:  desc,
		CategoryName: categoryName,
		LogoURL:      logoURL,
		HasCourse:    c.CourseID != nil,
	}
}
