package favorite

import (
	"context"

	"certifree/internal/app_errors"
	"certifree/internal/models"
	"certifree/pkg/logger"

	"github.com/google/uuid"
)

type favoriteRepo interface {
	AddFavorite(ctx context.Context, userID, certificationID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, certificationID uuid.UUID) error
	FavoriteCertifications(ctx context.Context, userID uuid.UUID) ([]models.Certification, error)
	IsFavorited(ctx context.Context, userID, certificationID uuid.UUID) (bool, error)
}

type certificationRepo interface {
	CertificationByID(ctx context.Context, id uuid.UUID) (*models.Certification, error)
}

type FavoriteService struct {
	log               logger.Log
	favoriteRepo      favoriteRepo
	certificationRepo certificationRepo
}

func NewFavoriteService(log logger.Log, f favoriteRepo, c certificationRepo) *FavoriteService {
	return &FavoriteService{log: log, favoriteRepo: f, certificationRepo: c}
}

func (s *FavoriteService) Favorite(ctx context.Context, userID, certificationID uuid.UUID) error {
	cert, err := s.certificationRepo.CertificationByID(ctx, certificationID)
	if err != nil {
		return err
	}
	if cert.Status != models.StatusPublic {
		return app_errors.ErrCertificationHidden
	}
	return s.favoriteRepo.AddFavorite(ctx, userID, certificationID)
}

func (s *FavoriteService) Unfavorite(ctx context.Context, userID, certificationID uuid.UUID) error {
	return s.favoriteRepo.RemoveFavorite(ctx, userID, certificationID)
}

// Favorites keeps hidden entries out of the listing without deleting
// the underlying favorite rows.
func (s *FavoriteService) Favorites(ctx context.Context, userID uuid.UUID) ([]models.Certification, error) {
	certifications, err := s.favoriteRepo.FavoriteCertifications(ctx, userID)
	if err != nil {
		return nil, err
	}
	visible := make([]models.Certification, 0, len(certifications))
	for _, c := range certifications {
		if c.Status == models.StatusPublic {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

func (s *FavoriteService) IsFavorited(ctx context.Context, userID, certificationID uuid.UUID) (bool, error) {
	return s.favoriteRepo.IsFavorited(ctx, userID, certificationID)
}
