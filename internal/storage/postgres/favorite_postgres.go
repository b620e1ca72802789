package postgres

import (
	"context"
	"fmt"
	"time"

	"certifree/internal/app_errors"
	"certifree/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FavoritePostgres struct {
	db *pgxpool.Pool
}

func NewFavoritePostgres(db *pgxpool.Pool) *FavoritePostgres {
	return &FavoritePostgres{db: db}
}

func (r *FavoritePostgres) AddFavorite(ctx context.Context, userID, certificationID uuid.UUID) error {
	query := `
		INSERT INTO favorites (id, user_id, certification_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, uuid.New(), userID, certificationID, time.Now().UTC())
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == uniqueViolation {
			return app_errors.ErrAlreadyFavorited
		}
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (r *FavoritePostgres) RemoveFavorite(ctx context.Context, userID, certificationID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND certification_id = $2`, userID, certificationID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrFavoriteNotFound
	}
	return nil
}

func (r *FavoritePostgres) FavoriteCertifications(ctx context.Context, userID uuid.UUID) ([]models.Certification, error) {
	query := `
		SELECT c.id, c.category_id, c.title, c.provider, c.description, c.external_url, c.logo_object_key, c.status, c.course_id, c.created_at, c.updated_at
		FROM certifications c
		INNER JOIN favorites f ON f.certification_id = c.id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var certs []models.Certification
	for rows.Next() {
		var c models.Certification
		if err := rows.Scan(
			&c.ID, &c.CategoryID, &c.Title, &c.Provider, &c.Description,
			&c.ExternalURL, &c.LogoObjectKey, &c.Status, &c.CourseID,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		certs = append(certs, c)
	}
	return certs, rows.Err()
}

func (r *FavoritePostgres) IsFavorited(ctx context.Context, userID, certificationID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND certification_id = $2)`
	if err := r.db.QueryRow(ctx, query, userID, certificationID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return exists, nil
}
