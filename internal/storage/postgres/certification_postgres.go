package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"certifree/internal/app_errors"
	"certifree/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CertificationPostgres struct {
	db *pgxpool.Pool
}

func NewCertificationPostgres(db *pgxpool.Pool) *CertificationPostgres {
	return &CertificationPostgres{db: db}
}

func (r *CertificationPostgres) CreateCategory(ctx context.Context, category models.Category) (*models.Category, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.CreatedAt = time.Now().UTC()

	query := `INSERT INTO categories (id, name, slug, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.Exec(ctx, query, category.ID, category.Name, category.Slug, category.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}
	return &category, nil
}

func (r *CertificationPostgres) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CertificationPostgres) CreateCertification(ctx context.Context, cert models.Certification) (*models.Certification, error) {
	now := time.Now().UTC()
	if cert.ID == uuid.Nil {
		cert.ID = uuid.New()
	}
	cert.CreatedAt = now
	cert.UpdatedAt = now

	query := `
		INSERT INTO certifications (id, category_id, title, provider, description, external_url, logo_object_key, status, course_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		cert.ID, cert.CategoryID, cert.Title, cert.Provider, cert.Description,
		cert.ExternalURL, cert.LogoObjectKey, cert.Status, cert.CourseID,
		cert.CreatedAt, cert.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert certification: %w", err)
	}
	return &cert, nil
}

func (r *CertificationPostgres) UpdateCertification(ctx context.Context, cert models.Certification) error {
	query := `
		UPDATE certifications
		SET category_id = $1, title = $2, provider = $3, description = $4,
		    external_url = $5, logo_object_key = $6, status = $7, course_id = $8, updated_at = $9
		WHERE id = $10
	`
	tag, err := r.db.Exec(ctx, query,
		cert.CategoryID, cert.Title, cert.Provider, cert.Description,
		cert.ExternalURL, cert.LogoObjectKey, cert.Status, cert.CourseID,
		time.Now().UTC(), cert.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update certification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrCertificationNotFound
	}
	return nil
}

func (r *CertificationPostgres) DeleteCertification(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM certifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete certification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrCertificationNotFound
	}
	return nil
}

func (r *CertificationPostgres) CertificationByID(ctx context.Context, id uuid.UUID) (*models.Certification, error) {
	query := `
		SELECT id, category_id, title, provider, description, external_url, logo_object_key, status, course_id, created_at, updated_at
		FROM certifications
		WHERE id = $1
	`
	var c models.Certification
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.CategoryID, &c.Title, &c.Provider, &c.Description,
		&c.ExternalURL, &c.LogoObjectKey, &c.Status, &c.CourseID,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCertificationNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CertificationPostgres) ListPublicCertifications(ctx context.Context, categoryID *uuid.UUID, limit, offset int) ([]models.Certification, error) {
	query := `
		SELECT id, category_id, title, provider, description, external_url, logo_object_key, status, course_id, created_at, updated_at
		FROM certifications
		WHERE status = $1 AND ($2::uuid IS NULL OR category_id = $2)
		ORDER BY title
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, models.StatusPublic, categoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query certifications: %w", err)
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

func (r *CertificationPostgres) CountPublicCertifications(ctx context.Context, categoryID *uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM certifications WHERE status = $1 AND ($2::uuid IS NULL OR category_id = $2)`
	if err := r.db.QueryRow(ctx, query, models.StatusPublic, categoryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count certifications: %w", err)
	}
	return count, nil
}

func (r *CertificationPostgres) CategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var c models.Category
	err := r.db.QueryRow(ctx, `SELECT id, name, slug, created_at FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}
