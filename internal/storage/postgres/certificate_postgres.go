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

type CertificatePostgres struct {
	db *pgxpool.Pool
}

func NewCertificatePostgres(db *pgxpool.Pool) *CertificatePostgres {
	return &CertificatePostgres{db: db}
}

func (r *CertificatePostgres) Create(ctx context.Context, certificate models.Certificate) (*models.Certificate, error) {
	if certificate.ID == uuid.Nil {
		certificate.ID = uuid.New()
	}
	certificate.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO certificates (id, user_id, course_id, storage_path, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		certificate.ID, certificate.UserID, certificate.CourseID, certificate.StoragePath, certificate.CreatedAt,
	)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == uniqueViolation {
			return nil, app_errors.ErrCertificateExists
		}
		return nil, fmt.Errorf("failed to insert certificate: %w", err)
	}
	return &certificate, nil
}

func (r *CertificatePostgres) ByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Certificate, error) {
	query := `
		SELECT id, user_id, course_id, storage_path, created_at
		FROM certificates
		WHERE user_id = $1 AND course_id = $2
	`
	var c models.Certificate
	err := r.db.QueryRow(ctx, query, userID, courseID).Scan(
		&c.ID, &c.UserID, &c.CourseID, &c.StoragePath, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCertificateNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CertificatePostgres) ByUser(ctx context.Context, userID uuid.UUID) ([]models.Certificate, error) {
	query := `
		SELECT id, user_id, course_id, storage_path, created_at
		FROM certificates
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query certificates: %w", err)
	}
	defer rows.Close()

	var certificates []models.Certificate
	for rows.Next() {
		var c models.Certificate
		if err := rows.Scan(&c.ID, &c.UserID, &c.CourseID, &c.StoragePath, &c.CreatedAt); err != nil {
			return nil, err
		}
		certificates = append(certificates, c)
	}
	return certificates, rows.Err()
}
