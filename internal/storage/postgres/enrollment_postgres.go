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

type EnrollmentPostgres struct {
	db *pgxpool.Pool
}

func NewEnrollmentPostgres(db *pgxpool.Pool) *EnrollmentPostgres {
	return &EnrollmentPostgres{db: db}
}

func (r *EnrollmentPostgres) Create(ctx context.Context, enrollment models.Enrollment) (*models.Enrollment, error) {
	now := time.Now().UTC()
	if enrollment.ID == uuid.Nil {
		enrollment.ID = uuid.New()
	}
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now

	query := `
		INSERT INTO enrollments
			(id, user_id, course_id, progress, progress_array, completed_modules_count, passed_quizzes, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		enrollment.ID, enrollment.UserID, enrollment.CourseID,
		enrollment.Progress, enrollment.ProgressArray, enrollment.CompletedModulesCount,
		enrollment.PassedQuizzes, enrollment.CompletedAt, enrollment.CreatedAt, enrollment.UpdatedAt,
	)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == uniqueViolation {
			return nil, app_errors.ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("failed to insert enrollment: %w", err)
	}
	return &enrollment, nil
}

func (r *EnrollmentPostgres) ByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, progress, progress_array, completed_modules_count, passed_quizzes, completed_at, created_at, updated_at
		FROM enrollments
		WHERE user_id = $1 AND course_id = $2
	`
	var e models.Enrollment
	err := r.db.QueryRow(ctx, query, userID, courseID).Scan(
		&e.ID, &e.UserID, &e.CourseID, &e.Progress, &e.ProgressArray,
		&e.CompletedModulesCount, &e.PassedQuizzes, &e.CompletedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrNotEnrolled
		}
		return nil, err
	}
	return &e, nil
}

// Update replaces the stored snapshot wholesale.
func (r *EnrollmentPostgres) Update(ctx context.Context, enrollment models.Enrollment) (*models.Enrollment, error) {
	query := `
		UPDATE enrollments
		   SET progress = $1,
		       progress_array = $2,
		       completed_modules_count = $3,
		       passed_quizzes = $4,
		       completed_at = $5,
		       updated_at = $6
		 WHERE id = $7
	`
	tag, err := r.db.Exec(ctx, query,
		enrollment.Progress, enrollment.ProgressArray, enrollment.CompletedModulesCount,
		enrollment.PassedQuizzes, enrollment.CompletedAt, enrollment.UpdatedAt, enrollment.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, app_errors.ErrNotEnrolled
	}
	return &enrollment, nil
}

func (r *EnrollmentPostgres) CountByCourse(ctx context.Context, courseID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM enrollments WHERE course_id = $1`, courseID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
