package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"certifree/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AttemptPostgres struct {
	db *pgxpool.Pool
}

func NewAttemptPostgres(db *pgxpool.Pool) *AttemptPostgres {
	return &AttemptPostgres{db: db}
}

func (r *AttemptPostgres) Create(ctx context.Context, attempt models.QuizAttempt) (*models.QuizAttempt, error) {
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	attempt.CreatedAt = time.Now().UTC()

	answers, err := json.Marshal(attempt.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal attempt answers: %w", err)
	}

	query := `
		INSERT INTO quiz_attempts (id, user_id, quiz_id, score_percentage, passed, attempt_number, answers, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.Exec(ctx, query,
		attempt.ID, attempt.UserID, attempt.QuizID,
		attempt.ScorePercentage, attempt.Passed, attempt.AttemptNumber, answers, attempt.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert quiz attempt: %w", err)
	}
	return &attempt, nil
}

func (r *AttemptPostgres) CountByUserAndQuiz(ctx context.Context, userID, quizID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM quiz_attempts WHERE user_id = $1 AND quiz_id = $2`,
		userID, quizID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AttemptPostgres) ByUserAndQuiz(ctx context.Context, userID, quizID uuid.UUID) ([]models.QuizAttempt, error) {
	query := `
		SELECT id, user_id, quiz_id, score_percentage, passed, attempt_number, answers, created_at
		FROM quiz_attempts
		WHERE user_id = $1 AND quiz_id = $2
		ORDER BY attempt_number
	`
	rows, err := r.db.Query(ctx, query, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.QuizAttempt
	for rows.Next() {
		var a models.QuizAttempt
		var answers []byte
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuizID, &a.ScorePercentage, &a.Passed, &a.AttemptNumber, &answers, &a.CreatedAt); err != nil {
			return nil, err
		}
		if len(answers) > 0 {
			if err := json.Unmarshal(answers, &a.Answers); err != nil {
				return nil, fmt.Errorf("failed to unmarshal attempt answers: %w", err)
			}
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
