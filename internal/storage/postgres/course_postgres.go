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

type CoursePostgres struct {
	db *pgxpool.Pool
}

func NewCoursePostgres(db *pgxpool.Pool) *CoursePostgres {
	return &CoursePostgres{db: db}
}

func (r *CoursePostgres) CreateCourse(ctx context.Context, course models.Course) (*models.Course, error) {
	now := time.Now().UTC()
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	course.CreatedAt = now
	course.UpdatedAt = now

	query := `
		INSERT INTO courses (id, title, description, duration, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, course.ID, course.Title, course.Description, course.Duration, course.CreatedAt, course.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert course: %w", err)
	}
	return &course, nil
}

func (r *CoursePostgres) CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var course models.Course
	query := `SELECT id, title, description, duration, created_at, updated_at FROM courses WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&course.ID, &course.Title, &course.Description, &course.Duration, &course.CreatedAt, &course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

// CreateModule inserts the module at its position, shifting later
// modules so course order stays contiguous from 1.
func (r *CoursePostgres) CreateModule(ctx context.Context, module models.Module) (*models.Module, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	updateQuery := `
		UPDATE modules SET module_order = module_order + 1
		 WHERE course_id = $1 AND module_order >= $2
	`
	if _, err = tx.Exec(ctx, updateQuery, module.CourseID, module.Order); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if module.ID == uuid.Nil {
		module.ID = uuid.New()
	}
	module.CreatedAt = now
	module.UpdatedAt = now

	insertQuery := `
		INSERT INTO modules (id, course_id, title, module_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.Exec(ctx, insertQuery, module.ID, module.CourseID, module.Title, module.Order, module.CreatedAt, module.UpdatedAt)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == uniqueViolation {
			return nil, app_errors.ErrDuplicateModule
		}
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &module, nil
}

// CreateLesson inserts the lesson at its position. Lesson order is
// unique across the whole course, so the shift spans every module.
func (r *CoursePostgres) CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	updateQuery := `
		UPDATE lessons SET lesson_order = lesson_order + 1
		 WHERE course_id = $1 AND lesson_order >= $2
	`
	if _, err = tx.Exec(ctx, updateQuery, lesson.CourseID, lesson.Order); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	lesson.CreatedAt = now
	lesson.UpdatedAt = now

	insertQuery := `
		INSERT INTO lessons (id, course_id, module_id, title, lesson_order, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.Exec(ctx, insertQuery,
		lesson.ID, lesson.CourseID, lesson.ModuleID, lesson.Title, lesson.Order,
		lesson.Content, lesson.CreatedAt, lesson.UpdatedAt,
	)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == uniqueViolation {
			return nil, app_errors.ErrDuplicateLesson
		}
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *CoursePostgres) DeleteLessonAndUpdateOrder(ctx context.Context, lessonID, courseID uuid.UUID, lessonOrder int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, `DELETE FROM lessons WHERE id = $1`, lessonID); err != nil {
		return err
	}

	updateQuery := `
		UPDATE lessons SET lesson_order = lesson_order - 1
		 WHERE course_id = $1 AND lesson_order > $2
	`
	if _, err = tx.Exec(ctx, updateQuery, courseID, lessonOrder); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *CoursePostgres) DeleteModuleAndUpdateOrder(ctx context.Context, moduleID, courseID uuid.UUID, moduleOrder int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, `DELETE FROM lessons WHERE module_id = $1`, moduleID); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `DELETE FROM quizzes WHERE module_id = $1`, moduleID); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `DELETE FROM modules WHERE id = $1`, moduleID); err != nil {
		return err
	}

	updateQuery := `
		UPDATE modules SET module_order = module_order - 1
		 WHERE course_id = $1 AND module_order > $2
	`
	if _, err = tx.Exec(ctx, updateQuery, courseID, moduleOrder); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *CoursePostgres) CreateQuiz(ctx context.Context, quiz models.Quiz) (*models.Quiz, error) {
	now := time.Now().UTC()
	if quiz.ID == uuid.Nil {
		quiz.ID = uuid.New()
	}
	quiz.CreatedAt = now
	quiz.UpdatedAt = now

	query := `
		INSERT INTO quizzes (id, course_id, module_id, kind, title, pass_percentage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		quiz.ID, quiz.CourseID, quiz.ModuleID, quiz.Kind, quiz.Title,
		quiz.PassPercentage, quiz.CreatedAt, quiz.UpdatedAt,
	)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == uniqueViolation {
			if quiz.Kind == models.QuizKindFinal {
				return nil, app_errors.ErrFinalQuizExists
			}
			return nil, app_errors.ErrModuleQuizExists
		}
		return nil, fmt.Errorf("failed to insert quiz: %w", err)
	}
	return &quiz, nil
}

func (r *CoursePostgres) CreateQuestion(ctx context.Context, question models.QuizQuestion) (*models.QuizQuestion, error) {
	if question.ID == uuid.Nil {
		question.ID = uuid.New()
	}

	query := `
		INSERT INTO quiz_questions (id, quiz_id, type, prompt, options, correct_answer, explanation, question_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		question.ID, question.QuizID, question.Type, question.Prompt,
		question.Options, question.CorrectAnswer, question.Explanation, question.Order,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert question: %w", err)
	}
	return &question, nil
}

// CourseContent loads the full graph the progression engine runs on:
// ordered modules, their ordered lessons, module quizzes with questions
// and the final quiz when defined.
func (r *CoursePostgres) CourseContent(ctx context.Context, courseID uuid.UUID) (models.CourseContent, error) {
	course, err := r.CourseByID(ctx, courseID)
	if err != nil {
		return models.CourseContent{}, err
	}
	content := models.CourseContent{Course: *course}

	modulesQuery := `
		SELECT id, course_id, title, module_order, created_at, updated_at
		FROM modules
		WHERE course_id = $1
		ORDER BY module_order
	`
	rows, err := r.db.Query(ctx, modulesQuery, courseID)
	if err != nil {
		return models.CourseContent{}, fmt.Errorf("failed to query modules: %w", err)
	}
	defer rows.Close()

	byModule := make(map[uuid.UUID]int)
	for rows.Next() {
		var m models.Module
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Title, &m.Order, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return models.CourseContent{}, err
		}
		byModule[m.ID] = len(content.Modules)
		content.Modules = append(content.Modules, models.ModuleContent{Module: m})
	}
	if err := rows.Err(); err != nil {
		return models.CourseContent{}, err
	}

	lessonsQuery := `
		SELECT id, course_id, module_id, title, lesson_order, content, created_at, updated_at
		FROM lessons
		WHERE course_id = $1
		ORDER BY lesson_order
	`
	lessonRows, err := r.db.Query(ctx, lessonsQuery, courseID)
	if err != nil {
		return models.CourseContent{}, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer lessonRows.Close()

	for lessonRows.Next() {
		var l models.Lesson
		if err := lessonRows.Scan(&l.ID, &l.CourseID, &l.ModuleID, &l.Title, &l.Order, &l.Content, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return models.CourseContent{}, err
		}
		if i, ok := byModule[l.ModuleID]; ok {
			content.Modules[i].Lessons = append(content.Modules[i].Lessons, l)
		}
	}
	if err := lessonRows.Err(); err != nil {
		return models.CourseContent{}, err
	}

	quizzes, err := r.quizzesByCourse(ctx, courseID)
	if err != nil {
		return models.CourseContent{}, err
	}
	for i := range quizzes {
		q := quizzes[i]
		switch {
		case q.Kind == models.QuizKindFinal:
			content.FinalQuiz = &q
		case q.ModuleID != nil:
			if j, ok := byModule[*q.ModuleID]; ok {
				content.Modules[j].Quiz = &q
			}
		}
	}

	return content, nil
}

func (r *CoursePostgres) quizzesByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Quiz, error) {
	query := `
		SELECT id, course_id, module_id, kind, title, pass_percentage, created_at, updated_at
		FROM quizzes
		WHERE course_id = $1
	`
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []models.Quiz
	byQuiz := make(map[uuid.UUID]int)
	for rows.Next() {
		var q models.Quiz
		if err := rows.Scan(&q.ID, &q.CourseID, &q.ModuleID, &q.Kind, &q.Title, &q.PassPercentage, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		byQuiz[q.ID] = len(quizzes)
		quizzes = append(quizzes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(quizzes) == 0 {
		return nil, nil
	}

	questionsQuery := `
		SELECT q.id, q.quiz_id, q.type, q.prompt, q.options, q.correct_answer, q.explanation, q.question_order
		FROM quiz_questions q
		INNER JOIN quizzes z ON z.id = q.quiz_id
		WHERE z.course_id = $1
		ORDER BY q.quiz_id, q.question_order
	`
	questionRows, err := r.db.Query(ctx, questionsQuery, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz questions: %w", err)
	}
	defer questionRows.Close()

	for questionRows.Next() {
		var q models.QuizQuestion
		if err := questionRows.Scan(&q.ID, &q.QuizID, &q.Type, &q.Prompt, &q.Options, &q.CorrectAnswer, &q.Explanation, &q.Order); err != nil {
			return nil, err
		}
		if i, ok := byQuiz[q.QuizID]; ok {
			quizzes[i].Questions = append(quizzes[i].Questions, q)
		}
	}
	return quizzes, questionRows.Err()
}
