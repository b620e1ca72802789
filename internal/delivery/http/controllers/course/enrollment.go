package course

import (
	"context"
	"errors"
	"net/http"

	"certifree/internal/app_errors"
	"certifree/internal/models"
	"certifree/internal/service/course/enrollment"
	"certifree/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error)
	ToggleLesson(ctx context.Context, userID, courseID, lessonID uuid.UUID) (*models.Enrollment, error)
	SubmitQuiz(ctx context.Context, userID, courseID, quizID uuid.UUID, answers map[uuid.UUID]string) (*models.QuizAttempt, *models.Enrollment, error)
	Progress(ctx context.Context, userID, courseID uuid.UUID) (*enrollment.ProgressView, error)
}

type EnrollmentHandler struct {
	log     logger.Log
	service EnrollmentService
}

func NewEnrollmentHandler(log logger.Log, s EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		log:     log,
		service: s,
	}
}

func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	userID, ok := clientID(c)
	if !ok {
		return
	}
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	e, err := h.service.Enroll(c.Request.Context(), userID, courseID)
	if err != nil {
		if errors.Is(err, app_errors.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("enroll failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *EnrollmentHandler) ToggleLesson(c *gin.Context) {
	userID, ok := clientID(c)
	if !ok {
		return
	}
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	lessonID, err := uuid.Parse(c.Param("lesson_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lesson_id"})
		return
	}

	e, err := h.service.ToggleLesson(c.Request.Context(), userID, courseID, lessonID)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrCourseNotFound), errors.Is(err, app_errors.ErrLessonNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrNotEnrolled):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrModuleLocked):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("toggle lesson failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, e)
}

type submitQuizRequest struct {
	Answers map[uuid.UUID]string `json:"answers" binding:"required"`
}

func (h *EnrollmentHandler) SubmitQuiz(c *gin.Context) {
	userID, ok := clientID(c)
	if !ok {
		return
	}
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quiz_id"})
		return
	}

	var input submitQuizRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attempt, e, err := h.service.SubmitQuiz(c.Request.Context(), userID, courseID, quizID, input.Answers)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrCourseNotFound), errors.Is(err, app_errors.ErrQuizNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrNotEnrolled):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrQuizLocked):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrQuizEmpty):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("submit quiz failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"attempt":    attempt,
		"enrollment": e,
	})
}

func (h *EnrollmentHandler) Progress(c *gin.Context) {
	userID, ok := clientID(c)
	if !ok {
		return
	}
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	view, err := h.service.Progress(c.Request.Context(), userID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrNotEnrolled):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("progress failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, view)
}
