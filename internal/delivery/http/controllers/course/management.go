package course

import (
	"context"
	"errors"
	"net/http"

	"certifree/internal/app_errors"
	"certifree/internal/models"
	"certifree/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ManagementService interface {
	CreateCourse(ctx context.Context, course models.Course) (*models.Course, error)
	CourseContent(ctx context.Context, courseID uuid.UUID) (models.CourseContent, error)
	CreateModule(ctx context.Context, module models.Module) (*models.Module, error)
	CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, courseID, lessonID uuid.UUID) error
	DeleteModule(ctx context.Context, courseID, moduleID uuid.UUID) error
	CreateQuiz(ctx context.Context, quiz models.Quiz) (*models.Quiz, error)
	CreateQuestion(ctx context.Context, courseID uuid.UUID, question models.QuizQuestion) (*models.QuizQuestion, error)
}

type ManagementHandler struct {
	log     logger.Log
	service ManagementService
}

func NewManagementHandler(log logger.Log, s ManagementService) *ManagementHandler {
	return &ManagementHandler{
		log:     log,
		service: s,
	}
}

type createCourseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
}

func (h *ManagementHandler) CreateCourse(c *gin.Context) {
	var input createCourseRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.service.CreateCourse(c.Request.Context(), models.Course{
		Title:       input.Title,
		Description: input.Description,
		Duration:    input.Duration,
	})
	if err != nil {
		h.log.ErrorErr("create course failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, course)
}

// AdminCourseContent returns the raw graph including answer keys.
func (h *ManagementHandler) AdminCourseContent(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	content, err := h.service.CourseContent(c.Request.Context(), courseID)
	if err != nil {
		if errors.Is(err, app_errors.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("admin course content failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, content)
}

type createModuleRequest struct {
	Title string `json:"title" binding:"required"`
	Order int    `json:"order"`
}

func (h *ManagementHandler) CreateModule(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	var input createModuleRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	module, err := h.service.CreateModule(c.Request.Context(), models.Module{
		CourseID: courseID,
		Title:    input.Title,
		Order:    input.Order,
	})
	if err != nil {
		h.manageError(c, err, "create module failed")
		return
	}
	c.JSON(http.StatusCreated, module)
}

type createLessonRequest struct {
	ModuleID uuid.UUID `json:"module_id" binding:"required"`
	Title    string    `json:"title" binding:"required"`
	Order    int       `json:"order"`
	Content  string    `json:"content"`
}

func (h *ManagementHandler) CreateLesson(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	var input createLessonRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lesson, err := h.service.CreateLesson(c.Request.Context(), models.Lesson{
		CourseID: courseID,
		ModuleID: input.ModuleID,
		Title:    input.Title,
		Order:    input.Order,
		Content:  input.Content,
	})
	if err != nil {
		h.manageError(c, err, "create lesson failed")
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

func (h *ManagementHandler) DeleteLesson(c *gin.Context) {
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

	if err := h.service.DeleteLesson(c.Request.Context(), courseID, lessonID); err != nil {
		h.manageError(c, err, "delete lesson failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "lesson deleted"})
}

func (h *ManagementHandler) DeleteModule(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	moduleID, err := uuid.Parse(c.Param("module_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid module_id"})
		return
	}

	if err := h.service.DeleteModule(c.Request.Context(), courseID, moduleID); err != nil {
		h.manageError(c, err, "delete module failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "module deleted"})
}

type createQuizRequest struct {
	ModuleID       *uuid.UUID `json:"module_id"`
	Kind           string     `json:"kind" binding:"required"`
	Title          string     `json:"title" binding:"required"`
	PassPercentage float64    `json:"pass_percentage"`
}

func (h *ManagementHandler) CreateQuiz(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	var input createQuizRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.service.CreateQuiz(c.Request.Context(), models.Quiz{
		CourseID:       courseID,
		ModuleID:       input.ModuleID,
		Kind:           input.Kind,
		Title:          input.Title,
		PassPercentage: input.PassPercentage,
	})
	if err != nil {
		h.manageError(c, err, "create quiz failed")
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

type createQuestionRequest struct {
	QuizID        uuid.UUID `json:"quiz_id" binding:"required"`
	Type          string    `json:"type" binding:"required"`
	Prompt        string    `json:"prompt" binding:"required"`
	Options       []string  `json:"options"`
	CorrectAnswer string    `json:"correct_answer" binding:"required"`
	Explanation   string    `json:"explanation"`
	Order         int       `json:"order"`
}

func (h *ManagementHandler) CreateQuestion(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	var input createQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.service.CreateQuestion(c.Request.Context(), courseID, models.QuizQuestion{
		QuizID:        input.QuizID,
		Type:          input.Type,
		Prompt:        input.Prompt,
		Options:       input.Options,
		CorrectAnswer: input.CorrectAnswer,
		Explanation:   input.Explanation,
		Order:         input.Order,
	})
	if err != nil {
		h.manageError(c, err, "create question failed")
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *ManagementHandler) manageError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, app_errors.ErrCourseNotFound),
		errors.Is(err, app_errors.ErrModuleNotFound),
		errors.Is(err, app_errors.ErrLessonNotFound),
		errors.Is(err, app_errors.ErrQuizNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, app_errors.ErrDuplicateModule),
		errors.Is(err, app_errors.ErrDuplicateLesson),
		errors.Is(err, app_errors.ErrFinalQuizExists),
		errors.Is(err, app_errors.ErrModuleQuizExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, app_errors.ErrInvalidQuestion):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.ErrorErr(msg, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
