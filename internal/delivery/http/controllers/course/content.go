package course

import (
	"context"
	"errors"
	"net/http"

	"certifree/internal/app_errors"
	"certifree/internal/delivery/http/controllers/middleware"
	"certifree/internal/service/course/content"
	"certifree/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ContentService interface {
	Outline(ctx context.Context, courseID uuid.UUID) (*content.CourseContentView, error)
	ContentFor(ctx context.Context, userID, courseID uuid.UUID) (*content.CourseContentView, error)
}

type ContentHandler struct {
	log     logger.Log
	service ContentService
}

func NewContentHandler(log logger.Log, s ContentService) *ContentHandler {
	return &ContentHandler{
		log:     log,
		service: s,
	}
}

// Outline serves the structure-only view; no auth required.
func (h *ContentHandler) Outline(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	view, err := h.service.Outline(c.Request.Context(), courseID)
	if err != nil {
		if errors.Is(err, app_errors.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("outline failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ContentHandler) CourseContent(c *gin.Context) {
	userID, ok := clientID(c)
	if !ok {
		return
	}
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	view, err := h.service.ContentFor(c.Request.Context(), userID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrNotEnrolled):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("course content failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, view)
}

func clientID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(middleware.ClientIDCtx)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return uuid.Nil, false
	}
	id, ok := raw.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user id"})
		return uuid.Nil, false
	}
	return id, true
}
