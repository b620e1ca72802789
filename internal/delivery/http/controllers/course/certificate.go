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

type CertificateService interface {
	Issue(ctx context.Context, userID, courseID uuid.UUID) (*models.CertificateView, error)
	Get(ctx context.Context, userID, courseID uuid.UUID) (*models.CertificateView, error)
}

type CertificateHandler struct {
	log     logger.Log
	service CertificateService
}

func NewCertificateHandler(log logger.Log, s CertificateService) *CertificateHandler {
	return &CertificateHandler{
		log:     log,
		service: s,
	}
}

func (h *CertificateHandler) Issue(c *gin.Context) {
	userID, ok := clientID(c)
	if !ok {
		return
	}
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	view, err := h.service.Issue(c.Request.Context(), userID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrNotEnrolled):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrCourseNotCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("issue certificate failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CertificateHandler) Get(c *gin.Context) {
	userID, ok := clientID(c)
	if !ok {
		return
	}
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	view, err := h.service.Get(c.Request.Context(), userID, courseID)
	if err != nil {
		if errors.Is(err, app_errors.ErrCertificateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("get certificate failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}
