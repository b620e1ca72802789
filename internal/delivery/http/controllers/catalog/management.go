package catalog

import (
	"context"
	"errors"
	"io"
	"net/http"

	"certifree/internal/app_errors"
	"certifree/internal/models"
	"certifree/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ManagementService interface {
	CreateCategory(ctx context.Context, name, slug string) (*models.Category, error)
	CreateCertification(ctx context.Context, cert models.Certification) (*models.Certification, error)
	UpdateCertification(ctx context.Context, cert models.Certification) error
	DeleteCertification(ctx context.Context, id uuid.UUID) error
	Publish(ctx context.Context, id uuid.UUID) error
	Hide(ctx context.Context, id uuid.UUID) error
	UploadCertificationLogo(ctx context.Context, certificationID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error)
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

type createCategoryRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

func (h *ManagementHandler) CreateCategory(c *gin.Context) {
	var input createCategoryRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), input.Name, input.Slug)
	if err != nil {
		h.log.ErrorErr("create category failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, category)
}

type certificationRequest struct {
	CategoryID  uuid.UUID  `json:"category_id" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Provider    string     `json:"provider" binding:"required"`
	Description string     `json:"description"`
	ExternalURL string     `json:"external_url"`
	CourseID    *uuid.UUID `json:"course_id"`
}

func (h *ManagementHandler) CreateCertification(c *gin.Context) {
	var input certificationRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cert, err := h.service.CreateCertification(c.Request.Context(), models.Certification{
		CategoryID:  input.CategoryID,
		Title:       input.Title,
		Provider:    input.Provider,
		Description: input.Description,
		ExternalURL: input.ExternalURL,
		CourseID:    input.CourseID,
	})
	if err != nil {
		if errors.Is(err, app_errors.ErrCategoryNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("create certification failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, cert)
}

func (h *ManagementHandler) UpdateCertification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("certification_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid certification_id"})
		return
	}

	var input certificationRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.service.UpdateCertification(c.Request.Context(), models.Certification{
		ID:          id,
		CategoryID:  input.CategoryID,
		Title:       input.Title,
		Provider:    input.Provider,
		Description: input.Description,
		ExternalURL: input.ExternalURL,
		CourseID:    input.CourseID,
	})
	if err != nil {
		if errors.Is(err, app_errors.ErrCertificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("update certification failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

func (h *ManagementHandler) DeleteCertification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("certification_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid certification_id"})
		return
	}

	if err := h.service.DeleteCertification(c.Request.Context(), id); err != nil {
		if errors.Is(err, app_errors.ErrCertificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("delete certification failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *ManagementHandler) Publish(c *gin.Context) {
	h.changeStatus(c, h.service.Publish)
}

func (h *ManagementHandler) Hide(c *gin.Context) {
	h.changeStatus(c, h.service.Hide)
}

func (h *ManagementHandler) changeStatus(c *gin.Context, change func(ctx context.Context, id uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("certification_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid certification_id"})
		return
	}

	if err := change(c.Request.Context(), id); err != nil {
		if errors.Is(err, app_errors.ErrCertificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("status change failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status changed"})
}

func (h *ManagementHandler) UploadLogo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("certification_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid certification_id"})
		return
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logo file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	url, err := h.service.UploadCertificationLogo(
		c.Request.Context(),
		id,
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrCertificationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrNotImage), errors.Is(err, app_errors.ErrFileSize):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("upload logo failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
