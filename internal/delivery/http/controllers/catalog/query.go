package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"certifree/internal/app_errors"
	"certifree/internal/models"
	"certifree/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QueryService interface {
	Categories(ctx context.Context) ([]models.Category, error)
	CertificationByID(ctx context.Context, id uuid.UUID) (*models.CertificationPreview, error)
	CertificationsPreview(ctx context.Context, categoryID *uuid.UUID, count, offset int) ([]models.CertificationPreview, int, error)
	SearchCertificationsPreview(ctx context.Context, query string, count, offset int) ([]models.CertificationPreview, int, error)
	GetCertificationLogoURL(ctx context.Context, id uuid.UUID) (string, error)
}

type QueryHandler struct {
	log     logger.Log
	service QueryService
}

func NewQueryHandler(log logger.Log, s QueryService) *QueryHandler {
	return &QueryHandler{
		log:     log,
		service: s,
	}
}

func (h *QueryHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.log.ErrorErr("ListCategories failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *QueryHandler) CertificationByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("certification_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid certification_id"})
		return
	}

	preview, err := h.service.CertificationByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, app_errors.ErrCertificationNotFound) || errors.Is(err, app_errors.ErrCertificationHidden) {
			c.JSON(http.StatusNotFound, gin.H{"error": app_errors.ErrCertificationNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (h *QueryHandler) ListCertificationsPreview(c *gin.Context) {
	ctx := c.Request.Context()

	limit := 10
	if s := c.Query("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = v
	}

	offset := 0
	if s := c.Query("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a non-negative integer"})
			return
		}
		offset = v
	}

	var categoryID *uuid.UUID
	if s := c.Query("category_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
			return
		}
		categoryID = &id
	}

	var (
		previews []models.CertificationPreview
		total    int
		err      error
	)
	if q := c.Query("query"); q != "" {
		previews, total, err = h.service.SearchCertificationsPreview(ctx, q, limit, offset)
	} else {
		previews, total, err = h.service.CertificationsPreview(ctx, categoryID, limit, offset)
	}
	if err != nil {
		h.log.ErrorErr("ListCertifications failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch certifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":          total,
		"certifications": previews,
	})
}

func (h *QueryHandler) GetCertificationLogoURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("certification_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid certification_id"})
		return
	}

	url, err := h.service.GetCertificationLogoURL(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrCertificationNotFound), errors.Is(err, app_errors.ErrCertificationHidden):
			c.JSON(http.StatusNotFound, gin.H{"error": app_errors.ErrCertificationNotFound.Error()})
		case errors.Is(err, app_errors.ErrImageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
