package catalog

import (
	"context"
	"errors"
	"net/http"

	"certifree/internal/app_errors"
	"certifree/internal/delivery/http/controllers/middleware"
	"certifree/internal/models"
	"certifree/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FavoriteService interface {
	Favorite(ctx context.Context, userID, certificationID uuid.UUID) error
	Unfavorite(ctx context.Context, userID, certificationID uuid.UUID) error
	Favorites(ctx context.Context, userID uuid.UUID) ([]models.Certification, error)
}

type FavoriteHandler struct {
	log     logger.Log
	service FavoriteService
}

func NewFavoriteHandler(log logger.Log, s FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		log:     log,
		service: s,
	}
}

func (h *FavoriteHandler) Favorite(c *gin.Context) {
	userID, ok := clientID(c)
	if !ok {
		return
	}
	certificationID, err := uuid.Parse(c.Param("certification_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid certification_id"})
		return
	}

	err = h.service.Favorite(c.Request.Context(), userID, certificationID)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrCertificationNotFound), errors.Is(err, app_errors.ErrCertificationHidden):
			c.JSON(http.StatusNotFound, gin.H{"error": app_errors.ErrCertificationNotFound.Error()})
		case errors.Is(err, app_errors.ErrAlreadyFavorited):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("favorite failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "favorited"})
}

func (h *FavoriteHandler) Unfavorite(c *gin.Context) {
	userID, ok := clientID(c)
	if !ok {
		return
	}
	certificationID, err := uuid.Parse(c.Param("certification_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid certification_id"})
		return
	}

	err = h.service.Unfavorite(c.Request.Context(), userID, certificationID)
	if err != nil {
		if errors.Is(err, app_errors.ErrFavoriteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("unfavorite failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unfavorited"})
}

func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	userID, ok := clientID(c)
	if !ok {
		return
	}

	certifications, err := h.service.Favorites(c.Request.Context(), userID)
	if err != nil {
		h.log.ErrorErr("list favorites failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": certifications})
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
