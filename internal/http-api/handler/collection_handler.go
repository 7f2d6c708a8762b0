package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"filmoteka/internal/http-api/dto"
	"filmoteka/internal/http-api/middleware"
	"filmoteka/internal/http-api/models"
	"filmoteka/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type CollectionHandler struct {
	collection service.CollectionService
}

func NewCollectionHandler(collection service.CollectionService) *CollectionHandler {
	return &CollectionHandler{collection: collection}
}

func (h *CollectionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/add", h.Add)
	rg.GET("/", h.List)
	rg.POST("/:movie_identifier/:status", h.SetStatus)
	rg.DELETE("/:movie_identifier", h.Remove)
}

func (h *CollectionHandler) Add(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req dto.AddToCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := service.AddToCollectionParams{
		MovieID:     req.MovieID,
		Title:       req.Title,
		Description: req.Description,
		PosterPath:  req.PosterPath,
		Rating:      req.Rating,
	}
	if req.Status != nil {
		status := models.WatchStatus(strings.ToLower(strings.TrimSpace(*req.Status)))
		params.Status = &status
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entry, err := h.collection.Add(ctx, userID, params)
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
		return
	case errors.Is(err, service.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add movie to collection"})
		return
	}

	resp, ok := dto.FromUserMovie(*entry)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load collection entry"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CollectionHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var statusFilter *models.WatchStatus
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := models.WatchStatus(strings.ToLower(raw))
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status, must be one of: will_watch, watched, dropped"})
			return
		}
		statusFilter = &status
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entries, err := h.collection.List(ctx, userID, statusFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load collection"})
		return
	}

	// Entries whose target record has vanished are skipped, not errors.
	resp := make([]dto.CollectionMovieResponse, 0, len(entries))
	for _, entry := range entries {
		if item, ok := dto.FromUserMovie(entry); ok {
			resp = append(resp, item)
		}
	}
	c.JSON(http.StatusOK, resp)
}

// SetStatus resolves :movie_identifier against the caller's collection. The
// identifier is a target id (catalog or custom movie), matching how clients
// reference movies they already track.
func (h *CollectionHandler) SetStatus(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status := models.WatchStatus(strings.ToLower(c.Param("status")))
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status, must be one of: will_watch, watched, dropped"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entry, err := h.collection.ResolveByTargetID(ctx, userID, c.Param("movie_identifier"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "movie not found in collection"})
		return
	}

	updated, err := h.collection.UpdateStatus(ctx, userID, entry.ID, status)
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "movie not found in collection"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
		return
	}

	resp, ok := dto.FromUserMovie(*updated)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load collection entry"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CollectionHandler) Remove(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entry, err := h.collection.ResolveByTargetID(ctx, userID, c.Param("movie_identifier"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "movie not found in collection"})
		return
	}

	if err := h.collection.Remove(ctx, userID, entry.ID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "movie not found in collection"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove movie from collection"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "movie removed from collection"})
}
