package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"filmoteka/internal/http-api/dto"
	"filmoteka/internal/http-api/middleware"
	"filmoteka/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type MovieHandler struct {
	movies    service.MovieService
	recommend service.RecommendService
	metadata  *service.MetadataService
}

func NewMovieHandler(movies service.MovieService, recommend service.RecommendService, metadata *service.MetadataService) *MovieHandler {
	return &MovieHandler{movies: movies, recommend: recommend, metadata: metadata}
}

func (h *MovieHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)
	rg.GET("/top", h.Top)
	rg.GET("/recommended", h.Recommended)
	rg.GET("/extract-metadata", h.ExtractMetadata)

	rg.POST("/reindex", middleware.RequireAdmin(), h.Reindex)
}

func (h *MovieHandler) Search(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var params service.SearchParams
	params.Title = strings.TrimSpace(c.Query("title"))
	params.Genres = strings.TrimSpace(c.Query("genres"))

	if minRatingStr := strings.TrimSpace(c.Query("min_rating")); minRatingStr != "" {
		minRating, err := strconv.ParseFloat(minRatingStr, 64)
		if err != nil || minRating < 0 || minRating > 10 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_rating parameter, must be between 0 and 10"})
			return
		}
		params.MinRating = &minRating
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	results, err := h.movies.Search(ctx, userID, params)
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is temporarily unavailable"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, moviesWithStatusResponse(results))
}

func (h *MovieHandler) Top(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	results, err := h.movies.TopMovies(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load top movies"})
		return
	}

	c.JSON(http.StatusOK, moviesWithStatusResponse(results))
}

func (h *MovieHandler) Recommended(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	movies, err := h.recommend.Recommend(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute recommendations"})
		return
	}

	// Recommendations never include tracked movies, so status is always nil.
	resp := make([]dto.MovieResponse, 0, len(movies))
	for _, m := range movies {
		resp = append(resp, dto.FromMovie(m, nil))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MovieHandler) Reindex(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	indexed, err := h.movies.Reindex(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reindex failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "reindex completed",
		"indexed": indexed,
	})
}

func (h *MovieHandler) ExtractMetadata(c *gin.Context) {
	pageURL := strings.TrimSpace(c.Query("url"))
	if pageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	meta, err := h.metadata.Extract(ctx, pageURL)
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "metadata extraction failed"})
		return
	}

	c.JSON(http.StatusOK, dto.MetadataResponse{
		Title:     meta.Title,
		Overview:  meta.Overview,
		PosterURL: meta.PosterURL,
	})
}

func moviesWithStatusResponse(results []service.MovieWithStatus) []dto.MovieResponse {
	resp := make([]dto.MovieResponse, 0, len(results))
	for _, r := range results {
		resp = append(resp, dto.FromMovie(r.Movie, r.Status))
	}
	return resp
}
