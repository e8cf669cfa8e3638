// Package api serves the collection controls over HTTP: toggle, extract
// now, stats, cleanup, clear, export, and the badge.
package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pevans/songlog/collection"
	"github.com/pevans/songlog/collector"
)

// APIServer represents the HTTP API server for the collection.
type APIServer struct {
	store     *collection.Store
	collector *collector.Collector
	badge     *Badge
	now       func() time.Time
}

// NewAPIServer creates a new API server. The collector's enabled flag is
// expected to mirror the store's.
func NewAPIServer(store *collection.Store, c *collector.Collector, badge *Badge) *APIServer {
	if badge == nil {
		badge = NewBadge()
	}
	return &APIServer{
		store:     store,
		collector: c,
		badge:     badge,
		now:       time.Now,
	}
}

// SetupRouter configures the Gin router with all collection API routes.
func (s *APIServer) SetupRouter() *gin.Engine {
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	api := router.Group("/api/v1")
	api.GET("/badge", s.HandleBadge)

	coll := api.Group("/collection")
	coll.GET("", s.HandleStats)
	coll.DELETE("", s.HandleClear)
	coll.POST("/toggle", s.HandleToggle)
	coll.POST("/extract", s.HandleExtract)
	coll.POST("/cleanup", s.HandleCleanup)
	coll.GET("/export", s.HandleExport)

	return router
}

// errorResponse creates a standardized error response.
func errorResponse(code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

// ToggleRequest is the body of POST /api/v1/collection/toggle.
type ToggleRequest struct {
	Enabled *bool `json:"enabled"`
}

// StatsResponse represents the response for GET /api/v1/collection.
type StatsResponse struct {
	Total   int    `json:"total"`
	Enabled bool   `json:"enabled"`
	Status  string `json:"status"`
}

// Status labels shown for the enabled flag.
const (
	StatusActive = "Active"
	StatusPaused = "Paused"
)

// HandleToggle handles POST /api/v1/collection/toggle. The flag is persisted
// before the collector is told.
func (s *APIServer) HandleToggle(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("bad_request", err.Error()))
		return
	}
	if req.Enabled == nil {
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", "enabled is required"))
		return
	}

	if err := s.store.SetEnabled(c.Request.Context(), *req.Enabled); err != nil {
		log.Printf("ERROR: %v", err)
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to save collection state"))
		return
	}

	c.JSON(http.StatusOK, s.collector.Toggle(*req.Enabled))
}

// HandleExtract handles POST /api/v1/collection/extract.
func (s *APIServer) HandleExtract(c *gin.Context) {
	resp, err := s.collector.ExtractNow(c.Request.Context())
	if errors.Is(err, collector.ErrNoSource) {
		c.JSON(http.StatusServiceUnavailable, errorResponse("unavailable", "No page is being watched"))
		return
	}
	if err != nil {
		log.Printf("ERROR: Extract now failed: %v", err)
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to extract songs"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleStats handles GET /api/v1/collection.
func (s *APIServer) HandleStats(c *gin.Context) {
	ctx := c.Request.Context()

	songs, err := s.store.Songs(ctx)
	if err != nil {
		log.Printf("ERROR: %v", err)
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to load songs"))
		return
	}
	enabled, err := s.store.Enabled(ctx)
	if err != nil {
		log.Printf("ERROR: %v", err)
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to load collection state"))
		return
	}

	status := StatusPaused
	if enabled {
		status = StatusActive
	}

	c.JSON(http.StatusOK, StatsResponse{
		Total:   len(songs),
		Enabled: enabled,
		Status:  status,
	})
}

// HandleCleanup handles POST /api/v1/collection/cleanup.
func (s *APIServer) HandleCleanup(c *gin.Context) {
	result, err := collection.Cleanup(c.Request.Context(), s.store)
	if err != nil {
		log.Printf("ERROR: %v", err)
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to clean up songs"))
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleClear handles DELETE /api/v1/collection. Every stored key goes, so
// collection is enabled again afterwards.
func (s *APIServer) HandleClear(c *gin.Context) {
	ctx := c.Request.Context()

	if err := s.store.Clear(ctx); err != nil {
		log.Printf("ERROR: %v", err)
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to clear data"))
		return
	}

	enabled, err := s.store.Enabled(ctx)
	if err != nil {
		log.Printf("ERROR: %v", err)
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to load collection state"))
		return
	}
	s.collector.Toggle(enabled)

	log.Printf("INFO: All data cleared")
	c.Status(http.StatusNoContent)
}

// HandleExport handles GET /api/v1/collection/export. The body is served as
// a download named after the current date.
func (s *APIServer) HandleExport(c *gin.Context) {
	now := s.now()

	data, err := collection.Export(c.Request.Context(), s.store, now)
	if err != nil {
		log.Printf("ERROR: %v", err)
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to export songs"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", collection.ExportFilename(now)))
	c.IndentedJSON(http.StatusOK, data)
}

// HandleBadge handles GET /api/v1/badge.
func (s *APIServer) HandleBadge(c *gin.Context) {
	c.JSON(http.StatusOK, s.badge.State())
}
