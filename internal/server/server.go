package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/droplet/internal/errors"
	"github.com/julianstephens/droplet/internal/logger"
	"github.com/julianstephens/droplet/internal/models"
	"github.com/julianstephens/droplet/internal/storage"
	"github.com/julianstephens/droplet/internal/validation"
)

const shutdownTimeout = 10 * time.Second

// Server exposes a storage.Remote as the HTTP persistence service
type Server struct {
	store     storage.Remote
	validator *validation.Validator
	router    *gin.Engine
}

// CommitRequest is the body of POST /api/history
type CommitRequest struct {
	UserID string                  `json:"user_id" binding:"required"`
	Item   *models.FootprintRecord `json:"item" binding:"required"`
}

func New(store storage.Remote) *Server {
	s := &Server{
		store:     store,
		validator: validation.New(),
	}
	s.router = s.setupRouter()
	return s
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.GET("/history", s.getHistory)
		api.POST("/history", s.addHistory)
		api.DELETE("/history/:id", s.deleteHistory)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Path not found"})
	})
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) getHistory(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID required"})
		return
	}

	history, err := s.store.FetchHistory(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to fetch history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}
	c.JSON(http.StatusOK, history)
}

func (s *Server) addHistory(c *gin.Context) {
	var req CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data format"})
		return
	}
	if err := s.validator.ValidateRecord(*req.Item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stored, err := s.store.CommitHistory(c.Request.Context(), req.UserID, *req.Item)
	if err != nil {
		logger.Error("Failed to save history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save history"})
		return
	}
	c.JSON(http.StatusCreated, stored)
}

func (s *Server) deleteHistory(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID required"})
		return
	}

	err := s.store.DeleteHistory(c.Request.Context(), userID, c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Deleted from history"})
	case stderrors.Is(err, errors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	default:
		logger.Error("Failed to delete history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete history"})
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Persistence service listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
