package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agenthands/linkage/internal/core"
	"github.com/agenthands/linkage/internal/core/model"
	"github.com/agenthands/linkage/internal/driver"
	"github.com/agenthands/linkage/internal/logging"
)

const requestIDHeader = "X-Request-ID"

type Server struct {
	Linker *core.Linker
	Logger *slog.Logger
}

func NewServer(linker *core.Linker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		Linker: linker,
		Logger: logger,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestID(), s.accessLog())

	r.GET("/healthz", s.Health)
	r.POST("/match", s.Match)
	r.POST("/assess", s.Assess)
	r.POST("/check", s.Check)
	r.POST("/check/batch", s.CheckBatch)
	r.POST("/merge", s.Merge)
	r.POST("/cluster", s.Cluster)

	return r
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Info("request",
			slog.String("request_id", c.GetString("request_id")),
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type MatchRequest struct {
	Candidate model.Record           `json:"candidate" binding:"required"`
	Records   []model.ExistingRecord `json:"records"`
}

func (s *Server) Match(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": s.Linker.Match(req.Candidate, req.Records)})
}

func (s *Server) Assess(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	c.JSON(http.StatusOK, s.Linker.Assess(req.Candidate, req.Records))
}

type CheckRequest struct {
	Scope     driver.Scope `json:"scope"`
	Candidate model.Record `json:"candidate" binding:"required"`
}

func (s *Server) Check(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	report, err := s.Linker.Check(c.Request.Context(), req.Scope, req.Candidate)
	if err != nil {
		s.fail(c, "Failed to check candidate", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

type CheckBatchRequest struct {
	Scope      driver.Scope   `json:"scope"`
	Candidates []model.Record `json:"candidates" binding:"required"`
}

func (s *Server) CheckBatch(c *gin.Context) {
	var req CheckBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	reports, err := s.Linker.CheckBatch(c.Request.Context(), req.Scope, req.Candidates)
	if err != nil {
		s.fail(c, "Failed to check candidates", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

type MergeRequest struct {
	Primary       model.Record `json:"primary" binding:"required"`
	Secondary     model.Record `json:"secondary" binding:"required"`
	PreferPrimary *bool        `json:"prefer_primary"`
}

func (s *Server) Merge(c *gin.Context) {
	var req MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	prefer := s.Linker.PreferPrimary()
	if req.PreferPrimary != nil {
		prefer = *req.PreferPrimary
	}

	c.JSON(http.StatusOK, gin.H{"record": s.Linker.Merge(req.Primary, req.Secondary, prefer)})
}

// ClusterRequest clusters the given records, or the scope when no records
// are given.
type ClusterRequest struct {
	Scope   driver.Scope           `json:"scope"`
	Records []model.ExistingRecord `json:"records"`
}

func (s *Server) Cluster(c *gin.Context) {
	var req ClusterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if len(req.Records) > 0 {
		c.JSON(http.StatusOK, gin.H{"clusters": s.Linker.Cluster(req.Records)})
		return
	}

	clusters, err := s.Linker.ClusterScope(c.Request.Context(), req.Scope)
	if err != nil {
		s.fail(c, "Failed to cluster records", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"clusters": clusters})
}

// fail maps core errors to a status. A missing record source or an unknown
// record kind is the caller's problem; anything else is ours.
func (s *Server) fail(c *gin.Context, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrNoSource):
		status = http.StatusServiceUnavailable
	case errors.Is(err, driver.ErrUnknownKind):
		status = http.StatusBadRequest
	}

	s.Logger.Error(msg,
		slog.String("request_id", c.GetString("request_id")),
		slog.Any("error", err),
	)
	c.JSON(status, gin.H{"error": msg})
}
