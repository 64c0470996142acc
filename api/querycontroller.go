package api

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ctrevinoi1/agent/types"
)

// RegisterQueryRoutes registers the REST surface for submitting queries and
// polling their progress.
func RegisterQueryRoutes(r *gin.Engine, svc *Service) {
	g := r.Group("/api")
	g.POST("/query", func(c *gin.Context) { handleSubmitQuery(c, svc) })
	g.GET("/status", func(c *gin.Context) { handleStatus(c, svc) })
	g.GET("/report", func(c *gin.Context) { handleReport(c, svc) })
}

// RegisterHealthRoutes registers the liveness endpoint.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
}

// SubmitQueryRequest is the body of POST /api/query.
type SubmitQueryRequest struct {
	Query string `json:"query" binding:"required"`
}

// handleSubmitQuery starts a run in the background and returns immediately.
func handleSubmitQuery(c *gin.Context, svc *Service) {
	var req SubmitQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query must not be empty"})
		return
	}

	run, err := svc.StartRun(query)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	go func() {
		if _, err := run.Run(context.Background()); err != nil {
			log.Printf("api: run for %q failed: %v", query, err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted", "query": query})
}

// handleStatus returns the current run's snapshot.
func handleStatus(c *gin.Context, svc *Service) {
	run := svc.Current()
	if run == nil {
		c.JSON(http.StatusOK, types.Snapshot{State: types.StateIdle})
		return
	}
	c.JSON(http.StatusOK, run.Snapshot())
}

// handleReport returns the final report, 404 until the run completed.
func handleReport(c *gin.Context, svc *Service) {
	run := svc.Current()
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no report available"})
		return
	}
	report, ok := run.Report()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": run.Query(), "report": report})
}
