package server

import (
	"context"
	"fmt"

	"trading-dashboard/src/interfaces"
	"trading-dashboard/src/models"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Model Monitoring Endpoints
// -----------------------------------------------------------------------------

// getMonitor returns one model's metrics when modelId is given, otherwise
// the system-wide view (with a per-model breakdown when detailed=true).
// Values come fresh from the metrics source on every call.
func (s *DashboardServer) getMonitor(c *gin.Context) {
	if modelID := c.Query("modelId"); modelID != "" {
		c.JSON(200, s.Metrics.ModelMetrics(modelID))
		return
	}

	detailed := c.Query("detailed") == "true"
	c.JSON(200, s.Metrics.SystemMetrics(detailed))
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) postMonitor(c *gin.Context) {
	var req models.MMonitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	if req.Action == "" {
		c.JSON(400, gin.H{"error": "action is required"})
		return
	}

	switch req.Action {
	case "start_monitoring":
		if req.ModelID == "" {
			c.JSON(400, gin.H{"error": "modelId is required for start_monitoring"})
			return
		}
		changed := s.Metrics.StartMonitoring(req.ModelID)
		c.JSON(200, gin.H{"status": "monitoring_started", "modelId": req.ModelID, "changed": changed})

	case "stop_monitoring":
		if req.ModelID == "" {
			c.JSON(400, gin.H{"error": "modelId is required for stop_monitoring"})
			return
		}
		changed := s.Metrics.StopMonitoring(req.ModelID)
		c.JSON(200, gin.H{"status": "monitoring_stopped", "modelId": req.ModelID, "changed": changed})

	case "get_health_report":
		report := s.Metrics.HealthReport()
		c.JSON(200, gin.H{"report": report, "narrative": s.healthNarrative(c.Request.Context(), report)})

	case "optimize_model":
		if req.ModelID == "" {
			c.JSON(400, gin.H{"error": "modelId is required for optimize_model"})
			return
		}
		c.JSON(200, s.Metrics.Optimize(req.ModelID))

	default:
		c.JSON(400, gin.H{"error": fmt.Sprintf("unknown action: %s", req.Action)})
	}
}

// -----------------------------------------------------------------------------

// healthNarrative asks the text generator for a prose summary of the health
// report. Generator failure is non-fatal and yields the canned response.
func (s *DashboardServer) healthNarrative(ctx context.Context, report models.MHealthReport) string {
	prompt := fmt.Sprintf(
		"Summarize this AI trading platform health report for an operator. Status: %s. Issues: %v. Recommendations: %v.",
		report.Status, report.Issues, report.Recommendations,
	)

	narrative, err := s.Generator.Generate(ctx, []interfaces.ChatMessage{
		{Role: "system", Content: "You are the operations assistant of an AI trading platform."},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		s.Logger.Warning("Health narrative generation failed: %v", err)
		return "Report generation failed. Raw health data is attached; all monitoring systems remain active."
	}
	return narrative
}
