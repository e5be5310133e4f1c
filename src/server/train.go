package server

import (
	"fmt"
	"strings"
	"time"

	"trading-dashboard/src/interfaces"
	"trading-dashboard/src/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Training Endpoint
// -----------------------------------------------------------------------------

// postTrain validates the request, asks the text generator for a training
// report and returns synthetic training metrics alongside the raw generated
// text. Generator failure degrades to a canned report, never a 500.
func (s *DashboardServer) postTrain(c *gin.Context) {
	var req models.MTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	if req.ModelType == "" {
		c.JSON(400, gin.H{"error": "modelType is required"})
		return
	}
	if !validModelType(req.ModelType) {
		c.JSON(400, gin.H{"error": fmt.Sprintf(
			"invalid modelType %q, must be one of: %s", req.ModelType, strings.Join(models.ValidModelTypes, ", "))})
		return
	}
	if req.TrainingData == "" {
		c.JSON(400, gin.H{"error": "trainingData is required"})
		return
	}

	report, err := s.Generator.Generate(c.Request.Context(), trainingPrompt(req))
	if err != nil {
		s.Logger.Warning("Training report generation failed: %v", err)
		report = fmt.Sprintf("Report generation failed. Training of the %s model completed with the metrics attached.", req.ModelType)
	}

	metrics := s.Metrics.TrainingMetrics(req.ModelType, len(req.TrainingData))
	resp := models.MTrainingResponse{Metrics: metrics, Report: report}

	if s.Store != nil {
		run := models.MTrainingRun{
			ID:        uuid.NewString(),
			ModelType: metrics.ModelType,
			Status:    metrics.Status,
			Accuracy:  metrics.Accuracy,
			Loss:      metrics.Loss,
			Report:    report,
			CreatedAt: time.Now(),
		}
		if err := s.Store.SaveTrainingRun(run); err != nil {
			s.Logger.Warning("Failed to record training run %s: %v", run.ID, err)
		}
	}

	c.JSON(200, resp)
}

// -----------------------------------------------------------------------------

func validModelType(modelType string) bool {
	for _, t := range models.ValidModelTypes {
		if t == modelType {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------

func trainingPrompt(req models.MTrainingRequest) []interfaces.ChatMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "Produce a training report for the %s model of an AI trading platform.\n", req.ModelType)
	fmt.Fprintf(&b, "Training data summary:\n%s\n", req.TrainingData)
	if len(req.Parameters) > 0 {
		fmt.Fprintf(&b, "Hyperparameters: %v\n", req.Parameters)
	}
	b.WriteString("Cover convergence behavior, notable regime shifts in the data and suggested next steps.")

	return []interfaces.ChatMessage{
		{Role: "system", Content: "You are the training supervisor of an AI trading platform."},
		{Role: "user", Content: b.String()},
	}
}
