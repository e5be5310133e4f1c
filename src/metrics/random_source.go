package metrics

import (
	"math/rand"
	"sync"
	"time"

	"trading-dashboard/src/models"
)

// -----------------------------------------------------------------------------
// RandomSource
//
// Synthetic stand-in for a real telemetry backend. Every read produces fresh
// random numbers; nothing is cached. A real backend would implement the same
// IMetricsSource boundary.
// -----------------------------------------------------------------------------

// DefaultModelIDs are the models the demo platform pretends to run.
var DefaultModelIDs = []string{"ooda_loop", "strategy_discovery", "risk_management", "execution_agent"}

type RandomSource struct {
	mu        sync.Mutex
	rng       *rand.Rand
	startedAt time.Time
	monitored map[string]bool
}

// -----------------------------------------------------------------------------

// NewRandomSource creates a source with all default models monitored.
// Tests pass a fixed seed for reproducible values.
func NewRandomSource(seed int64) *RandomSource {
	monitored := make(map[string]bool, len(DefaultModelIDs))
	for _, id := range DefaultModelIDs {
		monitored[id] = true
	}

	return &RandomSource{
		rng:       rand.New(rand.NewSource(seed)),
		startedAt: time.Now(),
		monitored: monitored,
	}
}

// -----------------------------------------------------------------------------

func (s *RandomSource) ModelMetrics(modelID string) models.MModelMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modelMetricsLocked(modelID)
}

func (s *RandomSource) modelMetricsLocked(modelID string) models.MModelMetrics {
	return models.MModelMetrics{
		ModelID:     modelID,
		Accuracy:    0.85 + s.rng.Float64()*0.14,
		Precision:   0.80 + s.rng.Float64()*0.18,
		Recall:      0.78 + s.rng.Float64()*0.20,
		F1Score:     0.80 + s.rng.Float64()*0.17,
		LatencyMs:   5 + s.rng.Float64()*45,
		Throughput:  100 + s.rng.Float64()*900,
		ErrorRate:   s.rng.Float64() * 0.05,
		LastUpdated: time.Now().UnixMilli(),
	}
}

// -----------------------------------------------------------------------------

func (s *RandomSource) SystemMetrics(detailed bool) models.MSystemMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := 0
	for _, on := range s.monitored {
		if on {
			active++
		}
	}

	m := models.MSystemMetrics{
		TotalModels:      len(s.monitored),
		ActiveModels:     active,
		AvgAccuracy:      0.85 + s.rng.Float64()*0.12,
		TotalPredictions: int64(s.rng.Intn(9_000_000)) + 1_000_000,
		SystemLoad:       s.rng.Float64(),
		MemoryUsageMB:    512 + s.rng.Float64()*3584,
		UptimeSeconds:    time.Since(s.startedAt).Seconds(),
		Timestamp:        time.Now().UnixMilli(),
	}

	if detailed {
		for _, id := range DefaultModelIDs {
			m.Models = append(m.Models, s.modelMetricsLocked(id))
		}
	}

	return m
}

// -----------------------------------------------------------------------------

func (s *RandomSource) HealthReport() models.MHealthReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := models.MHealthReport{
		Status:          "healthy",
		Issues:          []string{},
		Recommendations: []string{},
		GeneratedAt:     time.Now().UnixMilli(),
	}

	if s.rng.Float64() < 0.3 {
		report.Status = "degraded"
		report.Issues = append(report.Issues, "elevated inference latency on execution_agent")
		report.Recommendations = append(report.Recommendations, "scale inference replicas or reduce batch size")
	}
	if s.rng.Float64() < 0.15 {
		report.Issues = append(report.Issues, "strategy_discovery drift above threshold")
		report.Recommendations = append(report.Recommendations, "schedule a retraining run")
	}

	return report
}

// -----------------------------------------------------------------------------

func (s *RandomSource) Optimize(modelID string) models.MOptimizationResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.MOptimizationResult{
		ModelID: modelID,
		Status:  "optimized",
		Improvements: map[string]float64{
			"latencyMs": -s.rng.Float64() * 10,
			"accuracy":  s.rng.Float64() * 0.03,
			"errorRate": -s.rng.Float64() * 0.01,
		},
		AppliedAt: time.Now().UnixMilli(),
	}
}

// -----------------------------------------------------------------------------

func (s *RandomSource) StartMonitoring(modelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.monitored[modelID] {
		return false
	}
	s.monitored[modelID] = true
	return true
}

func (s *RandomSource) StopMonitoring(modelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.monitored[modelID] {
		return false
	}
	s.monitored[modelID] = false
	return true
}

// -----------------------------------------------------------------------------

func (s *RandomSource) TrainingMetrics(modelType string, datasetSize int) models.MTrainingMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.MTrainingMetrics{
		ModelType:       modelType,
		Status:          "completed",
		Accuracy:        0.82 + s.rng.Float64()*0.15,
		Loss:            0.02 + s.rng.Float64()*0.2,
		Epochs:          10 + s.rng.Intn(90),
		TrainingTimeSec: 30 + s.rng.Float64()*570,
		DatasetSize:     datasetSize,
	}
}
