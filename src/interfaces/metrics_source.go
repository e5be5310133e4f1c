package interfaces

import "trading-dashboard/src/models"

// -----------------------------------------------------------------------------
// IMetricsSource is the boundary a real telemetry backend would implement.
// The shipped implementation generates synthetic numbers.
// -----------------------------------------------------------------------------

type IMetricsSource interface {

	// ModelMetrics returns one model's current telemetry.
	ModelMetrics(modelID string) models.MModelMetrics

	// -----------------------------------------------------------------------------

	// SystemMetrics returns the aggregate view. When detailed is true it
	// includes a per-model breakdown.
	SystemMetrics(detailed bool) models.MSystemMetrics

	// -----------------------------------------------------------------------------

	// HealthReport summarizes system health.
	HealthReport() models.MHealthReport

	// -----------------------------------------------------------------------------

	// Optimize simulates an optimization pass over one model.
	Optimize(modelID string) models.MOptimizationResult

	// -----------------------------------------------------------------------------

	// StartMonitoring and StopMonitoring toggle a model's monitored flag.
	// Both are idempotent and report whether the call changed anything.
	StartMonitoring(modelID string) bool
	StopMonitoring(modelID string) bool

	// -----------------------------------------------------------------------------

	// TrainingMetrics returns metrics for a finished training run.
	TrainingMetrics(modelType string, datasetSize int) models.MTrainingMetrics
}
