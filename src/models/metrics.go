package models

// -----------------------------------------------------------------------------
// Model Monitoring Structures
// -----------------------------------------------------------------------------

// MModelMetrics is one model's telemetry snapshot.
type MModelMetrics struct {
	ModelID     string  `json:"modelId"`
	Accuracy    float64 `json:"accuracy"`
	Precision   float64 `json:"precision"`
	Recall      float64 `json:"recall"`
	F1Score     float64 `json:"f1Score"`
	LatencyMs   float64 `json:"latencyMs"`
	Throughput  float64 `json:"throughput"`
	ErrorRate   float64 `json:"errorRate"`
	LastUpdated int64   `json:"lastUpdated"`
}

// MSystemMetrics aggregates across all models. Models is populated only
// when a detailed breakdown is requested.
type MSystemMetrics struct {
	TotalModels      int             `json:"totalModels"`
	ActiveModels     int             `json:"activeModels"`
	AvgAccuracy      float64         `json:"avgAccuracy"`
	TotalPredictions int64           `json:"totalPredictions"`
	SystemLoad       float64         `json:"systemLoad"`
	MemoryUsageMB    float64         `json:"memoryUsageMb"`
	UptimeSeconds    float64         `json:"uptimeSeconds"`
	Timestamp        int64           `json:"timestamp"`
	Models           []MModelMetrics `json:"models,omitempty"`
}

type MHealthReport struct {
	Status          string   `json:"status"` // "healthy", "degraded", "unhealthy"
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
	GeneratedAt     int64    `json:"generatedAt"`
}

type MOptimizationResult struct {
	ModelID      string             `json:"modelId"`
	Status       string             `json:"status"`
	Improvements map[string]float64 `json:"improvements"`
	AppliedAt    int64              `json:"appliedAt"`
}

// -----------------------------------------------------------------------------
// Training Structures
// -----------------------------------------------------------------------------

// Model types accepted by the training endpoint.
var ValidModelTypes = []string{"ooda_loop", "strategy_discovery", "risk_management", "execution_agent"}

type MTrainingRequest struct {
	ModelType    string                 `json:"modelType"`
	TrainingData string                 `json:"trainingData"`
	Parameters   map[string]interface{} `json:"parameters,omitempty"`
}

type MTrainingMetrics struct {
	ModelType       string  `json:"modelType"`
	Status          string  `json:"status"`
	Accuracy        float64 `json:"accuracy"`
	Loss            float64 `json:"loss"`
	Epochs          int     `json:"epochs"`
	TrainingTimeSec float64 `json:"trainingTimeSeconds"`
	DatasetSize     int     `json:"datasetSize"`
}

type MTrainingResponse struct {
	Metrics MTrainingMetrics `json:"metrics"`
	Report  string           `json:"report"`
}

type MMonitorRequest struct {
	Action     string                 `json:"action"`
	ModelID    string                 `json:"modelId,omitempty"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}
