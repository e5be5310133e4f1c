package models

import "time"

// -----------------------------------------------------------------------------
// Run History Structures (persisted)
// -----------------------------------------------------------------------------

// MTrainingRun is the stored record of one training request.
type MTrainingRun struct {
	ID        string    `json:"id"`
	ModelType string    `json:"model_type"`
	Status    string    `json:"status"`
	Accuracy  float64   `json:"accuracy"`
	Loss      float64   `json:"loss"`
	Report    string    `json:"report"`
	CreatedAt time.Time `json:"created_at"`
}

// MAlertRecord is the stored record of one emitted risk alert.
type MAlertRecord struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
