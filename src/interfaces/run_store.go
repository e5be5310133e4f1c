package interfaces

import "trading-dashboard/src/models"

// -----------------------------------------------------------------------------
// IRunStore defines the contract for run-history persistence.
// -----------------------------------------------------------------------------

type IRunStore interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// SaveTrainingRun inserts one training-run record.
	SaveTrainingRun(run models.MTrainingRun) error

	// -----------------------------------------------------------------------------

	// RecentTrainingRuns returns up to limit records, newest first.
	RecentTrainingRuns(limit int) ([]models.MTrainingRun, error)

	// -----------------------------------------------------------------------------

	// SaveAlert inserts one emitted risk-alert record.
	SaveAlert(alert models.MAlertRecord) error

	// -----------------------------------------------------------------------------

	// RecentAlerts returns up to limit records, newest first.
	RecentAlerts(limit int) ([]models.MAlertRecord, error)

	// -----------------------------------------------------------------------------

	// CleanupOldData removes rows older than the retention policy.
	CleanupOldData() error

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
