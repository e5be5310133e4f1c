package storage

import (
	"database/sql"
	"fmt"
	"time"

	"trading-dashboard/src/logger"
	"trading-dashboard/src/models"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------

type PostgresRunStore struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPostgresRunStore(cfg *models.MConfig, log *logger.Logger) (*PostgresRunStore, error) {
	return &PostgresRunStore{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresRunStore) Initialize() error {
	db, err := sql.Open("postgres", d.Config.Storage.DBConnectionString)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db
	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *PostgresRunStore) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS training_runs (
			id TEXT PRIMARY KEY,
			model_type TEXT,
			status TEXT,
			accuracy DOUBLE PRECISION,
			loss DOUBLE PRECISION,
			report TEXT,
			created_at BIGINT
		);`,
		`CREATE TABLE IF NOT EXISTS risk_alerts (
			id TEXT PRIMARY KEY,
			type TEXT,
			severity TEXT,
			message TEXT,
			created_at BIGINT
		);`,
	}

	for _, q := range queries {
		if _, err := d.DB.Exec(q); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresRunStore) SaveTrainingRun(run models.MTrainingRun) error {
	_, err := d.DB.Exec(
		`INSERT INTO training_runs (id, model_type, status, accuracy, loss, report, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO NOTHING`,
		run.ID, run.ModelType, run.Status, run.Accuracy, run.Loss, run.Report, run.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save training run %s: %w", run.ID, err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresRunStore) RecentTrainingRuns(limit int) ([]models.MTrainingRun, error) {
	rows, err := d.DB.Query(
		`SELECT id, model_type, status, accuracy, loss, report, created_at
		 FROM training_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query training runs: %w", err)
	}
	defer rows.Close()

	var out []models.MTrainingRun
	for rows.Next() {
		var run models.MTrainingRun
		var createdAt int64
		if err := rows.Scan(&run.ID, &run.ModelType, &run.Status, &run.Accuracy, &run.Loss, &run.Report, &createdAt); err != nil {
			return nil, err
		}
		run.CreatedAt = time.UnixMilli(createdAt)
		out = append(out, run)
	}
	return out, rows.Err()
}

// -----------------------------------------------------------------------------

func (d *PostgresRunStore) SaveAlert(alert models.MAlertRecord) error {
	_, err := d.DB.Exec(
		`INSERT INTO risk_alerts (id, type, severity, message, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		alert.ID, alert.Type, alert.Severity, alert.Message, alert.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save alert %s: %w", alert.ID, err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresRunStore) RecentAlerts(limit int) ([]models.MAlertRecord, error) {
	rows, err := d.DB.Query(
		`SELECT id, type, severity, message, created_at
		 FROM risk_alerts ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var out []models.MAlertRecord
	for rows.Next() {
		var alert models.MAlertRecord
		var createdAt int64
		if err := rows.Scan(&alert.ID, &alert.Type, &alert.Severity, &alert.Message, &createdAt); err != nil {
			return nil, err
		}
		alert.CreatedAt = time.UnixMilli(createdAt)
		out = append(out, alert)
	}
	return out, rows.Err()
}

// -----------------------------------------------------------------------------

func (d *PostgresRunStore) CleanupOldData() error {
	cutoff := time.Now().AddDate(0, 0, -d.Config.Storage.RetentionDays).UnixMilli()

	for _, table := range []string{"training_runs", "risk_alerts"} {
		if _, err := d.DB.Exec(fmt.Sprintf("DELETE FROM %s WHERE created_at < $1", table), cutoff); err != nil {
			return fmt.Errorf("failed to clean up %s: %w", table, err)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresRunStore) Close() error {
	if d.DB == nil {
		return nil
	}
	return d.DB.Close()
}
