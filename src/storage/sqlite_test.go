package storage

import (
	"path/filepath"
	"testing"
	"time"

	"trading-dashboard/src/logger"
	"trading-dashboard/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

func newTestStore(t *testing.T, retentionDays int) *SQLiteRunStore {
	t.Helper()

	cfg := &models.MConfig{}
	cfg.Storage.DBType = "sqlite"
	cfg.Storage.DBPath = filepath.Join(t.TempDir(), "test.db")
	cfg.Storage.RetentionDays = retentionDays

	store, err := NewSQLiteRunStore(cfg, logger.NewLogger("test"))
	require.NoError(t, err)
	require.NoError(t, store.Initialize())
	t.Cleanup(func() { store.Close() })
	return store
}

// -----------------------------------------------------------------------------

func TestTrainingRunRoundTrip(t *testing.T) {
	store := newTestStore(t, 7)

	now := time.Now()
	runs := []models.MTrainingRun{
		{ID: "r1", ModelType: "ooda_loop", Status: "completed", Accuracy: 0.91, Loss: 0.08, Report: "first", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "r2", ModelType: "risk_management", Status: "completed", Accuracy: 0.88, Loss: 0.11, Report: "second", CreatedAt: now.Add(-time.Hour)},
		{ID: "r3", ModelType: "execution_agent", Status: "completed", Accuracy: 0.93, Loss: 0.05, Report: "third", CreatedAt: now},
	}
	for _, run := range runs {
		require.NoError(t, store.SaveTrainingRun(run))
	}

	got, err := store.RecentTrainingRuns(10)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Newest first.
	assert.Equal(t, "r3", got[0].ID)
	assert.Equal(t, "r2", got[1].ID)
	assert.Equal(t, "r1", got[2].ID)

	assert.Equal(t, "execution_agent", got[0].ModelType)
	assert.InDelta(t, 0.93, got[0].Accuracy, 1e-9)
	assert.Equal(t, "third", got[0].Report)
	assert.Equal(t, now.UnixMilli(), got[0].CreatedAt.UnixMilli())

	// Limit applies after ordering.
	got, err = store.RecentTrainingRuns(2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "r3", got[0].ID)
}

func TestSaveTrainingRunUpsertsByID(t *testing.T) {
	store := newTestStore(t, 7)

	run := models.MTrainingRun{ID: "r1", ModelType: "ooda_loop", Status: "completed", Accuracy: 0.80, CreatedAt: time.Now()}
	require.NoError(t, store.SaveTrainingRun(run))

	run.Accuracy = 0.95
	require.NoError(t, store.SaveTrainingRun(run))

	got, err := store.RecentTrainingRuns(10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 0.95, got[0].Accuracy, 1e-9)
}

// -----------------------------------------------------------------------------

func TestAlertRoundTrip(t *testing.T) {
	store := newTestStore(t, 7)

	now := time.Now()
	require.NoError(t, store.SaveAlert(models.MAlertRecord{
		ID: "a1", Type: "margin-warning", Severity: "high", Message: "margin warning (high) on simulated book", CreatedAt: now,
	}))
	require.NoError(t, store.SaveAlert(models.MAlertRecord{
		ID: "a2", Type: "volatility-spike", Severity: "critical", Message: "vol spike", CreatedAt: now.Add(time.Minute),
	}))

	got, err := store.RecentAlerts(10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a2", got[0].ID, "newest first")
	assert.Equal(t, "margin-warning", got[1].Type)
	assert.Equal(t, "high", got[1].Severity)
}

func TestRecentOnEmptyStore(t *testing.T) {
	store := newTestStore(t, 7)

	runs, err := store.RecentTrainingRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)

	alerts, err := store.RecentAlerts(10)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

// -----------------------------------------------------------------------------

func TestCleanupOldDataHonorsRetention(t *testing.T) {
	store := newTestStore(t, 7)

	now := time.Now()
	require.NoError(t, store.SaveTrainingRun(models.MTrainingRun{ID: "old", ModelType: "ooda_loop", CreatedAt: now.AddDate(0, 0, -30)}))
	require.NoError(t, store.SaveTrainingRun(models.MTrainingRun{ID: "fresh", ModelType: "ooda_loop", CreatedAt: now}))
	require.NoError(t, store.SaveAlert(models.MAlertRecord{ID: "stale", Type: "drawdown-alert", CreatedAt: now.AddDate(0, 0, -8)}))
	require.NoError(t, store.SaveAlert(models.MAlertRecord{ID: "recent", Type: "drawdown-alert", CreatedAt: now.AddDate(0, 0, -6)}))

	require.NoError(t, store.CleanupOldData())

	runs, err := store.RecentTrainingRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "fresh", runs[0].ID)

	alerts, err := store.RecentAlerts(10)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "recent", alerts[0].ID)
}
