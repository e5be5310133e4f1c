package projection

import (
	"encoding/json"
	"math"
	"testing"

	"trading-dashboard/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// Nearest-within-tolerance
// -----------------------------------------------------------------------------

func TestNearestRiskStatePicksClosest(t *testing.T) {
	states := []models.MRiskState{
		{Timestamp: 1000, AlertLevel: "low"},
		{Timestamp: 5000, AlertLevel: "medium"},
		{Timestamp: 9000, AlertLevel: "high"},
	}

	got, ok := NearestRiskState(states, 5400, 30_000)
	require.True(t, ok)
	assert.Equal(t, "medium", got.AlertLevel)
}

func TestNearestPrefersEarlierOnTie(t *testing.T) {
	states := []models.MRiskState{
		{Timestamp: 1000, AlertLevel: "low"},
		{Timestamp: 3000, AlertLevel: "high"},
	}

	// 2000 is exactly equidistant from both entries.
	got, ok := NearestRiskState(states, 2000, 30_000)
	require.True(t, ok)
	assert.Equal(t, "low", got.AlertLevel)
}

func TestNearestTieBreakIndependentOfSliceOrder(t *testing.T) {
	// Same tie as above, but with the later entry first. The catalog only
	// requires the performance sequence to be sorted, so the earlier-wins
	// rule must hold for unsorted risk and alt-data sequences too.
	states := []models.MRiskState{
		{Timestamp: 3000, AlertLevel: "high"},
		{Timestamp: 1000, AlertLevel: "low"},
	}

	got, ok := NearestRiskState(states, 2000, 30_000)
	require.True(t, ok)
	assert.Equal(t, "low", got.AlertLevel)

	snaps := []models.MAltDataSnapshot{
		{Timestamp: 7000, Indicator: "late"},
		{Timestamp: 5000, Indicator: "early"},
	}
	alt, ok := NearestAltData(snaps, 6000, 30_000)
	require.True(t, ok)
	assert.Equal(t, "early", alt.Indicator)
}

func TestNearestBeyondToleranceReturnsNone(t *testing.T) {
	snaps := []models.MAltDataSnapshot{{Timestamp: 1000, Indicator: "x"}}

	_, ok := NearestAltData(snaps, 40_000, 30_000)
	assert.False(t, ok)

	// Exactly at the tolerance boundary still counts.
	got, ok := NearestAltData(snaps, 31_000, 30_000)
	require.True(t, ok)
	assert.Equal(t, "x", got.Indicator)
}

func TestNearestEmptySequence(t *testing.T) {
	_, ok := NearestRiskState(nil, 1000, 30_000)
	assert.False(t, ok)
}

// -----------------------------------------------------------------------------
// Performance gap
// -----------------------------------------------------------------------------

func perfSnaps() []models.MPerformanceSnapshot {
	return []models.MPerformanceSnapshot{
		{Timestamp: 1000, AIValue: 1_000_000, StaticValue: 1_000_000, AIReturn: 0, StaticReturn: 0},
		{Timestamp: 2000, AIValue: 1_010_000, StaticValue: 995_000, AIReturn: 1.0, StaticReturn: -0.5},
		{Timestamp: 3000, AIValue: 1_020_000, StaticValue: 1_000_000, AIReturn: 2.0, StaticReturn: 0},
	}
}

func TestPerformanceGapUsesLastSnapshotAtOrBefore(t *testing.T) {
	gap, ok := ComputePerformanceGap(perfSnaps(), 2500)
	require.True(t, ok)

	assert.Equal(t, int64(2000), gap.Current.Timestamp)
	assert.Equal(t, int64(1000), gap.Baseline.Timestamp)
	assert.InDelta(t, 15_000, gap.ValueDiff, 1e-9)
	assert.InDelta(t, 1.5, gap.ReturnDiff, 1e-9)
	assert.InDelta(t, 15_000.0/995_000*100, float64(gap.Outperformance), 1e-9)
}

func TestPerformanceGapBeforeAllDataUsesFirst(t *testing.T) {
	gap, ok := ComputePerformanceGap(perfSnaps(), 500)
	require.True(t, ok)
	assert.Equal(t, int64(1000), gap.Current.Timestamp)
}

func TestPerformanceGapExactBoundary(t *testing.T) {
	gap, ok := ComputePerformanceGap(perfSnaps(), 3000)
	require.True(t, ok)
	assert.Equal(t, int64(3000), gap.Current.Timestamp)
}

func TestPerformanceGapZeroBaselineYieldsNaN(t *testing.T) {
	snaps := []models.MPerformanceSnapshot{
		{Timestamp: 1000, AIValue: 500, StaticValue: 0},
	}

	var gap PerformanceGap
	var ok bool
	require.NotPanics(t, func() {
		gap, ok = ComputePerformanceGap(snaps, 1000)
	})
	require.True(t, ok)
	assert.True(t, math.IsNaN(float64(gap.Outperformance)))
}

func TestPerformanceGapEmptySequence(t *testing.T) {
	_, ok := ComputePerformanceGap(nil, 1000)
	assert.False(t, ok)
}

// -----------------------------------------------------------------------------

func TestNaNOutperformanceMarshalsAsNull(t *testing.T) {
	gap := PerformanceGap{Outperformance: NullableFloat(math.NaN())}

	data, err := json.Marshal(gap)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"outperformance":null`)

	data, err = json.Marshal(PerformanceGap{Outperformance: 1.5})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"outperformance":1.5`)
}
