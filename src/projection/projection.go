package projection

import (
	"math"
	"strconv"

	"trading-dashboard/src/models"
)

// -----------------------------------------------------------------------------
// Projection Layer
//
// Pure lookups over an event's time-indexed sequences for a given virtual
// time. Sequences are sparse; anything farther than the tolerance window is
// reported as absent rather than interpolated.
// -----------------------------------------------------------------------------

// nearestWithin returns the entry whose timestamp is closest to t, provided
// the distance is at most tol. When two entries are equidistant the one
// with the earlier timestamp wins. Sequences are not required to be sorted,
// so the tie-break compares timestamps rather than slice positions.
func nearestWithin[T any](items []T, timestamp func(T) int64, t, tol int64) (T, bool) {
	var best T
	var bestTS int64
	bestDist := int64(-1)

	for _, item := range items {
		ts := timestamp(item)
		dist := ts - t
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist || (dist == bestDist && ts < bestTS) {
			best = item
			bestTS = ts
			bestDist = dist
		}
	}

	if bestDist < 0 || bestDist > tol {
		var zero T
		return zero, false
	}
	return best, true
}

// -----------------------------------------------------------------------------

// NearestRiskState finds the risk snapshot closest to t within tol.
func NearestRiskState(states []models.MRiskState, t, tol int64) (models.MRiskState, bool) {
	return nearestWithin(states, func(s models.MRiskState) int64 { return s.Timestamp }, t, tol)
}

// -----------------------------------------------------------------------------

// NearestAltData finds the alternative-data snapshot closest to t within tol.
func NearestAltData(snaps []models.MAltDataSnapshot, t, tol int64) (models.MAltDataSnapshot, bool) {
	return nearestWithin(snaps, func(s models.MAltDataSnapshot) int64 { return s.Timestamp }, t, tol)
}

// -----------------------------------------------------------------------------
// Performance Gap
// -----------------------------------------------------------------------------

// NullableFloat marshals NaN as JSON null instead of failing to encode.
type NullableFloat float64

func (f NullableFloat) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(f), 'f', -1, 64), nil
}

// PerformanceGap compares the AI-managed book against the static baseline
// strategy at one virtual time.
type PerformanceGap struct {
	Current  models.MPerformanceSnapshot `json:"current"`
	Baseline models.MPerformanceSnapshot `json:"baseline"`

	ValueDiff  float64 `json:"valueDiff"`
	ReturnDiff float64 `json:"returnDiff"`
	// Outperformance is (AI value - static value) / static value * 100.
	// NaN (null on the wire) when the static value is zero.
	Outperformance NullableFloat `json:"outperformance"`
}

// -----------------------------------------------------------------------------

// ComputePerformanceGap takes the last snapshot at or before t as "current"
// (the first snapshot when t precedes all data) and the first snapshot as
// "baseline". Returns false only when the sequence is empty.
func ComputePerformanceGap(snaps []models.MPerformanceSnapshot, t int64) (PerformanceGap, bool) {
	if len(snaps) == 0 {
		return PerformanceGap{}, false
	}

	current := snaps[0]
	for _, s := range snaps {
		if s.Timestamp > t {
			break
		}
		current = s
	}

	gap := PerformanceGap{
		Current:    current,
		Baseline:   snaps[0],
		ValueDiff:  current.AIValue - current.StaticValue,
		ReturnDiff: current.AIReturn - current.StaticReturn,
	}

	if current.StaticValue == 0 {
		gap.Outperformance = NullableFloat(math.NaN())
	} else {
		gap.Outperformance = NullableFloat((current.AIValue - current.StaticValue) / current.StaticValue * 100)
	}

	return gap, true
}
