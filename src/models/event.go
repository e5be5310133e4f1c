package models

// -----------------------------------------------------------------------------
// Market Event Catalog Structures
//
// A market event is a pre-authored, immutable timeline. All timestamps are
// epoch milliseconds and fall within [StartTime, StartTime+DurationMin*60000].
// Sequences are sparse and unevenly spaced.
// -----------------------------------------------------------------------------

type MMarketEvent struct {
	ID          string                 `json:"id" yaml:"id"`
	Name        string                 `json:"name" yaml:"name"`
	Description string                 `json:"description" yaml:"description"`
	StartTime   int64                  `json:"startTime" yaml:"start_time"`
	DurationMin int                    `json:"durationMinutes" yaml:"duration_minutes"`
	MarketTicks []MMarketTick          `json:"marketTicks" yaml:"market_ticks"`
	NewsItems   []MNewsItem            `json:"newsItems" yaml:"news_items"`
	AIDecisions []MAIDecision          `json:"aiDecisions" yaml:"ai_decisions"`
	Performance []MPerformanceSnapshot `json:"performance" yaml:"performance"`
	RiskStates  []MRiskState           `json:"riskStates" yaml:"risk_states"`
	AltData     []MAltDataSnapshot     `json:"altData" yaml:"alt_data"`
	KeyMoments  []MKeyMoment           `json:"keyMoments" yaml:"key_moments"`
}

// EndTime returns the last valid virtual time of the event.
func (e *MMarketEvent) EndTime() int64 {
	return e.StartTime + int64(e.DurationMin)*60_000
}

// -----------------------------------------------------------------------------

type MMarketTick struct {
	Timestamp int64   `json:"timestamp" yaml:"timestamp"`
	Symbol    string  `json:"symbol" yaml:"symbol"`
	Price     float64 `json:"price" yaml:"price"`
	Change    float64 `json:"change" yaml:"change"`
	Volume    float64 `json:"volume" yaml:"volume"`
}

type MNewsItem struct {
	Timestamp int64  `json:"timestamp" yaml:"timestamp"`
	Headline  string `json:"headline" yaml:"headline"`
	Source    string `json:"source" yaml:"source"`
	Sentiment string `json:"sentiment" yaml:"sentiment"` // "bullish", "bearish", "neutral"
	Impact    string `json:"impact" yaml:"impact"`       // "low", "medium", "high"
}

type MAIDecision struct {
	Timestamp  int64   `json:"timestamp" yaml:"timestamp"`
	Action     string  `json:"action" yaml:"action"`
	Symbol     string  `json:"symbol" yaml:"symbol"`
	Reasoning  string  `json:"reasoning" yaml:"reasoning"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// MPerformanceSnapshot compares the AI-managed book against the static
// buy-and-hold baseline at one point in time.
type MPerformanceSnapshot struct {
	Timestamp    int64   `json:"timestamp" yaml:"timestamp"`
	AIValue      float64 `json:"aiValue" yaml:"ai_value"`
	StaticValue  float64 `json:"staticValue" yaml:"static_value"`
	AIReturn     float64 `json:"aiReturn" yaml:"ai_return"`
	StaticReturn float64 `json:"staticReturn" yaml:"static_return"`
}

type MRiskState struct {
	Timestamp  int64   `json:"timestamp" yaml:"timestamp"`
	AlertLevel string  `json:"alertLevel" yaml:"alert_level"` // "low", "medium", "high", "critical"
	Exposure   float64 `json:"exposure" yaml:"exposure"`
	VaR        float64 `json:"var" yaml:"var"`
	Message    string  `json:"message" yaml:"message"`
}

type MAltDataSnapshot struct {
	Timestamp int64   `json:"timestamp" yaml:"timestamp"`
	Source    string  `json:"source" yaml:"source"`
	Indicator string  `json:"indicator" yaml:"indicator"`
	Value     float64 `json:"value" yaml:"value"`
	Signal    string  `json:"signal" yaml:"signal"`
}

type MKeyMoment struct {
	Timestamp   int64  `json:"timestamp" yaml:"timestamp"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`
}

// -----------------------------------------------------------------------------
// Playback State
// -----------------------------------------------------------------------------

// MPlaybackState is the externally observable state of the playback clock.
type MPlaybackState struct {
	EventID     string  `json:"eventId"`
	VirtualTime int64   `json:"virtualTime"`
	Playing     bool    `json:"playing"`
	Speed       float64 `json:"speed"`
}

// MPlaybackRequest is one playback control action. Pointer fields distinguish
// an absent value from a legitimate zero (seek to fraction 0).
type MPlaybackRequest struct {
	Action    string   `json:"action"`
	EventID   string   `json:"eventId,omitempty"`
	Fraction  *float64 `json:"fraction,omitempty"`
	Timestamp *int64   `json:"timestamp,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
}
