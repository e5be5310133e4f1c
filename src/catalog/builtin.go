package catalog

import "trading-dashboard/src/models"

// -----------------------------------------------------------------------------
// Built-in Demo Events
//
// Two scripted market events ship with the dashboard: the March FOMC rate
// decision and a hot CPI print. Timelines were authored by hand for the demo
// and are deliberately sparse and unevenly spaced.
// -----------------------------------------------------------------------------

// ts converts a minute offset from the event start into epoch milliseconds.
func ts(start int64, minutes float64) int64 {
	return start + int64(minutes*60_000)
}

func builtinEvents() []*models.MMarketEvent {
	return []*models.MMarketEvent{fedDecisionEvent(), cpiShockEvent()}
}

// -----------------------------------------------------------------------------
// FOMC Rate Decision
// -----------------------------------------------------------------------------

func fedDecisionEvent() *models.MMarketEvent {
	const start int64 = 1742407200000 // 2025-03-19 18:00 UTC

	return &models.MMarketEvent{
		ID:          "fed_decision_2025_03",
		Name:        "FOMC Rate Decision",
		Description: "Federal Reserve holds rates but signals two cuts for 2025. Initial selloff reverses hard during the press conference.",
		StartTime:   start,
		DurationMin: 90,
		MarketTicks: []models.MMarketTick{
			{Timestamp: ts(start, 0), Symbol: "SPY", Price: 565.20, Change: 0.00, Volume: 1.2e6},
			{Timestamp: ts(start, 1), Symbol: "SPY", Price: 563.80, Change: -1.40, Volume: 4.8e6},
			{Timestamp: ts(start, 2.5), Symbol: "SPY", Price: 561.10, Change: -4.10, Volume: 7.1e6},
			{Timestamp: ts(start, 5), Symbol: "SPY", Price: 559.45, Change: -5.75, Volume: 9.4e6},
			{Timestamp: ts(start, 9), Symbol: "QQQ", Price: 478.30, Change: -6.20, Volume: 6.6e6},
			{Timestamp: ts(start, 14), Symbol: "SPY", Price: 560.90, Change: -4.30, Volume: 5.2e6},
			{Timestamp: ts(start, 22), Symbol: "SPY", Price: 562.75, Change: -2.45, Volume: 4.1e6},
			{Timestamp: ts(start, 31), Symbol: "SPY", Price: 564.10, Change: -1.10, Volume: 3.8e6},
			{Timestamp: ts(start, 38), Symbol: "QQQ", Price: 482.90, Change: -1.60, Volume: 3.3e6},
			{Timestamp: ts(start, 47), Symbol: "SPY", Price: 567.30, Change: 2.10, Volume: 5.9e6},
			{Timestamp: ts(start, 58), Symbol: "SPY", Price: 569.85, Change: 4.65, Volume: 6.7e6},
			{Timestamp: ts(start, 69), Symbol: "SPY", Price: 571.20, Change: 6.00, Volume: 4.4e6},
			{Timestamp: ts(start, 80), Symbol: "SPY", Price: 570.60, Change: 5.40, Volume: 2.9e6},
			{Timestamp: ts(start, 89), Symbol: "SPY", Price: 571.05, Change: 5.85, Volume: 2.1e6},
		},
		NewsItems: []models.MNewsItem{
			{Timestamp: ts(start, 0.5), Headline: "Fed holds rates steady at 4.25-4.50%", Source: "Reuters", Sentiment: "neutral", Impact: "high"},
			{Timestamp: ts(start, 3), Headline: "Dot plot still shows two cuts in 2025", Source: "Bloomberg", Sentiment: "bullish", Impact: "high"},
			{Timestamp: ts(start, 12), Headline: "Fed trims QT pace starting in April", Source: "WSJ", Sentiment: "bullish", Impact: "medium"},
			{Timestamp: ts(start, 33), Headline: "Powell: tariff inflation likely 'transitory'", Source: "CNBC", Sentiment: "bullish", Impact: "high"},
			{Timestamp: ts(start, 49), Headline: "Stocks erase losses as Powell downplays growth fears", Source: "MarketWatch", Sentiment: "bullish", Impact: "medium"},
			{Timestamp: ts(start, 75), Headline: "S&P on pace for best Fed day since July", Source: "Barron's", Sentiment: "bullish", Impact: "low"},
		},
		AIDecisions: []models.MAIDecision{
			{Timestamp: ts(start, 0.8), Action: "reduce_exposure", Symbol: "SPY", Reasoning: "Statement released, volatility regime shift detected. Cutting gross exposure 20% ahead of presser.", Confidence: 0.82},
			{Timestamp: ts(start, 4), Action: "buy_protection", Symbol: "SPY", Reasoning: "Put spread overlay while implied vol still lags realized move.", Confidence: 0.74},
			{Timestamp: ts(start, 16), Action: "hold", Symbol: "SPY", Reasoning: "Selloff stabilizing, breadth improving. Waiting for presser tone.", Confidence: 0.61},
			{Timestamp: ts(start, 34), Action: "buy", Symbol: "SPY", Reasoning: "Powell dovish on tariffs. Re-deploying reserve into index exposure.", Confidence: 0.88},
			{Timestamp: ts(start, 36), Action: "buy", Symbol: "QQQ", Reasoning: "Duration-sensitive growth leads off dovish pivot. Adding tech beta.", Confidence: 0.85},
			{Timestamp: ts(start, 52), Action: "take_profit", Symbol: "SPY", Reasoning: "Protection overlay unwound at 40% gain, exposure back to target.", Confidence: 0.79},
			{Timestamp: ts(start, 71), Action: "rebalance", Symbol: "QQQ", Reasoning: "Trimming tech overweight into strength, restoring sector weights.", Confidence: 0.7},
		},
		Performance: []models.MPerformanceSnapshot{
			{Timestamp: ts(start, 0), AIValue: 1_000_000, StaticValue: 1_000_000, AIReturn: 0, StaticReturn: 0},
			{Timestamp: ts(start, 6), AIValue: 996_400, StaticValue: 989_800, AIReturn: -0.36, StaticReturn: -1.02},
			{Timestamp: ts(start, 15), AIValue: 998_100, StaticValue: 992_300, AIReturn: -0.19, StaticReturn: -0.77},
			{Timestamp: ts(start, 25), AIValue: 1_000_700, StaticValue: 995_600, AIReturn: 0.07, StaticReturn: -0.44},
			{Timestamp: ts(start, 40), AIValue: 1_006_900, StaticValue: 999_200, AIReturn: 0.69, StaticReturn: -0.08},
			{Timestamp: ts(start, 55), AIValue: 1_013_500, StaticValue: 1_006_100, AIReturn: 1.35, StaticReturn: 0.61},
			{Timestamp: ts(start, 70), AIValue: 1_017_800, StaticValue: 1_009_400, AIReturn: 1.78, StaticReturn: 0.94},
			{Timestamp: ts(start, 88), AIValue: 1_019_300, StaticValue: 1_010_200, AIReturn: 1.93, StaticReturn: 1.02},
		},
		RiskStates: []models.MRiskState{
			{Timestamp: ts(start, 0), AlertLevel: "low", Exposure: 0.95, VaR: 12_400, Message: "Normal positioning into the statement."},
			{Timestamp: ts(start, 2), AlertLevel: "high", Exposure: 0.76, VaR: 28_900, Message: "Volatility spike on release. Exposure cut engaged."},
			{Timestamp: ts(start, 18), AlertLevel: "medium", Exposure: 0.76, VaR: 19_300, Message: "Realized vol cooling, holding reduced gross."},
			{Timestamp: ts(start, 37), AlertLevel: "medium", Exposure: 0.92, VaR: 17_800, Message: "Re-risked on dovish presser. Hedge overlay active."},
			{Timestamp: ts(start, 56), AlertLevel: "low", Exposure: 1.0, VaR: 13_100, Message: "Back to target exposure, overlay unwound."},
			{Timestamp: ts(start, 85), AlertLevel: "low", Exposure: 1.0, VaR: 11_900, Message: "Session normalizing into the close."},
		},
		AltData: []models.MAltDataSnapshot{
			{Timestamp: ts(start, 1.5), Source: "social", Indicator: "fomc_mention_velocity", Value: 9_420, Signal: "surging"},
			{Timestamp: ts(start, 8), Source: "options_flow", Indicator: "spy_put_call_ratio", Value: 1.42, Signal: "defensive"},
			{Timestamp: ts(start, 35), Source: "social", Indicator: "powell_sentiment_score", Value: 0.64, Signal: "positive"},
			{Timestamp: ts(start, 50), Source: "options_flow", Indicator: "spy_put_call_ratio", Value: 0.81, Signal: "risk_on"},
			{Timestamp: ts(start, 78), Source: "dark_pool", Indicator: "block_buy_ratio", Value: 0.67, Signal: "accumulation"},
		},
		KeyMoments: []models.MKeyMoment{
			{Timestamp: ts(start, 0.5), Label: "Statement drops", Description: "Rates held; initial algo-driven selloff."},
			{Timestamp: ts(start, 2), Label: "AI de-risks", Description: "Exposure cut and put spread overlay within 90 seconds."},
			{Timestamp: ts(start, 30), Label: "Presser begins", Description: "Powell takes the podium."},
			{Timestamp: ts(start, 34), Label: "Dovish pivot", Description: "'Transitory' comment flips the tape; AI re-risks."},
			{Timestamp: ts(start, 55), Label: "Profit taking", Description: "Hedge monetized, portfolio ahead of the baseline."},
		},
	}
}

// -----------------------------------------------------------------------------
// CPI Upside Surprise
// -----------------------------------------------------------------------------

func cpiShockEvent() *models.MMarketEvent {
	const start int64 = 1744288200000 // 2025-04-10 12:30 UTC

	return &models.MMarketEvent{
		ID:          "cpi_shock_2025_04",
		Name:        "CPI Upside Surprise",
		Description: "Core CPI prints 0.4% vs 0.3% expected. Rate-cut odds collapse and equities gap down at the open.",
		StartTime:   start,
		DurationMin: 60,
		MarketTicks: []models.MMarketTick{
			{Timestamp: ts(start, 0), Symbol: "SPY", Price: 548.60, Change: 0.00, Volume: 0.9e6},
			{Timestamp: ts(start, 0.5), Symbol: "SPY", Price: 543.20, Change: -5.40, Volume: 8.8e6},
			{Timestamp: ts(start, 2), Symbol: "QQQ", Price: 461.40, Change: -7.90, Volume: 7.5e6},
			{Timestamp: ts(start, 6), Symbol: "SPY", Price: 541.75, Change: -6.85, Volume: 6.9e6},
			{Timestamp: ts(start, 13), Symbol: "SPY", Price: 543.90, Change: -4.70, Volume: 4.6e6},
			{Timestamp: ts(start, 24), Symbol: "SPY", Price: 545.30, Change: -3.30, Volume: 3.7e6},
			{Timestamp: ts(start, 36), Symbol: "SPY", Price: 544.10, Change: -4.50, Volume: 3.1e6},
			{Timestamp: ts(start, 48), Symbol: "SPY", Price: 546.20, Change: -2.40, Volume: 2.8e6},
			{Timestamp: ts(start, 59), Symbol: "SPY", Price: 546.75, Change: -1.85, Volume: 2.2e6},
		},
		NewsItems: []models.MNewsItem{
			{Timestamp: ts(start, 0.2), Headline: "Core CPI +0.4% m/m, above all estimates", Source: "BLS", Sentiment: "bearish", Impact: "high"},
			{Timestamp: ts(start, 4), Headline: "June cut odds drop from 78% to 41%", Source: "CME FedWatch", Sentiment: "bearish", Impact: "high"},
			{Timestamp: ts(start, 19), Headline: "Shelter inflation re-accelerates for second month", Source: "Bloomberg", Sentiment: "bearish", Impact: "medium"},
			{Timestamp: ts(start, 41), Headline: "Dip buyers emerge in megacap tech", Source: "CNBC", Sentiment: "neutral", Impact: "low"},
		},
		AIDecisions: []models.MAIDecision{
			{Timestamp: ts(start, 0.4), Action: "sell", Symbol: "QQQ", Reasoning: "Hot core print. Cutting duration-sensitive exposure before the cash open.", Confidence: 0.9},
			{Timestamp: ts(start, 1.5), Action: "hedge", Symbol: "SPY", Reasoning: "Short index futures against remaining book while cut odds reprice.", Confidence: 0.84},
			{Timestamp: ts(start, 15), Action: "hold", Symbol: "SPY", Reasoning: "Move looks exhausted, two-way flow returning. Keeping hedge on.", Confidence: 0.58},
			{Timestamp: ts(start, 42), Action: "cover", Symbol: "SPY", Reasoning: "Closing half the hedge into dip-buying flow.", Confidence: 0.72},
		},
		Performance: []models.MPerformanceSnapshot{
			{Timestamp: ts(start, 0), AIValue: 1_000_000, StaticValue: 1_000_000, AIReturn: 0, StaticReturn: 0},
			{Timestamp: ts(start, 5), AIValue: 997_900, StaticValue: 988_900, AIReturn: -0.21, StaticReturn: -1.11},
			{Timestamp: ts(start, 18), AIValue: 999_200, StaticValue: 991_500, AIReturn: -0.08, StaticReturn: -0.85},
			{Timestamp: ts(start, 35), AIValue: 1_000_300, StaticValue: 991_900, AIReturn: 0.03, StaticReturn: -0.81},
			{Timestamp: ts(start, 50), AIValue: 1_001_800, StaticValue: 995_400, AIReturn: 0.18, StaticReturn: -0.46},
			{Timestamp: ts(start, 58), AIValue: 1_002_200, StaticValue: 996_300, AIReturn: 0.22, StaticReturn: -0.37},
		},
		RiskStates: []models.MRiskState{
			{Timestamp: ts(start, 0), AlertLevel: "medium", Exposure: 0.9, VaR: 14_800, Message: "Elevated gamma into the print."},
			{Timestamp: ts(start, 1), AlertLevel: "critical", Exposure: 0.55, VaR: 34_600, Message: "Upside surprise. Emergency de-risk and futures hedge."},
			{Timestamp: ts(start, 20), AlertLevel: "high", Exposure: 0.55, VaR: 24_100, Message: "Holding defensive posture, hedge active."},
			{Timestamp: ts(start, 45), AlertLevel: "medium", Exposure: 0.7, VaR: 17_500, Message: "Partial hedge cover, gradually re-risking."},
		},
		AltData: []models.MAltDataSnapshot{
			{Timestamp: ts(start, 0.8), Source: "rates", Indicator: "two_year_yield_change_bps", Value: 11.5, Signal: "hawkish"},
			{Timestamp: ts(start, 9), Source: "options_flow", Indicator: "qqq_put_volume_ratio", Value: 2.1, Signal: "defensive"},
			{Timestamp: ts(start, 40), Source: "dark_pool", Indicator: "block_buy_ratio", Value: 0.58, Signal: "accumulation"},
		},
		KeyMoments: []models.MKeyMoment{
			{Timestamp: ts(start, 0.2), Label: "CPI print", Description: "Core comes in hot at +0.4%."},
			{Timestamp: ts(start, 1), Label: "Emergency de-risk", Description: "AI cuts exposure to 55% and shorts futures."},
			{Timestamp: ts(start, 42), Label: "Hedge cover", Description: "Half the hedge closed into stabilizing tape."},
		},
	}
}
