package models

import "encoding/json"

// -----------------------------------------------------------------------------
// Live Channel Wire Protocol
//
// Every frame on the socket is an MWireMessage envelope. Field names are
// camelCase to match the dashboard's existing protocol.
// -----------------------------------------------------------------------------

const (
	MsgMarketDataUpdate    = "market_data_update"
	MsgPositionUpdate      = "position_update"
	MsgPortfolioUpdate     = "portfolio_update"
	MsgRiskAlert           = "risk_alert"
	MsgStrategySignal      = "strategy_signal"
	MsgMessage             = "message"
	MsgConnectionConfirmed = "connection_confirmed"
)

type MWireMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewWireMessage marshals payload into an envelope of the given type.
func NewWireMessage(msgType string, payload interface{}) (MWireMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return MWireMessage{}, err
	}
	return MWireMessage{Type: msgType, Data: data}, nil
}

// -----------------------------------------------------------------------------
// Server -> Client payloads
// -----------------------------------------------------------------------------

type MMarketDataUpdate struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        float64 `json:"volume"`
	Session       string  `json:"session"` // "open" or "closed" per exchange calendar
	Timestamp     int64   `json:"timestamp"`
}

type MGreeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
}

type MPositionUpdate struct {
	PositionID    string  `json:"positionId"`
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	UnrealizedPnL float64 `json:"unrealizedPnL"`
	Greeks        MGreeks `json:"greeks"`
	Timestamp     int64   `json:"timestamp"`
}

type MPortfolioUpdate struct {
	PortfolioID       string  `json:"portfolioId"`
	TotalValue        float64 `json:"totalValue"`
	DailyPnL          float64 `json:"dailyPnL"`
	TotalReturn       float64 `json:"totalReturn"`
	MarginUtilization float64 `json:"marginUtilization"`
	Timestamp         int64   `json:"timestamp"`
}

type MRiskAlert struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`     // "margin-warning", "drawdown-alert", "volatility-spike", "position-limit"
	Severity  string                 `json:"severity"` // "low", "medium", "high", "critical"
	Message   string                 `json:"message"`
	Timestamp int64                  `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

type MStrategySignal struct {
	StrategyID string  `json:"strategyId"`
	Type       string  `json:"type"` // "buy", "sell", "hedge", "close"
	Symbol     string  `json:"symbol"`
	Strength   float64 `json:"strength"`   // [0,1]
	Confidence float64 `json:"confidence"` // [0,1]
	Timestamp  int64   `json:"timestamp"`
}

type MChatMessage struct {
	Text      string `json:"text"`
	SenderID  string `json:"senderId"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

type MConnectionConfirmed struct {
	ConnectionID  string   `json:"connectionId"`
	Subscriptions []string `json:"subscriptions"`
	Timestamp     int64    `json:"timestamp"`
}

// -----------------------------------------------------------------------------
// Client -> Server commands
// -----------------------------------------------------------------------------

const (
	CmdSubscribeMarketData      = "subscribe_market_data"
	CmdSubscribePositions       = "subscribe_positions"
	CmdSubscribePortfolio       = "subscribe_portfolio"
	CmdSubscribeRiskAlerts      = "subscribe_risk_alerts"
	CmdSubscribeStrategySignals = "subscribe_strategy_signals"
	CmdUnsubscribe              = "unsubscribe"
	CmdMessage                  = "message"
)

// MClientCommand is the union of all control messages a client may send.
// Unused fields stay empty for a given Type.
type MClientCommand struct {
	Type        string   `json:"type"`
	Symbols     []string `json:"symbols,omitempty"`
	PortfolioID string   `json:"portfolioId,omitempty"`
	StrategyID  string   `json:"strategyId,omitempty"`
	Patterns    []string `json:"patterns,omitempty"`
	Text        string   `json:"text,omitempty"`
	SenderID    string   `json:"senderId,omitempty"`
}
