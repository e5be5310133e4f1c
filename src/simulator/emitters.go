package simulator

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"trading-dashboard/src/models"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Periodic Emitters
//
// Five independent loops per connection, each gated by the subscription set
// at emission time. Payload values are synthetic; only their shape and the
// per-kind emission order matter to consumers.
// -----------------------------------------------------------------------------

// runEmitter drives one tick function at a fixed cadence until the
// connection's context is cancelled.
func (c *Connection) runEmitter(ctx context.Context, intervalMs int, tick func(now time.Time)) {
	ticker := time.NewTicker(time.Duration(intervalMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			tick(t)
		}
	}
}

// -----------------------------------------------------------------------------
// Market data (per tracked symbol)
// -----------------------------------------------------------------------------

var basePrices = map[string]float64{
	"SPY":  565.0,
	"QQQ":  480.0,
	"AAPL": 228.0,
	"TSLA": 265.0,
	"NVDA": 118.0,
}

func basePrice(symbol string) float64 {
	if p, ok := basePrices[symbol]; ok {
		return p
	}
	return 100.0
}

func (c *Connection) emitMarketData(now time.Time) {
	for _, symbol := range c.sim.Config.Symbols {
		if !c.subscribed("market_" + symbol) {
			continue
		}

		base := basePrice(symbol)
		change := (rand.Float64() - 0.5) * base * 0.01

		session := "closed"
		if cal, ok := c.sim.calendars[symbol]; ok {
			session = cal.Session(now)
		}

		c.deliver(models.MsgMarketDataUpdate, models.MMarketDataUpdate{
			Symbol:        symbol,
			Price:         base + change,
			Change:        change,
			ChangePercent: change / base * 100,
			Volume:        rand.Float64() * 10_000_000,
			Session:       session,
			Timestamp:     now.UnixMilli(),
		})
	}
}

// -----------------------------------------------------------------------------
// Positions (any subscription prefixed "positions_")
// -----------------------------------------------------------------------------

func (c *Connection) emitPositions(now time.Time) {
	for range c.subscribedWithPrefix("positions_") {
		symbol := c.sim.Config.Symbols[rand.Intn(len(c.sim.Config.Symbols))]

		c.deliver(models.MsgPositionUpdate, models.MPositionUpdate{
			PositionID:    "pos_" + uuid.NewString()[:8],
			Symbol:        symbol,
			Price:         basePrice(symbol) * (1 + (rand.Float64()-0.5)*0.02),
			UnrealizedPnL: (rand.Float64() - 0.5) * 20_000,
			Greeks: models.MGreeks{
				Delta: rand.Float64()*2 - 1,
				Gamma: rand.Float64() * 0.1,
				Theta: -rand.Float64() * 50,
				Vega:  rand.Float64() * 100,
			},
			Timestamp: now.UnixMilli(),
		})
	}
}

// -----------------------------------------------------------------------------
// Portfolio (any subscription prefixed "portfolio_")
// -----------------------------------------------------------------------------

func (c *Connection) emitPortfolio(now time.Time) {
	for _, topic := range c.subscribedWithPrefix("portfolio_") {
		portfolioID := strings.TrimPrefix(topic, "portfolio_")

		c.deliver(models.MsgPortfolioUpdate, models.MPortfolioUpdate{
			PortfolioID:       portfolioID,
			TotalValue:        1_000_000 + (rand.Float64()-0.5)*100_000,
			DailyPnL:          (rand.Float64() - 0.5) * 30_000,
			TotalReturn:       (rand.Float64() - 0.3) * 20,
			MarginUtilization: rand.Float64() * 0.8,
			Timestamp:         now.UnixMilli(),
		})
	}
}

// -----------------------------------------------------------------------------
// Risk alerts (probabilistic per tick)
// -----------------------------------------------------------------------------

var riskAlertTypes = []string{"margin-warning", "drawdown-alert", "volatility-spike", "position-limit"}
var riskSeverities = []string{"low", "medium", "high", "critical"}

func (c *Connection) emitRiskAlerts(now time.Time) {
	if !c.subscribed("risk_alerts") {
		return
	}
	if rand.Float64() >= c.sim.Config.RiskAlertProbability {
		return
	}

	alertType := riskAlertTypes[rand.Intn(len(riskAlertTypes))]
	severity := riskSeverities[rand.Intn(len(riskSeverities))]
	alert := models.MRiskAlert{
		ID:        uuid.NewString(),
		Type:      alertType,
		Severity:  severity,
		Message:   fmt.Sprintf("%s (%s) on simulated book", strings.ReplaceAll(alertType, "-", " "), severity),
		Timestamp: now.UnixMilli(),
		Data: map[string]interface{}{
			"threshold": rand.Float64(),
			"observed":  rand.Float64() * 1.5,
		},
	}

	c.deliver(models.MsgRiskAlert, alert)

	if c.sim.Store != nil {
		record := models.MAlertRecord{
			ID:        alert.ID,
			Type:      alert.Type,
			Severity:  alert.Severity,
			Message:   alert.Message,
			CreatedAt: now,
		}
		if err := c.sim.Store.SaveAlert(record); err != nil {
			c.sim.Logger.Warning("Failed to record risk alert %s: %v", alert.ID, err)
		}
	}
}

// -----------------------------------------------------------------------------
// Strategy signals (probabilistic per matching subscription)
// -----------------------------------------------------------------------------

var signalTypes = []string{"buy", "sell", "hedge", "close"}

func (c *Connection) emitSignals(now time.Time) {
	for _, topic := range c.subscribedWithPrefix("signals_") {
		if rand.Float64() >= c.sim.Config.SignalProbability {
			continue
		}

		c.deliver(models.MsgStrategySignal, models.MStrategySignal{
			StrategyID: strings.TrimPrefix(topic, "signals_"),
			Type:       signalTypes[rand.Intn(len(signalTypes))],
			Symbol:     c.sim.Config.Symbols[rand.Intn(len(c.sim.Config.Symbols))],
			Strength:   rand.Float64(),
			Confidence: rand.Float64(),
			Timestamp:  now.UnixMilli(),
		})
	}
}
