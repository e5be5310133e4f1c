package simulator

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"trading-dashboard/src/interfaces"
	"trading-dashboard/src/logger"
	"trading-dashboard/src/models"
	"trading-dashboard/src/utils"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Live Channel Simulator
//
// Each connection carries its own subscription set and five independent
// periodic emitters. Emission is gated per connection by its subscriptions,
// and every emitter is cancelled when the connection goes away. No state
// survives a reconnect: a new connection always starts with an empty set.
// -----------------------------------------------------------------------------

type Simulator struct {
	Config models.MSimulatorConfig
	Logger *logger.Logger

	// Store is optional; emitted risk alerts are recorded when present.
	Store interfaces.IRunStore

	calendars map[string]*utils.TradingCalendar

	mu    sync.Mutex
	conns map[string]*Connection
}

// -----------------------------------------------------------------------------

// NewSimulator creates a simulator with pre-resolved exchange calendars for
// every tracked symbol.
func NewSimulator(cfg models.MSimulatorConfig, log *logger.Logger, store interfaces.IRunStore) *Simulator {
	calendars := make(map[string]*utils.TradingCalendar, len(cfg.Symbols))
	for _, sym := range cfg.Symbols {
		calendars[sym] = utils.GetCalendar(sym)
	}

	return &Simulator{
		Config:    cfg,
		Logger:    log,
		Store:     store,
		calendars: calendars,
		conns:     make(map[string]*Connection),
	}
}

// -----------------------------------------------------------------------------
// Connection
// -----------------------------------------------------------------------------

type Connection struct {
	ID string

	sim  *Simulator
	send chan<- models.MWireMessage

	cancel context.CancelFunc

	mu   sync.Mutex
	subs map[string]struct{}
}

// -----------------------------------------------------------------------------

// Connect registers a new connection writing frames into send, greets it,
// confirms the (empty) subscription list and starts the five emitters.
func (s *Simulator) Connect(send chan<- models.MWireMessage) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	conn := &Connection{
		ID:     uuid.NewString(),
		sim:    s,
		send:   send,
		cancel: cancel,
		subs:   make(map[string]struct{}),
	}

	s.mu.Lock()
	s.conns[conn.ID] = conn
	s.mu.Unlock()

	now := time.Now().UnixMilli()
	conn.deliver(models.MsgMessage, models.MChatMessage{
		Text:      "Connected to AI trading platform live channel",
		SenderID:  "system",
		Timestamp: now,
	})
	conn.deliver(models.MsgConnectionConfirmed, models.MConnectionConfirmed{
		ConnectionID:  conn.ID,
		Subscriptions: conn.Subscriptions(),
		Timestamp:     now,
	})

	cfg := s.Config
	go conn.runEmitter(ctx, cfg.MarketDataIntervalMs, conn.emitMarketData)
	go conn.runEmitter(ctx, cfg.PositionIntervalMs, conn.emitPositions)
	go conn.runEmitter(ctx, cfg.PortfolioIntervalMs, conn.emitPortfolio)
	go conn.runEmitter(ctx, cfg.RiskAlertIntervalMs, conn.emitRiskAlerts)
	go conn.runEmitter(ctx, cfg.SignalIntervalMs, conn.emitSignals)

	s.Logger.Info("Connection %s established", conn.ID)
	return conn
}

// -----------------------------------------------------------------------------

// Disconnect cancels all five emitters and forgets the connection. The
// subscription set dies with it.
func (s *Simulator) Disconnect(conn *Connection) {
	conn.cancel()

	s.mu.Lock()
	delete(s.conns, conn.ID)
	s.mu.Unlock()

	s.Logger.Info("Connection %s closed", conn.ID)
}

// -----------------------------------------------------------------------------

// ActiveConnections returns the number of live connections.
func (s *Simulator) ActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// -----------------------------------------------------------------------------
// Command handling
// -----------------------------------------------------------------------------

// HandleCommand applies one client control message to its connection.
// Unknown command types are ignored.
func (s *Simulator) HandleCommand(conn *Connection, cmd models.MClientCommand) {
	switch cmd.Type {
	case models.CmdSubscribeMarketData:
		for _, sym := range cmd.Symbols {
			conn.subscribe("market_" + sym)
		}
	case models.CmdSubscribePositions:
		conn.subscribe("positions_" + cmd.PortfolioID)
	case models.CmdSubscribePortfolio:
		conn.subscribe("portfolio_" + cmd.PortfolioID)
	case models.CmdSubscribeRiskAlerts:
		conn.subscribe("risk_alerts")
	case models.CmdSubscribeStrategySignals:
		conn.subscribe("signals_" + cmd.StrategyID)
	case models.CmdUnsubscribe:
		conn.unsubscribe(cmd.Patterns)
	case models.CmdMessage:
		// Echo channel, used as a liveness check.
		conn.deliver(models.MsgMessage, models.MChatMessage{
			Text:      "Echo: " + cmd.Text,
			SenderID:  "system",
			Timestamp: time.Now().UnixMilli(),
		})
	default:
		s.Logger.Debug("Connection %s sent unknown command type %q", conn.ID, cmd.Type)
	}
}

// -----------------------------------------------------------------------------
// Subscription set
// -----------------------------------------------------------------------------

func (c *Connection) subscribe(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs[topic] = struct{}{}
}

// unsubscribe removes every pattern. A trailing "*" makes the pattern a
// prefix match over the currently held topics. Unknown patterns are
// silently ignored.
func (c *Connection) unsubscribe(patterns []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, pattern := range patterns {
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			for topic := range c.subs {
				if strings.HasPrefix(topic, prefix) {
					delete(c.subs, topic)
				}
			}
			continue
		}
		delete(c.subs, pattern)
	}
}

// -----------------------------------------------------------------------------

// Subscriptions returns a sorted snapshot of the subscription set.
func (c *Connection) Subscriptions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, len(c.subs))
	for topic := range c.subs {
		out = append(out, topic)
	}
	sort.Strings(out)
	return out
}

// subscribed reports whether the exact topic is held.
func (c *Connection) subscribed(topic string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.subs[topic]
	return ok
}

// subscribedWithPrefix returns a snapshot of held topics sharing a prefix.
func (c *Connection) subscribedWithPrefix(prefix string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []string
	for topic := range c.subs {
		if strings.HasPrefix(topic, prefix) {
			out = append(out, topic)
		}
	}
	sort.Strings(out)
	return out
}

// -----------------------------------------------------------------------------
// Delivery
// -----------------------------------------------------------------------------

// deliver wraps the payload in an envelope and hands it to the transport.
// The send is non-blocking: a slow consumer drops frames rather than
// stalling the emitter.
func (c *Connection) deliver(msgType string, payload interface{}) {
	msg, err := models.NewWireMessage(msgType, payload)
	if err != nil {
		c.sim.Logger.Error("Failed to encode %s frame: %v", msgType, err)
		return
	}

	select {
	case c.send <- msg:
	default:
		c.sim.Logger.Warning("Connection %s send buffer full, dropping %s", c.ID, msgType)
	}
}
