package client

import (
	"encoding/json"
	"sync"
	"time"

	"trading-dashboard/src/logger"
	"trading-dashboard/src/models"

	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Live Channel Consumer
//
// Maintains one transport connection with bounded auto-reconnect and
// dispatches inbound frames to per-kind listener registries. The server
// keeps no subscription state across reconnects, so callers must watch
// connection-state transitions and re-issue their subscriptions; subscribing
// while disconnected is a silent no-op, not a queue.
// -----------------------------------------------------------------------------

type Listener func(msg models.MWireMessage)

type Consumer struct {
	URL    string
	Config models.MClientConfig
	Logger *logger.Logger

	mu        sync.Mutex
	writeMu   sync.Mutex
	conn      *websocket.Conn
	connected bool
	lastError string
	closing   bool

	nextID         int
	listeners      map[string]map[int]Listener
	stateListeners map[int]func(connected bool)
}

// -----------------------------------------------------------------------------

func NewConsumer(url string, cfg models.MClientConfig, log *logger.Logger) *Consumer {
	return &Consumer{
		URL:            url,
		Config:         cfg,
		Logger:         log,
		listeners:      make(map[string]map[int]Listener),
		stateListeners: make(map[int]func(bool)),
	}
}

// -----------------------------------------------------------------------------
// Connection lifecycle
// -----------------------------------------------------------------------------

// Connect dials the server, retrying up to the configured attempt budget
// with a fixed delay. On success a read loop is started; it reconnects with
// the same budget if the connection later drops.
func (c *Consumer) Connect() error {
	return c.connectWithRetries()
}

func (c *Consumer) connectWithRetries() error {
	dialer := &websocket.Dialer{
		HandshakeTimeout: time.Duration(c.Config.ConnectTimeoutMs) * time.Millisecond,
	}
	delay := time.Duration(c.Config.ReconnectDelayMs) * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= c.Config.ReconnectAttempts; attempt++ {
		c.mu.Lock()
		if c.closing {
			c.mu.Unlock()
			return nil
		}
		c.mu.Unlock()

		conn, _, err := dialer.Dial(c.URL, nil)
		if err == nil {
			c.mu.Lock()
			c.conn = conn
			c.connected = true
			c.lastError = ""
			c.mu.Unlock()

			c.notifyState(true)
			go c.readLoop(conn)
			return nil
		}

		lastErr = err
		c.mu.Lock()
		c.lastError = err.Error()
		c.mu.Unlock()
		c.Logger.Warning("Connect attempt %d/%d to %s failed: %v", attempt, c.Config.ReconnectAttempts, c.URL, err)

		if attempt < c.Config.ReconnectAttempts {
			time.Sleep(delay)
		}
	}

	return lastErr
}

// -----------------------------------------------------------------------------

// Close shuts the consumer down and disables further reconnects.
func (c *Consumer) Close() {
	c.mu.Lock()
	c.closing = true
	conn := c.conn
	c.conn = nil
	c.connected = false
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

// -----------------------------------------------------------------------------

// Connected reports the current transport state.
func (c *Consumer) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// LastError returns the most recent connection error, "" when none.
func (c *Consumer) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// -----------------------------------------------------------------------------
// Read loop
// -----------------------------------------------------------------------------

func (c *Consumer) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closing := c.closing
			c.connected = false
			if !closing {
				c.lastError = err.Error()
			}
			c.mu.Unlock()

			conn.Close()
			c.notifyState(false)

			if !closing {
				c.Logger.Info("Connection lost: %v, reconnecting", err)
				if err := c.connectWithRetries(); err != nil {
					c.Logger.Error("Reconnect failed, giving up: %v", err)
				}
			}
			return
		}

		var msg models.MWireMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.Logger.Warning("Dropping malformed frame: %v", err)
			continue
		}
		c.dispatch(msg)
	}
}

// -----------------------------------------------------------------------------
// Listener registries
// -----------------------------------------------------------------------------

// On registers a listener for one message kind and returns its removal
// handle.
func (c *Consumer) On(kind string, fn Listener) (remove func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	if c.listeners[kind] == nil {
		c.listeners[kind] = make(map[int]Listener)
	}
	c.listeners[kind][id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners[kind], id)
	}
}

// -----------------------------------------------------------------------------

// OnConnectionChange registers a connection-state listener; callers use it
// to re-issue subscriptions after a reconnect.
func (c *Consumer) OnConnectionChange(fn func(connected bool)) (remove func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.stateListeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.stateListeners, id)
	}
}

// -----------------------------------------------------------------------------

// dispatch fans a frame out to a snapshot of the registry, so a listener
// removing itself mid-dispatch cannot corrupt iteration. A panicking
// listener is isolated from the others.
func (c *Consumer) dispatch(msg models.MWireMessage) {
	c.mu.Lock()
	snapshot := make([]Listener, 0, len(c.listeners[msg.Type]))
	for _, fn := range c.listeners[msg.Type] {
		snapshot = append(snapshot, fn)
	}
	c.mu.Unlock()

	for _, fn := range snapshot {
		c.safeInvoke(msg, fn)
	}
}

func (c *Consumer) safeInvoke(msg models.MWireMessage, fn Listener) {
	defer func() {
		if r := recover(); r != nil {
			c.Logger.Error("Listener for %s panicked: %v", msg.Type, r)
		}
	}()
	fn(msg)
}

func (c *Consumer) notifyState(connected bool) {
	c.mu.Lock()
	snapshot := make([]func(bool), 0, len(c.stateListeners))
	for _, fn := range c.stateListeners {
		snapshot = append(snapshot, fn)
	}
	c.mu.Unlock()

	for _, fn := range snapshot {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.Logger.Error("Connection-state listener panicked: %v", r)
				}
			}()
			fn(connected)
		}()
	}
}

// -----------------------------------------------------------------------------
// Typed subscribe helpers
// -----------------------------------------------------------------------------

// sendCommand writes a control message if connected, otherwise drops it
// silently.
func (c *Consumer) sendCommand(cmd models.MClientCommand) {
	c.mu.Lock()
	conn := c.conn
	connected := c.connected
	c.mu.Unlock()

	if !connected || conn == nil {
		c.Logger.Debug("Not connected, dropping %s command", cmd.Type)
		return
	}

	c.writeMu.Lock()
	err := conn.WriteJSON(cmd)
	c.writeMu.Unlock()
	if err != nil {
		c.Logger.Warning("Failed to send %s command: %v", cmd.Type, err)
	}
}

func (c *Consumer) SubscribeMarketData(symbols []string) {
	c.sendCommand(models.MClientCommand{Type: models.CmdSubscribeMarketData, Symbols: symbols})
}

func (c *Consumer) SubscribePositions(portfolioID string) {
	c.sendCommand(models.MClientCommand{Type: models.CmdSubscribePositions, PortfolioID: portfolioID})
}

func (c *Consumer) SubscribePortfolio(portfolioID string) {
	c.sendCommand(models.MClientCommand{Type: models.CmdSubscribePortfolio, PortfolioID: portfolioID})
}

func (c *Consumer) SubscribeRiskAlerts() {
	c.sendCommand(models.MClientCommand{Type: models.CmdSubscribeRiskAlerts})
}

func (c *Consumer) SubscribeStrategySignals(strategyID string) {
	c.sendCommand(models.MClientCommand{Type: models.CmdSubscribeStrategySignals, StrategyID: strategyID})
}

func (c *Consumer) Unsubscribe(patterns []string) {
	c.sendCommand(models.MClientCommand{Type: models.CmdUnsubscribe, Patterns: patterns})
}

// SendMessage pushes a chat message onto the echo channel.
func (c *Consumer) SendMessage(text, senderID string) {
	c.sendCommand(models.MClientCommand{Type: models.CmdMessage, Text: text, SenderID: senderID})
}
