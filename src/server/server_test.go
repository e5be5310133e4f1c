package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"trading-dashboard/src/catalog"
	"trading-dashboard/src/config"
	"trading-dashboard/src/interfaces"
	"trading-dashboard/src/logger"
	"trading-dashboard/src/metrics"
	"trading-dashboard/src/models"
	"trading-dashboard/src/simulator"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// Test doubles
// -----------------------------------------------------------------------------

type stubGenerator struct {
	reply string
	err   error
}

func (g *stubGenerator) Generate(ctx context.Context, messages []interfaces.ChatMessage) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

type stubStore struct {
	mu     sync.Mutex
	runs   []models.MTrainingRun
	alerts []models.MAlertRecord
	err    error
}

func (s *stubStore) Initialize() error { return nil }
func (s *stubStore) SaveTrainingRun(run models.MTrainingRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}
func (s *stubStore) RecentTrainingRuns(limit int) ([]models.MTrainingRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.MTrainingRun(nil), s.runs...), s.err
}
func (s *stubStore) SaveAlert(alert models.MAlertRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, alert)
	return nil
}
func (s *stubStore) RecentAlerts(limit int) ([]models.MAlertRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.MAlertRecord(nil), s.alerts...), s.err
}
func (s *stubStore) CleanupOldData() error { return nil }
func (s *stubStore) Close() error          { return nil }

// -----------------------------------------------------------------------------

func newTestServer(t *testing.T, gen interfaces.ITextGenerator, store interfaces.IRunStore) *DashboardServer {
	t.Helper()

	cfg := config.Default().MConfig
	// Fast cadences so socket tests observe emissions quickly; signal and
	// risk alert noise is silenced unless a test subscribes to it.
	cfg.Simulator.MarketDataIntervalMs = 20
	cfg.Simulator.PositionIntervalMs = 20
	cfg.Simulator.PortfolioIntervalMs = 20
	cfg.Simulator.RiskAlertIntervalMs = 20
	cfg.Simulator.SignalIntervalMs = 20

	log := logger.NewLogger("test")
	sim := simulator.NewSimulator(cfg.Simulator, log, store)
	cat := catalog.NewCatalog(log)
	src := metrics.NewRandomSource(42)

	return NewDashboardServer(cfg, log, sim, cat, src, gen, store)
}

func doJSON(s *DashboardServer, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

// -----------------------------------------------------------------------------
// GET /monitor
// -----------------------------------------------------------------------------

func TestGetMonitorSingleModel(t *testing.T) {
	s := newTestServer(t, &stubGenerator{reply: "ok"}, nil)

	w := doJSON(s, "GET", "/monitor?modelId=ooda_loop", nil)
	require.Equal(t, 200, w.Code)

	var m models.MModelMetrics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, "ooda_loop", m.ModelID)
	assert.Greater(t, m.Accuracy, 0.0)
}

func TestGetMonitorSystemView(t *testing.T) {
	s := newTestServer(t, &stubGenerator{reply: "ok"}, nil)

	w := doJSON(s, "GET", "/monitor", nil)
	require.Equal(t, 200, w.Code)

	var m models.MSystemMetrics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, len(metrics.DefaultModelIDs), m.TotalModels)
	assert.Empty(t, m.Models, "breakdown only appears with detailed=true")

	w = doJSON(s, "GET", "/monitor?detailed=true", nil)
	require.Equal(t, 200, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Len(t, m.Models, len(metrics.DefaultModelIDs))
}

// -----------------------------------------------------------------------------
// POST /monitor
// -----------------------------------------------------------------------------

func TestPostMonitorValidation(t *testing.T) {
	s := newTestServer(t, &stubGenerator{reply: "ok"}, nil)

	w := doJSON(s, "POST", "/monitor", map[string]interface{}{})
	assert.Equal(t, 400, w.Code)

	w = doJSON(s, "POST", "/monitor", models.MMonitorRequest{Action: "reboot_universe"})
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "unknown action")

	for _, action := range []string{"start_monitoring", "stop_monitoring", "optimize_model"} {
		w = doJSON(s, "POST", "/monitor", models.MMonitorRequest{Action: action})
		assert.Equal(t, 400, w.Code, "%s without modelId must be rejected", action)
		assert.Contains(t, w.Body.String(), "modelId is required")
	}
}

func TestPostMonitorStartStopToggles(t *testing.T) {
	s := newTestServer(t, &stubGenerator{reply: "ok"}, nil)

	// Default models start monitored, so stop reports a change and a second
	// stop does not.
	w := doJSON(s, "POST", "/monitor", models.MMonitorRequest{Action: "stop_monitoring", ModelID: "ooda_loop"})
	require.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["changed"])

	w = doJSON(s, "POST", "/monitor", models.MMonitorRequest{Action: "stop_monitoring", ModelID: "ooda_loop"})
	require.Equal(t, 200, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["changed"])

	w = doJSON(s, "POST", "/monitor", models.MMonitorRequest{Action: "start_monitoring", ModelID: "ooda_loop"})
	require.Equal(t, 200, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["changed"])
}

func TestPostMonitorOptimize(t *testing.T) {
	s := newTestServer(t, &stubGenerator{reply: "ok"}, nil)

	w := doJSON(s, "POST", "/monitor", models.MMonitorRequest{Action: "optimize_model", ModelID: "execution_agent"})
	require.Equal(t, 200, w.Code)

	var result models.MOptimizationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "execution_agent", result.ModelID)
	assert.Equal(t, "optimized", result.Status)
	assert.NotEmpty(t, result.Improvements)
}

func TestPostMonitorHealthReportNarrative(t *testing.T) {
	s := newTestServer(t, &stubGenerator{reply: "All systems nominal."}, nil)

	w := doJSON(s, "POST", "/monitor", models.MMonitorRequest{Action: "get_health_report"})
	require.Equal(t, 200, w.Code)

	var resp struct {
		Report    models.MHealthReport `json:"report"`
		Narrative string               `json:"narrative"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Report.Status)
	assert.Equal(t, "All systems nominal.", resp.Narrative)
}

func TestPostMonitorHealthReportGeneratorFailureDegrades(t *testing.T) {
	s := newTestServer(t, &stubGenerator{err: errors.New("upstream down")}, nil)

	w := doJSON(s, "POST", "/monitor", models.MMonitorRequest{Action: "get_health_report"})
	require.Equal(t, 200, w.Code, "generator failure must not surface as an error")
	assert.Contains(t, w.Body.String(), "Report generation failed")
}

// -----------------------------------------------------------------------------
// POST /train
// -----------------------------------------------------------------------------

func TestPostTrainSuccess(t *testing.T) {
	store := &stubStore{}
	s := newTestServer(t, &stubGenerator{reply: "Converged after 40 epochs."}, store)

	trainingData := "ohlcv bars for Q1 2025"
	w := doJSON(s, "POST", "/train", models.MTrainingRequest{
		ModelType:    "ooda_loop",
		TrainingData: trainingData,
		Parameters:   map[string]interface{}{"learning_rate": 0.001},
	})
	require.Equal(t, 200, w.Code)

	var resp models.MTrainingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ooda_loop", resp.Metrics.ModelType)
	assert.Equal(t, "completed", resp.Metrics.Status)
	assert.Equal(t, len(trainingData), resp.Metrics.DatasetSize)
	assert.Equal(t, "Converged after 40 epochs.", resp.Report)

	runs, err := store.RecentTrainingRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "ooda_loop", runs[0].ModelType)
	assert.NotEmpty(t, runs[0].ID)
}

func TestPostTrainValidation(t *testing.T) {
	s := newTestServer(t, &stubGenerator{reply: "ok"}, nil)

	w := doJSON(s, "POST", "/train", models.MTrainingRequest{TrainingData: "data"})
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "modelType is required")

	w = doJSON(s, "POST", "/train", models.MTrainingRequest{ModelType: "skynet", TrainingData: "data"})
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "invalid modelType")
	assert.Contains(t, w.Body.String(), strings.Join(models.ValidModelTypes, ", "))

	w = doJSON(s, "POST", "/train", models.MTrainingRequest{ModelType: "ooda_loop"})
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "trainingData is required")

	req := httptest.NewRequest("POST", "/train", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, 400, rec.Code)
}

func TestPostTrainGeneratorFailureDegrades(t *testing.T) {
	s := newTestServer(t, &stubGenerator{err: errors.New("timeout")}, nil)

	w := doJSON(s, "POST", "/train", models.MTrainingRequest{ModelType: "risk_management", TrainingData: "data"})
	require.Equal(t, 200, w.Code)

	var resp models.MTrainingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Report, "Report generation failed")
	assert.Contains(t, resp.Report, "risk_management")
	assert.Equal(t, "completed", resp.Metrics.Status)
}

// -----------------------------------------------------------------------------
// REST API
// -----------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, &stubGenerator{reply: "ok"}, nil)

	w := doJSON(s, "GET", "/api/health", nil)
	require.Equal(t, 200, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, float64(0), resp["connections"])
}

func TestEventsEndpoints(t *testing.T) {
	s := newTestServer(t, &stubGenerator{reply: "ok"}, nil)

	w := doJSON(s, "GET", "/api/events", nil)
	require.Equal(t, 200, w.Code)

	var events []models.MMarketEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	require.GreaterOrEqual(t, len(events), 2)

	w = doJSON(s, "GET", "/api/events/"+events[0].ID, nil)
	require.Equal(t, 200, w.Code)

	var ev models.MMarketEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ev))
	assert.Equal(t, events[0].ID, ev.ID)
	assert.NotEmpty(t, ev.MarketTicks)

	w = doJSON(s, "GET", "/api/events/no_such_event", nil)
	assert.Equal(t, 404, w.Code)
}

func TestHistoryEndpointsWithoutStore(t *testing.T) {
	s := newTestServer(t, &stubGenerator{reply: "ok"}, nil)

	assert.Equal(t, 503, doJSON(s, "GET", "/api/history/runs", nil).Code)
	assert.Equal(t, 503, doJSON(s, "GET", "/api/history/alerts", nil).Code)
}

func TestHistoryEndpointsWithStore(t *testing.T) {
	store := &stubStore{}
	require.NoError(t, store.SaveAlert(models.MAlertRecord{ID: "a1", Type: "margin-warning", Severity: "high", CreatedAt: time.Now()}))
	s := newTestServer(t, &stubGenerator{reply: "ok"}, store)

	w := doJSON(s, "GET", "/api/history/alerts", nil)
	require.Equal(t, 200, w.Code)

	var alerts []models.MAlertRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, "a1", alerts[0].ID)

	w = doJSON(s, "GET", "/api/history/runs", nil)
	require.Equal(t, 200, w.Code)

	store.err = errors.New("disk gone")
	assert.Equal(t, 500, doJSON(s, "GET", "/api/history/runs", nil).Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, &stubGenerator{reply: "ok"}, nil)

	req := httptest.NewRequest("OPTIONS", "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, 204, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("OPTIONS", "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

// -----------------------------------------------------------------------------
// Playback API
// -----------------------------------------------------------------------------

func floatPtr(f float64) *float64 { return &f }
func int64Ptr(i int64) *int64     { return &i }

func TestPlaybackRequiresLoadedEvent(t *testing.T) {
	s := newTestServer(t, &stubGenerator{reply: "ok"}, nil)

	assert.Equal(t, 404, doJSON(s, "GET", "/api/playback", nil).Code)
	assert.Equal(t, 404, doJSON(s, "GET", "/api/playback/projection", nil).Code)

	w := doJSON(s, "POST", "/api/playback", models.MPlaybackRequest{Action: "play"})
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "no event loaded")
}

func TestPlaybackLoadSeekAndJump(t *testing.T) {
	s := newTestServer(t, &stubGenerator{reply: "ok"}, nil)

	ev, ok := s.Catalog.Get("fed_decision_2025_03")
	require.True(t, ok)

	w := doJSON(s, "POST", "/api/playback", models.MPlaybackRequest{Action: "load", EventID: ev.ID})
	require.Equal(t, 200, w.Code)

	var state models.MPlaybackState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, ev.ID, state.EventID)
	assert.Equal(t, ev.StartTime, state.VirtualTime)
	assert.False(t, state.Playing)

	w = doJSON(s, "POST", "/api/playback", models.MPlaybackRequest{Action: "seek", Fraction: floatPtr(1)})
	require.Equal(t, 200, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, ev.EndTime(), state.VirtualTime)

	// Jump clamps out-of-range timestamps and forces pause.
	w = doJSON(s, "POST", "/api/playback", models.MPlaybackRequest{Action: "jump", Timestamp: int64Ptr(ev.StartTime - 99_999)})
	require.Equal(t, 200, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, ev.StartTime, state.VirtualTime)
	assert.False(t, state.Playing)
}

func TestPlaybackValidation(t *testing.T) {
	s := newTestServer(t, &stubGenerator{reply: "ok"}, nil)

	w := doJSON(s, "POST", "/api/playback", models.MPlaybackRequest{Action: "load", EventID: "no_such_event"})
	assert.Equal(t, 404, w.Code)

	w = doJSON(s, "POST", "/api/playback", models.MPlaybackRequest{Action: "load"})
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "eventId is required")

	require.Equal(t, 200, doJSON(s, "POST", "/api/playback", models.MPlaybackRequest{Action: "load", EventID: "fed_decision_2025_03"}).Code)

	w = doJSON(s, "POST", "/api/playback", models.MPlaybackRequest{Action: "seek"})
	assert.Equal(t, 400, w.Code)

	w = doJSON(s, "POST", "/api/playback", models.MPlaybackRequest{Action: "speed", Speed: floatPtr(3.5)})
	assert.Equal(t, 400, w.Code, "speed not in the configured set is rejected")

	w = doJSON(s, "POST", "/api/playback", models.MPlaybackRequest{Action: "rewind_time"})
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "unknown action")
}

func TestProjectionViewAtLoadedEventStart(t *testing.T) {
	s := newTestServer(t, &stubGenerator{reply: "ok"}, nil)

	require.Equal(t, 200, doJSON(s, "POST", "/api/playback", models.MPlaybackRequest{Action: "load", EventID: "fed_decision_2025_03"}).Code)

	w := doJSON(s, "GET", "/api/playback/projection", nil)
	require.Equal(t, 200, w.Code)

	var resp struct {
		EventID     string                   `json:"eventId"`
		VirtualTime int64                    `json:"virtualTime"`
		Performance map[string]interface{}   `json:"performance"`
		RiskState   *models.MRiskState       `json:"riskState"`
		AltData     *models.MAltDataSnapshot `json:"altData"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "fed_decision_2025_03", resp.EventID)
	require.NotNil(t, resp.Performance, "performance gap is defined whenever the sequence is non-empty")
}

// -----------------------------------------------------------------------------
// WebSocket end to end
// -----------------------------------------------------------------------------

func readFrame(t *testing.T, conn *websocket.Conn, timeout time.Duration) (models.MWireMessage, bool) {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(timeout))
	var msg models.MWireMessage
	if err := conn.ReadJSON(&msg); err != nil {
		return models.MWireMessage{}, false
	}
	return msg, true
}

func TestWebSocketMarketDataSubscribeAndWildcardUnsubscribe(t *testing.T) {
	s := newTestServer(t, &stubGenerator{reply: "ok"}, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Welcome then connection_confirmed, in that order.
	msg, ok := readFrame(t, conn, time.Second)
	require.True(t, ok)
	require.Equal(t, models.MsgMessage, msg.Type)

	msg, ok = readFrame(t, conn, time.Second)
	require.True(t, ok)
	require.Equal(t, models.MsgConnectionConfirmed, msg.Type)

	require.NoError(t, conn.WriteJSON(models.MClientCommand{
		Type: models.CmdSubscribeMarketData, Symbols: []string{"SPY"},
	}))

	// At the 20ms cadence a tick must arrive well within the deadline.
	deadline := time.Now().Add(2 * time.Second)
	var sawTick bool
	for time.Now().Before(deadline) {
		msg, ok := readFrame(t, conn, time.Second)
		require.True(t, ok, "expected a market data frame")
		if msg.Type != models.MsgMarketDataUpdate {
			continue
		}
		var tick models.MMarketDataUpdate
		require.NoError(t, json.Unmarshal(msg.Data, &tick))
		assert.Equal(t, "SPY", tick.Symbol)
		sawTick = true
		break
	}
	require.True(t, sawTick)

	// Wildcard removal, then an echo barrier: once the echo reply arrives
	// both commands have been processed, so any market frame after it would
	// be an emission past the unsubscribe.
	require.NoError(t, conn.WriteJSON(models.MClientCommand{Type: models.CmdUnsubscribe, Patterns: []string{"market_*"}}))
	require.NoError(t, conn.WriteJSON(models.MClientCommand{Type: models.CmdMessage, Text: "barrier", SenderID: "test"}))

	for {
		msg, ok := readFrame(t, conn, time.Second)
		require.True(t, ok, "echo barrier never arrived")
		if msg.Type == models.MsgMessage {
			var chat models.MChatMessage
			require.NoError(t, json.Unmarshal(msg.Data, &chat))
			if chat.Text == "Echo: barrier" {
				break
			}
		}
	}

	// Several cadences of silence on the market channel.
	for {
		msg, ok := readFrame(t, conn, 200*time.Millisecond)
		if !ok {
			break // read deadline hit, channel is quiet
		}
		require.NotEqual(t, models.MsgMarketDataUpdate, msg.Type, "market frame received after wildcard unsubscribe")
	}
}

func TestWebSocketDisconnectDropsConnectionCount(t *testing.T) {
	s := newTestServer(t, &stubGenerator{reply: "ok"}, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return s.Simulator.ActiveConnections() == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool {
		return s.Simulator.ActiveConnections() == 0
	}, time.Second, 10*time.Millisecond)
}
