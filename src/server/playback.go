package server

import (
	"fmt"

	"trading-dashboard/src/models"
	"trading-dashboard/src/playback"
	"trading-dashboard/src/projection"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Playback Endpoints
//
// The dashboard UI drives one scripted-event replay through these routes:
// load an event from the catalog, control the clock, and read the projected
// views for the current virtual time. The session is deliberately singular,
// this is a demo console, not a multi-tenant product.
// -----------------------------------------------------------------------------

func (s *DashboardServer) playbackSession() (*playback.Clock, *models.MMarketEvent) {
	s.playbackMu.Lock()
	defer s.playbackMu.Unlock()
	return s.playback, s.playbackEvent
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getPlayback(c *gin.Context) {
	clock, _ := s.playbackSession()
	if clock == nil {
		c.JSON(404, gin.H{"error": "no event loaded"})
		return
	}
	c.JSON(200, clock.State())
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) postPlayback(c *gin.Context) {
	var req models.MPlaybackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	if req.Action == "" {
		c.JSON(400, gin.H{"error": "action is required"})
		return
	}

	if req.Action == "load" {
		if req.EventID == "" {
			c.JSON(400, gin.H{"error": "eventId is required for load"})
			return
		}
		ev, ok := s.Catalog.Get(req.EventID)
		if !ok {
			c.JSON(404, gin.H{"error": fmt.Sprintf("unknown event: %s", req.EventID)})
			return
		}

		s.playbackMu.Lock()
		if s.playback == nil {
			s.playback = playback.NewClock(ev, s.Config.Playback)
		} else {
			s.playback.SetEvent(ev)
		}
		s.playbackEvent = ev
		clock := s.playback
		s.playbackMu.Unlock()

		c.JSON(200, clock.State())
		return
	}

	clock, _ := s.playbackSession()
	if clock == nil {
		c.JSON(400, gin.H{"error": "no event loaded"})
		return
	}

	switch req.Action {
	case "play":
		clock.Play()
	case "pause":
		clock.Pause()
	case "seek":
		if req.Fraction == nil {
			c.JSON(400, gin.H{"error": "fraction is required for seek"})
			return
		}
		clock.Seek(*req.Fraction)
	case "jump":
		if req.Timestamp == nil {
			c.JSON(400, gin.H{"error": "timestamp is required for jump"})
			return
		}
		clock.JumpTo(*req.Timestamp)
	case "speed":
		if req.Speed == nil {
			c.JSON(400, gin.H{"error": "speed is required"})
			return
		}
		if err := clock.SetSpeed(*req.Speed); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
	default:
		c.JSON(400, gin.H{"error": fmt.Sprintf("unknown action: %s", req.Action)})
		return
	}

	c.JSON(200, clock.State())
}

// -----------------------------------------------------------------------------

// getProjection serves the derived views for the current virtual time: the
// nearest risk state and alt-data snapshot within the tolerance window (null
// when nothing is close enough) and the AI-vs-baseline performance gap.
func (s *DashboardServer) getProjection(c *gin.Context) {
	clock, ev := s.playbackSession()
	if clock == nil {
		c.JSON(404, gin.H{"error": "no event loaded"})
		return
	}

	t := clock.VirtualTime()
	tol := s.Config.Playback.ToleranceMs

	resp := gin.H{
		"eventId":     ev.ID,
		"virtualTime": t,
		"riskState":   nil,
		"altData":     nil,
		"performance": nil,
	}
	if risk, ok := projection.NearestRiskState(ev.RiskStates, t, tol); ok {
		resp["riskState"] = risk
	}
	if alt, ok := projection.NearestAltData(ev.AltData, t, tol); ok {
		resp["altData"] = alt
	}
	if gap, ok := projection.ComputePerformanceGap(ev.Performance, t); ok {
		resp["performance"] = gap
	}

	c.JSON(200, resp)
}
