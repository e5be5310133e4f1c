package playback

import (
	"fmt"
	"sync"
	"time"

	"trading-dashboard/src/models"
)

// -----------------------------------------------------------------------------
// Playback Clock
//
// Advances a virtual time through one scripted event's duration, driven by a
// wall-clock ticker scaled by a speed multiplier. Virtual time is always
// clamped into [StartTime, EndTime]; reaching the end auto-pauses exactly
// once.
// -----------------------------------------------------------------------------

type Clock struct {
	mu sync.Mutex

	tick   time.Duration
	speeds []float64

	event       *models.MMarketEvent
	virtualTime int64
	playing     bool
	speed       float64

	// stop is non-nil exactly while the ticker goroutine is running.
	stop chan struct{}
}

// -----------------------------------------------------------------------------

// NewClock creates a paused clock positioned at the event's start.
func NewClock(event *models.MMarketEvent, cfg models.MPlaybackConfig) *Clock {
	return &Clock{
		tick:        time.Duration(cfg.TickMs) * time.Millisecond,
		speeds:      cfg.Speeds,
		event:       event,
		virtualTime: event.StartTime,
		speed:       cfg.Speeds[0],
	}
}

// -----------------------------------------------------------------------------

// SetEvent switches the clock to a different event. Virtual time always
// resets to the new event's start and playback is forced to pause, so a
// stale time can never be observed against the new event.
func (c *Clock) SetEvent(event *models.MMarketEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pauseLocked()
	c.event = event
	c.virtualTime = event.StartTime
}

// -----------------------------------------------------------------------------

// Play starts the ticker. Calling Play while already playing is a no-op, as
// is playing a clock already positioned at the event end.
func (c *Clock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.playing || c.virtualTime >= c.event.EndTime() {
		return
	}

	c.playing = true
	c.stop = make(chan struct{})
	go c.run(c.stop)
}

// -----------------------------------------------------------------------------

// Pause stops the ticker. Re-entrant pause is a no-op.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pauseLocked()
}

func (c *Clock) pauseLocked() {
	if !c.playing {
		return
	}
	c.playing = false
	close(c.stop)
	c.stop = nil
}

// -----------------------------------------------------------------------------

// SetSpeed selects one of the configured speed multipliers.
func (c *Clock) SetSpeed(speed float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.speeds {
		if s == speed {
			c.speed = speed
			return nil
		}
	}
	return fmt.Errorf("speed %v is not one of the configured multipliers %v", speed, c.speeds)
}

// -----------------------------------------------------------------------------

// Seek positions virtual time at start + fraction*duration. The fraction is
// clamped into [0,1]. Seeking does not change the play state.
func (c *Clock) Seek(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	duration := c.event.EndTime() - c.event.StartTime
	c.virtualTime = c.event.StartTime + int64(fraction*float64(duration))
}

// -----------------------------------------------------------------------------

// JumpTo sets virtual time directly (key-moment navigation) and forces
// pause. Out-of-range timestamps are clamped into the event.
func (c *Clock) JumpTo(timestamp int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pauseLocked()
	c.virtualTime = c.clampLocked(timestamp)
}

// -----------------------------------------------------------------------------

// Advance moves virtual time forward by elapsed wall-clock time scaled by
// the current speed, regardless of play state. Tests call it directly to
// simulate time without sleeping.
func (c *Clock) Advance(elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advanceLocked(elapsed)
}

func (c *Clock) advanceLocked(elapsed time.Duration) {
	delta := int64(float64(elapsed.Milliseconds()) * c.speed)
	next := c.virtualTime + delta

	end := c.event.EndTime()
	if next >= end {
		c.virtualTime = end
		// One-shot transition to paused at the boundary.
		c.pauseLocked()
		return
	}
	c.virtualTime = next
}

// tickOnce is the ticker-driven step. A tick already in flight when Pause
// closed the stop channel must not move time, so the play state is
// re-checked under the lock.
func (c *Clock) tickOnce() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.playing {
		return
	}
	c.advanceLocked(c.tick)
}

// -----------------------------------------------------------------------------

// State returns a snapshot of the externally observable playback state.
func (c *Clock) State() models.MPlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.MPlaybackState{
		EventID:     c.event.ID,
		VirtualTime: c.clampLocked(c.virtualTime),
		Playing:     c.playing,
		Speed:       c.speed,
	}
}

// -----------------------------------------------------------------------------

// VirtualTime returns the current clamped virtual time.
func (c *Clock) VirtualTime() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clampLocked(c.virtualTime)
}

func (c *Clock) clampLocked(t int64) int64 {
	if t < c.event.StartTime {
		return c.event.StartTime
	}
	if end := c.event.EndTime(); t > end {
		return end
	}
	return t
}

// -----------------------------------------------------------------------------

func (c *Clock) run(stop chan struct{}) {
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.tickOnce()
		}
	}
}
