package utils

import (
	"log"
	"strings"
	"time"

	"github.com/scmhub/calendar"
)

// TradingCalendar answers "is this market open right now" using
// scmhub/calendar, with a Mon-Fri 09:30-16:00 NY fallback when no calendar
// is available.
type TradingCalendar struct {
	Calendar *calendar.Calendar
	Fallback bool
	Timezone *time.Location
}

// -----------------------------------------------------------------------------

// GetCalendar maps a symbol to its exchange calendar. The demo universe is
// US-listed, so everything without a venue suffix resolves to NYSE.
func GetCalendar(symbol string) *TradingCalendar {
	// Suffix to MIC code (ISO 10383); see scmhub/calendar for supported MICs
	mic := "xnys"
	if strings.HasSuffix(symbol, ".L") {
		mic = "xlon"
	} else if strings.HasSuffix(symbol, ".PA") {
		mic = "xpar"
	} else if strings.HasSuffix(symbol, ".DE") {
		mic = "xfra"
	} else if strings.HasSuffix(symbol, ".T") {
		mic = "xtks"
	} else if strings.HasSuffix(symbol, ".HK") {
		mic = "xhkg"
	}

	cal := calendar.GetCalendar(mic)
	if cal == nil {
		cal = calendar.GetCalendar("xnys")
	}

	if cal == nil {
		log.Printf("WARNING: Failed to load calendar for MIC '%s' and fallback 'xnys'. Using simple fallback (Mon-Fri 09:30-16:00 NY).", mic)
		nyLoc, _ := time.LoadLocation("America/New_York")
		if nyLoc == nil {
			nyLoc = time.UTC
		}
		return &TradingCalendar{Fallback: true, Timezone: nyLoc}
	}

	return &TradingCalendar{Calendar: cal, Fallback: false, Timezone: cal.Loc}
}

// -----------------------------------------------------------------------------

// IsOpenOnMinute checks if the market is open at a specific minute.
func (tc *TradingCalendar) IsOpenOnMinute(t time.Time) bool {
	if tc.Timezone != nil {
		t = t.In(tc.Timezone)
	}

	if tc.Fallback {
		weekday := t.Weekday()
		if weekday == time.Saturday || weekday == time.Sunday {
			return false
		}

		hour := t.Hour()
		minute := t.Minute()
		// 9:30 - 16:00 NY Time
		return (hour > 9 || (hour == 9 && minute >= 30)) && hour < 16
	}

	return tc.Calendar.IsOpen(t)
}

// -----------------------------------------------------------------------------

// Session returns the coarse session label attached to simulated ticks.
func (tc *TradingCalendar) Session(t time.Time) string {
	if tc.IsOpenOnMinute(t) {
		return "open"
	}
	return "closed"
}
