package utils

import (
	"strings"
	"sync"
	"time"

	"price-ticker/src/logger"
)

const (
	SessionAlwaysOpen = ""
	SessionAuto       = "auto"
)

// MarketScheduler decides which symbols are inside a trading session.
// With mode SessionAlwaysOpen every symbol is always open.
type MarketScheduler struct {
	Mode      string
	Calendars map[string]*TradingCalendar // keyed by MIC
	Logger    *logger.Logger
	mu        sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewMarketScheduler(mode string, l *logger.Logger) *MarketScheduler {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &MarketScheduler{
		Mode:      strings.ToLower(strings.TrimSpace(mode)),
		Calendars: make(map[string]*TradingCalendar),
		Logger:    l,
	}
}

// -----------------------------------------------------------------------------

// OpenSymbols filters symbols down to those whose market is open at now.
// Order is preserved.
func (ms *MarketScheduler) OpenSymbols(symbols []string, now time.Time) []string {
	if ms == nil || ms.Mode == SessionAlwaysOpen {
		return symbols
	}

	open := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		if ms.calendarFor(sym).IsOpenOnMinute(now) {
			open = append(open, sym)
		}
	}
	return open
}

// -----------------------------------------------------------------------------

func (ms *MarketScheduler) micFor(symbol string) string {
	if ms.Mode == SessionAuto {
		return MICForSymbol(symbol)
	}
	return ms.Mode
}

// -----------------------------------------------------------------------------

// calendarFor loads calendars lazily and caches them per MIC
func (ms *MarketScheduler) calendarFor(symbol string) *TradingCalendar {
	mic := ms.micFor(symbol)

	ms.mu.RLock()
	cal, ok := ms.Calendars[mic]
	ms.mu.RUnlock()
	if ok {
		return cal
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	if cal, ok := ms.Calendars[mic]; ok {
		return cal
	}
	cal = GetCalendar(mic)
	if cal.Fallback {
		ms.Logger.Warning("No calendar for MIC '%s', using Mon-Fri 09:30-16:00 New York session", mic)
	}
	ms.Calendars[mic] = cal
	ms.Logger.Info("MarketScheduler: loaded calendar %s (%d cached)", mic, len(ms.Calendars))
	return cal
}
