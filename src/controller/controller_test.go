package controller_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"price-ticker/src/controller"
	datasource "price-ticker/src/data_source"
	"price-ticker/src/engine"
	"price-ticker/src/helpers"
	"price-ticker/src/interfaces"
	"price-ticker/src/logger"
	"price-ticker/src/models"
)

// spyEngine records calls and lets the test drive the listener by hand
type spyEngine struct {
	mu       sync.Mutex
	running  bool
	listener interfaces.IPriceListener
	symbols  []string
	starts   int
	cancels  int
}

func (s *spyEngine) Start(symbols []string, l interfaces.IPriceListener) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	s.listener = l
	s.symbols = symbols
	s.starts++
	return true
}

func (s *spyEngine) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels++
	s.running = false
}

func (s *spyEngine) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *spyEngine) DrainUpdates(max int) []models.MPriceUpdate {
	out := make([]models.MPriceUpdate, 0, max)
	for i := 0; i < max; i++ {
		out = append(out, models.MPriceUpdate{Symbol: "BTC", Price: float64(i)})
	}
	return out
}

func (s *spyEngine) Stats() models.MEngineStats {
	return models.MEngineStats{Running: s.IsRunning(), QueueCapacity: 8}
}

func (s *spyEngine) emit(u models.MPriceUpdate) {
	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()
	l.OnPrice(u)
}

func (s *spyEngine) cancelCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancels
}

func waitUntil(t *testing.T, within time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(within)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %v", within)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestController_StopIteratingCancelsOnce(t *testing.T) {
	spy := &spyEngine{}
	c := controller.NewStreamController(spy, logger.NewNopLogger())

	seq, err := c.Stream(context.Background(), []string{"BTC", "ETH"})
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	if !reflect.DeepEqual(spy.symbols, []string{"BTC", "ETH"}) {
		t.Errorf("engine started with %v", spy.symbols)
	}

	go func() {
		for i := 0; i < 10; i++ {
			spy.emit(models.MPriceUpdate{Symbol: "BTC", Price: float64(i + 1)})
			spy.emit(models.MPriceUpdate{Symbol: "ETH", Price: float64(i + 1)})
		}
	}()

	seen := 0
	for range seq.All() {
		seen++
		if seen == 3 {
			break
		}
	}

	if n := spy.cancelCount(); n != 1 {
		t.Fatalf("expected exactly one engine cancel, got %d", n)
	}

	// late cancels from other paths must not add engine calls for this stream
	seq.Close()
	time.Sleep(10 * time.Millisecond)
	if n := spy.cancelCount(); n != 1 {
		t.Errorf("expected cancel count to stay 1, got %d", n)
	}
}

func TestController_ContextCancelCancelsRun(t *testing.T) {
	spy := &spyEngine{}
	c := controller.NewStreamController(spy, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	seq, err := c.Stream(ctx, []string{"BTC"})
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}

	cancel()
	waitUntil(t, time.Second, func() bool { return spy.cancelCount() == 1 })

	select {
	case <-seq.Done():
	case <-time.After(time.Second):
		t.Fatal("stream not terminated after context cancel")
	}
	if c.IsRunning() {
		t.Error("controller should report idle")
	}
}

func TestController_SecondStreamWhileActive(t *testing.T) {
	spy := &spyEngine{}
	c := controller.NewStreamController(spy, logger.NewNopLogger())

	first, err := c.Stream(context.Background(), []string{"BTC"})
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	defer first.Close()

	if _, err := c.Stream(context.Background(), []string{"ETH"}); !errors.Is(err, helpers.ErrRunActive) {
		t.Fatalf("expected ErrRunActive, got %v", err)
	}
	if spy.starts != 1 {
		t.Errorf("expected one engine start, got %d", spy.starts)
	}
	if spy.cancelCount() != 0 {
		t.Error("rejected stream must not cancel the active run")
	}
}

func TestController_CancelClosesStream(t *testing.T) {
	spy := &spyEngine{}
	c := controller.NewStreamController(spy, logger.NewNopLogger())

	seq, _ := c.Stream(context.Background(), []string{"BTC"})
	c.Cancel()

	select {
	case <-seq.Done():
	case <-time.After(time.Second):
		t.Fatal("stream not closed by Cancel")
	}
	if n := spy.cancelCount(); n != 1 {
		t.Errorf("expected one engine cancel, got %d", n)
	}

	// idle cancel is harmless
	c.Cancel()

	if _, err := c.Stream(context.Background(), []string{"BTC"}); err != nil {
		t.Errorf("stream after cancel failed: %v", err)
	}
}

func TestController_StaleStreamDoesNotCancelNewRun(t *testing.T) {
	spy := &spyEngine{}
	c := controller.NewStreamController(spy, logger.NewNopLogger())

	old, _ := c.Stream(context.Background(), []string{"BTC"})

	// the engine run ends without the stream being closed yet
	spy.Cancel()

	fresh, err := c.Stream(context.Background(), []string{"ETH"})
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	defer fresh.Close()

	old.Close()
	if !spy.IsRunning() {
		t.Error("closing the stale stream cancelled the new run")
	}
	if n := spy.cancelCount(); n != 1 {
		t.Errorf("expected only the manual cancel, got %d", n)
	}
}

func TestController_Close(t *testing.T) {
	spy := &spyEngine{}
	c := controller.NewStreamController(spy, logger.NewNopLogger())

	seq, _ := c.Stream(context.Background(), []string{"BTC"})
	c.Close()
	c.Close()

	select {
	case <-seq.Done():
	case <-time.After(time.Second):
		t.Fatal("stream not closed by controller Close")
	}
	if spy.IsRunning() {
		t.Error("engine still running after Close")
	}
	if _, err := c.Stream(context.Background(), []string{"BTC"}); !errors.Is(err, helpers.ErrControllerClosed) {
		t.Errorf("expected ErrControllerClosed, got %v", err)
	}
}

func TestController_Drain(t *testing.T) {
	c := controller.NewStreamController(&spyEngine{}, logger.NewNopLogger())
	if got := c.Drain(3); len(got) != 3 {
		t.Errorf("expected 3 drained updates, got %d", len(got))
	}
	if st := c.Stats(); st.QueueCapacity != 8 || st.Running {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestNormalizeSymbols(t *testing.T) {
	got, err := controller.NormalizeSymbols([]string{" BTC", "ETH", "BTC", "SOL "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"BTC", "ETH", "SOL"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := controller.NormalizeSymbols(nil); !errors.Is(err, helpers.ErrEmptySymbols) {
		t.Errorf("expected ErrEmptySymbols for nil, got %v", err)
	}
	if _, err := controller.NormalizeSymbols([]string{"BTC", "  "}); !errors.Is(err, helpers.ErrEmptySymbols) {
		t.Errorf("expected ErrEmptySymbols for blank, got %v", err)
	}
}

func TestController_DroppedConsumerStopsRealEngine(t *testing.T) {
	tick := 20 * time.Millisecond
	cfg := models.MEngineConfig{
		TickIntervalMs:   int(tick / time.Millisecond),
		DefaultBasePrice: 100,
		MaxDeltaPercent:  0.5,
		MinPrice:         0.01,
		DrainCapacity:    64,
	}
	eng := engine.NewTickerEngine(cfg, datasource.NewRandomWalkSource(cfg, nil, nil), nil, logger.NewNopLogger())
	c := controller.NewStreamController(eng, logger.NewNopLogger())
	defer c.Close()

	ctx, drop := context.WithCancel(context.Background())
	seq, err := c.Stream(ctx, []string{"BTC", "ETH", "SOL"})
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}

	got := 0
	timeout := time.After(2 * time.Second)
	for got < 6 {
		select {
		case <-seq.Updates():
			got++
		case <-timeout:
			t.Fatalf("only %d updates before timeout", got)
		}
	}

	// consumer goes away without calling Cancel or Close
	drop()

	waitUntil(t, tick+tick/5, func() bool { return !eng.IsRunning() })
	select {
	case <-eng.Done():
	case <-time.After(time.Second):
		t.Fatal("engine loop did not exit")
	}
}
