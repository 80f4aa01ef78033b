package stream_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"price-ticker/src/helpers"
	"price-ticker/src/models"
	"price-ticker/src/stream"
)

func update(i int) models.MPriceUpdate {
	return models.MPriceUpdate{Symbol: "BTC", Price: float64(i), TimestampMs: int64(i)}
}

// collect reads until the channel is quiet for the given idle period
func collect(ch <-chan models.MPriceUpdate, idle time.Duration) []models.MPriceUpdate {
	var out []models.MPriceUpdate
	for {
		select {
		case u, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, u)
		case <-time.After(idle):
			return out
		}
	}
}

func attached(t *testing.T, opts ...stream.Option) (*stream.StreamAdapter, *stream.PriceStream) {
	t.Helper()
	s := stream.NewPriceStream(opts...)
	a := stream.NewStreamAdapter()
	if err := a.Attach(s); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	t.Cleanup(s.Close)
	return a, s
}

func TestAdapter_ForwardsInOrder(t *testing.T) {
	a, s := attached(t)

	for i := 1; i <= 3; i++ {
		a.OnPrice(update(i))
	}

	got := collect(s.Updates(), 100*time.Millisecond)
	if len(got) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(got))
	}
	for i, u := range got {
		if u.Price != float64(i+1) {
			t.Errorf("position %d: expected %d, got %v", i, i+1, u.Price)
		}
	}
	if a.Forwarded() != 3 || a.Discarded() != 0 {
		t.Errorf("unexpected counters: forwarded=%d discarded=%d", a.Forwarded(), a.Discarded())
	}
}

func TestAdapter_DiscardsWithoutSink(t *testing.T) {
	a := stream.NewStreamAdapter()
	a.OnPrice(update(1))

	if a.Discarded() != 1 {
		t.Errorf("expected 1 discarded update, got %d", a.Discarded())
	}
}

func TestAdapter_AttachOnce(t *testing.T) {
	a, _ := attached(t)

	other := stream.NewPriceStream()
	defer other.Close()

	if err := a.Attach(other); !errors.Is(err, helpers.ErrSinkAttached) {
		t.Errorf("expected ErrSinkAttached, got %v", err)
	}
	if err := stream.NewStreamAdapter().Attach(nil); err == nil {
		t.Error("expected error attaching nil stream")
	}
}

func TestAdapter_CloseRunsHookOnce(t *testing.T) {
	a, s := attached(t)

	var calls atomic.Int32
	a.OnTerminate(func() { calls.Add(1) })

	s.Close()
	s.Close()
	s.Close()

	if n := calls.Load(); n != 1 {
		t.Errorf("expected hook to run once, ran %d times", n)
	}
	if !a.Terminated() {
		t.Error("adapter should report terminated")
	}

	a.OnPrice(update(1))
	if a.Discarded() != 1 {
		t.Errorf("update after termination should be discarded")
	}

	select {
	case _, ok := <-s.Updates():
		if ok {
			t.Error("expected closed channel, got an update")
		}
	case <-time.After(time.Second):
		t.Error("consumer channel was not closed")
	}
}

func TestAdapter_BreakingRangeTerminates(t *testing.T) {
	a, s := attached(t)

	var calls atomic.Int32
	a.OnTerminate(func() { calls.Add(1) })

	stop := make(chan struct{})
	go func() {
		i := 0
		for {
			select {
			case <-stop:
				return
			default:
				i++
				a.OnPrice(update(i))
				time.Sleep(time.Millisecond)
			}
		}
	}()
	defer close(stop)

	seen := 0
	for range s.All() {
		seen++
		if seen == 5 {
			break
		}
	}

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("stream not closed after break")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected hook to run once, ran %d times", n)
	}
}

func TestAdapter_HookRegisteredAfterTermination(t *testing.T) {
	a, s := attached(t)
	s.Close()

	ran := false
	a.OnTerminate(func() { ran = true })
	if !ran {
		t.Error("hook registered after termination should run immediately")
	}
}

func TestStream_UnboundedKeepsEverything(t *testing.T) {
	a, s := attached(t)

	for i := 1; i <= 1000; i++ {
		a.OnPrice(update(i))
	}

	got := collect(s.Updates(), 200*time.Millisecond)
	if len(got) != 1000 {
		t.Fatalf("expected 1000 updates, got %d", len(got))
	}
	for i, u := range got {
		if u.Price != float64(i+1) {
			t.Fatalf("position %d out of order: %v", i, u.Price)
		}
	}
	if s.Drops() != 0 {
		t.Errorf("unbounded stream dropped %d", s.Drops())
	}
}

func TestStream_DropNewest(t *testing.T) {
	a, s := attached(t,
		stream.WithOverflowPolicy(stream.DropNewest),
		stream.WithBufferSize(2),
	)

	for i := 1; i <= 10; i++ {
		a.OnPrice(update(i))
	}

	got := collect(s.Updates(), 100*time.Millisecond)
	if len(got)+int(s.Drops()) != 10 {
		t.Fatalf("delivered %d + dropped %d != 10", len(got), s.Drops())
	}
	if s.Drops() == 0 {
		t.Fatal("expected drops with a full buffer")
	}
	if got[0].Price != 1 {
		t.Errorf("drop-newest should keep the oldest, first was %v", got[0].Price)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Price <= got[i-1].Price {
			t.Errorf("out of order delivery: %v", got)
		}
	}
}

func TestStream_DropOldest(t *testing.T) {
	a, s := attached(t,
		stream.WithOverflowPolicy(stream.DropOldest),
		stream.WithBufferSize(2),
	)

	for i := 1; i <= 10; i++ {
		a.OnPrice(update(i))
	}

	got := collect(s.Updates(), 100*time.Millisecond)
	if len(got)+int(s.Drops()) != 10 {
		t.Fatalf("delivered %d + dropped %d != 10", len(got), s.Drops())
	}
	if last := got[len(got)-1].Price; last != 10 {
		t.Errorf("drop-oldest should keep the newest, last was %v", last)
	}
}

func TestParseOverflowPolicy(t *testing.T) {
	cases := map[string]stream.OverflowPolicy{
		"":            stream.Unbounded,
		"unbounded":   stream.Unbounded,
		"drop_newest": stream.DropNewest,
		"DROP_OLDEST": stream.DropOldest,
	}
	for in, want := range cases {
		got, err := stream.ParseOverflowPolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseOverflowPolicy(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := stream.ParseOverflowPolicy("block"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
