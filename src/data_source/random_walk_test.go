package datasource_test

import (
	"math"
	"testing"
	"time"

	datasource "price-ticker/src/data_source"
	"price-ticker/src/models"
)

type mockClock struct {
	times []time.Time
	i     int
}

func (m *mockClock) Now() time.Time {
	t := m.times[m.i]
	if m.i < len(m.times)-1 {
		m.i++
	}
	return t
}

type mockRand struct{ val float64 }

func (m *mockRand) Float64() float64 { return m.val }

func engineCfg() models.MEngineConfig {
	return models.MEngineConfig{
		DefaultBasePrice: 100.0,
		MaxDeltaPercent:  0.5,
		MinPrice:         0.01,
	}
}

func TestRandomWalk_ValueBounds(t *testing.T) {
	src := datasource.NewRandomWalkSource(engineCfg(), nil, datasource.NewRealRand(42))

	prev := 100.0
	for i := 0; i < 1000; i++ {
		ups := src.Next([]string{"BTC"})
		if len(ups) != 1 {
			t.Fatalf("tick %d: expected 1 update, got %d", i, len(ups))
		}
		p := ups[0].Price
		if p <= 0 {
			t.Fatalf("tick %d: price %v is not positive", i, p)
		}
		change := math.Abs(p-prev) / prev * 100
		if change > 0.5+1e-9 {
			t.Fatalf("tick %d: moved %.4f%% (prev %v, now %v)", i, change, prev, p)
		}
		prev = p
	}
}

func TestRandomWalk_LazyInitFromBase(t *testing.T) {
	cfg := engineCfg()
	cfg.BasePrices = map[string]float64{"ETH": 2000}

	// 0.5 maps to a zero delta
	src := datasource.NewRandomWalkSource(cfg, nil, &mockRand{val: 0.5})

	if _, ok := src.Last("ETH"); ok {
		t.Fatal("expected no state before first tick")
	}

	ups := src.Next([]string{"ETH", "XYZ"})
	if ups[0].Symbol != "ETH" || ups[0].Price != 2000 {
		t.Errorf("expected ETH at 2000, got %+v", ups[0])
	}
	if ups[1].Symbol != "XYZ" || ups[1].Price != 100 {
		t.Errorf("expected XYZ at default 100, got %+v", ups[1])
	}
}

func TestRandomWalk_ExtremeDeltas(t *testing.T) {
	up := datasource.NewRandomWalkSource(engineCfg(), nil, &mockRand{val: 1.0})
	if p := up.Next([]string{"A"})[0].Price; math.Abs(p-100.5) > 1e-9 {
		t.Errorf("expected 100.5 at max delta, got %v", p)
	}

	down := datasource.NewRandomWalkSource(engineCfg(), nil, &mockRand{val: 0.0})
	if p := down.Next([]string{"A"})[0].Price; math.Abs(p-99.5) > 1e-9 {
		t.Errorf("expected 99.5 at min delta, got %v", p)
	}
}

func TestRandomWalk_ClampsToMinPrice(t *testing.T) {
	cfg := engineCfg()
	cfg.DefaultBasePrice = 0.01
	cfg.MaxDeltaPercent = 50

	src := datasource.NewRandomWalkSource(cfg, nil, &mockRand{val: 0.0})
	for i := 0; i < 10; i++ {
		if p := src.Next([]string{"PENNY"})[0].Price; p < 0.01 {
			t.Fatalf("price %v fell below min price", p)
		}
	}
}

func TestRandomWalk_TimestampsNeverDecrease(t *testing.T) {
	base := time.UnixMilli(1_700_000_000_000)
	clock := &mockClock{times: []time.Time{
		base,
		base.Add(500 * time.Millisecond),
		base.Add(-2 * time.Second), // wall clock stepped back
		base.Add(time.Second),
	}}
	src := datasource.NewRandomWalkSource(engineCfg(), clock, &mockRand{val: 0.5})

	var last int64
	for i := 0; i < 4; i++ {
		u := src.Next([]string{"BTC"})[0]
		if u.TimestampMs < last {
			t.Fatalf("tick %d: timestamp went from %d to %d", i, last, u.TimestampMs)
		}
		last = u.TimestampMs
	}
	if last != base.Add(time.Second).UnixMilli() {
		t.Errorf("expected final timestamp to follow the clock again, got %d", last)
	}
}

func TestRandomWalk_Reset(t *testing.T) {
	src := datasource.NewRandomWalkSource(engineCfg(), nil, &mockRand{val: 1.0})
	src.Next([]string{"BTC"})
	src.Next([]string{"BTC"})
	src.Reset()

	if p := src.Next([]string{"BTC"})[0].Price; math.Abs(p-100.5) > 1e-9 {
		t.Errorf("expected walk to restart from base, got %v", p)
	}
}

func TestRandomWalk_EmptySymbols(t *testing.T) {
	src := datasource.NewRandomWalkSource(engineCfg(), nil, nil)
	if ups := src.Next(nil); len(ups) != 0 {
		t.Errorf("expected no updates, got %d", len(ups))
	}
}
