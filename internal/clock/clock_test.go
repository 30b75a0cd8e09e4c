package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestManualAdvanceFiresTicker(t *testing.T) {
	c := NewManual(epoch)
	tk := c.NewTicker(500 * time.Millisecond)
	defer tk.Stop()

	c.Advance(499 * time.Millisecond)
	select {
	case <-tk.C():
		t.Fatal("ticker fired before its period elapsed")
	default:
	}

	c.Advance(time.Millisecond)
	select {
	case at := <-tk.C():
		if want := epoch.Add(500 * time.Millisecond); !at.Equal(want) {
			t.Errorf("tick time = %v, want %v", at, want)
		}
	default:
		t.Fatal("expected a tick at 500ms")
	}
}

func TestManualDropsUnreadTicks(t *testing.T) {
	c := NewManual(epoch)
	tk := c.NewTicker(100 * time.Millisecond)
	defer tk.Stop()

	c.Advance(time.Second)

	got := 0
	for {
		select {
		case <-tk.C():
			got++
			continue
		default:
		}
		break
	}
	if got != 1 {
		t.Errorf("buffered ticks = %d, want 1", got)
	}
	if !c.Now().Equal(epoch.Add(time.Second)) {
		t.Errorf("now = %v, want %v", c.Now(), epoch.Add(time.Second))
	}
}

func TestManualStopRemovesTicker(t *testing.T) {
	c := NewManual(epoch)
	tk := c.NewTicker(time.Second)
	if c.Tickers() != 1 {
		t.Fatalf("tickers = %d, want 1", c.Tickers())
	}
	tk.Stop()
	if c.Tickers() != 0 {
		t.Fatalf("tickers after stop = %d, want 0", c.Tickers())
	}

	c.Advance(5 * time.Second)
	select {
	case <-tk.C():
		t.Fatal("stopped ticker fired")
	default:
	}
}

func TestManualSet(t *testing.T) {
	c := NewManual(epoch)
	tk := c.NewTicker(time.Second)
	defer tk.Stop()

	later := epoch.Add(time.Hour)
	c.Set(later)
	select {
	case <-tk.C():
		t.Fatal("Set must not fire tickers")
	default:
	}
	if !c.Now().Equal(later) {
		t.Fatalf("now = %v, want %v", c.Now(), later)
	}

	c.Advance(time.Second)
	select {
	case <-tk.C():
	default:
		t.Fatal("expected tick one period after Set")
	}
}
