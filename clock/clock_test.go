package clock

import (
	"testing"
	"time"
)

func TestMonotonicProviderMovesForward(t *testing.T) {
	p := NewMonotonicTimeProvider()

	first := p.Now()
	second := p.Now()
	if second.Before(first) {
		t.Errorf("Expected non-decreasing time, got %v then %v", first, second)
	}
}

func TestMockSetTimeAndAdvance(t *testing.T) {
	start := time.Unix(1000, 0)
	m := NewMockTimeProvider(start)

	if !m.Now().Equal(start) {
		t.Errorf("Expected start time %v, got %v", start, m.Now())
	}

	m.Advance(250 * time.Millisecond)
	if got := m.Now().Sub(start); got != 250*time.Millisecond {
		t.Errorf("Expected 250ms elapsed, got %v", got)
	}

	later := time.Unix(2000, 0)
	m.SetTime(later)
	if !m.Now().Equal(later) {
		t.Errorf("Expected repositioned time %v, got %v", later, m.Now())
	}
}

func TestMockTimeIsFrozenWithoutStep(t *testing.T) {
	m := NewMockTimeProvider(time.Unix(1000, 0))

	first := m.Now()
	for i := 0; i < 10; i++ {
		if !m.Now().Equal(first) {
			t.Fatal("Expected frozen clock without an armed step")
		}
	}
}

func TestMockStepAdvancesPerRead(t *testing.T) {
	m := NewMockTimeProvider(time.Unix(1000, 0))
	m.SetStep(10 * time.Millisecond)

	first := m.Now()
	second := m.Now()
	third := m.Now()

	if got := second.Sub(first); got != 10*time.Millisecond {
		t.Errorf("Expected 10ms between reads, got %v", got)
	}
	if got := third.Sub(first); got != 20*time.Millisecond {
		t.Errorf("Expected 20ms after two stepped reads, got %v", got)
	}

	m.SetStep(0)
	frozen := m.Now()
	if !m.Now().Equal(frozen) {
		t.Error("Expected clock to freeze after disarming the step")
	}
}
