package clock

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := &RealClock{}

	before := time.Now()
	actual := clock.Now()
	after := time.Now()

	if actual.Before(before) || actual.After(after) {
		t.Errorf("RealClock.Now() returned time outside expected range: got %v, expected between %v and %v", actual, before, after)
	}
}

func TestFakeClock_Now(t *testing.T) {
	fixedTime := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	clock := NewFakeClock(fixedTime)

	t.Run("returns fixed time", func(t *testing.T) {
		actual := clock.Now()
		if !actual.Equal(fixedTime) {
			t.Errorf("FakeClock.Now() = %v, want %v", actual, fixedTime)
		}
	})

	t.Run("subsequent calls return same time", func(t *testing.T) {
		first := clock.Now()
		time.Sleep(1 * time.Millisecond)
		second := clock.Now()

		if !first.Equal(second) {
			t.Errorf("FakeClock.Now() should return consistent time: first=%v, second=%v", first, second)
		}
	})
}

func TestFakeClock_Sleep(t *testing.T) {
	initialTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFakeClock(initialTime)

	t.Run("advances time without blocking", func(t *testing.T) {
		clock.Sleep(250 * time.Millisecond)

		expected := initialTime.Add(250 * time.Millisecond)
		if !clock.Now().Equal(expected) {
			t.Errorf("After Sleep, Now() = %v, want %v", clock.Now(), expected)
		}
	})

	t.Run("sleeps accumulate", func(t *testing.T) {
		clock.Set(initialTime)

		clock.Sleep(1 * time.Second)
		clock.Sleep(500 * time.Millisecond)

		expected := initialTime.Add(1500 * time.Millisecond)
		if !clock.Now().Equal(expected) {
			t.Errorf("After two sleeps, Now() = %v, want %v", clock.Now(), expected)
		}
	})
}

func TestFakeClock_Since(t *testing.T) {
	initialTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFakeClock(initialTime)

	start := clock.Now()
	clock.Advance(3 * time.Second)

	if got := clock.Since(start); got != 3*time.Second {
		t.Errorf("Since() = %v, want %v", got, 3*time.Second)
	}
}

func TestFakeClock_Advance(t *testing.T) {
	initialTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFakeClock(initialTime)

	t.Run("advances time by duration", func(t *testing.T) {
		duration := 2 * time.Hour
		expectedTime := initialTime.Add(duration)

		clock.Advance(duration)
		actual := clock.Now()

		if !actual.Equal(expectedTime) {
			t.Errorf("After Advance(%v), Now() = %v, want %v", duration, actual, expectedTime)
		}
	})

	t.Run("multiple advances accumulate", func(t *testing.T) {
		clock.Set(initialTime)

		clock.Advance(1 * time.Hour)
		clock.Advance(30 * time.Minute)
		clock.Advance(15 * time.Second)

		expectedTime := initialTime.Add(1*time.Hour + 30*time.Minute + 15*time.Second)
		actual := clock.Now()

		if !actual.Equal(expectedTime) {
			t.Errorf("After multiple advances, Now() = %v, want %v", actual, expectedTime)
		}
	})
}

func TestNewFakeClock(t *testing.T) {
	t.Run("creates independent clocks", func(t *testing.T) {
		time1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		time2 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

		clock1 := NewFakeClock(time1)
		clock2 := NewFakeClock(time2)

		if clock1.Now().Equal(clock2.Now()) {
			t.Error("Independent FakeClocks should have independent times")
		}

		clock1.Advance(1 * time.Hour)
		if clock1.Now().Equal(clock2.Now()) {
			t.Error("Advancing one clock should not affect another")
		}
	})
}
