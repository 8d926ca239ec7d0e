package simclock

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWindow() Window {
	return Window{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTestClock(t *testing.T, seed int64) *Clock {
	t.Helper()
	c, err := New(rand.New(rand.NewSource(seed)), testWindow(), nil)
	require.NoError(t, err)
	return c
}

func TestNewRejectsMalformedBuckets(t *testing.T) {
	_, err := New(rand.New(rand.NewSource(1)), testWindow(), &Config{
		DueBuckets: []DueBucket{{MinDays: 1, MaxDays: 7, Weight: -1}},
	})
	assert.Error(t, err)
}

func TestTimestampAfterStaysInWindow(t *testing.T) {
	clock := newTestClock(t, 42)
	w := testWindow()
	floor := w.Start.AddDate(0, 1, 0)

	for i := 0; i < 5000; i++ {
		ts, err := clock.TimestampAfter(floor, Uniform)
		require.NoError(t, err)
		assert.False(t, ts.Before(floor), "timestamp %v before floor %v", ts, floor)
		assert.False(t, ts.After(w.End), "timestamp %v after window end", ts)
	}
}

func TestTimestampAfterWindowExhausted(t *testing.T) {
	clock := newTestClock(t, 42)
	_, err := clock.TimestampAfter(testWindow().End.AddDate(0, 0, 1), Uniform)
	assert.ErrorIs(t, err, ErrWindowExhausted)
}

func TestTimestampAfterFloorBeforeWindowClampsToStart(t *testing.T) {
	clock := newTestClock(t, 42)
	w := testWindow()

	ts, err := clock.TimestampAfter(w.Start.AddDate(-1, 0, 0), Uniform)
	require.NoError(t, err)
	assert.True(t, w.Contains(ts))
}

func TestTimestampAfterWeekdayBias(t *testing.T) {
	clock := newTestClock(t, 7)
	w := testWindow()

	weekend := 0
	const draws = 10_000
	for i := 0; i < draws; i++ {
		ts, err := clock.TimestampAfter(w.Start, Uniform)
		require.NoError(t, err)
		if wd := ts.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend++
		}
	}
	// 2/7 of uniform draws land on weekends and only ~20% stay, so the
	// weekend share should sit well below the uniform 28.6%.
	assert.Less(t, float64(weekend)/draws, 0.12)
}

func TestDueDateClampsInsteadOfFailing(t *testing.T) {
	clock := newTestClock(t, 21)
	w := testWindow()
	created := w.End.AddDate(0, 0, -1)

	// A due offset past the window must clamp to the window end, never
	// error and never escape the window.
	for i := 0; i < 2000; i++ {
		due, ok := clock.DueDate(created)
		if !ok {
			continue
		}
		assert.False(t, due.After(w.End), "due date %v past window end", due)
	}
}

func TestDueDateDistribution(t *testing.T) {
	clock := newTestClock(t, 5)
	created := testWindow().Start.AddDate(0, 1, 0)

	none := 0
	const draws = 20_000
	for i := 0; i < draws; i++ {
		if _, ok := clock.DueDate(created); !ok {
			none++
		}
	}
	assert.InDelta(t, 0.10, float64(none)/draws, 0.01, "no-due-date share")
}

func TestCompletionAfterBounds(t *testing.T) {
	clock := newTestClock(t, 9)
	w := testWindow()
	created := w.Start.AddDate(0, 2, 0)

	for i := 0; i < 5000; i++ {
		var due *time.Time
		if i%2 == 0 {
			d := created.AddDate(0, 0, 10)
			due = &d
		}
		done := clock.CompletionAfter(created, due)
		assert.False(t, done.Before(created), "completion %v before creation %v", done, created)
		assert.False(t, done.After(w.End), "completion %v past window end", done)
	}
}

func TestClockDeterministic(t *testing.T) {
	draw := func() []time.Time {
		clock := newTestClock(t, 1234)
		w := testWindow()
		out := make([]time.Time, 100)
		for i := range out {
			ts, err := clock.TimestampAfter(w.Start, FrontLoaded)
			require.NoError(t, err)
			out[i] = ts
		}
		return out
	}
	assert.Equal(t, draw(), draw())
}
