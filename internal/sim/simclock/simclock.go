// Package simclock produces timestamps inside the simulation window
// with day-of-week bias and the due-date / completion-date policies the
// generators share.
package simclock

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/hugh/worksim/internal/sim/sampler"
)

// ErrWindowExhausted means the requested floor lies beyond the end of
// the simulation window. Callers treat it as "no valid timestamp" and
// either skip the field or clamp, per field semantics.
var ErrWindowExhausted = errors.New("simulation window exhausted")

// Bias selects the intra-window skew of a timestamp draw.
type Bias int

const (
	Uniform Bias = iota
	FrontLoaded
	BackLoaded
)

// Window is the [Start, End] interval bounding all generated timestamps.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// DueBucket is one range of the due-date offset distribution. None
// marks the "no due date" outcome.
type DueBucket struct {
	MinDays int
	MaxDays int
	Weight  float64
	None    bool
}

// Config tunes the clock. Zero-value fields fall back to defaults
// matching observed project-management activity: higher creation
// density Monday-Wednesday, 10% of tasks without due dates, 25% due
// within a week and 40% within a month.
type Config struct {
	// WeekendKeep is the probability a draw landing on a weekend stays
	// there instead of shifting to the following Monday.
	WeekendKeep float64
	DueBuckets  []DueBucket
}

var defaultDueBuckets = []DueBucket{
	{None: true, Weight: 0.10},
	{MinDays: 1, MaxDays: 7, Weight: 0.25},
	{MinDays: 8, MaxDays: 30, Weight: 0.40},
	{MinDays: 31, MaxDays: 90, Weight: 0.20},
	{MinDays: -14, MaxDays: -1, Weight: 0.05}, // already overdue at creation
}

type Clock struct {
	rng         *rand.Rand
	window      Window
	weekendKeep float64
	dueOptions  []sampler.Weighted[DueBucket]
}

// New builds a clock over the given window. The random source is the
// run's single seeded stream. Returns sampler.ErrInvalidDistribution
// if the configured due buckets are malformed.
func New(rng *rand.Rand, window Window, cfg *Config) (*Clock, error) {
	weekendKeep := 0.2
	buckets := defaultDueBuckets

	if cfg != nil {
		if cfg.WeekendKeep > 0 {
			weekendKeep = cfg.WeekendKeep
		}
		if len(cfg.DueBuckets) > 0 {
			buckets = cfg.DueBuckets
		}
	}

	options := make([]sampler.Weighted[DueBucket], len(buckets))
	for i, b := range buckets {
		options[i] = sampler.Weighted[DueBucket]{Value: b, Weight: b.Weight}
	}
	if err := sampler.ValidateWeights(options); err != nil {
		return nil, err
	}

	return &Clock{
		rng:         rng,
		window:      window,
		weekendKeep: weekendKeep,
		dueOptions:  options,
	}, nil
}

func (c *Clock) Window() Window {
	return c.window
}

// TimestampAfter returns a timestamp in [floor, window.End] drawn with
// the given intra-window skew and the clock's weekday bias. Returns
// ErrWindowExhausted when floor is past the window end.
func (c *Clock) TimestampAfter(floor time.Time, bias Bias) (time.Time, error) {
	if floor.After(c.window.End) {
		return time.Time{}, ErrWindowExhausted
	}
	if floor.Before(c.window.Start) {
		floor = c.window.Start
	}

	span := c.window.End.Sub(floor)
	var frac float64
	switch bias {
	case FrontLoaded:
		frac = math.Pow(c.rng.Float64(), 2)
	case BackLoaded:
		frac = 1 - math.Pow(c.rng.Float64(), 2)
	default:
		frac = c.rng.Float64()
	}

	t := floor.Add(time.Duration(frac * float64(span))).Truncate(time.Second)
	t = c.shiftOffWeekend(t, floor)

	if t.Before(floor) {
		t = floor
	}
	if t.After(c.window.End) {
		t = c.window.End
	}
	return t, nil
}

// shiftOffWeekend moves most weekend draws to the following Monday,
// keeping the result inside [floor, window.End].
func (c *Clock) shiftOffWeekend(t, floor time.Time) time.Time {
	wd := t.Weekday()
	if wd != time.Saturday && wd != time.Sunday {
		return t
	}
	if c.rng.Float64() < c.weekendKeep {
		return t
	}

	days := 1
	if wd == time.Saturday {
		days = 2
	}
	shifted := t.AddDate(0, 0, days)
	if shifted.After(c.window.End) {
		shifted = shifted.AddDate(0, 0, -7)
	}
	if shifted.Before(floor) || shifted.After(c.window.End) {
		return t
	}
	return shifted
}

// DueOffset draws a signed day offset for a due date. ok is false for
// the "no due date" outcome.
func (c *Clock) DueOffset() (days int, ok bool) {
	b, err := sampler.WeightedChoice(c.rng, c.dueOptions)
	if err != nil {
		// Buckets are validated in New; treat the unreachable case as
		// "no due date".
		return 0, false
	}
	if b.None {
		return 0, false
	}
	return sampler.IntBetween(c.rng, b.MinDays, b.MaxDays), true
}

// DueDate derives a due date from the creation time via DueOffset.
// Overflow past the window end CLAMPS to window end rather than
// raising ErrWindowExhausted: a due date is advisory, so the latest
// representable day is preferable to dropping the field once drawn.
// Most due dates are nudged off weekends.
func (c *Clock) DueDate(created time.Time) (time.Time, bool) {
	offset, ok := c.DueOffset()
	if !ok {
		return time.Time{}, false
	}

	due := created.AddDate(0, 0, offset)
	if due.After(c.window.End) {
		due = c.window.End
	}
	if due.Before(created.AddDate(0, 0, -30)) {
		due = created.AddDate(0, 0, 1)
	}

	// 85% of due dates land on weekdays.
	if c.rng.Float64() < 0.85 {
		for due.Weekday() == time.Saturday || due.Weekday() == time.Sunday {
			due = due.AddDate(0, 0, -1)
		}
	}
	return due, true
}

// CompletionAfter returns a completion timestamp for a task created at
// the given time: a log-normal cycle time of 1-60 days, snapped near
// the due date 70% of the time when one exists, clamped to
// [created, window.End]. Back-loaded by construction.
func (c *Clock) CompletionAfter(created time.Time, due *time.Time) time.Time {
	days := sampler.LogNormalDays(c.rng, 2.0, 0.8, 1, 60)
	done := created.AddDate(0, 0, days)

	if due != nil && c.rng.Float64() < 0.7 {
		done = due.AddDate(0, 0, sampler.IntBetween(c.rng, -3, 7))
	}

	if min := created.AddDate(0, 0, 1); done.Before(min) {
		done = min
	}
	if done.After(c.window.End) {
		done = c.window.End
	}
	if done.Before(created) {
		done = created
	}
	return done
}
