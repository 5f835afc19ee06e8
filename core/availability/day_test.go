package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResolver(now time.Time, policy EmptyPolicy) Resolver {
	return Resolver{
		Schedule: Schedule{Location: time.UTC, Default: Hours{Open: 8 * 60, Close: 10 * 60}},
		Grid:     Grid{Duration: 30 * time.Minute, Quantum: 30 * time.Minute},
		Empty:    policy,
		Now:      func() time.Time { return now },
	}
}

func TestResolveDay_Full(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	r := testResolver(date.AddDate(0, 0, -1), ExactGrid)

	// Busy intervals on a FULL day must be ignored entirely.
	day := Day{Date: date, Status: StatusFull, Busy: []BusyInterval{{Start: date, End: date}}}
	assert.Empty(t, r.ResolveDay(day))
}

func TestResolveDay_EmptyPolicies(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	yesterday := date.AddDate(0, 0, -1)

	t.Run("Placeholder", func(t *testing.T) {
		got := testResolver(yesterday, Placeholder).ResolveDay(Empty(date))
		require.Len(t, got, 1)
		assert.Equal(t, "08:00", got[0].Format("15:04"))
	})

	t.Run("PlaceholderAfterClose", func(t *testing.T) {
		got := testResolver(at(date, 11, 0), Placeholder).ResolveDay(Empty(date))
		assert.Empty(t, got)
	})

	t.Run("ExactGrid", func(t *testing.T) {
		got := testResolver(yesterday, ExactGrid).ResolveDay(Empty(date))
		assert.Equal(t, []string{"08:00", "08:30", "09:00", "09:30"}, clocks(got))
	})

	t.Run("SkipEmpty", func(t *testing.T) {
		got := testResolver(yesterday, SkipEmpty).ResolveDay(Empty(date))
		assert.Empty(t, got)
	})
}

func TestResolveDay_Partial(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	r := testResolver(date.AddDate(0, 0, -1), Placeholder)

	got := r.ResolveDay(Partial(date, []BusyInterval{{Start: at(date, 8, 15), End: at(date, 9, 0)}}))
	assert.Equal(t, []string{"09:00", "09:30"}, clocks(got))
}

func TestResolveDays_SortedAndDeduplicated(t *testing.T) {
	d1 := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	r := testResolver(d1.AddDate(0, 0, -1), Placeholder)

	got := r.ResolveDays([]Day{Empty(d2), Full(d1), Empty(d1), Empty(d1)})
	require.Len(t, got, 2)
	assert.True(t, got[0].Equal(at(d1, 8, 0)))
	assert.True(t, got[1].Equal(at(d2, 8, 0)))
}

func TestSchedule_Window(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Vienna")
	require.NoError(t, err)

	s := Schedule{
		Location: loc,
		Default:  Hours{Open: 8 * 60, Close: 19 * 60},
		Weekdays: map[time.Weekday]Hours{time.Friday: {Open: 8 * 60, Close: 12 * 60}},
		Closed:   map[time.Weekday]bool{time.Sunday: true},
	}

	// 2026-03-29 is a Sunday and the DST switch in Vienna.
	_, _, ok := s.Window(time.Date(2026, 3, 29, 0, 0, 0, 0, loc))
	assert.False(t, ok)

	open, close, ok := s.Window(time.Date(2026, 3, 27, 0, 0, 0, 0, loc))
	require.True(t, ok)
	assert.Equal(t, "08:00", open.Format("15:04"))
	assert.Equal(t, "12:00", close.Format("15:04"))

	open, _, ok = s.Window(time.Date(2026, 3, 30, 0, 0, 0, 0, loc))
	require.True(t, ok)
	assert.Equal(t, "2026-03-30T08:00:00+02:00", open.Format(time.RFC3339))
}

func TestParseHours(t *testing.T) {
	h, err := ParseHours("08:00-19:00")
	require.NoError(t, err)
	assert.Equal(t, Hours{Open: 480, Close: 1140}, h)

	_, err = ParseHours("19:00-08:00")
	assert.Error(t, err)

	_, err = ParseHours("8-19")
	assert.Error(t, err)

	h, err = ParseHours("20:00-24:00")
	require.NoError(t, err)
	assert.Equal(t, 24*60, h.Close)

	_, err = ParseHours("20:00-24:59")
	assert.Error(t, err)
}

func TestParseEmptyPolicy(t *testing.T) {
	p, err := ParseEmptyPolicy("exact_grid")
	require.NoError(t, err)
	assert.Equal(t, ExactGrid, p)

	p, err = ParseEmptyPolicy("")
	require.NoError(t, err)
	assert.Equal(t, Placeholder, p)

	p, err = ParseEmptyPolicy("skip")
	require.NoError(t, err)
	assert.Equal(t, SkipEmpty, p)

	_, err = ParseEmptyPolicy("guess")
	assert.Error(t, err)
}

func TestParseWeekday(t *testing.T) {
	d, err := ParseWeekday("Sat")
	require.NoError(t, err)
	assert.Equal(t, time.Saturday, d)

	d, err = ParseWeekday("wednesday")
	require.NoError(t, err)
	assert.Equal(t, time.Wednesday, d)

	_, err = ParseWeekday("Mo")
	assert.Error(t, err)
}
