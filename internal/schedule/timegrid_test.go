package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/league-sched-api/internal/models"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-04-07")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d.Weekday())
	assert.Equal(t, "2025-04-07", FormatDate(d))

	for _, raw := range []string{"", "04/07/2025", "2025-13-01", "2025-04-32", "not-a-date"} {
		_, err := ParseDate(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseMinutes(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"00:00", 0},
		{"09:30", 570},
		{"18:00", 1080},
		{"23:59", 1439},
		{"24:00", -1},
		{"12:60", -1},
		{"1200", -1},
		{"ab:cd", -1},
		{"", -1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseMinutes(tc.raw), tc.raw)
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "18:00", FormatMinutes(1080))
	assert.Equal(t, "00:05", FormatMinutes(5))
}

func TestValidRange(t *testing.T) {
	start, end, err := ValidRange("18:00", "21:00")
	require.NoError(t, err)
	assert.Equal(t, 1080, start)
	assert.Equal(t, 1260, end)

	_, _, err = ValidRange("18:00", "18:00")
	assert.Error(t, err)
	_, _, err = ValidRange("19:00", "18:00")
	assert.Error(t, err)
	_, _, err = ValidRange("bad", "18:00")
	assert.Error(t, err)
}

func TestOverlapsIsHalfOpen(t *testing.T) {
	// Slots sharing an edge do not conflict.
	assert.False(t, Overlaps(600, 660, 660, 720))
	assert.False(t, Overlaps(660, 720, 600, 660))
	assert.True(t, Overlaps(600, 690, 660, 720))
	assert.True(t, Overlaps(600, 720, 630, 660))
	assert.True(t, Overlaps(630, 660, 600, 720))
}

func TestDayTokens(t *testing.T) {
	assert.Equal(t, "Sun", DayToken(time.Sunday))
	assert.Equal(t, "Sat", DayToken(time.Saturday))

	day, err := ParseDayToken("monday")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, day)

	day, err = ParseDayToken("THU")
	require.NoError(t, err)
	assert.Equal(t, time.Thursday, day)

	_, err = ParseDayToken("xx")
	assert.Error(t, err)
}

func TestParseDayList(t *testing.T) {
	days, err := ParseDayList("Mon, wed;FRIDAY")
	require.NoError(t, err)
	assert.True(t, days[time.Monday])
	assert.True(t, days[time.Wednesday])
	assert.True(t, days[time.Friday])
	assert.Len(t, days, 3)

	_, err = ParseDayList("Mon,noday")
	assert.Error(t, err)

	days, err = ParseDayList("")
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestWeekKeyIsMondayBased(t *testing.T) {
	mon, _ := ParseDate("2025-04-07")
	sun, _ := ParseDate("2025-04-13")
	nextMon, _ := ParseDate("2025-04-14")

	assert.Equal(t, "2025-W15", WeekKey(mon))
	assert.Equal(t, WeekKey(mon), WeekKey(sun))
	assert.NotEqual(t, WeekKey(mon), WeekKey(nextMon))

	// First-four-day rule: 2026-01-01 is a Thursday, so it belongs to week 1.
	jan1, _ := ParseDate("2026-01-01")
	assert.Equal(t, "2026-W01", WeekKey(jan1))
}

func TestInRange(t *testing.T) {
	from, _ := ParseDate("2025-04-01")
	to, _ := ParseDate("2025-04-30")
	mid, _ := ParseDate("2025-04-15")
	out, _ := ParseDate("2025-05-01")

	assert.True(t, InRange(from, from, to))
	assert.True(t, InRange(to, from, to))
	assert.True(t, InRange(mid, from, to))
	assert.False(t, InRange(out, from, to))
}

func TestParseBlackouts(t *testing.T) {
	windows := ParseBlackouts([]models.BlackoutRange{
		{StartDate: "2025-04-14", EndDate: "2025-04-20", Label: "Spring Break"},
		{StartDate: "bad", EndDate: "2025-04-20"},
		{StartDate: "2025-04-20", EndDate: "2025-04-14"},
	})
	require.Len(t, windows, 1)
	assert.Equal(t, "Spring Break", windows[0].Label)

	inside, _ := ParseDate("2025-04-17")
	outside, _ := ParseDate("2025-04-21")
	assert.True(t, InBlackout(inside, windows))
	assert.False(t, InBlackout(outside, windows))
}
