package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/league-sched-api/internal/models"
)

// DateLayout is the wire format for all calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC-midnight date.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return t, nil
}

// FormatDate renders a date back to YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseMinutes parses a 24h HH:MM string into minutes since midnight.
// Returns -1 when the input is malformed or out of range.
func ParseMinutes(raw string) int {
	raw = strings.TrimSpace(raw)
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) != 2 {
		return -1
	}
	hours, ok := parseDigits(parts[0])
	if !ok || hours > 23 {
		return -1
	}
	mins, ok := parseDigits(parts[1])
	if !ok || mins > 59 {
		return -1
	}
	return hours*60 + mins
}

func parseDigits(raw string) (int, bool) {
	if raw == "" || len(raw) > 2 {
		return 0, false
	}
	value := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
		value = value*10 + int(r-'0')
	}
	return value, true
}

// FormatMinutes renders minutes since midnight as HH:MM.
func FormatMinutes(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// ValidRange parses a start/end time pair and rejects empty or inverted spans.
func ValidRange(start, end string) (int, int, error) {
	startMin := ParseMinutes(start)
	if startMin < 0 {
		return 0, 0, fmt.Errorf("invalid start time %q: expected HH:MM", start)
	}
	endMin := ParseMinutes(end)
	if endMin < 0 {
		return 0, 0, fmt.Errorf("invalid end time %q: expected HH:MM", end)
	}
	if endMin <= startMin {
		return 0, 0, fmt.Errorf("end time %s must be after start time %s", end, start)
	}
	return startMin, endMin, nil
}

// Overlaps reports whether two half-open minute ranges intersect. Ranges that
// share an edge (10:00-11:00 vs 11:00-12:00) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

var dayTokens = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DayToken returns the three-letter token for a weekday.
func DayToken(d time.Weekday) string {
	return dayTokens[int(d)%7]
}

// ParseDayToken resolves a single day token by its first three letters,
// case-insensitive ("sunday", "Sun" and "SUN" all parse).
func ParseDayToken(raw string) (time.Weekday, error) {
	token := strings.ToLower(strings.TrimSpace(raw))
	if len(token) < 3 {
		return 0, fmt.Errorf("invalid day %q", raw)
	}
	for i, t := range dayTokens {
		if strings.HasPrefix(token, strings.ToLower(t)) {
			return time.Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("invalid day %q", raw)
}

// ParseDayList parses a comma or semicolon separated day list into a set.
func ParseDayList(raw string) (map[time.Weekday]bool, error) {
	days := make(map[time.Weekday]bool)
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' }) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		day, err := ParseDayToken(part)
		if err != nil {
			return nil, err
		}
		days[day] = true
	}
	return days, nil
}

// WeekKey returns the Monday-based ISO week key (YYYY-Www) for grouping
// per-week caps and guest reservations.
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// InRange reports whether d lies inside [from, to] inclusive.
func InRange(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}

// InBlackout reports whether a date falls inside any of the given ranges.
// Malformed ranges are skipped rather than failing the whole check.
func InBlackout(d time.Time, ranges []BlackoutWindow) bool {
	for _, r := range ranges {
		if InRange(d, r.Start, r.End) {
			return true
		}
	}
	return false
}

// BlackoutWindow is a parsed inclusive date span.
type BlackoutWindow struct {
	Start time.Time
	End   time.Time
	Label string
}

// ParseBlackouts converts raw blackout ranges into windows, dropping
// malformed or inverted entries.
func ParseBlackouts(ranges []models.BlackoutRange) []BlackoutWindow {
	windows := make([]BlackoutWindow, 0, len(ranges))
	for _, r := range ranges {
		start, err := ParseDate(r.StartDate)
		if err != nil {
			continue
		}
		end, err := ParseDate(r.EndDate)
		if err != nil || end.Before(start) {
			continue
		}
		windows = append(windows, BlackoutWindow{Start: start, End: end, Label: r.Label})
	}
	return windows
}
