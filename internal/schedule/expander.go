package schedule

import (
	"time"

	"github.com/noah-isme/league-sched-api/internal/models"
)

// Candidate is one expanded availability occurrence, not yet persisted.
type Candidate struct {
	GameDate time.Time
	StartMin int
	EndMin   int
	FieldKey string
	Division string
}

// StartTime renders the candidate start as HH:MM.
func (c Candidate) StartTime() string { return FormatMinutes(c.StartMin) }

// EndTime renders the candidate end as HH:MM.
func (c Candidate) EndTime() string { return FormatMinutes(c.EndMin) }

func (c Candidate) dedupKey() string {
	return FormatDate(c.GameDate) + "|" + c.StartTime() + "|" + c.EndTime() + "|" + c.FieldKey
}

// ExpandInput bundles everything the expander walks over.
type ExpandInput struct {
	Rules             []models.AvailabilityRule
	Exceptions        map[string][]models.AvailabilityException
	Blackouts         []BlackoutWindow
	WindowStart       time.Time
	WindowEnd         time.Time
	Division          string
	GameLengthMinutes int
}

// ExpandRules walks every active rule over the caller's window and emits game
// length sized candidates. Occurrences suppressed by a matching exception or a
// blackout date contribute nothing. A rule with malformed times is skipped; a
// malformed exception is ignored rather than suppressing its rule. One bad
// input never fails the batch.
func ExpandRules(in ExpandInput) []Candidate {
	if in.GameLengthMinutes <= 0 {
		return nil
	}

	var out []Candidate
	seen := make(map[string]bool)

	for _, rule := range in.Rules {
		if !rule.IsActive || !rule.AppliesToDivision(in.Division) {
			continue
		}
		startMin, endMin, err := ValidRange(rule.StartTimeLocal, rule.EndTimeLocal)
		if err != nil {
			continue
		}
		days, err := ParseDayList(rule.DaysOfWeek)
		if err != nil || len(days) == 0 {
			continue
		}
		ruleStart, err := ParseDate(rule.StartsOn)
		if err != nil {
			continue
		}
		ruleEnd, err := ParseDate(rule.EndsOn)
		if err != nil || ruleEnd.Before(ruleStart) {
			continue
		}

		from := maxDate(ruleStart, in.WindowStart)
		to := minDate(ruleEnd, in.WindowEnd)
		exceptions := in.Exceptions[rule.ID]

		for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
			if !days[date.Weekday()] {
				continue
			}
			if InBlackout(date, in.Blackouts) {
				continue
			}
			if exceptionSuppresses(exceptions, date, startMin, endMin) {
				continue
			}
			for start := startMin; start+in.GameLengthMinutes <= endMin; start += in.GameLengthMinutes {
				cand := Candidate{
					GameDate: date,
					StartMin: start,
					EndMin:   start + in.GameLengthMinutes,
					FieldKey: rule.FieldKey,
					Division: in.Division,
				}
				if seen[cand.dedupKey()] {
					continue
				}
				seen[cand.dedupKey()] = true
				out = append(out, cand)
			}
		}
	}
	return out
}

// FixedWindowInput drives expansion without recurring rules: the caller
// supplies the days, times and field directly.
type FixedWindowInput struct {
	FieldKey          string
	Division          string
	DaysOfWeek        map[time.Weekday]bool
	StartMin          int
	EndMin            int
	DateFrom          time.Time
	DateTo            time.Time
	Blackouts         []BlackoutWindow
	GameLengthMinutes int
}

// ExpandFixedWindow walks a caller-defined window with the same slot walk the
// rule expansion uses.
func ExpandFixedWindow(in FixedWindowInput) []Candidate {
	if in.GameLengthMinutes <= 0 || in.EndMin <= in.StartMin || len(in.DaysOfWeek) == 0 {
		return nil
	}
	var out []Candidate
	seen := make(map[string]bool)
	for date := in.DateFrom; !date.After(in.DateTo); date = date.AddDate(0, 0, 1) {
		if !in.DaysOfWeek[date.Weekday()] {
			continue
		}
		if InBlackout(date, in.Blackouts) {
			continue
		}
		for start := in.StartMin; start+in.GameLengthMinutes <= in.EndMin; start += in.GameLengthMinutes {
			cand := Candidate{
				GameDate: date,
				StartMin: start,
				EndMin:   start + in.GameLengthMinutes,
				FieldKey: in.FieldKey,
				Division: in.Division,
			}
			if seen[cand.dedupKey()] {
				continue
			}
			seen[cand.dedupKey()] = true
			out = append(out, cand)
		}
	}
	return out
}

// exceptionSuppresses reports whether any exception covers the date and
// overlaps the rule's time range. Malformed exceptions are ignored.
func exceptionSuppresses(exceptions []models.AvailabilityException, date time.Time, ruleStart, ruleEnd int) bool {
	for _, exc := range exceptions {
		from, err := ParseDate(exc.DateFrom)
		if err != nil {
			continue
		}
		to, err := ParseDate(exc.DateTo)
		if err != nil || to.Before(from) {
			continue
		}
		if !InRange(date, from, to) {
			continue
		}
		excStart, excEnd, err := ValidRange(exc.StartTimeLocal, exc.EndTimeLocal)
		if err != nil {
			continue
		}
		if Overlaps(excStart, excEnd, ruleStart, ruleEnd) {
			return true
		}
	}
	return false
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
