package schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourlySlots(t *testing.T, fieldKey string, dates []string, startTimes ...string) []AssignableSlot {
	t.Helper()
	var slots []AssignableSlot
	for _, date := range dates {
		for _, start := range startTimes {
			startMin := ParseMinutes(start)
			require.GreaterOrEqual(t, startMin, 0)
			slots = append(slots, AssignableSlot{
				SlotID:   fmt.Sprintf("%s-%s-%s", fieldKey, date, start),
				GameDate: mustDate(t, date),
				StartMin: startMin,
				EndMin:   startMin + 60,
				FieldKey: fieldKey,
				SlotType: SlotTypeGame,
			})
		}
	}
	return slots
}

func TestAssignPhaseFourTeamSingleRoundRobin(t *testing.T) {
	// Four teams, Monday nights 18:00-21:00 across four weeks, one game per
	// team per week, no doubleheaders.
	teams := []string{"T1", "T2", "T3", "T4"}
	slots := hourlySlots(t, "park-a/field-1",
		[]string{"2025-04-07", "2025-04-14", "2025-04-21", "2025-04-28"},
		"18:00", "19:00", "20:00")
	matchups := BuildRepeated(teams, 3)
	require.Len(t, matchups, 6)

	counters := NewTeamCounters()
	result, err := AssignPhase(PhaseRegular, teams, slots, matchups,
		Constraints{MaxGamesPerWeek: 1, NoDoubleHeaders: true, BalanceHomeAway: true},
		nil, nil, counters)
	require.NoError(t, err)

	require.Len(t, result.Assignments, 6)
	assert.Empty(t, result.UnassignedMatchups)

	games := make(map[string]int)
	perWeek := make(map[string]int)
	perDate := make(map[string]int)
	for _, a := range result.Assignments {
		for _, team := range []string{a.HomeTeamID, a.AwayTeamID} {
			games[team]++
			perWeek[team+"|"+WeekKey(a.GameDate)]++
			perDate[team+"|"+FormatDate(a.GameDate)]++
		}
		assert.Less(t, a.StartMin, a.EndMin)
	}
	for _, team := range teams {
		assert.Equal(t, 3, games[team], team)
		assert.Contains(t, []int{1, 2}, counters.Home[team], "home count for %s", team)
	}
	for key, count := range perWeek {
		assert.Equal(t, 1, count, key)
	}
	for key, count := range perDate {
		assert.Equal(t, 1, count, key)
	}
}

func TestAssignPhaseGuestAnchorPreempts(t *testing.T) {
	// Five teams with Wednesday and Saturday availability; the Saturday
	// 10:00 slot on the anchor field becomes the weekly external offer.
	teams := []string{"A", "B", "C", "D", "E"}
	wednesdays := hourlySlots(t, "park-b/field-2", []string{"2025-06-04", "2025-06-11"}, "18:00", "19:00")
	saturdays := hourlySlots(t, "park-a/field-1", []string{"2025-06-07", "2025-06-14"}, "10:00")
	slots := append(wednesdays, saturdays...)

	primary := &GuestAnchor{Day: time.Saturday, StartMin: 600, EndMin: 660, FieldKey: "park-a/field-1"}

	counters := NewTeamCounters()
	result, err := AssignPhase(PhaseRegular, teams, slots,
		[]MatchupPair{{HomeTeamID: "A", AwayTeamID: "B"}, {HomeTeamID: "C", AwayTeamID: "D"}},
		Constraints{NoDoubleHeaders: true, ExternalOfferPerWeek: 1},
		primary, nil, counters)
	require.NoError(t, err)

	var offers []Assignment
	var internal []Assignment
	for _, a := range result.Assignments {
		if a.IsExternalOffer {
			offers = append(offers, a)
		} else {
			internal = append(internal, a)
		}
	}

	require.Len(t, offers, 2)
	offersPerWeek := make(map[string]int)
	for _, offer := range offers {
		assert.Equal(t, time.Saturday, offer.GameDate.Weekday())
		assert.Equal(t, "park-a/field-1", offer.FieldKey)
		assert.Equal(t, 600, offer.StartMin)
		assert.Empty(t, offer.AwayTeamID)
		assert.NotEmpty(t, offer.HomeTeamID)
		offersPerWeek[WeekKey(offer.GameDate)]++
	}
	for week, count := range offersPerWeek {
		assert.LessOrEqual(t, count, 1, week)
	}

	require.Len(t, internal, 2)
	for _, a := range internal {
		assert.Equal(t, time.Wednesday, a.GameDate.Weekday())
	}
}

func TestOrderSlotsDeterministicOrdering(t *testing.T) {
	rank1 := 1
	rank5 := 5
	slots := []AssignableSlot{
		{SlotID: "practice", GameDate: mustDate(t, "2025-04-01"), StartMin: 600, EndMin: 660, FieldKey: "a/1", SlotType: SlotTypePractice},
		{SlotID: "late-game", GameDate: mustDate(t, "2025-04-03"), StartMin: 600, EndMin: 660, FieldKey: "a/1", SlotType: SlotTypeGame},
		{SlotID: "ranked-5", GameDate: mustDate(t, "2025-04-04"), StartMin: 600, EndMin: 660, FieldKey: "a/1", SlotType: SlotTypeGame, PriorityRank: &rank5},
		{SlotID: "ranked-1", GameDate: mustDate(t, "2025-04-05"), StartMin: 600, EndMin: 660, FieldKey: "a/1", SlotType: SlotTypeBoth, PriorityRank: &rank1},
		{SlotID: "early-field-b", GameDate: mustDate(t, "2025-04-03"), StartMin: 600, EndMin: 660, FieldKey: "b/1", SlotType: SlotTypeGame},
		{SlotID: "early-morning", GameDate: mustDate(t, "2025-04-03"), StartMin: 540, EndMin: 600, FieldKey: "a/1", SlotType: SlotTypeGame},
	}

	ordered := OrderSlots(slots, Constraints{})
	ids := make([]string, 0, len(ordered))
	for _, s := range ordered {
		ids = append(ids, s.SlotID)
	}
	assert.Equal(t, []string{"ranked-1", "ranked-5", "early-morning", "late-game", "early-field-b", "practice"}, ids)
}

func TestOrderSlotsPreferredWeeknights(t *testing.T) {
	slots := []AssignableSlot{
		{SlotID: "tue", GameDate: mustDate(t, "2025-04-01"), StartMin: 600, EndMin: 660, FieldKey: "a/1", SlotType: SlotTypeGame},
		{SlotID: "thu", GameDate: mustDate(t, "2025-04-03"), StartMin: 600, EndMin: 660, FieldKey: "a/1", SlotType: SlotTypeGame},
		{SlotID: "fri", GameDate: mustDate(t, "2025-04-04"), StartMin: 600, EndMin: 660, FieldKey: "a/1", SlotType: SlotTypeGame},
	}

	constraints := Constraints{PreferredWeeknights: []time.Weekday{time.Thursday, time.Friday}}
	ordered := OrderSlots(slots, constraints)
	assert.Equal(t, "thu", ordered[0].SlotID)
	assert.Equal(t, "fri", ordered[1].SlotID)
	assert.Equal(t, "tue", ordered[2].SlotID)

	constraints.StrictPreferredWeeknights = true
	strict := OrderSlots(slots, constraints)
	require.Len(t, strict, 2)
	assert.Equal(t, "thu", strict[0].SlotID)
}

func TestAssignPhaseRotatesBlockedMatchups(t *testing.T) {
	// B is already at the week cap, so the A-B matchup rotates behind C-D.
	teams := []string{"A", "B", "C", "D"}
	counters := NewTeamCounters()
	counters.record("B", mustDate(t, "2025-04-08"), false, false)

	slots := hourlySlots(t, "a/1", []string{"2025-04-09"}, "18:00")
	result, err := AssignPhase(PhaseRegular, teams, slots,
		[]MatchupPair{{HomeTeamID: "A", AwayTeamID: "B"}, {HomeTeamID: "C", AwayTeamID: "D"}},
		Constraints{MaxGamesPerWeek: 1, NoDoubleHeaders: true},
		nil, nil, counters)
	require.NoError(t, err)

	require.Len(t, result.Assignments, 1)
	assert.Equal(t, "C", result.Assignments[0].HomeTeamID)
	require.Len(t, result.UnassignedMatchups, 1)
	assert.Equal(t, "A", result.UnassignedMatchups[0].HomeTeamID)
}

func TestAssignPhaseBalancesHomeCounts(t *testing.T) {
	teams := []string{"A", "B"}
	counters := NewTeamCounters()
	counters.Home["A"] = 3
	counters.Home["B"] = 1

	slots := hourlySlots(t, "a/1", []string{"2025-04-09"}, "18:00")
	result, err := AssignPhase(PhaseRegular, teams, slots,
		[]MatchupPair{{HomeTeamID: "A", AwayTeamID: "B"}},
		Constraints{BalanceHomeAway: true},
		nil, nil, counters)
	require.NoError(t, err)

	require.Len(t, result.Assignments, 1)
	assert.Equal(t, "B", result.Assignments[0].HomeTeamID)
}

func TestAssignPhaseNoSlots(t *testing.T) {
	counters := NewTeamCounters()
	result, err := AssignPhase(PhasePool, []string{"A", "B"}, nil,
		[]MatchupPair{{HomeTeamID: "A", AwayTeamID: "B"}},
		Constraints{}, nil, nil, counters)
	require.NoError(t, err)
	assert.Empty(t, result.Assignments)
	assert.Len(t, result.UnassignedMatchups, 1)
	assert.NotEmpty(t, result.Warnings)
}

func TestAssignPhaseNilCountersIsInvariantBreach(t *testing.T) {
	_, err := AssignPhase(PhaseRegular, nil, nil, nil, Constraints{}, nil, nil, nil)
	assert.Error(t, err)
}

func TestAssignBracket(t *testing.T) {
	slots := hourlySlots(t, "a/1", []string{"2025-07-12"}, "09:00", "11:00", "13:00")
	result := AssignBracket(slots, BuildBracket())

	require.Len(t, result.Assignments, 3)
	assert.Equal(t, BracketSeed1, result.Assignments[0].HomeTeamID)
	assert.Equal(t, BracketWinnerA, result.Assignments[2].HomeTeamID)
	assert.Empty(t, result.UnassignedMatchups)

	// Bracket games may share a date: constraints do not apply.
	assert.Equal(t, result.Assignments[0].GameDate, result.Assignments[2].GameDate)
}

func TestAssignBracketTooFewSlots(t *testing.T) {
	slots := hourlySlots(t, "a/1", []string{"2025-07-12"}, "09:00")
	result := AssignBracket(slots, BuildBracket())
	assert.Len(t, result.Assignments, 1)
	assert.Len(t, result.UnassignedMatchups, 2)
	assert.NotEmpty(t, result.Warnings)
}

func TestTeamCountersSharedAcrossPhases(t *testing.T) {
	teams := []string{"A", "B"}
	counters := NewTeamCounters()

	regularSlots := hourlySlots(t, "a/1", []string{"2025-04-09"}, "18:00")
	_, err := AssignPhase(PhaseRegular, teams, regularSlots,
		[]MatchupPair{{HomeTeamID: "A", AwayTeamID: "B"}},
		Constraints{MaxGamesPerWeek: 1}, nil, nil, counters)
	require.NoError(t, err)

	// Same week: the shared counters block a second pool game.
	poolSlots := hourlySlots(t, "a/1", []string{"2025-04-10"}, "18:00")
	result, err := AssignPhase(PhasePool, teams, poolSlots,
		[]MatchupPair{{HomeTeamID: "B", AwayTeamID: "A"}},
		Constraints{MaxGamesPerWeek: 1}, nil, nil, counters)
	require.NoError(t, err)
	assert.Empty(t, result.Assignments)
	assert.Len(t, result.UnassignedMatchups, 1)
}

func TestReserveGuestSlotsScoring(t *testing.T) {
	primary := &GuestAnchor{Day: time.Saturday, StartMin: 600, EndMin: 660, FieldKey: "park-a/field-1"}
	secondary := &GuestAnchor{Day: time.Saturday, StartMin: 600, EndMin: 660, FieldKey: "park-b/field-2"}

	exactPrimary := AssignableSlot{SlotID: "p", GameDate: mustDate(t, "2025-06-07"), StartMin: 600, EndMin: 660, FieldKey: "park-a/field-1", SlotType: SlotTypeGame}
	exactSecondary := AssignableSlot{SlotID: "s", GameDate: mustDate(t, "2025-06-07"), StartMin: 600, EndMin: 660, FieldKey: "park-b/field-2", SlotType: SlotTypeGame}
	dayTimeOnly := AssignableSlot{SlotID: "dt", GameDate: mustDate(t, "2025-06-07"), StartMin: 600, EndMin: 660, FieldKey: "park-z/field-9", SlotType: SlotTypeGame}
	noMatch := AssignableSlot{SlotID: "n", GameDate: mustDate(t, "2025-06-04"), StartMin: 600, EndMin: 660, FieldKey: "park-a/field-1", SlotType: SlotTypeGame}

	assert.Equal(t, anchorPrimaryExact, anchorScore(exactPrimary, primary, secondary))
	assert.Equal(t, anchorSecondaryExact, anchorScore(exactSecondary, primary, secondary))
	assert.Equal(t, anchorPrimaryDayTime, anchorScore(dayTimeOnly, primary, secondary))
	assert.Equal(t, anchorNoMatch, anchorScore(noMatch, primary, secondary))

	reserved, remaining := ReserveGuestSlots(
		[]AssignableSlot{noMatch, dayTimeOnly, exactSecondary, exactPrimary},
		primary, secondary, 1)
	require.Len(t, reserved, 1)
	assert.Equal(t, "p", reserved[0].SlotID)
	assert.Len(t, remaining, 3)
}

func TestReserveGuestSlotsWithoutAnchors(t *testing.T) {
	slots := hourlySlots(t, "a/1", []string{"2025-06-07"}, "10:00")
	reserved, remaining := ReserveGuestSlots(slots, nil, nil, 2)
	assert.Empty(t, reserved)
	assert.Equal(t, slots, remaining)
}
