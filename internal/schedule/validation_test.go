package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueByRule(issues []ValidationIssue, ruleID string) *ValidationIssue {
	for i := range issues {
		if issues[i].RuleID == ruleID {
			return &issues[i]
		}
	}
	return nil
}

func TestValidateCleanResult(t *testing.T) {
	results := []PhaseResult{{
		Phase: PhaseRegular,
		Assignments: []Assignment{
			{GameDate: mustDate(t, "2025-04-07"), HomeTeamID: "A", AwayTeamID: "B"},
			{GameDate: mustDate(t, "2025-04-14"), HomeTeamID: "B", AwayTeamID: "A"},
		},
	}}
	issues := Validate(results, Constraints{MaxGamesPerWeek: 1, NoDoubleHeaders: true}, []string{"A", "B"})
	assert.Empty(t, issues)
}

func TestValidateUnassignedWork(t *testing.T) {
	results := []PhaseResult{{
		Phase:              PhaseRegular,
		UnassignedSlots:    []AssignableSlot{{SlotID: "s1"}},
		UnassignedMatchups: []MatchupPair{{HomeTeamID: "A", AwayTeamID: "B"}},
	}}
	issues := Validate(results, Constraints{}, []string{"A", "B"})

	slots := issueByRule(issues, RuleUnassignedSlots)
	require.NotNil(t, slots)
	assert.Equal(t, SeverityWarning, slots.Severity)

	matchups := issueByRule(issues, RuleUnassignedMatchups)
	require.NotNil(t, matchups)
	assert.Equal(t, SeverityError, matchups.Severity)
}

func TestValidateWeekCapExceeded(t *testing.T) {
	results := []PhaseResult{{
		Phase: PhaseRegular,
		Assignments: []Assignment{
			{GameDate: mustDate(t, "2025-04-07"), HomeTeamID: "A", AwayTeamID: "B"},
			{GameDate: mustDate(t, "2025-04-09"), HomeTeamID: "A", AwayTeamID: "C"},
		},
	}}
	issues := Validate(results, Constraints{MaxGamesPerWeek: 1}, []string{"A", "B", "C"})

	issue := issueByRule(issues, RuleWeekCapExceeded)
	require.NotNil(t, issue)
	assert.Equal(t, SeverityError, issue.Severity)
}

func TestValidateDoubleHeader(t *testing.T) {
	results := []PhaseResult{{
		Phase: PhasePool,
		Assignments: []Assignment{
			{GameDate: mustDate(t, "2025-04-07"), HomeTeamID: "A", AwayTeamID: "B"},
			{GameDate: mustDate(t, "2025-04-07"), HomeTeamID: "C", AwayTeamID: "A"},
		},
	}}
	issues := Validate(results, Constraints{NoDoubleHeaders: true}, []string{"A", "B", "C"})
	require.NotNil(t, issueByRule(issues, RuleDoubleHeader))
}

func TestValidateBracketIsExemptFromConstraints(t *testing.T) {
	results := []PhaseResult{{
		Phase: PhaseBracket,
		Assignments: []Assignment{
			{GameDate: mustDate(t, "2025-07-12"), HomeTeamID: BracketSeed1, AwayTeamID: BracketSeed4},
			{GameDate: mustDate(t, "2025-07-12"), HomeTeamID: BracketSeed2, AwayTeamID: BracketSeed3},
		},
	}}
	issues := Validate(results, Constraints{MaxGamesPerWeek: 1, NoDoubleHeaders: true}, nil)
	assert.Nil(t, issueByRule(issues, RuleWeekCapExceeded))
	assert.Nil(t, issueByRule(issues, RuleDoubleHeader))
}

func TestValidateHomeAwayImbalance(t *testing.T) {
	results := []PhaseResult{{
		Phase: PhaseRegular,
		Assignments: []Assignment{
			{GameDate: mustDate(t, "2025-04-07"), HomeTeamID: "A", AwayTeamID: "B"},
			{GameDate: mustDate(t, "2025-04-14"), HomeTeamID: "A", AwayTeamID: "B"},
			{GameDate: mustDate(t, "2025-04-21"), HomeTeamID: "A", AwayTeamID: "B"},
		},
	}}
	issues := Validate(results, Constraints{}, []string{"A", "B"})

	issue := issueByRule(issues, RuleHomeAwayImbalance)
	require.NotNil(t, issue)
	assert.Equal(t, SeverityWarning, issue.Severity)
}

func TestValidateEmptyPhase(t *testing.T) {
	issues := Validate([]PhaseResult{{Phase: PhasePool}}, Constraints{}, nil)
	require.NotNil(t, issueByRule(issues, RuleEmptyPhase))
}

func TestValidateExternalOfferCountsOnceForHomeTeam(t *testing.T) {
	results := []PhaseResult{{
		Phase: PhaseRegular,
		Assignments: []Assignment{
			{GameDate: mustDate(t, "2025-04-07"), HomeTeamID: "A", AwayTeamID: "B"},
			{GameDate: mustDate(t, "2025-04-09"), HomeTeamID: "C", AwayTeamID: "", IsExternalOffer: true},
		},
	}}
	issues := Validate(results, Constraints{MaxGamesPerWeek: 1, NoDoubleHeaders: true}, []string{"A", "B", "C"})
	assert.Nil(t, issueByRule(issues, RuleWeekCapExceeded))
	assert.Nil(t, issueByRule(issues, RuleDoubleHeader))
}
