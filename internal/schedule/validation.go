package schedule

import (
	"fmt"
	"sort"
)

// Issue severities.
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Validation rule identifiers.
const (
	RuleUnassignedSlots    = "unassigned-slots"
	RuleUnassignedMatchups = "unassigned-matchups"
	RuleWeekCapExceeded    = "games-per-week-exceeded"
	RuleDoubleHeader       = "doubleheader"
	RuleHomeAwayImbalance  = "home-away-imbalance"
	RuleEmptyPhase         = "empty-phase"
)

// homeAwayImbalanceThreshold is the max-min home-count gap tolerated before a
// warning is raised.
const homeAwayImbalanceThreshold = 2

// ValidationIssue is one violated rule with supporting detail.
type ValidationIssue struct {
	RuleID   string         `json:"rule_id"`
	Severity string         `json:"severity"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details,omitempty"`
}

// Validate inspects the combined phase results and emits one issue per
// violated rule.
func Validate(results []PhaseResult, constraints Constraints, teams []string) []ValidationIssue {
	var issues []ValidationIssue

	for _, result := range results {
		if len(result.Assignments) == 0 && len(result.UnassignedMatchups) == 0 && len(result.UnassignedSlots) == 0 {
			issues = append(issues, ValidationIssue{
				RuleID:   RuleEmptyPhase,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("phase %s produced no work", result.Phase),
				Details:  map[string]any{"phase": string(result.Phase)},
			})
		}
		if n := len(result.UnassignedSlots); n > 0 {
			issues = append(issues, ValidationIssue{
				RuleID:   RuleUnassignedSlots,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("phase %s left %d slots unassigned", result.Phase, n),
				Details:  map[string]any{"phase": string(result.Phase), "count": n},
			})
		}
		if n := len(result.UnassignedMatchups); n > 0 {
			issues = append(issues, ValidationIssue{
				RuleID:   RuleUnassignedMatchups,
				Severity: SeverityError,
				Message:  fmt.Sprintf("phase %s left %d matchups unplaced", result.Phase, n),
				Details:  map[string]any{"phase": string(result.Phase), "count": n},
			})
		}
	}

	issues = append(issues, validateWeekCaps(results, constraints)...)
	issues = append(issues, validateDoubleHeaders(results, constraints)...)
	issues = append(issues, validateHomeBalance(results, teams)...)
	return issues
}

func validateWeekCaps(results []PhaseResult, constraints Constraints) []ValidationIssue {
	if constraints.MaxGamesPerWeek <= 0 {
		return nil
	}
	var issues []ValidationIssue
	for _, result := range results {
		if result.Phase == PhaseBracket {
			continue
		}
		counts := make(map[string]int)
		for _, a := range result.Assignments {
			for _, team := range assignmentTeams(a) {
				counts[team+"|"+WeekKey(a.GameDate)]++
			}
		}
		keys := sortedKeys(counts)
		for _, key := range keys {
			if counts[key] > constraints.MaxGamesPerWeek {
				issues = append(issues, ValidationIssue{
					RuleID:   RuleWeekCapExceeded,
					Severity: SeverityError,
					Message:  fmt.Sprintf("phase %s: %s exceeds %d games per week", result.Phase, key, constraints.MaxGamesPerWeek),
					Details:  map[string]any{"phase": string(result.Phase), "team_week": key, "count": counts[key]},
				})
			}
		}
	}
	return issues
}

func validateDoubleHeaders(results []PhaseResult, constraints Constraints) []ValidationIssue {
	if !constraints.NoDoubleHeaders {
		return nil
	}
	var issues []ValidationIssue
	for _, result := range results {
		if result.Phase == PhaseBracket {
			continue
		}
		counts := make(map[string]int)
		for _, a := range result.Assignments {
			for _, team := range assignmentTeams(a) {
				counts[team+"|"+FormatDate(a.GameDate)]++
			}
		}
		for _, key := range sortedKeys(counts) {
			if counts[key] > 1 {
				issues = append(issues, ValidationIssue{
					RuleID:   RuleDoubleHeader,
					Severity: SeverityError,
					Message:  fmt.Sprintf("phase %s: %s is scheduled more than once on the same date", result.Phase, key),
					Details:  map[string]any{"phase": string(result.Phase), "team_date": key, "count": counts[key]},
				})
			}
		}
	}
	return issues
}

func validateHomeBalance(results []PhaseResult, teams []string) []ValidationIssue {
	if len(teams) == 0 {
		return nil
	}
	home := make(map[string]int)
	for _, result := range results {
		if result.Phase == PhaseBracket {
			continue
		}
		for _, a := range result.Assignments {
			home[a.HomeTeamID]++
		}
	}
	minHome, maxHome := -1, 0
	for _, team := range teams {
		count := home[team]
		if minHome < 0 || count < minHome {
			minHome = count
		}
		if count > maxHome {
			maxHome = count
		}
	}
	if minHome >= 0 && maxHome-minHome > homeAwayImbalanceThreshold {
		return []ValidationIssue{{
			RuleID:   RuleHomeAwayImbalance,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("home game counts spread from %d to %d across teams", minHome, maxHome),
			Details:  map[string]any{"min": minHome, "max": maxHome},
		}}
	}
	return nil
}

func assignmentTeams(a Assignment) []string {
	if a.AwayTeamID == "" {
		return []string{a.HomeTeamID}
	}
	return []string{a.HomeTeamID, a.AwayTeamID}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
