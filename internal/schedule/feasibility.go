package schedule

import "fmt"

// FeasibilityInput is the requested phase configuration plus observed
// capacity.
type FeasibilityInput struct {
	TeamCount             int
	AvailableRegularSlots int
	AvailablePoolSlots    int
	AvailableBracketSlots int
	BracketRequested      bool
	MinGamesPerTeam       int
	PoolGamesPerTeam      int
	MaxGamesPerWeek       int
	NoDoubleHeaders       bool
	RegularWeeksCount     int
	GuestGamesPerWeek     int
}

// Shortfall names a capacity deficit and the knob that would close it.
type Shortfall struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Deficit int    `json:"deficit"`
	Knob    string `json:"knob"`
}

// FeasibilityReport summarises whether the requested configuration is
// achievable before any assignment runs.
type FeasibilityReport struct {
	Feasible             bool        `json:"feasible"`
	RequiredRegularSlots int         `json:"required_regular_slots"`
	RequiredPoolSlots    int         `json:"required_pool_slots"`
	RequiredBracketSlots int         `json:"required_bracket_slots"`
	GuestReservedSlots   int         `json:"guest_reserved_slots"`
	WeeklyGameCapacity   int         `json:"weekly_game_capacity"`
	Shortfalls           []Shortfall `json:"shortfalls"`
	Warnings             []string    `json:"warnings"`
}

// Shortfall codes.
const (
	ShortfallRegularSlots = "regular-slots"
	ShortfallPoolSlots    = "pool-slots"
	ShortfallBracketSlots = "bracket-slots"
	ShortfallWeekCap      = "week-cap"
	ShortfallTeams        = "teams"
)

// Analyze computes required capacity per phase and emits one shortfall per
// deficit with the numeric gap.
func Analyze(in FeasibilityInput) FeasibilityReport {
	report := FeasibilityReport{Feasible: true}

	if in.TeamCount < 2 {
		report.Feasible = false
		report.Shortfalls = append(report.Shortfalls, Shortfall{
			Code:    ShortfallTeams,
			Message: "at least two teams are required to schedule games",
			Deficit: 2 - in.TeamCount,
			Knob:    "teamCount",
		})
		return report
	}

	report.RequiredRegularSlots = ceilDiv(in.TeamCount*in.MinGamesPerTeam, 2)
	report.RequiredPoolSlots = ceilDiv(in.TeamCount*in.PoolGamesPerTeam, 2)
	if in.TeamCount >= 4 {
		report.RequiredBracketSlots = 3
	} else {
		report.RequiredBracketSlots = 1
	}

	usableRegular := in.AvailableRegularSlots
	if in.GuestGamesPerWeek > 0 && in.RegularWeeksCount > 0 {
		report.GuestReservedSlots = in.GuestGamesPerWeek * in.RegularWeeksCount
		usableRegular -= report.GuestReservedSlots
		if usableRegular < 0 {
			usableRegular = 0
		}
	}

	if deficit := report.RequiredRegularSlots - usableRegular; deficit > 0 {
		report.Feasible = false
		report.Shortfalls = append(report.Shortfalls, Shortfall{
			Code:    ShortfallRegularSlots,
			Message: fmt.Sprintf("regular season needs %d game slots but only %d remain after guest reservations", report.RequiredRegularSlots, usableRegular),
			Deficit: deficit,
			Knob:    "minGamesPerTeam",
		})
	}

	if in.PoolGamesPerTeam > 0 {
		if deficit := report.RequiredPoolSlots - in.AvailablePoolSlots; deficit > 0 {
			report.Feasible = false
			report.Shortfalls = append(report.Shortfalls, Shortfall{
				Code:    ShortfallPoolSlots,
				Message: fmt.Sprintf("pool play needs %d game slots but only %d are available", report.RequiredPoolSlots, in.AvailablePoolSlots),
				Deficit: deficit,
				Knob:    "poolGamesPerTeam",
			})
		}
	}

	if in.BracketRequested {
		if deficit := report.RequiredBracketSlots - in.AvailableBracketSlots; deficit > 0 {
			report.Feasible = false
			report.Shortfalls = append(report.Shortfalls, Shortfall{
				Code:    ShortfallBracketSlots,
				Message: fmt.Sprintf("bracket needs %d slots but only %d are available", report.RequiredBracketSlots, in.AvailableBracketSlots),
				Deficit: deficit,
				Knob:    "bracketWindow",
			})
		}
	}

	if in.MaxGamesPerWeek > 0 && in.RegularWeeksCount > 0 {
		report.WeeklyGameCapacity = in.TeamCount * in.MaxGamesPerWeek / 2
		weeklyDemand := ceilDiv(report.RequiredRegularSlots, in.RegularWeeksCount)
		if weeklyDemand > report.WeeklyGameCapacity {
			report.Feasible = false
			report.Shortfalls = append(report.Shortfalls, Shortfall{
				Code:    ShortfallWeekCap,
				Message: fmt.Sprintf("the week cap allows %d games per week but the season demands %d", report.WeeklyGameCapacity, weeklyDemand),
				Deficit: weeklyDemand - report.WeeklyGameCapacity,
				Knob:    "maxGamesPerWeek",
			})
		}
	}

	if in.NoDoubleHeaders && in.MaxGamesPerWeek == 1 && in.RegularWeeksCount > 0 && in.MinGamesPerTeam > in.RegularWeeksCount {
		report.Warnings = append(report.Warnings, fmt.Sprintf("with one game per week, %d games per team cannot fit in %d weeks", in.MinGamesPerTeam, in.RegularWeeksCount))
	}

	return report
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
