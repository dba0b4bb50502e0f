package dto

import (
	"github.com/noah-isme/league-sched-api/internal/schedule"
)

// BlockedDateRange excludes an inclusive date span from a wizard run.
type BlockedDateRange struct {
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
	Label     string `json:"label"`
}

// SlotPlanEntry lets the caller reclassify a slot for one wizard run.
type SlotPlanEntry struct {
	SlotID       string `json:"slotId" validate:"required"`
	SlotType     string `json:"slotType" validate:"required,oneof=practice game both"`
	PriorityRank *int   `json:"priorityRank" validate:"omitempty,min=0"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
}

// GuestAnchorRequest is a preferred (day, time, field) for guest games.
type GuestAnchorRequest struct {
	DayOfWeek string `json:"dayOfWeek" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
	FieldKey  string `json:"fieldKey" validate:"required"`
}

// WizardRequest drives feasibility, preview and apply.
type WizardRequest struct {
	Division    string `json:"division" validate:"required"`
	SeasonStart string `json:"seasonStart" validate:"required"`
	SeasonEnd   string `json:"seasonEnd" validate:"required"`

	PoolStart    string `json:"poolStart"`
	PoolEnd      string `json:"poolEnd"`
	BracketStart string `json:"bracketStart"`
	BracketEnd   string `json:"bracketEnd"`

	BlockedDateRanges []BlockedDateRange `json:"blockedDateRanges" validate:"omitempty,dive"`

	MinGamesPerTeam      int `json:"minGamesPerTeam" validate:"min=0"`
	PoolGamesPerTeam     int `json:"poolGamesPerTeam" validate:"omitempty,min=2"`
	MaxGamesPerWeek      int `json:"maxGamesPerWeek" validate:"min=0"`
	ExternalOfferPerWeek int `json:"externalOfferPerWeek" validate:"min=0"`

	NoDoubleHeaders *bool `json:"noDoubleHeaders"`
	BalanceHomeAway *bool `json:"balanceHomeAway"`

	PreferredWeeknights       []string `json:"preferredWeeknights" validate:"max=3"`
	StrictPreferredWeeknights bool     `json:"strictPreferredWeeknights"`

	SlotPlan []SlotPlanEntry `json:"slotPlan" validate:"omitempty,dive"`

	GuestAnchorPrimary   *GuestAnchorRequest `json:"guestAnchorPrimary" validate:"omitempty"`
	GuestAnchorSecondary *GuestAnchorRequest `json:"guestAnchorSecondary" validate:"omitempty"`
}

// NoDoubleHeadersOrDefault applies the documented default of true.
func (r WizardRequest) NoDoubleHeadersOrDefault() bool {
	if r.NoDoubleHeaders == nil {
		return true
	}
	return *r.NoDoubleHeaders
}

// BalanceHomeAwayOrDefault applies the documented default of true.
func (r WizardRequest) BalanceHomeAwayOrDefault() bool {
	if r.BalanceHomeAway == nil {
		return true
	}
	return *r.BalanceHomeAway
}

// AssignmentView is one slot-to-matchup binding in API shape.
type AssignmentView struct {
	SlotID          string `json:"slotId"`
	Phase           string `json:"phase"`
	GameDate        string `json:"gameDate"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	FieldKey        string `json:"fieldKey"`
	HomeTeamID      string `json:"homeTeamId"`
	AwayTeamID      string `json:"awayTeamId"`
	IsExternalOffer bool   `json:"isExternalOffer"`
}

// WizardSummary aggregates counts for a run.
type WizardSummary struct {
	Division           string         `json:"division"`
	TeamCount          int            `json:"teamCount"`
	TotalSlots         int            `json:"totalSlots"`
	AssignedGames      int            `json:"assignedGames"`
	ExternalOffers     int            `json:"externalOffers"`
	UnassignedSlots    int            `json:"unassignedSlots"`
	UnassignedMatchups int            `json:"unassignedMatchups"`
	GamesPerPhase      map[string]int `json:"gamesPerPhase"`
}

// WizardPreviewResponse is returned by preview and apply.
type WizardPreviewResponse struct {
	RunID              string                     `json:"runId,omitempty"`
	Summary            WizardSummary              `json:"summary"`
	Assignments        []AssignmentView           `json:"assignments"`
	UnassignedSlots    []string                   `json:"unassignedSlots"`
	UnassignedMatchups []schedule.MatchupPair     `json:"unassignedMatchups"`
	Warnings           []string                   `json:"warnings"`
	Issues             []schedule.ValidationIssue `json:"issues"`
}

// WizardFeasibilityResponse is the pre-flight capacity report.
type WizardFeasibilityResponse struct {
	Report   schedule.FeasibilityReport `json:"report"`
	Warnings []string                   `json:"warnings"`
}
