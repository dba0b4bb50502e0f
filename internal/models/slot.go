package models

import "time"

// SlotStatus is the lifecycle state of a slot.
type SlotStatus string

const (
	SlotStatusOpen      SlotStatus = "OPEN"
	SlotStatusConfirmed SlotStatus = "CONFIRMED"
	SlotStatusCancelled SlotStatus = "CANCELLED"
)

// OfferingTeamAvailable marks an availability slot awaiting assignment.
const OfferingTeamAvailable = "AVAILABLE"

// Slot is a concrete (fieldKey, gameDate, startTime, endTime, division)
// reservation. Invariants: StartMin < EndMin; a Confirmed slot carries both
// teams and IsAvailability=false; an availability slot has empty team ids and
// OfferingTeamID=AVAILABLE.
type Slot struct {
	ID              string     `db:"id" json:"id"`
	LeagueID        string     `db:"league_id" json:"league_id"`
	Division        string     `db:"division" json:"division"`
	GameDate        string     `db:"game_date" json:"game_date"`
	StartTime       string     `db:"start_time" json:"start_time"`
	EndTime         string     `db:"end_time" json:"end_time"`
	StartMin        int        `db:"start_min" json:"start_min"`
	EndMin          int        `db:"end_min" json:"end_min"`
	FieldKey        string     `db:"field_key" json:"field_key"`
	ParkName        string     `db:"park_name" json:"park_name"`
	FieldName       string     `db:"field_name" json:"field_name"`
	DisplayName     string     `db:"display_name" json:"display_name"`
	OfferingTeamID  string     `db:"offering_team_id" json:"offering_team_id"`
	HomeTeamID      string     `db:"home_team_id" json:"home_team_id"`
	AwayTeamID      string     `db:"away_team_id" json:"away_team_id"`
	IsAvailability  bool       `db:"is_availability" json:"is_availability"`
	IsExternalOffer bool       `db:"is_external_offer" json:"is_external_offer"`
	Status          SlotStatus `db:"status" json:"status"`
	GameType        string     `db:"game_type" json:"game_type"`
	Notes           string     `db:"notes" json:"notes,omitempty"`
	ScheduleRunID   string     `db:"schedule_run_id" json:"schedule_run_id,omitempty"`
	ConfirmedBy     string     `db:"confirmed_by" json:"confirmed_by,omitempty"`
	ConfirmedUtc    *time.Time `db:"confirmed_utc" json:"confirmed_utc,omitempty"`
	Version         int        `db:"version" json:"version"`
	CreatedUtc      time.Time  `db:"created_utc" json:"created_utc"`
	UpdatedUtc      time.Time  `db:"updated_utc" json:"updated_utc"`
	UpdatedBy       string     `db:"updated_by" json:"updated_by"`
}

// SlotFilter describes query params for listing slots.
type SlotFilter struct {
	LeagueID            string
	Division            string
	Status              SlotStatus
	FieldKey            string
	DateFrom            string
	DateTo              string
	IncludeAvailability bool
	Page                int
	PageSize            int
}

// ScheduleRun records one wizard apply: the input constraints and the outcome
// summary, both as JSON.
type ScheduleRun struct {
	ID              string    `db:"id" json:"id"`
	LeagueID        string    `db:"league_id" json:"league_id"`
	Division        string    `db:"division" json:"division"`
	CreatedBy       string    `db:"created_by" json:"created_by"`
	DateFrom        string    `db:"date_from" json:"date_from"`
	DateTo          string    `db:"date_to" json:"date_to"`
	ConstraintsJSON string    `db:"constraints_json" json:"constraints_json"`
	SummaryJSON     string    `db:"summary_json" json:"summary_json"`
	CreatedUtc      time.Time `db:"created_utc" json:"created_utc"`
}
