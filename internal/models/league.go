package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// LeagueStatus represents lifecycle phases for a league.
type LeagueStatus string

const (
	LeagueStatusActive   LeagueStatus = "ACTIVE"
	LeagueStatusDisabled LeagueStatus = "DISABLED"
	LeagueStatusDeleted  LeagueStatus = "DELETED"
)

// League owns divisions, teams, fields, availability rules and slots.
type League struct {
	ID           string         `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Timezone     string         `db:"timezone" json:"timezone"`
	Status       LeagueStatus   `db:"status" json:"status"`
	ContactName  string         `db:"contact_name" json:"contact_name"`
	ContactEmail string         `db:"contact_email" json:"contact_email"`
	SeasonConfig types.JSONText `db:"season_config" json:"season_config"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// SeasonConfig carries season windows, game length and blackout dates.
// Division overrides merge over the league copy via EffectiveSeasonConfig.
type SeasonConfig struct {
	SpringStart       string          `json:"springStart,omitempty"`
	SpringEnd         string          `json:"springEnd,omitempty"`
	FallStart         string          `json:"fallStart,omitempty"`
	FallEnd           string          `json:"fallEnd,omitempty"`
	GameLengthMinutes int             `json:"gameLengthMinutes"`
	Blackouts         []BlackoutRange `json:"blackouts,omitempty"`
}

// BlackoutRange marks an inclusive date span during which no slots may be
// generated or confirmed.
type BlackoutRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Label     string `json:"label,omitempty"`
}

// EffectiveSeasonConfig merges a division override over the league config.
// Blackouts union; gameLengthMinutes uses the override when positive.
func EffectiveSeasonConfig(league SeasonConfig, override *SeasonConfig) SeasonConfig {
	if override == nil {
		return league
	}
	merged := league
	if override.GameLengthMinutes > 0 {
		merged.GameLengthMinutes = override.GameLengthMinutes
	}
	if override.SpringStart != "" {
		merged.SpringStart = override.SpringStart
	}
	if override.SpringEnd != "" {
		merged.SpringEnd = override.SpringEnd
	}
	if override.FallStart != "" {
		merged.FallStart = override.FallStart
	}
	if override.FallEnd != "" {
		merged.FallEnd = override.FallEnd
	}
	merged.Blackouts = append(append([]BlackoutRange{}, league.Blackouts...), override.Blackouts...)
	return merged
}

// Division partitions teams, slots and schedule runs inside a league.
type Division struct {
	LeagueID       string         `db:"league_id" json:"league_id"`
	Code           string         `db:"code" json:"code"`
	Name           string         `db:"name" json:"name"`
	IsActive       bool           `db:"is_active" json:"is_active"`
	SeasonOverride types.JSONText `db:"season_override" json:"season_override,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}
