package models

import "time"

// Team is unique within a (league, division) pair.
type Team struct {
	LeagueID           string    `db:"league_id" json:"league_id"`
	Division           string    `db:"division" json:"division"`
	ID                 string    `db:"id" json:"id"`
	Name               string    `db:"name" json:"name"`
	PrimaryContact     string    `db:"primary_contact" json:"primary_contact"`
	AssistantCoaches   string    `db:"assistant_coaches" json:"assistant_coaches"`
	OnboardingComplete bool      `db:"onboarding_complete" json:"onboarding_complete"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// Field is addressed by the composite key parkCode/fieldCode.
type Field struct {
	LeagueID    string    `db:"league_id" json:"league_id"`
	ParkCode    string    `db:"park_code" json:"park_code"`
	FieldCode   string    `db:"field_code" json:"field_code"`
	ParkName    string    `db:"park_name" json:"park_name"`
	FieldName   string    `db:"field_name" json:"field_name"`
	DisplayName string    `db:"display_name" json:"display_name"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	Blackouts   string    `db:"blackouts" json:"blackouts,omitempty"`
	Address     string    `db:"address" json:"address,omitempty"`
	City        string    `db:"city" json:"city,omitempty"`
	State       string    `db:"state" json:"state,omitempty"`
	Zip         string    `db:"zip" json:"zip,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Key returns the canonical parkCode/fieldCode identifier.
func (f Field) Key() string {
	return f.ParkCode + "/" + f.FieldCode
}
