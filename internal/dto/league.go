package dto

import "github.com/noah-isme/league-sched-api/internal/models"

// CreateLeagueRequest registers a new league.
type CreateLeagueRequest struct {
	ID           string               `json:"id" validate:"required,max=64"`
	Name         string               `json:"name" validate:"required"`
	Timezone     string               `json:"timezone" validate:"required"`
	ContactName  string               `json:"contactName"`
	ContactEmail string               `json:"contactEmail" validate:"omitempty,email"`
	SeasonConfig *models.SeasonConfig `json:"seasonConfig"`
}

// UpdateLeagueRequest mutates league metadata and season configuration.
type UpdateLeagueRequest struct {
	Name         string               `json:"name"`
	Timezone     string               `json:"timezone"`
	Status       string               `json:"status" validate:"omitempty,oneof=ACTIVE DISABLED DELETED"`
	ContactName  string               `json:"contactName"`
	ContactEmail string               `json:"contactEmail" validate:"omitempty,email"`
	SeasonConfig *models.SeasonConfig `json:"seasonConfig"`
}

// CreateTeamRequest registers a team inside a division.
type CreateTeamRequest struct {
	ID             string `json:"id" validate:"required,max=64"`
	Name           string `json:"name" validate:"required"`
	PrimaryContact string `json:"primaryContact"`
}

// UpdateTeamRequest mutates team metadata.
type UpdateTeamRequest struct {
	Name               string `json:"name"`
	PrimaryContact     string `json:"primaryContact"`
	AssistantCoaches   string `json:"assistantCoaches"`
	OnboardingComplete *bool  `json:"onboardingComplete"`
}

// CreateFieldRequest registers a playing field.
type CreateFieldRequest struct {
	ParkCode    string `json:"parkCode" validate:"required,max=32"`
	FieldCode   string `json:"fieldCode" validate:"required,max=32"`
	ParkName    string `json:"parkName" validate:"required"`
	FieldName   string `json:"fieldName" validate:"required"`
	DisplayName string `json:"displayName"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip"`
}

// CreateRuleRequest registers a recurring availability rule.
type CreateRuleRequest struct {
	FieldKey    string   `json:"fieldKey" validate:"required"`
	Division    string   `json:"division"`
	DivisionIDs []string `json:"divisionIds"`
	StartsOn    string   `json:"startsOn" validate:"required"`
	EndsOn      string   `json:"endsOn" validate:"required"`
	DaysOfWeek  []string `json:"daysOfWeek" validate:"required,min=1"`
	StartTime   string   `json:"startTime" validate:"required"`
	EndTime     string   `json:"endTime" validate:"required"`
	Timezone    string   `json:"timezone"`
}

// CreateExceptionRequest suppresses rule occurrences.
type CreateExceptionRequest struct {
	DateFrom  string `json:"dateFrom" validate:"required"`
	DateTo    string `json:"dateTo" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
	Reason    string `json:"reason"`
}

// AllocationImportEntry is one allocation row in an import payload.
type AllocationImportEntry struct {
	Scope        string   `json:"scope" validate:"required"`
	FieldKey     string   `json:"fieldKey" validate:"required"`
	StartsOn     string   `json:"startsOn" validate:"required"`
	EndsOn       string   `json:"endsOn" validate:"required"`
	DaysOfWeek   []string `json:"daysOfWeek" validate:"required,min=1"`
	StartTime    string   `json:"startTime" validate:"required"`
	EndTime      string   `json:"endTime" validate:"required"`
	SlotType     string   `json:"slotType" validate:"required,oneof=practice game both"`
	PriorityRank *int     `json:"priorityRank" validate:"omitempty,min=0"`
}

// AllocationImportRequest batches allocation rows for one league.
type AllocationImportRequest struct {
	Allocations []AllocationImportEntry `json:"allocations" validate:"required,min=1,dive"`
	ReplaceAll  bool                    `json:"replaceAll"`
}

// AllocationImportResponse reports the import outcome.
type AllocationImportResponse struct {
	ImportedCount int      `json:"importedCount"`
	RejectedCount int      `json:"rejectedCount"`
	Rejections    []string `json:"rejections,omitempty"`
}
