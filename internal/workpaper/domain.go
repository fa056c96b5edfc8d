package workpaper

import (
	"time"

	"github.com/google/uuid"
)

// Workpaper is one client engagement: a fiscal year of mapped trial-balance
// data moving through DRAFT, REVIEW, and FINAL.
type Workpaper struct {
	ID          uuid.UUID
	ClientName  string
	FiscalYear  int
	Status      string
	FinalisedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateInput carries the fields required to open a workpaper.
type CreateInput struct {
	ClientName string `json:"client_name" validate:"required,max=255"`
	FiscalYear int    `json:"fiscal_year" validate:"required,gte=1990,lte=2100"`
}

// TransitionInput requests a status change.
type TransitionInput struct {
	Status   string `json:"status" validate:"required,oneof=DRAFT REVIEW FINAL"`
	Override bool   `json:"override"`
}

// ListFilters narrows a workpaper listing.
type ListFilters struct {
	Status  string
	Page    int
	PerPage int
}
