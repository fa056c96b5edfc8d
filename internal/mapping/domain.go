package mapping

import (
	"time"

	"github.com/google/uuid"
)

// Mapping links one trial-balance account to a classification item for a
// workpaper. Balances are stored in ledger convention.
type Mapping struct {
	ID           uuid.UUID
	WorkpaperID  uuid.UUID
	AccountCode  string
	AccountName  string
	Section      string
	Subsection   string
	Item         string
	Balance      float64
	PriorBalance float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UpsertInput carries one mapping row from the API. Section and subsection
// values are validated against the classification catalog before anything
// is written.
type UpsertInput struct {
	AccountCode  string  `json:"account_code" validate:"required,max=32"`
	AccountName  string  `json:"account_name" validate:"required,max=255"`
	Section      string  `json:"section" validate:"required,oneof=BALANCE_SHEET INCOME_STATEMENT"`
	Subsection   string  `json:"subsection" validate:"required,max=64"`
	Item         string  `json:"item" validate:"required,max=255"`
	Balance      float64 `json:"balance"`
	PriorBalance float64 `json:"prior_balance"`
}

// ListFilters narrows a mapping listing.
type ListFilters struct {
	WorkpaperID uuid.UUID
	Section     string
	Page        int
	PerPage     int
}
