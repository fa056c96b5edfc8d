package shared

import "errors"

// Workpaper lifecycle statuses reused outside the workpaper module.
const (
	WorkpaperStatusDraft  = "DRAFT"
	WorkpaperStatusReview = "REVIEW"
	WorkpaperStatusFinal  = "FINAL"
)

// ErrInvalidStatusTransition indicates the status change is not allowed.
var ErrInvalidStatusTransition = errors.New("workpaper status transition invalid")

// ValidateStatusTransition checks workpaper lifecycle transitions. A
// finalised workpaper only reopens with an explicit override.
func ValidateStatusTransition(current, target string, hasOverride bool) error {
	if current == target {
		return nil
	}
	switch current {
	case WorkpaperStatusDraft:
		if target == WorkpaperStatusReview {
			return nil
		}
	case WorkpaperStatusReview:
		if target == WorkpaperStatusDraft || target == WorkpaperStatusFinal {
			return nil
		}
	case WorkpaperStatusFinal:
		if target == WorkpaperStatusReview && hasOverride {
			return nil
		}
	}
	return ErrInvalidStatusTransition
}
