package shared

import (
	"errors"
	"testing"
)

func TestValidateStatusTransition(t *testing.T) {
	cases := []struct {
		name     string
		current  string
		target   string
		override bool
		wantErr  bool
	}{
		{"draft to review", WorkpaperStatusDraft, WorkpaperStatusReview, false, false},
		{"draft straight to final", WorkpaperStatusDraft, WorkpaperStatusFinal, false, true},
		{"review back to draft", WorkpaperStatusReview, WorkpaperStatusDraft, false, false},
		{"review to final", WorkpaperStatusReview, WorkpaperStatusFinal, false, false},
		{"final reopen without override", WorkpaperStatusFinal, WorkpaperStatusReview, false, true},
		{"final reopen with override", WorkpaperStatusFinal, WorkpaperStatusReview, true, false},
		{"noop", WorkpaperStatusFinal, WorkpaperStatusFinal, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateStatusTransition(tc.current, tc.target, tc.override)
			if tc.wantErr && !errors.Is(err, ErrInvalidStatusTransition) {
				t.Fatalf("expected transition error got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
		})
	}
}
