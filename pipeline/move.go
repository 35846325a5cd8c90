// ABOUTME: Stage transitions for deals
// ABOUTME: Produces the updated record; persistence stays with the caller
package pipeline

import (
	"time"

	"github.com/harperreed/crmboard/models"
)

// RequestStageMove returns the deal moved to target. Moving to the current
// stage returns the deal unchanged. Any stage is reachable from any other.
// The returned UpdatedAt is now, or one millisecond past the previous value
// when the clock has not advanced beyond it.
func RequestStageMove(deal models.Deal, target models.Stage, now time.Time) (models.Deal, error) {
	to, err := models.ParseStage(string(target))
	if err != nil {
		return deal, err
	}
	from, err := dealStage(deal)
	if err != nil {
		return deal, err
	}
	if from == to {
		return deal, nil
	}
	if now.IsZero() {
		return deal, &models.ValidationError{Entity: "deal", ID: deal.ID, Field: "updated_at", Reason: "move time is required"}
	}

	moved := deal
	moved.Stage = to
	if !now.After(deal.UpdatedAt) {
		now = deal.UpdatedAt.Add(time.Millisecond)
	}
	moved.UpdatedAt = now
	return moved, nil
}
