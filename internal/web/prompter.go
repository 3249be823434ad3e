package web

import (
	"context"

	"github.com/nvqpham/tally/internal/model"
)

// DeclineAll refuses every destructive batch. It backs requests that
// did not opt in with "confirm": true, so those get the standard
// cancellation response instead of silent destruction.
type DeclineAll struct{}

// ConfirmDestructive always declines.
func (DeclineAll) ConfirmDestructive(_ context.Context, _ []model.Action) (bool, error) {
	return false, nil
}
