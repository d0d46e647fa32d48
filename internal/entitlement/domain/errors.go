package domain

import (
	"errors"

	"github.com/quidflow/quidflow/internal/tier"
)

// ErrUpgradeRequired is returned by feature modules when the gateway
// denies a gated action. The gateway itself never returns it: there a
// denial is a decision, not an error.
var ErrUpgradeRequired = errors.New("upgrade_required")

// UpgradeRequiredError is the denial feature modules actually return.
// It matches errors.Is(err, ErrUpgradeRequired) and carries the tier
// that would unlock the denied action, so a denial is never a bare
// failure to the client.
type UpgradeRequiredError struct {
	SuggestedUpgrade tier.ID
}

func (e *UpgradeRequiredError) Error() string { return ErrUpgradeRequired.Error() }

func (e *UpgradeRequiredError) Is(target error) bool { return target == ErrUpgradeRequired }

// Denied converts a negative feature decision into the error callers
// propagate.
func (d FeatureDecision) Denied() error {
	return &UpgradeRequiredError{SuggestedUpgrade: d.SuggestedUpgrade}
}

// Denied converts a negative limit decision into the error callers
// propagate.
func (d LimitDecision) Denied() error {
	return &UpgradeRequiredError{SuggestedUpgrade: d.SuggestedUpgrade}
}
