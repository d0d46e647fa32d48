package tier

import "errors"

var ErrNotTrialable = errors.New("tier_not_trialable")

const (
	standardTrialDays   = 14
	enterpriseTrialDays = 30
)

// TrialDays returns the trial length for a paid tier. The free tier has
// no trial.
func TrialDays(id ID) (int, error) {
	t, err := Get(id)
	if err != nil {
		return 0, err
	}
	if t.Price == 0 {
		return 0, ErrNotTrialable
	}
	if id == BusinessEnterprise {
		return enterpriseTrialDays, nil
	}
	return standardTrialDays, nil
}
