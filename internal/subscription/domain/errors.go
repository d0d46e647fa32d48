package domain

import "errors"

var (
	ErrSubscriptionNotFound = errors.New("subscription_not_found")
	ErrInvalidUser          = errors.New("invalid_user")
	ErrInvalidTier          = errors.New("invalid_tier")
	ErrTrialAlreadyUsed     = errors.New("trial_already_used")
)
