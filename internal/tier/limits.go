package tier

// LimitCheck is the result of a usage-limit decision. A denial is a normal
// result, never an error.
type LimitCheck struct {
	Allowed   bool  `json:"allowed"`
	Remaining int64 `json:"remaining"`
}

// LimitFor returns the tier's ceiling for the named limit. Unlimited (-1)
// passes through untouched.
func (t Tier) LimitFor(limit Limit) (int64, error) {
	max, ok := t.Limits[limit]
	if !ok {
		return 0, ErrUnknownLimit
	}
	return max, nil
}

// CheckLimit decides whether one more unit of usage is allowed.
//
// A usage count equal to the ceiling blocks: the next unit would exceed it.
// Remaining is floored at zero for display, except for unlimited limits
// where the sentinel propagates.
func (t Tier) CheckLimit(limit Limit, currentUsage int64) (LimitCheck, error) {
	max, err := t.LimitFor(limit)
	if err != nil {
		return LimitCheck{}, err
	}

	if max == Unlimited {
		return LimitCheck{Allowed: true, Remaining: Unlimited}, nil
	}

	remaining := max - currentUsage
	allowed := remaining > 0
	if remaining < 0 {
		remaining = 0
	}
	return LimitCheck{Allowed: allowed, Remaining: remaining}, nil
}
