package tier

// HasFeature reports whether the tier enables the named feature.
// Unknown feature names are a programming error, not a user error.
func (t Tier) HasFeature(feature Feature) (bool, error) {
	enabled, ok := t.Features[feature]
	if !ok {
		return false, ErrUnknownFeature
	}
	return enabled, nil
}

// CheapestTierUnlocking scans the catalog in ascending order and returns
// the first tier that enables the feature. ok is false when no tier ever
// enables it, which signals a catalog misconfiguration upstream.
func CheapestTierUnlocking(feature Feature) (Tier, bool) {
	for _, t := range InOrder() {
		if enabled, err := t.HasFeature(feature); err == nil && enabled {
			return t, true
		}
	}
	return Tier{}, false
}

// CheapestTierLifting returns the first tier in ascending order whose
// ceiling for the limit is unlimited, or failing that, strictly above the
// given usage.
func CheapestTierLifting(limit Limit, usage int64) (Tier, bool) {
	for _, t := range InOrder() {
		max, err := t.LimitFor(limit)
		if err != nil {
			return Tier{}, false
		}
		if max == Unlimited || max > usage {
			return t, true
		}
	}
	return Tier{}, false
}
