package cache

import (
	"strings"
	"time"

	subscriptiondomain "github.com/quidflow/quidflow/internal/subscription/domain"
	"go.uber.org/fx"
)

const defaultSubscriptionTTL = 45 * time.Second

// AccessResolverCache stores hot-path subscription lookups for access checks.
type AccessResolverCache interface {
	GetCurrentSubscription(userID string) (subscriptiondomain.Subscription, bool)
	SetCurrentSubscription(userID string, subscription subscriptiondomain.Subscription)
	InvalidateUser(userID string)
}

type accessResolverCache struct {
	subscriptions Cache[string, subscriptiondomain.Subscription]
	subTTL        time.Duration
}

// NewAccessResolverCache returns an in-memory cache tuned for gateway checks.
func NewAccessResolverCache() AccessResolverCache {
	return &accessResolverCache{
		subscriptions: NewTTLCache[string, subscriptiondomain.Subscription](),
		subTTL:        defaultSubscriptionTTL,
	}
}

func (c *accessResolverCache) GetCurrentSubscription(userID string) (subscriptiondomain.Subscription, bool) {
	return c.subscriptions.Get(cacheKey(userID))
}

func (c *accessResolverCache) SetCurrentSubscription(userID string, subscription subscriptiondomain.Subscription) {
	if subscription.ID == 0 {
		return
	}
	c.subscriptions.Set(cacheKey(userID), subscription, c.subTTL)
}

func (c *accessResolverCache) InvalidateUser(userID string) {
	c.subscriptions.Delete(cacheKey(userID))
}

func cacheKey(parts ...string) string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		values = append(values, strings.ToLower(trimmed))
	}
	return strings.Join(values, "|")
}

var Module = fx.Module("cache",
	fx.Provide(NewAccessResolverCache),
)
