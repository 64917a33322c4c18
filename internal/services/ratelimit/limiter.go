// Package ratelimit enforces the per-user and optional global daily
// request quotas on top of the KV store.
//
// The limiter is a soft abuse deterrent, not a billing-grade meter:
// check-then-increment is not atomic across concurrent requests from
// the same identity, so the limit can be exceeded by a small margin
// under high concurrency. Known and accepted.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/Zeldorh1/omnitint-edge/internal/models"
	"github.com/Zeldorh1/omnitint-edge/internal/services/store"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

const (
	// ScopeUser marks a decision made against the caller's own quota.
	ScopeUser = "user"
	// ScopeGlobal marks a decision made against the service-wide cap.
	ScopeGlobal = "global"
)

// Limiter applies daily quotas keyed by (scope, id, UTC date). Quotas
// reset at UTC midnight; counters self-expire shortly after.
type Limiter struct {
	kv     store.KV
	limits models.LimitsConfig
	now    func() time.Time
}

// NewLimiter creates a limiter over the given store.
func NewLimiter(kv store.KV, limits models.LimitsConfig) *Limiter {
	return &Limiter{
		kv:     kv,
		limits: limits,
		now:    time.Now,
	}
}

// SetClock overrides the limiter's clock for tests.
func (l *Limiter) SetClock(now func() time.Time) {
	l.now = now
}

// DateKey returns today's UTC date string, the rolling window key.
func (l *Limiter) DateKey() string {
	return l.now().UTC().Format("2006-01-02")
}

func (l *Limiter) userKey(id, date string) string {
	return fmt.Sprintf("quota:user:%s:%s", id, date)
}

func (l *Limiter) globalKey(date string) string {
	return fmt.Sprintf("quota:global:%s", date)
}

func (l *Limiter) ttl() time.Duration {
	return time.Duration(l.limits.CounterTTLHours) * time.Hour
}

// limitFor returns the daily ceiling for the identity's tier. The tier
// is not part of the counter key, so a mid-day upgrade immediately
// raises the ceiling against the day's accumulated count.
func (l *Limiter) limitFor(premium bool) int64 {
	if premium {
		return l.limits.PremiumDaily
	}
	return l.limits.FreeDaily
}

// CheckAndReserve checks the global cap first, then the caller's quota,
// and on success increments the caller's counter followed by the global
// one. Missing counters count as 0; remaining is never negative.
func (l *Limiter) CheckAndReserve(ctx context.Context, id string, premium bool) (bool, models.UsageSnapshot, error) {
	date := l.DateKey()
	limit := l.limitFor(premium)

	if l.limits.GlobalDaily > 0 {
		globalUsed, err := l.kv.GetCount(ctx, l.globalKey(date))
		if err != nil {
			return false, models.UsageSnapshot{}, err
		}
		if globalUsed >= l.limits.GlobalDaily {
			fiberlog.Warnf("ratelimit: global daily cap reached (%d/%d)", globalUsed, l.limits.GlobalDaily)
			return false, models.UsageSnapshot{
				Used:      globalUsed,
				Remaining: 0,
				Limit:     l.limits.GlobalDaily,
				Scope:     ScopeGlobal,
			}, nil
		}
	}

	used, err := l.kv.GetCount(ctx, l.userKey(id, date))
	if err != nil {
		return false, models.UsageSnapshot{}, err
	}
	if used >= limit {
		return false, models.UsageSnapshot{
			Used:      used,
			Remaining: 0,
			Limit:     limit,
			Scope:     ScopeUser,
		}, nil
	}

	newUsed, err := l.kv.IncrWithTTL(ctx, l.userKey(id, date), l.ttl())
	if err != nil {
		return false, models.UsageSnapshot{}, err
	}
	if l.limits.GlobalDaily > 0 {
		if _, err := l.kv.IncrWithTTL(ctx, l.globalKey(date), l.ttl()); err != nil {
			// The user counter already advanced; losing one global tick
			// is acceptable for a soft cap.
			fiberlog.Errorf("ratelimit: global counter increment failed: %v", err)
		}
	}

	remaining := limit - newUsed
	if remaining < 0 {
		remaining = 0
	}
	return true, models.UsageSnapshot{
		Used:      newUsed,
		Remaining: remaining,
		Limit:     limit,
		Scope:     ScopeUser,
	}, nil
}
