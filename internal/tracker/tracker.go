// Package tracker keeps per-account session baselines so "gain since last
// seen online" can be derived as current-minus-baseline. The shipped rankings
// use the API-reported income figures; this is the fallback view.
package tracker

import (
	"sync"
	"time"

	"FarmSentinel/internal/model"
)

// Baseline captures an account's totals the first tick it is seen online.
type Baseline struct {
	GoldBase  float64
	ExpBase   float64
	CreatedAt time.Time
}

// Tracker owns the baseline map. Baselines exist exactly for the accounts
// observed online in the most recent Update call.
type Tracker struct {
	mu        sync.Mutex
	baselines map[string]Baseline
}

func New() *Tracker {
	return &Tracker{baselines: make(map[string]Baseline)}
}

// Update records a baseline for every newly-online account and evicts every
// key absent from the current online set. Idempotent for an unchanged set.
func (t *Tracker) Update(online []model.Account, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	seen := make(map[string]struct{}, len(online))
	for _, acc := range online {
		key := acc.Key()
		seen[key] = struct{}{}
		if _, ok := t.baselines[key]; !ok {
			t.baselines[key] = Baseline{GoldBase: acc.Gold, ExpBase: acc.Exp, CreatedAt: now}
		}
	}
	for key := range t.baselines {
		if _, ok := seen[key]; !ok {
			delete(t.baselines, key)
		}
	}
}

// Gain returns the session gain relative to the tracked baseline. ok is
// false when the account has no baseline (never seen online this session).
func (t *Tracker) Gain(acc *model.Account) (gold, exp float64, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	base, found := t.baselines[acc.Key()]
	if !found {
		return 0, 0, false
	}
	return acc.Gold - base.GoldBase, acc.Exp - base.ExpBase, true
}

// Has reports whether a baseline exists for the key.
func (t *Tracker) Has(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.baselines[key]
	return ok
}

// Len returns the number of tracked baselines.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.baselines)
}
