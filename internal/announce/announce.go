// Package announce tracks the system announcement timestamp and decides when
// an update is worth pushing.
package announce

import (
	"fmt"
	"sync"

	"FarmSentinel/internal/model"
)

// Watcher remembers the update timestamp of the most recently observed
// announcement. Zero means not yet primed.
type Watcher struct {
	mu     sync.Mutex
	lastTs float64
}

func NewWatcher() *Watcher { return &Watcher{} }

// Observe decides whether the fetched announcement should be pushed and
// returns the formatted message. A push happens only when the announcement is
// enabled and its timestamp strictly advances past an already-primed value;
// the very first observation primes the watcher without pushing. The stored
// timestamp always advances to the max, even for disabled payloads.
func (w *Watcher) Observe(a *model.Announcement) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	push := a.Enabled && w.lastTs > 0 && a.UpdatedAt > w.lastTs
	if a.UpdatedAt > w.lastTs {
		w.lastTs = a.UpdatedAt
	}
	if !push {
		return "", false
	}
	return format(a), true
}

// LastTs returns the currently stored update timestamp.
func (w *Watcher) LastTs() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastTs
}

func format(a *model.Announcement) string {
	prefix := "📢 公告"
	switch a.Level {
	case "warning":
		prefix = "⚠️ 重要通知"
	case "alert":
		prefix = "🚨 紧急警报"
	}
	return fmt.Sprintf("%s\n━━━━━━━━━━━━━━━\n%s\n━━━━━━━━━━━━━━━\n", prefix, a.Content)
}
