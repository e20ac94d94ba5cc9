package model

import "fmt"

// Account statuses as reported by the admin API. Anything else is free-form.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
	StatusError   = "error"
)

// Income holds the session-scoped gain deltas reported by the admin API.
type Income struct {
	Gold float64 `json:"gold"`
	Exp  float64 `json:"exp"`
}

// Account is one managed game account as reported by the dashboard.
type Account struct {
	ID           string  `json:"id"`
	GID          int64   `json:"gid"`
	Name         string  `json:"name"`
	QQNumber     string  `json:"qqNumber"`
	Platform     string  `json:"platform"`
	Status       string  `json:"status"`
	StatusReason string  `json:"statusReason"`
	Level        int     `json:"level"`
	RuntimeSec   int64   `json:"runtimeSec"`
	Gold         float64 `json:"gold"`
	Exp          float64 `json:"exp"`
	Income       Income  `json:"income"`
}

// Key returns the stable identifier used to correlate an account across
// ticks: the primary id, or a synthetic key derived from the gid.
func (a *Account) Key() string {
	if a.ID != "" {
		return a.ID
	}
	return fmt.Sprintf("gid-%d", a.GID)
}

// IsOnline reports whether the account is in the online steady state.
func (a *Account) IsOnline() bool { return a.Status == StatusOnline }

// Card is a bound group of accounts.
type Card struct {
	Accounts []Account `json:"accounts"`
}

// Dashboard is one internally-consistent snapshot of the whole fleet.
type Dashboard struct {
	Cards           []Card    `json:"cards"`
	UnboundAccounts []Account `json:"unboundAccounts"`
}

// Flatten returns the logical roster: card-bound accounts in card order,
// followed by the unbound bucket.
func (d *Dashboard) Flatten() []Account {
	var out []Account
	for _, c := range d.Cards {
		out = append(out, c.Accounts...)
	}
	out = append(out, d.UnboundAccounts...)
	return out
}

// OnlineAccounts returns the online subset of the flattened roster.
func (d *Dashboard) OnlineAccounts() []Account {
	var out []Account
	for _, a := range d.Flatten() {
		if a.IsOnline() {
			out = append(out, a)
		}
	}
	return out
}
