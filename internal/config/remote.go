package config

import (
	"strconv"
	"strings"
	"time"
)

// Interval bounds for the periodic ranking push.
const (
	minRankIntervalSec     = 30
	defaultRankIntervalSec = 300
)

const (
	defaultAdText  = "想尝试云端代挂？发送 /buy"
	defaultBuyText = "云端代挂购买链接：\nhttps://example.com/buy"
)

// Remote mirrors the botConfig object synced from the admin settings API.
// All accessors tolerate a nil receiver so an unsynced state behaves like the
// default (disabled) configuration.
type Remote struct {
	Enabled           bool   `json:"enabled"`
	AdminURL          string `json:"adminUrl"`
	GroupID           string `json:"groupId"`
	GroupIDs          string `json:"groupIds"`
	AdText            string `json:"adText"`
	AdIntervalMin     int    `json:"adIntervalMin"`
	ReportIntervalSec int    `json:"reportIntervalSec"`
	BuyText           string `json:"buyText"`
	AlertEnabled      *bool  `json:"alertEnabled"`
	FunctionImageURL  string `json:"functionImageUrl"`
	FunctionText      string `json:"functionText"`
}

// IsEnabled reports whether the bot should poll and push at all.
func (r *Remote) IsEnabled() bool { return r != nil && r.Enabled }

// IsAlertEnabled defaults to true when the field is absent.
func (r *Remote) IsAlertEnabled() bool {
	if r == nil || r.AlertEnabled == nil {
		return true
	}
	return *r.AlertEnabled
}

// ParseGroupIDs returns the configured destination group ids. The multi-value
// field wins over the single one; both accept ASCII and full-width commas.
func (r *Remote) ParseGroupIDs() []int64 {
	if r == nil {
		return nil
	}
	raw := strings.TrimSpace(r.GroupIDs)
	if raw == "" {
		raw = strings.TrimSpace(r.GroupID)
	}
	var out []int64
	for _, p := range strings.Split(strings.ReplaceAll(raw, "，", ","), ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

// RankIntervalSec returns the ranking push interval in seconds, preferring
// reportIntervalSec, falling back to the legacy adIntervalMin, floored at 30s.
func (r *Remote) RankIntervalSec() int {
	if r != nil {
		if r.ReportIntervalSec > 0 {
			return maxInt(minRankIntervalSec, r.ReportIntervalSec)
		}
		if r.AdIntervalMin > 0 {
			return maxInt(minRankIntervalSec, r.AdIntervalMin*60)
		}
	}
	return defaultRankIntervalSec
}

// RankInterval is RankIntervalSec as a duration.
func (r *Remote) RankInterval() time.Duration {
	return time.Duration(r.RankIntervalSec()) * time.Second
}

// Ad returns the promotional footer appended to every ranking push.
func (r *Remote) Ad() string {
	if r != nil {
		if t := strings.TrimSpace(r.AdText); t != "" {
			return t
		}
	}
	return defaultAdText
}

// Buy returns the purchase info text for the buy command.
func (r *Remote) Buy() string {
	if r != nil {
		if t := strings.TrimSpace(r.BuyText); t != "" {
			return t
		}
	}
	return defaultBuyText
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
