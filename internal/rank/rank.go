// Package rank builds the human-readable leaderboard views. Every builder is
// a pure function of a roster slice.
package rank

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"FarmSentinel/internal/model"
)

const maxRows = 10

const (
	emptyLine     = "暂无数据。"
	emptyGainLine = "暂无可统计数据（账号在线一段时间后再查看）。"
)

// Display resolves the roster display name: name(QQ:n) whenever a linked
// number is present, regardless of platform, else name(GID:g).
func Display(acc *model.Account) string {
	name := acc.Name
	if name == "" {
		name = "未知账号"
	}
	if qq := strings.TrimSpace(acc.QQNumber); qq != "" {
		return fmt.Sprintf("%s(QQ:%s)", name, qq)
	}
	return fmt.Sprintf("%s(GID:%d)", name, acc.GID)
}

// FormatDuration renders a cumulative runtime as 1h2m5s, or 2m5s below one
// hour. Negative input clamps to zero.
func FormatDuration(sec int64) string {
	if sec < 0 {
		sec = 0
	}
	h := sec / 3600
	m := (sec % 3600) / 60
	s := sec % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	return fmt.Sprintf("%dm%ds", m, s)
}

func statusGlyph(acc *model.Account) string {
	if acc.IsOnline() {
		return "🟢"
	}
	return "🔴"
}

// Level ranks the roster by level, descending, skipping unleveled accounts.
func Level(accounts []model.Account) string {
	valid := filter(accounts, func(a *model.Account) bool { return a.Level > 0 })
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].Level > valid[j].Level })
	lines := []string{"🏆 等级排行榜"}
	for i, acc := range top(valid) {
		lines = append(lines, fmt.Sprintf("%d. %s %s · Lv%d", i+1, statusGlyph(&acc), Display(&acc), acc.Level))
	}
	if len(lines) == 1 {
		lines = append(lines, emptyLine)
	}
	return strings.Join(lines, "\n")
}

// OnlineTime ranks the roster by cumulative runtime, descending.
func OnlineTime(accounts []model.Account) string {
	valid := filter(accounts, func(a *model.Account) bool { return a.RuntimeSec > 0 })
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].RuntimeSec > valid[j].RuntimeSec })
	lines := []string{"⏱ 累计运行时长排行榜"}
	for i, acc := range top(valid) {
		lines = append(lines, fmt.Sprintf("%d. %s %s · %s", i+1, statusGlyph(&acc), Display(&acc), FormatDuration(acc.RuntimeSec)))
	}
	if len(lines) == 1 {
		lines = append(lines, emptyLine)
	}
	return strings.Join(lines, "\n")
}

// GoldGain ranks the online subset by the API-reported session gold income.
func GoldGain(online []model.Account) string {
	return gainRank("💰 金币收益排行榜（本轮在线）", online, func(a *model.Account) float64 { return a.Income.Gold })
}

// ExpGain ranks the online subset by the API-reported session exp income.
func ExpGain(online []model.Account) string {
	return gainRank("📈 经验收益排行榜（本轮在线）", online, func(a *model.Account) float64 { return a.Income.Exp })
}

func gainRank(header string, online []model.Account, gain func(*model.Account) float64) string {
	rows := make([]model.Account, len(online))
	copy(rows, online)
	sort.SliceStable(rows, func(i, j int) bool { return gain(&rows[i]) > gain(&rows[j]) })
	lines := []string{header}
	for i, acc := range top(rows) {
		lines = append(lines, fmt.Sprintf("%d. %s · +%s", i+1, Display(&acc), humanize.Comma(int64(gain(&acc)))))
	}
	if len(lines) == 1 {
		lines = append(lines, emptyGainLine)
	}
	return strings.Join(lines, "\n")
}

// OnlineSummary lists who is online, sorted by display name.
func OnlineSummary(online []model.Account) string {
	lines := []string{fmt.Sprintf("👥 当前在线用户数：%d", len(online))}
	if len(online) == 0 {
		lines = append(lines, "当前没有在线账号。")
		return strings.Join(lines, "\n")
	}
	rows := make([]model.Account, len(online))
	copy(rows, online)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	for _, acc := range rows {
		lines = append(lines, "- "+Display(&acc))
	}
	return strings.Join(lines, "\n")
}

// FullDigest concatenates the four ranking views with a timestamp header for
// the on-demand command.
func FullDigest(accounts []model.Account, now time.Time) string {
	header := fmt.Sprintf("📅 %s\n━━━━━━━━━━━━━━━\n", now.Format("2006-01-02 15:04:05"))
	body := strings.Join([]string{
		Level(accounts),
		OnlineTime(accounts),
		GoldGain(accounts),
		ExpGain(accounts),
	}, "\n\n")
	return header + body
}

// Random picks one of the five periodic views uniformly.
func Random(all, online []model.Account, rng *rand.Rand) string {
	switch rng.Intn(5) {
	case 0:
		return Level(all)
	case 1:
		return OnlineTime(all)
	case 2:
		return GoldGain(online)
	case 3:
		return ExpGain(online)
	default:
		return OnlineSummary(online)
	}
}

func filter(accounts []model.Account, keep func(*model.Account) bool) []model.Account {
	var out []model.Account
	for _, a := range accounts {
		if keep(&a) {
			out = append(out, a)
		}
	}
	return out
}

func top(rows []model.Account) []model.Account {
	if len(rows) > maxRows {
		return rows[:maxRows]
	}
	return rows
}
