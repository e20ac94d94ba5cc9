package rank

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"FarmSentinel/internal/model"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		sec  int64
		want string
	}{
		{45, "0m45s"},
		{125, "2m5s"},
		{3725, "1h2m5s"},
		{-10, "0m0s"},
		{0, "0m0s"},
		{3600, "1h0m0s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.sec); got != tt.want {
			t.Errorf("FormatDuration(%d): expected %q, got %q", tt.sec, tt.want, got)
		}
	}
}

func TestDisplay(t *testing.T) {
	fox := model.Account{Name: "Fox", QQNumber: "123456", Platform: "wechat"}
	if got := Display(&fox); got != "Fox(QQ:123456)" {
		t.Errorf("expected Fox(QQ:123456), got %q", got)
	}
	owl := model.Account{Name: "Owl", GID: 7}
	if got := Display(&owl); got != "Owl(GID:7)" {
		t.Errorf("expected Owl(GID:7), got %q", got)
	}
	anon := model.Account{}
	if got := Display(&anon); got != "未知账号(GID:0)" {
		t.Errorf("expected 未知账号(GID:0), got %q", got)
	}
}

func TestRankingScenario(t *testing.T) {
	online := model.Account{ID: "a", Name: "A", Status: model.StatusOnline, Level: 5, Income: model.Income{Gold: 120}}
	offline := model.Account{ID: "b", Name: "B", Status: model.StatusOffline, Level: 9, RuntimeSec: 500}
	all := []model.Account{online, offline}

	level := Level(all)
	lines := strings.Split(level, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %q", level)
	}
	if !strings.Contains(lines[1], "Lv9") || !strings.Contains(lines[1], "🔴") {
		t.Errorf("expected offline Lv9 first, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "Lv5") || !strings.Contains(lines[2], "🟢") {
		t.Errorf("expected online Lv5 second, got %q", lines[2])
	}

	onlineTime := OnlineTime(all)
	if strings.Contains(onlineTime, "A(") {
		t.Errorf("runtime 0 must be filtered out: %q", onlineTime)
	}
	if !strings.Contains(onlineTime, "8m20s") {
		t.Errorf("expected 8m20s row, got %q", onlineTime)
	}

	gold := GoldGain([]model.Account{online})
	if !strings.Contains(gold, "+120") {
		t.Errorf("expected +120 row, got %q", gold)
	}
}

func TestRankingCapsAtTen(t *testing.T) {
	var accounts []model.Account
	for i := 0; i < 15; i++ {
		accounts = append(accounts, model.Account{
			ID:    fmt.Sprintf("a%d", i),
			Name:  fmt.Sprintf("N%02d", i),
			Level: i + 1,
		})
	}
	lines := strings.Split(Level(accounts), "\n")
	if len(lines) != 11 {
		t.Fatalf("expected header + 10 rows, got %d lines", len(lines))
	}
	// Non-increasing by level.
	prev := 1 << 30
	for _, line := range lines[1:] {
		var lv int
		if _, err := fmt.Sscanf(line[strings.Index(line, "Lv"):], "Lv%d", &lv); err != nil {
			t.Fatalf("cannot parse level from %q", line)
		}
		if lv > prev {
			t.Errorf("rows not sorted non-increasing: %d after %d", lv, prev)
		}
		prev = lv
	}
}

func TestLevelTiesKeepSnapshotOrder(t *testing.T) {
	accounts := []model.Account{
		{ID: "x", Name: "X", Level: 3},
		{ID: "y", Name: "Y", Level: 3},
	}
	lines := strings.Split(Level(accounts), "\n")
	if !strings.Contains(lines[1], "X(") || !strings.Contains(lines[2], "Y(") {
		t.Errorf("ties must keep snapshot order, got %q / %q", lines[1], lines[2])
	}
}

func TestEmptyStates(t *testing.T) {
	if !strings.Contains(Level(nil), "暂无数据。") {
		t.Error("level ranking missing empty-state line")
	}
	if !strings.Contains(OnlineTime(nil), "暂无数据。") {
		t.Error("online-time ranking missing empty-state line")
	}
	if !strings.Contains(GoldGain(nil), "暂无可统计数据") {
		t.Error("gold-gain ranking missing empty-state line")
	}
	if !strings.Contains(ExpGain(nil), "暂无可统计数据") {
		t.Error("exp-gain ranking missing empty-state line")
	}
	summary := OnlineSummary(nil)
	if !strings.Contains(summary, "当前在线用户数：0") || !strings.Contains(summary, "当前没有在线账号。") {
		t.Errorf("unexpected empty online summary: %q", summary)
	}
}

func TestGoldGainThousandsSeparator(t *testing.T) {
	online := []model.Account{{ID: "a", Name: "A", Status: model.StatusOnline, Income: model.Income{Gold: 1234567.9}}}
	got := GoldGain(online)
	if !strings.Contains(got, "+1,234,567") {
		t.Errorf("expected thousands separators and truncation, got %q", got)
	}
}

func TestOnlineSummarySortedByName(t *testing.T) {
	online := []model.Account{
		{ID: "1", Name: "b", Status: model.StatusOnline},
		{ID: "2", Name: "a", Status: model.StatusOnline},
	}
	lines := strings.Split(OnlineSummary(online), "\n")
	if !strings.HasPrefix(lines[1], "- a(") || !strings.HasPrefix(lines[2], "- b(") {
		t.Errorf("expected alphabetical listing, got %v", lines[1:])
	}
}

func TestFullDigestContainsFourViews(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)
	got := FullDigest(nil, now)
	for _, header := range []string{"📅 2026-09-01 12:00:00", "🏆", "⏱", "💰", "📈"} {
		if !strings.Contains(got, header) {
			t.Errorf("digest missing %q:\n%s", header, got)
		}
	}
}
