package alert

import (
	"strings"
	"testing"
	"time"

	"FarmSentinel/internal/model"
)

var scanTime = time.Date(2026, 9, 1, 8, 30, 0, 0, time.Local)

func account(status, reason string) []model.Account {
	return []model.Account{{
		ID: "acc-1", Name: "Fox", QQNumber: "123456",
		Status: status, StatusReason: reason,
	}}
}

func TestScan_RemoteLoginFiresOnce(t *testing.T) {
	e := NewEngine()

	// Healthy steady state records nothing.
	if got := e.Scan(account(model.StatusOnline, ""), scanTime); len(got) != 0 {
		t.Fatalf("healthy account must not alert, got %d", len(got))
	}

	got := e.Scan(account(model.StatusOffline, "remote_login detected"), scanTime)
	if len(got) != 1 {
		t.Fatalf("expected exactly one alert, got %d", len(got))
	}
	if got[0].Title != "🚨 异地登录告警" {
		t.Errorf("unexpected title %q", got[0].Title)
	}
	if !strings.Contains(got[0].Text, "该账号在其他设备登录") {
		t.Errorf("expected substring-resolved cause, got %q", got[0].Text)
	}
	if !strings.Contains(got[0].Text, "remote_login detected") {
		t.Errorf("raw reason missing from %q", got[0].Text)
	}
	if !strings.Contains(got[0].Text, "08:30") {
		t.Errorf("expected HH:MM time in %q", got[0].Text)
	}
	if got[0].QQ != "123456" {
		t.Errorf("expected linked number carried, got %q", got[0].QQ)
	}

	// Same pair again: no dispatch.
	if got := e.Scan(account(model.StatusOffline, "remote_login detected"), scanTime); len(got) != 0 {
		t.Fatalf("unchanged signature must not re-alert, got %d", len(got))
	}

	// Cycle through online then back: signature changed, fires again.
	e.Scan(account(model.StatusOnline, ""), scanTime)
	if got := e.Scan(account(model.StatusOffline, "remote_login detected"), scanTime); len(got) != 1 {
		t.Fatalf("expected re-alert after intermediate state, got %d", len(got))
	}
}

func TestScan_HealthyStateClearsSignature(t *testing.T) {
	e := NewEngine()
	if got := e.Scan(account(model.StatusOffline, "timeout"), scanTime); len(got) != 1 {
		t.Fatalf("expected initial alert, got %d", len(got))
	}
	// Recovery wipes the stored signature entirely.
	e.Scan(account(model.StatusOnline, ""), scanTime)
	// The identical failure pair recurring is a fresh signature again.
	if got := e.Scan(account(model.StatusOffline, "timeout"), scanTime); len(got) != 1 {
		t.Fatalf("expected alert for recurring failure after recovery, got %d", len(got))
	}
}

func TestScan_OnlineEmptyReasonRecordsNoSignature(t *testing.T) {
	e := NewEngine()
	e.Scan(account(model.StatusOnline, ""), scanTime)
	// A reason appearing later while still online is a new signature.
	got := e.Scan(account(model.StatusOnline, "network_error"), scanTime)
	if len(got) != 1 {
		t.Fatalf("expected alert for new online reason, got %d", len(got))
	}
	if got[0].Title != "🌐 网络连接超时" {
		t.Errorf("unexpected title %q", got[0].Title)
	}
}

func TestScan_UnclassifiedReasonSuppressedButRecorded(t *testing.T) {
	e := NewEngine()
	if got := e.Scan(account(model.StatusOnline, "resting"), scanTime); len(got) != 0 {
		t.Fatalf("non-matching online reason must not alert, got %d", len(got))
	}
	// The suppressed signature was still recorded: transitioning to offline
	// with the same reason is a new signature and does alert.
	got := e.Scan(account(model.StatusOffline, "resting"), scanTime)
	if len(got) != 1 {
		t.Fatalf("expected offline+reason to alert, got %d", len(got))
	}
	if got[0].Title != "⚠ 账号状态告警" {
		t.Errorf("expected generic title, got %q", got[0].Title)
	}
	if !strings.Contains(got[0].Text, "(resting)") {
		t.Errorf("unmapped cause should fall back to raw reason, got %q", got[0].Text)
	}
}

func TestClassifyTitlePriority(t *testing.T) {
	tests := []struct {
		reason string
		want   string
	}{
		{"remote_login after timeout", "🚨 异地登录告警"},
		{"other_login", "🚨 异地登录告警"},
		{"reconnect_failed: network down", "🚨 重连失败告警"},
		{"password_error", "🔑 密码/验证码错误"},
		{"verify_code required", "🔑 密码/验证码错误"},
		{"network_error", "🌐 网络连接超时"},
		{"timeout", "🌐 网络连接超时"},
		{"device_lock", "⚠ 账号状态告警"},
	}
	for _, tt := range tests {
		if got := classifyTitle(tt.reason); got != tt.want {
			t.Errorf("classifyTitle(%q): expected %q, got %q", tt.reason, tt.want, got)
		}
	}
}

func TestResolveCause(t *testing.T) {
	if got := resolveCause("device_lock", "device_lock"); got != "触发设备锁，需验证" {
		t.Errorf("exact match failed: %q", got)
	}
	if got := resolveCause("login failed: verify_code needed", "x"); got != "需要验证码/滑块验证" {
		t.Errorf("substring match failed: %q", got)
	}
	if got := resolveCause("something odd", "something odd"); got != "something odd" {
		t.Errorf("raw fallback failed: %q", got)
	}
}

func TestScan_DistinctAccountsTrackedIndependently(t *testing.T) {
	e := NewEngine()
	accounts := []model.Account{
		{ID: "a", Status: model.StatusOffline, StatusReason: "timeout"},
		{GID: 9, Status: model.StatusOffline, StatusReason: "timeout"},
	}
	if got := e.Scan(accounts, scanTime); len(got) != 2 {
		t.Fatalf("expected one alert per account, got %d", len(got))
	}
	if got := e.Scan(accounts, scanTime); len(got) != 0 {
		t.Fatalf("expected full dedup on second scan, got %d", len(got))
	}
}
