// Package alert detects per-account status transitions and turns the
// alert-worthy ones into formatted messages, de-duplicated by signature.
package alert

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"FarmSentinel/internal/model"
	"FarmSentinel/internal/rank"
)

// causeOrder fixes the substring-match order for reasons that hit more than
// one known cause.
var causeOrder = []string{
	"remote_login",
	"other_login",
	"reconnect_failed",
	"relogin_failed",
	"password_error",
	"verify_code",
	"device_lock",
	"network_error",
	"timeout",
	"unknown",
}

var causeText = map[string]string{
	"remote_login":     "该账号在其他设备登录",
	"other_login":      "被挤号/异地登录",
	"reconnect_failed": "尝试重连失败，请检查网络",
	"relogin_failed":   "自动重新登录失败",
	"password_error":   "密码错误或失效",
	"verify_code":      "需要验证码/滑块验证",
	"device_lock":      "触发设备锁，需验证",
	"network_error":    "网络连接中断",
	"timeout":          "请求超时",
	"unknown":          "未知错误",
}

const defaultTitle = "⚠ 账号状态告警"

// Alert is one composed alert message, ready for dispatch.
type Alert struct {
	Key       string
	AccountID string
	QQ        string // linked number for the mention directive, may be empty
	Status    string
	Reason    string
	Title     string
	Text      string
}

// Engine owns the per-account signature map.
type Engine struct {
	mu   sync.Mutex
	sigs map[string]string
}

func NewEngine() *Engine {
	return &Engine{sigs: make(map[string]string)}
}

// Scan walks the flattened roster and returns the alerts to dispatch. Every
// changed (status, reason) pair is recorded even when classification
// suppresses the alert, so the same pair is never re-evaluated.
func (e *Engine) Scan(accounts []model.Account, now time.Time) []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []Alert
	for i := range accounts {
		acc := &accounts[i]
		status := acc.Status
		reason := strings.TrimSpace(acc.StatusReason)

		// Healthy steady state: any stored signature is cleared so a later
		// recurrence of the same failure counts as new.
		if reason == "" && status == model.StatusOnline {
			delete(e.sigs, acc.Key())
			continue
		}

		key := acc.Key()
		sig := status + "|" + reason
		if e.sigs[key] == sig {
			continue
		}
		e.sigs[key] = sig

		low := strings.ToLower(reason)
		worthAlert := strings.Contains(low, "remote_login") ||
			strings.Contains(low, "reconnect_failed") ||
			strings.Contains(low, "error") ||
			((status == model.StatusOffline || status == model.StatusError) && reason != "")
		if !worthAlert {
			continue
		}

		title := classifyTitle(low)
		out = append(out, Alert{
			Key:       key,
			AccountID: acc.ID,
			QQ:        strings.TrimSpace(acc.QQNumber),
			Status:    status,
			Reason:    reason,
			Title:     title,
			Text:      composeText(acc, title, resolveCause(low, reason), reason, now),
		})
	}
	return out
}

func classifyTitle(low string) string {
	switch {
	case strings.Contains(low, "remote_login") || strings.Contains(low, "other_login"):
		return "🚨 异地登录告警"
	case strings.Contains(low, "reconnect_failed"):
		return "🚨 重连失败告警"
	case strings.Contains(low, "password") || strings.Contains(low, "verify"):
		return "🔑 密码/验证码错误"
	case strings.Contains(low, "network") || strings.Contains(low, "timeout"):
		return "🌐 网络连接超时"
	}
	return defaultTitle
}

// resolveCause maps the raw reason to an operator-facing description: exact
// match first, then substring match in fixed order, then the raw text.
func resolveCause(low, raw string) string {
	if desc, ok := causeText[low]; ok {
		return desc
	}
	for _, k := range causeOrder {
		if strings.Contains(low, k) {
			return causeText[k]
		}
	}
	return raw
}

func composeText(acc *model.Account, title, cause, raw string, now time.Time) string {
	return fmt.Sprintf(
		"⛈️ 【庄园灾害预警】\n"+
			"伙计: %s (工号:%s)\n"+
			"判定: %s (%s)\n"+
			"原始: %s\n"+
			"时间: %s\n"+
			"处理: 已将该伙计遣返。",
		rank.Display(acc), acc.ID, title, cause, raw, now.Format("15:04"))
}
