package scheduler

import (
	"fmt"
	"strings"
	"time"

	"FarmSentinel/internal/notifier"
	"FarmSentinel/internal/rank"
)

const defaultFunctionImage = "https://oss.nbtab.com/public/xxoo/d34d5084-be02-475e-8441-b38f1ed12944.jpg"

// HandleCommand processes a user command and returns a single reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch strings.TrimSpace(command) {
	case "功能", "/function":
		return s.functionReply()
	case "buy", "/buy":
		return s.buyReply()
	case "在线人数", "/online":
		return s.onlineReply()
	case "排行榜", "/rank":
		return s.rankReply()
	case "状态", "/status":
		return s.statusReply()
	default:
		return "可用命令:\n• 功能\n• buy\n• 在线人数\n• 排行榜\n• 状态"
	}
}

func (s *Scheduler) functionReply() string {
	cfg := s.remote()
	imageURL := defaultFunctionImage
	var text string
	if cfg != nil {
		if u := strings.TrimSpace(cfg.FunctionImageURL); u != "" {
			imageURL = u
		}
		text = strings.TrimSpace(cfg.FunctionText)
	}
	msg := notifier.InlineImage(imageURL)
	if text != "" {
		msg += "\n" + text
	}
	return msg
}

func (s *Scheduler) buyReply() string {
	return fmt.Sprintf("📦 云端代挂购买通道\n%s\n\n如需多开/定制功能，请联系管理员。", s.remote().Buy())
}

func (s *Scheduler) onlineReply() string {
	dash, ok := s.Fetcher.Dashboard()
	if !ok {
		return "读取在线数据失败，请稍后重试。"
	}
	return rank.OnlineSummary(dash.OnlineAccounts())
}

func (s *Scheduler) rankReply() string {
	dash, ok := s.Fetcher.Dashboard()
	if !ok {
		return "读取排行榜失败，请稍后重试。"
	}
	now := time.Now()
	online := dash.OnlineAccounts()
	s.Tracker.Update(online, now)
	return rank.FullDigest(online, now) + "\n\n" + s.remote().Ad()
}

func (s *Scheduler) statusReply() string {
	cfg := s.remote()

	status := "❌ 未启用"
	if cfg.IsEnabled() {
		status = "✅ 已启用"
	}

	groupsInfo := "未配置群组"
	if groups := cfg.ParseGroupIDs(); len(groups) > 0 {
		parts := make([]string, len(groups))
		for i, g := range groups {
			parts[i] = fmt.Sprintf("%d", g)
		}
		groupsInfo = "配置群组: " + strings.Join(parts, ", ")
	}

	apiStatus := "❌ API连接失败"
	onlineCount := 0
	totalAccounts := 0
	if dash, ok := s.Fetcher.Dashboard(); ok {
		apiStatus = "✅ API连接正常"
		onlineCount = len(dash.OnlineAccounts())
		for _, c := range dash.Cards {
			totalAccounts += len(c.Accounts)
		}
	}

	tokenInfo := "未设置"
	if s.Fetcher.HasToken() {
		tokenInfo = "已设置"
	}

	return fmt.Sprintf(
		"🤖 机器人测试报告\n"+
			"━━━━━━━━━━━━━━━\n"+
			"状态: %s\n"+
			"%s\n"+
			"%s\n"+
			"在线账号: %d/%d\n"+
			"━━━━━━━━━━━━━━━\n"+
			"配置URL: %s\n"+
			"Token: %s\n"+
			"推送间隔: %d秒",
		status, groupsInfo, apiStatus, onlineCount, totalAccounts,
		s.Fetcher.BaseURL(), tokenInfo, cfg.RankIntervalSec())
}
