package scheduler

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"FarmSentinel/internal/alert"
	"FarmSentinel/internal/announce"
	"FarmSentinel/internal/collector"
	"FarmSentinel/internal/config"
	"FarmSentinel/internal/model"
	"FarmSentinel/internal/notifier"
	"FarmSentinel/internal/rank"
	"FarmSentinel/internal/recorder"
	"FarmSentinel/internal/tracker"

	"github.com/robfig/cron/v3"
)

const (
	startupDelay      = 2 * time.Second
	tickSleep         = 2 * time.Second
	disabledSleep     = 5 * time.Second
	settingsSyncEvery = 300 * time.Second
)

// Scheduler drives the polling loop: settings resync, snapshot fetch, gain
// tracking, alerting, announcement checks and the periodic ranking push.
type Scheduler struct {
	Fetcher  collector.Fetcher
	Recorder recorder.Recorder
	Tracker  *tracker.Tracker
	Alerts   *alert.Engine
	Watcher  *announce.Watcher
	Cron     *cron.Cron
	Ctx      context.Context

	mu         sync.Mutex
	sink       notifier.Sink
	remoteCfg  *config.Remote
	lastSyncAt time.Time
	lastPushAt time.Time

	rng *rand.Rand
}

// New creates a Scheduler. The sink may be refreshed later via SetSink.
func New(ctx context.Context, fetcher collector.Fetcher, sink notifier.Sink, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Fetcher:  fetcher,
		Recorder: rec,
		Tracker:  tracker.New(),
		Alerts:   alert.NewEngine(),
		Watcher:  announce.NewWatcher(),
		Cron:     cron.New(cron.WithSeconds()),
		Ctx:      ctx,
		sink:     sink,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetSink replaces the outbound messaging capability. Called by the command
// layer when it detects the capability is unset or stale.
func (s *Scheduler) SetSink(sink notifier.Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

func (s *Scheduler) getSink() notifier.Sink {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink
}

func (s *Scheduler) remote() *config.Remote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remoteCfg
}

// RegisterDigest schedules the daily full-ranking digest. An empty spec
// disables the job.
func (s *Scheduler) RegisterDigest(spec string) error {
	if spec == "" {
		return nil
	}
	if _, err := s.Cron.AddFunc(spec, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// StartCron starts the cron jobs.
func (s *Scheduler) StartCron() {
	s.Cron.Start()
	log.Println("[INFO] cron jobs started")
}

// StopCron stops the cron jobs gracefully.
func (s *Scheduler) StopCron() {
	s.Cron.Stop()
	log.Println("[INFO] cron jobs stopped")
}

// Run executes the polling loop until ctx is cancelled. Every tick failure is
// absorbed; the loop never terminates on its own.
func (s *Scheduler) Run(ctx context.Context) {
	// Give the host environment a moment to finish initializing.
	select {
	case <-ctx.Done():
		return
	case <-time.After(startupDelay):
	}

	log.Println("[INFO] scheduler loop started")
	for {
		sleep := s.tick(time.Now())
		select {
		case <-ctx.Done():
			log.Println("[INFO] scheduler loop stopped")
			return
		case <-time.After(sleep):
		}
	}
}

// tick performs one iteration and returns how long to sleep before the next.
func (s *Scheduler) tick(now time.Time) (sleep time.Duration) {
	sleep = tickSleep
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] scheduler tick panic: %v", r)
		}
	}()

	if now.Sub(s.lastSyncAt) >= settingsSyncEvery {
		s.syncSettings()
		s.lastSyncAt = now
	}

	cfg := s.remote()
	if !cfg.IsEnabled() {
		return disabledSleep
	}

	dash, ok := s.Fetcher.Dashboard()
	if !ok {
		// Data unavailable: skip this tick's alerting/ranking/push work.
		return tickSleep
	}

	all := dash.Flatten()
	online := dash.OnlineAccounts()
	s.Tracker.Update(online, now)

	s.checkAlerts(cfg, all, now)
	s.checkAnnouncement(cfg)

	if now.Sub(s.lastPushAt) >= cfg.RankInterval() {
		s.pushRandomRank(cfg, all, online)
		s.lastPushAt = now
	}
	return tickSleep
}

func (s *Scheduler) syncSettings() {
	rc, ok := s.Fetcher.Settings()
	if !ok {
		log.Println("[ERROR] settings sync failed")
		return
	}
	s.mu.Lock()
	s.remoteCfg = rc
	s.mu.Unlock()
	if adminURL := strings.TrimSpace(rc.AdminURL); adminURL != "" {
		s.Fetcher.SetBaseURL(adminURL)
	}
	log.Printf("[INFO] settings synced: enabled=%v groupIds=%q interval=%ds",
		rc.IsEnabled(), rc.GroupIDs, rc.RankIntervalSec())
}

func (s *Scheduler) checkAlerts(cfg *config.Remote, accounts []model.Account, now time.Time) {
	if !cfg.IsAlertEnabled() {
		return
	}
	groups := cfg.ParseGroupIDs()
	if len(groups) == 0 {
		return
	}
	for _, a := range s.Alerts.Scan(accounts, now) {
		log.Printf("[INFO] alert triggered for %s: %s", a.Key, a.Reason)
		msg := a.Text
		if a.QQ != "" {
			msg = notifier.Mention(a.QQ) + "\n" + a.Text
		}
		s.dispatch(groups, msg)
		if err := s.Recorder.RecordAlert(&recorder.AlertEvent{
			AccountKey: a.Key, AccountID: a.AccountID, QQ: a.QQ,
			Status: a.Status, Reason: a.Reason, Title: a.Title,
			Groups: len(groups),
		}); err != nil {
			log.Printf("[ERROR] record alert: %v", err)
		}
	}
}

func (s *Scheduler) checkAnnouncement(cfg *config.Remote) {
	groups := cfg.ParseGroupIDs()
	if len(groups) == 0 {
		return
	}
	ann, ok := s.Fetcher.Announcement()
	if !ok {
		return
	}
	msg, push := s.Watcher.Observe(ann)
	if !push {
		return
	}
	log.Printf("[INFO] new announcement detected (level=%s)", ann.Level)
	s.dispatch(groups, msg)
	if err := s.Recorder.RecordAnnouncement(&recorder.AnnouncementEvent{
		Level: ann.Level, UpdatedAt: ann.UpdatedAt, Content: ann.Content,
	}); err != nil {
		log.Printf("[ERROR] record announcement: %v", err)
	}
}

func (s *Scheduler) pushRandomRank(cfg *config.Remote, all, online []model.Account) {
	groups := cfg.ParseGroupIDs()
	if len(groups) == 0 {
		return
	}
	text := rank.Random(all, online, s.rng) + "\n\n" + cfg.Ad()
	s.dispatch(groups, text)
	if err := s.Recorder.RecordPush(&recorder.PushEvent{Kind: "rank", Groups: len(groups), Chars: len(text)}); err != nil {
		log.Printf("[ERROR] record push: %v", err)
	}
}

// digestTask pushes the full ranking digest on the cron schedule.
func (s *Scheduler) digestTask() {
	cfg := s.remote()
	if !cfg.IsEnabled() {
		return
	}
	groups := cfg.ParseGroupIDs()
	if len(groups) == 0 {
		return
	}
	dash, ok := s.Fetcher.Dashboard()
	if !ok {
		log.Println("[ERROR] digest task: dashboard unavailable")
		return
	}
	online := dash.OnlineAccounts()
	s.Tracker.Update(online, time.Now())
	text := rank.FullDigest(online, time.Now()) + "\n\n" + cfg.Ad()
	s.dispatch(groups, text)
	if err := s.Recorder.RecordPush(&recorder.PushEvent{Kind: "digest", Groups: len(groups), Chars: len(text)}); err != nil {
		log.Printf("[ERROR] record push: %v", err)
	}
}

// dispatch sends text to every destination sequentially. A failed destination
// is logged and does not abort the remaining sends.
func (s *Scheduler) dispatch(groups []int64, text string) {
	sink := s.getSink()
	if sink == nil {
		log.Println("[ERROR] messaging sink missing, dropping dispatch")
		return
	}
	for _, gid := range groups {
		if err := sink.SendGroupMessage(s.Ctx, gid, text); err != nil {
			log.Printf("[ERROR] send to group %d: %v", gid, err)
		}
	}
}
