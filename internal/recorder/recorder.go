package recorder

// AlertEvent records one dispatched account alert.
type AlertEvent struct {
	AccountKey string
	AccountID  string
	QQ         string
	Status     string
	Reason     string
	Title      string
	Groups     int
}

// PushEvent records one outbound group push.
type PushEvent struct {
	Kind   string // "rank", "digest", "announcement"
	Groups int
	Chars  int
}

// AnnouncementEvent records one pushed announcement.
type AnnouncementEvent struct {
	Level     string
	UpdatedAt float64
	Content   string
}

// Recorder persists dispatch history for later inspection. The scheduler
// never reads this data back; it is observability only.
type Recorder interface {
	RecordAlert(evt *AlertEvent) error
	RecordPush(evt *PushEvent) error
	RecordAnnouncement(evt *AnnouncementEvent) error
	Close() error
}
