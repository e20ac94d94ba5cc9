package collector

import (
	"FarmSentinel/internal/config"
	"FarmSentinel/internal/model"
)

// Fetcher defines the interface for pulling state from the admin API.
// All methods report absence (false) instead of returning errors: a failed
// fetch means "skip this tick's work for this data source".
type Fetcher interface {
	Dashboard() (*model.Dashboard, bool)
	Settings() (*config.Remote, bool)
	Announcement() (*model.Announcement, bool)
	SetBaseURL(adminURL string)
	BaseURL() string
	HasToken() bool
	Name() string
}
