package collector

import (
	"FarmSentinel/internal/config"
	"FarmSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Dash     *model.Dashboard
	DashOK   bool
	Remote   *config.Remote
	RemoteOK bool
	Ann      *model.Announcement
	AnnOK    bool
	Base     string
	Token    bool
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Dashboard() (*model.Dashboard, bool) {
	if !m.DashOK {
		return nil, false
	}
	return m.Dash, true
}

func (m *MockFetcher) Settings() (*config.Remote, bool) {
	if !m.RemoteOK {
		return nil, false
	}
	return m.Remote, true
}

func (m *MockFetcher) Announcement() (*model.Announcement, bool) {
	if !m.AnnOK {
		return nil, false
	}
	return m.Ann, true
}

func (m *MockFetcher) SetBaseURL(adminURL string) { m.Base = adminURL }
func (m *MockFetcher) BaseURL() string            { return m.Base }
func (m *MockFetcher) HasToken() bool             { return m.Token }
