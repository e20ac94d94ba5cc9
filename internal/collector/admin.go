package collector

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"FarmSentinel/internal/config"
	"FarmSentinel/internal/model"
)

const requestTimeout = 10 * time.Second

// AdminFetcher implements Fetcher against the farm admin REST API.
type AdminFetcher struct {
	mu       sync.Mutex
	apiURL   string
	token    string
	password string
	client   *http.Client
}

// NewAdminFetcher creates a fetcher with optional proxy support. adminURL is
// the server root; the /api/admin prefix is appended here.
func NewAdminFetcher(adminURL, password, proxyURL string) *AdminFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	f := &AdminFetcher{
		password: password,
		client: &http.Client{
			Timeout:   requestTimeout,
			Transport: transport,
		},
	}
	f.SetBaseURL(adminURL)
	return f
}

func (f *AdminFetcher) Name() string { return "admin-api" }

// SetBaseURL replaces the API base. Called when the synced settings carry an
// adminUrl override.
func (f *AdminFetcher) SetBaseURL(adminURL string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apiURL = strings.TrimRight(adminURL, "/") + "/api/admin"
}

// BaseURL returns the current API base including the /api/admin prefix.
func (f *AdminFetcher) BaseURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.apiURL
}

// HasToken reports whether a bearer token is currently held.
func (f *AdminFetcher) HasToken() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token != ""
}

func (f *AdminFetcher) getToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

// login exchanges the admin password for a bearer token.
func (f *AdminFetcher) login() bool {
	loginURL := f.BaseURL() + "/login"
	body, _ := json.Marshal(map[string]string{"password": f.password})
	resp, err := f.client.Post(loginURL, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[ERROR] admin login: %v", err)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("[ERROR] admin login: status %d", resp.StatusCode)
		return false
	}
	var result struct {
		OK    bool   `json:"ok"`
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("[ERROR] decode login response: %v", err)
		return false
	}
	if !result.OK || result.Token == "" {
		log.Println("[ERROR] admin login rejected")
		return false
	}
	f.mu.Lock()
	f.token = result.Token
	f.mu.Unlock()
	log.Println("[INFO] admin login ok, token acquired")
	return true
}

// authedGet performs a bearer-authenticated GET and decodes the body into
// out. On 401 it re-logins exactly once and retries the request exactly once.
func (f *AdminFetcher) authedGet(path string, out any) bool {
	if f.getToken() == "" && !f.login() {
		return false
	}

	resp, ok := f.doGet(path)
	if !ok {
		return false
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		if !f.login() {
			return false
		}
		if resp, ok = f.doGet(path); !ok {
			return false
		}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("[WARN] GET %s: status %d", path, resp.StatusCode)
		return false
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Printf("[WARN] decode %s: %v", path, err)
		return false
	}
	return true
}

func (f *AdminFetcher) doGet(path string) (*http.Response, bool) {
	req, err := http.NewRequest(http.MethodGet, f.BaseURL()+path, nil)
	if err != nil {
		log.Printf("[ERROR] build request %s: %v", path, err)
		return nil, false
	}
	req.Header.Set("Authorization", "Bearer "+f.getToken())
	resp, err := f.client.Do(req)
	if err != nil {
		log.Printf("[WARN] GET %s: %v", path, err)
		return nil, false
	}
	return resp, true
}

// Dashboard fetches one consistent fleet snapshot. Absent on any failure or
// when the payload's success flag is false; partial snapshots are never
// returned.
func (f *AdminFetcher) Dashboard() (*model.Dashboard, bool) {
	var env struct {
		OK   bool             `json:"ok"`
		Data *model.Dashboard `json:"data"`
	}
	if !f.authedGet("/dashboard", &env) || !env.OK || env.Data == nil {
		return nil, false
	}
	return env.Data, true
}

// Settings fetches the remote bot configuration.
func (f *AdminFetcher) Settings() (*config.Remote, bool) {
	var env struct {
		OK   bool `json:"ok"`
		Data struct {
			BotConfig *config.Remote `json:"botConfig"`
		} `json:"data"`
	}
	if !f.authedGet("/settings", &env) || !env.OK || env.Data.BotConfig == nil {
		return nil, false
	}
	return env.Data.BotConfig, true
}

// Announcement fetches the public system announcement. The endpoint lives
// outside the admin prefix and needs no authentication.
func (f *AdminFetcher) Announcement() (*model.Announcement, bool) {
	annURL := strings.Replace(f.BaseURL(), "/api/admin", "/api", 1) + "/system/announcement"
	resp, err := f.client.Get(annURL)
	if err != nil {
		log.Printf("[WARN] fetch announcement: %v", err)
		return nil, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, false
	}
	var env struct {
		OK   bool                `json:"ok"`
		Data *model.Announcement `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		log.Printf("[WARN] decode announcement: %v", err)
		return nil, false
	}
	if !env.OK || env.Data == nil {
		return nil, false
	}
	return env.Data, true
}
