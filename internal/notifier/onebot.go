package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// OneBotSink sends group messages through a OneBot-compatible HTTP API.
type OneBotSink struct {
	APIURL      string
	AccessToken string
	Client      *http.Client
}

// NewOneBotSink creates a sink with optional proxy support.
func NewOneBotSink(apiURL, accessToken, proxyURL string) *OneBotSink {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &OneBotSink{
		APIURL:      apiURL,
		AccessToken: accessToken,
		Client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
	}
}

func (s *OneBotSink) Name() string { return "onebot" }

// SendGroupMessage posts one plain-text message (CQ codes allowed) to a group.
func (s *OneBotSink) SendGroupMessage(ctx context.Context, groupID int64, text string) error {
	payload := map[string]any{
		"group_id": groupID,
		"message":  text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.APIURL+"/send_group_msg", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send group message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("onebot API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	var result struct {
		Status  string `json:"status"`
		Retcode int    `json:"retcode"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode onebot response: %w", err)
	}
	if result.Retcode != 0 {
		return fmt.Errorf("onebot API error: status %s, retcode %d", result.Status, result.Retcode)
	}
	return nil
}

// Mention formats the group mention directive for a linked number.
func Mention(qq string) string {
	return fmt.Sprintf("[CQ:at,qq=%s]", qq)
}

// InlineImage formats the inline-image directive for a URL.
func InlineImage(imageURL string) string {
	return fmt.Sprintf("[CQ:image,file=%s]", imageURL)
}
