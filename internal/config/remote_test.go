package config

import (
	"reflect"
	"testing"
)

func TestParseGroupIDs_MixedSeparators(t *testing.T) {
	r := &Remote{GroupIDs: "111, 222，333"}
	got := r.ParseGroupIDs()
	want := []int64{111, 222, 333}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseGroupIDs_FallbackAndJunk(t *testing.T) {
	tests := []struct {
		name   string
		remote *Remote
		want   []int64
	}{
		{"nil remote", nil, nil},
		{"empty", &Remote{}, nil},
		{"single field fallback", &Remote{GroupID: "42"}, []int64{42}},
		{"multi wins over single", &Remote{GroupID: "42", GroupIDs: "1,2"}, []int64{1, 2}},
		{"junk skipped", &Remote{GroupIDs: "1, abc, , 3"}, []int64{1, 3}},
	}
	for _, tt := range tests {
		got := tt.remote.ParseGroupIDs()
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestRankIntervalSec(t *testing.T) {
	tests := []struct {
		name   string
		remote *Remote
		want   int
	}{
		{"nil remote defaults", nil, 300},
		{"unset defaults", &Remote{}, 300},
		{"seconds preferred", &Remote{ReportIntervalSec: 120, AdIntervalMin: 99}, 120},
		{"seconds floored", &Remote{ReportIntervalSec: 5}, 30},
		{"legacy minutes", &Remote{AdIntervalMin: 2}, 120},
		{"legacy minutes floored", &Remote{AdIntervalMin: -1}, 300},
	}
	for _, tt := range tests {
		if got := tt.remote.RankIntervalSec(); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.want, got)
		}
	}
}

func TestAlertEnabledDefault(t *testing.T) {
	var nilRemote *Remote
	if !nilRemote.IsAlertEnabled() {
		t.Error("nil remote should default alerts to enabled")
	}
	if !(&Remote{}).IsAlertEnabled() {
		t.Error("absent field should default alerts to enabled")
	}
	off := false
	if (&Remote{AlertEnabled: &off}).IsAlertEnabled() {
		t.Error("explicit false should disable alerts")
	}
}

func TestAdAndBuyDefaults(t *testing.T) {
	r := &Remote{AdText: "  ", BuyText: ""}
	if r.Ad() != defaultAdText {
		t.Errorf("blank adText should fall back to default, got %q", r.Ad())
	}
	if r.Buy() != defaultBuyText {
		t.Errorf("blank buyText should fall back to default, got %q", r.Buy())
	}
	r2 := &Remote{AdText: "关注我们", BuyText: "私聊购买"}
	if r2.Ad() != "关注我们" || r2.Buy() != "私聊购买" {
		t.Error("configured texts should win over defaults")
	}
}
