package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsNewerVersion(t *testing.T) {
	tests := []struct {
		latest, current string
		expected        bool
	}{
		{"2.1.0", "2.0.0", true},
		{"v2.1.0", "2.0.0", true},
		{"2.0.0", "2.0.0", false},
		{"1.9.9", "2.0.0", false},
		{"2.0.10", "2.0.9", true},
		{"garbage", "2.0.0", false},
		{"2.1.0", "dev", false},
		{"", "", false},
	}

	for _, tt := range tests {
		if got := IsNewerVersion(tt.latest, tt.current); got != tt.expected {
			t.Errorf("IsNewerVersion(%q, %q) = %v, expected %v", tt.latest, tt.current, got, tt.expected)
		}
	}
}

func TestCheckForUpdate(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		current       string
		wantChecked   bool
		wantAvailable bool
		wantLatest    string
	}{
		{"newer release", http.StatusOK, `{"tag_name":"v2.1.0","html_url":"https://example.com/r"}`, "2.0.0", true, true, "2.1.0"},
		{"same release", http.StatusOK, `{"tag_name":"v2.0.0"}`, "2.0.0", true, false, "2.0.0"},
		{"server error", http.StatusInternalServerError, `{}`, "2.0.0", false, false, ""},
		{"bad json", http.StatusOK, `not json`, "2.0.0", false, false, ""},
		{"bad tag", http.StatusOK, `{"tag_name":"latest"}`, "2.0.0", false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			info := CheckForUpdate(context.Background(), srv.Client(), srv.URL, tt.current)

			if info.Checked != tt.wantChecked {
				t.Errorf("Checked = %v, expected %v", info.Checked, tt.wantChecked)
			}
			if info.Available != tt.wantAvailable {
				t.Errorf("Available = %v, expected %v", info.Available, tt.wantAvailable)
			}
			if info.Latest != tt.wantLatest {
				t.Errorf("Latest = %q, expected %q", info.Latest, tt.wantLatest)
			}
			if info.Current != tt.current {
				t.Errorf("Current = %q, expected %q", info.Current, tt.current)
			}
		})
	}
}

func TestCheckForUpdate_DefaultURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name":"3.0.0"}`))
	}))
	defer srv.Close()

	info := CheckForUpdate(context.Background(), nil, srv.URL, "2.0.0")
	if !info.Available || info.URL != ReleasePageURL {
		t.Errorf("expected update with default release page, got %+v", info)
	}
}
