package platform

import (
	"testing"

	"github.com/czteam/czdownloader/internal/model"
)

func TestFormatSelector(t *testing.T) {
	tests := []struct {
		quality  model.Quality
		platform Platform
		expected string
	}{
		{model.QualityBest, PlatformYouTube, "best[ext=mp4]/best"},
		{model.Quality1080p, PlatformYouTube, "best[height<=1080][ext=mp4]/best[height<=1080]"},
		{model.Quality720p, PlatformYouTube, "best[height<=720][ext=mp4]/best[height<=720]"},
		{model.Quality480p, PlatformTwitter, "best[height<=480][ext=mp4]/best[height<=480]"},
		{model.Quality360p, PlatformYouTube, "best[height<=360][ext=mp4]/best[height<=360]"},
		{model.QualityWorst, PlatformYouTube, "worst[ext=mp4]/worst"},
		{model.Quality720p, PlatformTikTok, "best[ext=mp4]/best"},
		{model.QualityWorst, PlatformInstagram, "best[ext=mp4]/best"},
		{model.Quality360p, PlatformFacebook, "best[ext=mp4]/best"},
		{model.Quality("8k"), PlatformYouTube, "best[ext=mp4]/best"},
	}

	for _, tt := range tests {
		if got := FormatSelector(tt.quality, tt.platform); got != tt.expected {
			t.Errorf("FormatSelector(%s, %s) = %q, expected %q", tt.quality, tt.platform, got, tt.expected)
		}
	}
}

func TestHeadersFor(t *testing.T) {
	h := HeadersFor(PlatformTikTok)
	if h["User-Agent"] != DesktopUserAgent {
		t.Errorf("expected desktop user agent for TikTok, got %q", h["User-Agent"])
	}
	if h["Referer"] != TikTokReferer {
		t.Errorf("expected TikTok referer, got %q", h["Referer"])
	}

	for _, p := range []Platform{PlatformYouTube, PlatformInstagram, PlatformFacebook, PlatformTwitter, PlatformUnknown} {
		if h := HeadersFor(p); len(h) != 0 {
			t.Errorf("expected no headers for %q, got %v", p, h)
		}
	}
}
