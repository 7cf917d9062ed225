package platform

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr error
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", nil},
		{"https://youtu.be/dQw4w9WgXcQ", nil},
		{"https://m.facebook.com/watch/?v=1", nil},
		{"https://fb.watch/abc/", nil},
		{"https://www.tiktok.com/@user/video/1", nil},
		{"https://www.instagram.com/reel/xyz/", nil},
		{"https://twitter.com/user/status/1", nil},
		{"https://x.com/user/status/1", nil},
		{"http://YOUTUBE.COM/watch?v=1", nil},
		{"", ErrEmptyURL},
		{"   ", ErrEmptyURL},
		{"youtube.com/watch?v=1", ErrMalformedURL},
		{"ftp://youtube.com/video", ErrMalformedURL},
		{"https://", ErrMalformedURL},
		{"https://vimeo.com/12345", ErrUnsupportedURL},
		{"https://example.com/youtube.com", ErrUnsupportedURL},
		{"https://www.netflix.com/watch/1", ErrUnsupportedURL},
		{"https://dropbox.com/s/video.mp4", ErrUnsupportedURL},
		{"https://notyoutube.com/watch?v=1", ErrUnsupportedURL},
		{"https://mobile.x.com/a/status/1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateURL(%q) returned unexpected error: %v", tt.url, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateURL(%q) = %v, expected %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://www.youtube.com/watch?v=1", PlatformYouTube},
		{"https://youtu.be/1", PlatformYouTube},
		{"https://www.facebook.com/video/1", PlatformFacebook},
		{"https://fb.watch/1", PlatformFacebook},
		{"https://vm.tiktok.com/1", PlatformTikTok},
		{"https://www.instagram.com/p/1", PlatformInstagram},
		{"https://twitter.com/a/status/1", PlatformTwitter},
		{"https://x.com/a/status/1", PlatformTwitter},
		{"https://vimeo.com/1", PlatformUnknown},
		{"https://www.netflix.com/title/1", PlatformUnknown},
		{"https://dropbox.com/s/1", PlatformUnknown},
		{"not a url", PlatformUnknown},
	}

	for _, tt := range tests {
		if got := DetectPlatform(tt.url); got != tt.expected {
			t.Errorf("DetectPlatform(%q) = %q, expected %q", tt.url, got, tt.expected)
		}
	}
}

func TestIsSupportedURL(t *testing.T) {
	if !IsSupportedURL("https://youtu.be/abc") {
		t.Error("expected youtu.be to be supported")
	}
	if IsSupportedURL("https://dailymotion.com/video/x") {
		t.Error("expected dailymotion to be rejected")
	}
}

func TestSupportedPlatformNames(t *testing.T) {
	names := SupportedPlatformNames()
	expected := []string{"YouTube", "Facebook", "TikTok", "Instagram", "Twitter/X"}

	if len(names) != len(expected) {
		t.Fatalf("expected %d names, got %v", len(expected), names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("names[%d] = %q, expected %q", i, names[i], expected[i])
		}
	}
}

func TestTruncateURL(t *testing.T) {
	short := "https://youtu.be/abc"
	if got := TruncateURL(short); got != short {
		t.Errorf("short URL must not change, got %q", got)
	}

	long := "https://www.youtube.com/watch?v=" + strings.Repeat("a", 40)
	got := TruncateURL(long)
	if got != long[:URLTruncateLength]+URLTruncateSuffix {
		t.Errorf("unexpected truncation: %q", got)
	}

	multibyte := "https://www.youtube.com/results?search_query=" + strings.Repeat("видео", 10)
	got = TruncateURL(multibyte)
	if !utf8.ValidString(got) {
		t.Errorf("truncation split a rune: %q", got)
	}
	if n := utf8.RuneCountInString(strings.TrimSuffix(got, URLTruncateSuffix)); n != URLTruncateLength {
		t.Errorf("expected %d runes, got %d", URLTruncateLength, n)
	}
}
