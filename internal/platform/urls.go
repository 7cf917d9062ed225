package platform

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Platform identifies the video site a URL belongs to
type Platform string

const (
	PlatformYouTube   Platform = "YouTube"
	PlatformFacebook  Platform = "Facebook"
	PlatformTikTok    Platform = "TikTok"
	PlatformInstagram Platform = "Instagram"
	PlatformTwitter   Platform = "Twitter/X"
	PlatformUnknown   Platform = ""
)

// supportedDomain pairs a registered domain with its platform
type supportedDomain struct {
	Domain   string
	Platform Platform
}

// SupportedDomains lists the domains accepted by the validator, checked in
// order. Subdomains match too.
var SupportedDomains = []supportedDomain{
	{"youtube.com", PlatformYouTube},
	{"youtu.be", PlatformYouTube},
	{"facebook.com", PlatformFacebook},
	{"fb.watch", PlatformFacebook},
	{"tiktok.com", PlatformTikTok},
	{"instagram.com", PlatformInstagram},
	{"twitter.com", PlatformTwitter},
	{"x.com", PlatformTwitter},
}

// URL validation errors
var (
	ErrEmptyURL       = errors.New("empty URL")
	ErrMalformedURL   = errors.New("malformed URL")
	ErrUnsupportedURL = errors.New("unsupported URL")
)

// URL display limits
const (
	URLTruncateLength = 50
	URLTruncateSuffix = "..."
)

// hostOf returns the lower-cased host of rawURL
func hostOf(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", ErrEmptyURL
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: URL must start with http:// or https://", ErrMalformedURL)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrMalformedURL)
	}
	return strings.ToLower(parsed.Hostname()), nil
}

// DetectPlatform returns the platform of rawURL or PlatformUnknown
func DetectPlatform(rawURL string) Platform {
	host, err := hostOf(rawURL)
	if err != nil {
		return PlatformUnknown
	}
	if d, ok := matchDomain(host); ok {
		return d.Platform
	}
	return PlatformUnknown
}

// matchDomain finds the supported domain that host is or is a subdomain of
func matchDomain(host string) (supportedDomain, bool) {
	for _, d := range SupportedDomains {
		if host == d.Domain || strings.HasSuffix(host, "."+d.Domain) {
			return d, true
		}
	}
	return supportedDomain{}, false
}

// ValidateURL checks that rawURL is a well-formed http(s) URL on one of the
// supported domains
func ValidateURL(rawURL string) error {
	host, err := hostOf(rawURL)
	if err != nil {
		return err
	}
	if _, ok := matchDomain(host); ok {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedURL, host)
}

// IsSupportedURL is a convenience wrapper around ValidateURL
func IsSupportedURL(rawURL string) bool {
	return ValidateURL(rawURL) == nil
}

// SupportedPlatformNames returns the distinct platform names for display
func SupportedPlatformNames() []string {
	var names []string
	seen := make(map[Platform]bool)
	for _, d := range SupportedDomains {
		if !seen[d.Platform] {
			seen[d.Platform] = true
			names = append(names, string(d.Platform))
		}
	}
	return names
}

// TruncateURL shortens rawURL to URLTruncateLength runes for summaries and logs
func TruncateURL(rawURL string) string {
	r := []rune(rawURL)
	if len(r) <= URLTruncateLength {
		return rawURL
	}
	return string(r[:URLTruncateLength]) + URLTruncateSuffix
}
