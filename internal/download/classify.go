package download

import (
	"strings"

	"github.com/czteam/czdownloader/internal/platform"
)

// ErrorKind is the user-facing category of a failed analysis or download
type ErrorKind string

const (
	KindAccessDenied    ErrorKind = "access_denied"
	KindNotFound        ErrorKind = "not_found"
	KindRateLimited     ErrorKind = "rate_limited"
	KindAgeRestricted   ErrorKind = "age_restricted"
	KindPlatformBlocked ErrorKind = "platform_blocked"
	KindGeneric         ErrorKind = "generic"
	KindUnexpected      ErrorKind = "unexpected"
)

// Classifier limits
const (
	MaxRawMessageLength = 100
	MaxSuggestions      = 4
	GenericPrefix       = "Download failed: "
)

// Classification is the outcome of mapping a raw library error to a category
type Classification struct {
	Kind        ErrorKind
	Message     string
	Suggestions []string
}

type category struct {
	kind        ErrorKind
	needles     []string
	message     string
	suggestions []string
}

// categories are checked in order; the first match wins. Matching is
// case-sensitive.
var categories = []category{
	{
		kind:    KindAccessDenied,
		needles: []string{"HTTP Error 403", "403", "Private video", "private"},
		message: "Access denied: the video is private or restricted",
		suggestions: []string{
			"Check that the video is public",
			"Try a lower quality",
			"Open the link in a browser to confirm access",
			"Try again later",
		},
	},
	{
		kind:    KindNotFound,
		needles: []string{"HTTP Error 404", "404", "Video unavailable", "unavailable"},
		message: "Video not found or unavailable in your region",
		suggestions: []string{
			"Check that the URL is correct",
			"The video may have been deleted",
			"The video may be blocked in your region",
		},
	},
	{
		kind:    KindRateLimited,
		needles: []string{"HTTP Error 429", "429", "Too Many Requests"},
		message: "Too many requests: the site is rate limiting downloads",
		suggestions: []string{
			"Wait a few minutes before retrying",
			"Lower the number of concurrent downloads",
			"Download fewer videos at once",
		},
	},
	{
		kind:    KindAgeRestricted,
		needles: []string{"age-restricted", "age restricted", "confirm your age", "Sign in to confirm"},
		message: "Age-restricted video: sign-in is required",
		suggestions: []string{
			"Age-restricted videos cannot be downloaded without an account",
			"Try a different upload of the same video",
		},
	},
}

var platformBlocked = category{
	kind:    KindPlatformBlocked,
	message: "The platform blocked the download",
	suggestions: []string{
		"Make sure the post is public",
		"Try again in a few minutes",
		"Copy the link again from the share menu",
		"Update yt-dlp to the latest version",
	},
}

var genericSuggestions = []string{
	"Check your internet connection",
	"Check that the URL is correct",
	"Retry the download",
}

// Classify maps a raw error text to a category. The platform is inferred from
// rawURL and only used when no message-based category matches.
func Classify(raw, rawURL string) Classification {
	for _, c := range categories {
		for _, needle := range c.needles {
			if strings.Contains(raw, needle) {
				return c.classification()
			}
		}
	}

	switch platform.DetectPlatform(rawURL) {
	case platform.PlatformTikTok, platform.PlatformInstagram:
		return platformBlocked.classification()
	}

	return Classification{
		Kind:        KindGeneric,
		Message:     GenericPrefix + truncate(raw, MaxRawMessageLength),
		Suggestions: limitSuggestions(genericSuggestions),
	}
}

func (c category) classification() Classification {
	return Classification{
		Kind:        c.kind,
		Message:     c.message,
		Suggestions: limitSuggestions(c.suggestions),
	}
}

func limitSuggestions(s []string) []string {
	if len(s) > MaxSuggestions {
		s = s[:MaxSuggestions]
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// SuggestionsFor returns the troubleshooting hints for kind
func SuggestionsFor(kind ErrorKind) []string {
	for _, c := range categories {
		if c.kind == kind {
			return limitSuggestions(c.suggestions)
		}
	}
	if kind == KindPlatformBlocked {
		return limitSuggestions(platformBlocked.suggestions)
	}
	return limitSuggestions(genericSuggestions)
}

// truncate shortens s to at most n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
