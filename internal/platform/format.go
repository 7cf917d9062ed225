package platform

import (
	"fmt"

	"github.com/czteam/czdownloader/internal/model"
)

// Format selectors
const (
	FormatBestMP4  = "best[ext=mp4]/best"
	FormatWorstMP4 = "worst[ext=mp4]/worst"

	// heightCappedTemplate prefers an MP4 under the height cap and falls back
	// to any container under the same cap
	heightCappedTemplate = "best[height<=%d][ext=mp4]/best[height<=%d]"
)

// Request headers
const (
	DesktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	TikTokReferer    = "https://www.tiktok.com/"
)

var qualityHeights = map[model.Quality]int{
	model.Quality1080p: 1080,
	model.Quality720p:  720,
	model.Quality480p:  480,
	model.Quality360p:  360,
}

// FormatSelector maps a quality token to a yt-dlp format selector. TikTok,
// Instagram and Facebook extractors are unreliable with height filters, so
// they always get FormatBestMP4.
func FormatSelector(quality model.Quality, p Platform) string {
	switch p {
	case PlatformTikTok, PlatformInstagram, PlatformFacebook:
		return FormatBestMP4
	}

	switch quality {
	case model.QualityWorst:
		return FormatWorstMP4
	case model.QualityBest:
		return FormatBestMP4
	}

	if h, ok := qualityHeights[quality]; ok {
		return fmt.Sprintf(heightCappedTemplate, h, h)
	}
	return FormatBestMP4
}

// HeadersFor returns the per-platform HTTP headers for extractor requests
func HeadersFor(p Platform) map[string]string {
	switch p {
	case PlatformTikTok:
		return map[string]string{
			"User-Agent": DesktopUserAgent,
			"Referer":    TikTokReferer,
		}
	default:
		return nil
	}
}
