package download

// Package download implements the download queue built on top of an
// Extractor (yt-dlp via github.com/lrstanley/go-ytdlp in production). It owns
// the item lifecycle, bounds concurrent workers, translates progress events,
// classifies failures and aggregates batch summaries.
