package platform

// Package platform contains OS/platform integration and external tooling glue:
// URL validation, the yt-dlp extraction adapter, format selection, filesystem
// helpers and the release update check.
