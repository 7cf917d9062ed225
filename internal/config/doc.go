// Package config holds user settings.
//
// The desktop app stores them in Fyne preferences; the terminal frontend reads
// the same keys from a YAML file.
package config
