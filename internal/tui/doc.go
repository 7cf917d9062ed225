// Package tui is a terminal frontend for the download queue.
//
// Service callbacks are forwarded to the Bubbletea program as messages, so
// the model only changes inside Update.
package tui
