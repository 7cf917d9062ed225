package model

// Package model defines domain data structures used across the app: queued
// video items, the item status state machine, extraction metadata and progress
// events, and batch summaries. Items are handed to the UI as value snapshots.
