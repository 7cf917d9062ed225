// Package ui contains the Fyne desktop interface.
//
// It forwards user actions to the download service and renders the item
// snapshots the service publishes. Every widget change coming from a service
// callback goes through fyne.Do.
package ui
