// Package handlers contains the HTTP handlers for the FlareSentinel API.
// Handlers depend on small locally declared interfaces so tests can swap in
// fakes for the decoder, classifier, notifier and metrics.
package handlers
