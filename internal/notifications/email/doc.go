// Package email raises the unsafe-condition alert. Alerts are rendered from
// embedded templates and handed to a Provider; the only Provider shipped is
// LogProvider, which simulates delivery by writing the message to the
// structured log.
package email
