// Package alert composes and delivers outbound notifications.
//
// Messages are plain text aimed at a Discord-compatible webhook: a
// cheap-listing digest after each collection cycle, an hourly reference
// price message, and on-demand period reports. Delivery failures are
// logged, never retried; the next cycle sends a fresh message anyway.
package alert
