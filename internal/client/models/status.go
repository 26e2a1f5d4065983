package models

import "time"

// DocumentStatus is the derived lifecycle classification of a document.
// It is computed from the expiry date and the current time on every read
// and is never persisted.
type DocumentStatus string

const (
	StatusActive   DocumentStatus = "active"
	StatusExpiring DocumentStatus = "expiring"
	StatusExpired  DocumentStatus = "expired"
)

// ExpiringWindow is how far ahead of the expiry date a document is
// reported as expiring.
const ExpiringWindow = 30 * 24 * time.Hour

// Status derives the lifecycle status of a document from its expiry date.
//
//   - nil expiry: active
//   - expiry before now: expired
//   - expiry within [now, now+ExpiringWindow]: expiring
//   - otherwise: active
//
// Pure and deterministic; two documents with the same expiry always report
// the same status for the same now.
func Status(expiry *time.Time, now time.Time) DocumentStatus {
	if expiry == nil {
		return StatusActive
	}
	if expiry.Before(now) {
		return StatusExpired
	}
	if !expiry.After(now.Add(ExpiringWindow)) {
		return StatusExpiring
	}
	return StatusActive
}
