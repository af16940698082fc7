package model

import (
	"time"
)

// Visit is one recorded page view, keyed by calendar day in the log store.
type Visit struct {
	Ip      string    `json:"ip"`
	Country string    `json:"country"`
	City    string    `json:"city"`
	Region  string    `json:"region"`
	Page    string    `json:"page"`
	Ua      string    `json:"ua"`
	Ts      time.Time `json:"ts"`
}

// TrackInput carries the beacon body plus identity inferred from request
// metadata by the controller.
type TrackInput struct {
	Page    string
	Session string
	Ip      string
	Country string
	City    string
	Region  string
	Ua      string
}

// TrackResult is always returned with HTTP 200, the beacon never hard-fails.
type TrackResult struct {
	Ok     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// VisitBucket aggregates one calendar day of the visit log.
type VisitBucket struct {
	Count  int     `json:"count"`
	Visits []Visit `json:"visits"`
}

type TrackRequest struct {
	Page    string `json:"page"`
	Session string `json:"session"`
}
