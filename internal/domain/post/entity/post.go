// Package entity defines the persisted publish history: one record per
// inbound webhook with a result row per resolved target.
package entity

import "time"

// Status summarizes a record across all of its targets
type Status string

const (
	StatusPublished Status = "published" // every target succeeded
	StatusPartial   Status = "partial"   // some targets succeeded
	StatusFailed    Status = "failed"    // no target succeeded
)

// Record is one publish request as stored for the history API
type Record struct {
	ID          string
	ShopID      string
	Caption     string
	ProductLink string
	MediaType   string
	Status      Status
	CreatedAt   time.Time
}

// TargetResult is the outcome on one platform target
type TargetResult struct {
	ID             string
	RecordID       string
	Platform       string
	TargetID       string
	Status         string // "succeeded" or "failed"
	PlatformPostID string
	StrategyUsed   string
	FailureReasons []string
	Warnings       []string
	CreatedAt      time.Time
}

// StatusFor derives the record status from the per-target outcomes
func StatusFor(succeeded, total int) Status {
	switch {
	case total == 0 || succeeded == 0:
		return StatusFailed
	case succeeded == total:
		return StatusPublished
	default:
		return StatusPartial
	}
}
