// Package models defines server-side data models persisted in the database.
package models

import "time"

// Device is the backend's record of one client installation, keyed by the
// device id the client generates.
type Device struct {
	ID    string
	IsPro bool
	// UsesDay is the UTC date UsesCount belongs to.
	UsesDay   time.Time
	UsesCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Remaining returns the free distills left on day for a non-PRO device.
func (d *Device) Remaining(day time.Time, limit int) int {
	used := 0
	if d != nil && d.UsesDay.Equal(day) {
		used = d.UsesCount
	}
	return max(limit-used, 0)
}
