package models

import "time"

// Purchase records a confirmed PRO upgrade. Receipt is a store receipt on
// native platforms and a payment intent id on the web.
type Purchase struct {
	Receipt   string
	DeviceID  string
	Platform  string
	IsLive    bool
	CreatedAt time.Time
}
