package entity

import (
	"time"
)

// MetricsSnapshot is a best-effort view of the real-time counters. Concurrent
// writers may be mid-update while it is read, so it is not a consistent cut.
type MetricsSnapshot struct {
	Date          string    `json:"date"`
	Reservations  int64     `json:"reservations"`
	Revenue       float64   `json:"revenue"`
	OccupiedRooms int64     `json:"occupiedRooms"`
	ActiveUsers   int64     `json:"activeUsers"`
	Timestamp     time.Time `json:"timestamp"`
}
