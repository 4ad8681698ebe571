package db

import "time"

// Slot describes one named durable value
type Slot struct {
	Name      string
	Size      int // length of the stored value in bytes
	CreatedAt time.Time
	UpdatedAt time.Time
}
