package models

import "time"

// SavedImage is a captured image persisted locally. ID is assigned at capture
// time and is the only handle used for deletion.
type SavedImage struct {
	ID        string
	Data      []byte
	Checksum  string
	Width     int
	Height    int
	CreatedAt time.Time
}
