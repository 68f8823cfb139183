package models

import "time"

// DeletedKind identifies what was deleted.
type DeletedKind string

const (
	KindObject DeletedKind = "object"
	KindImage  DeletedKind = "image"
)

// Notification is an immediate, user-visible local notice.
type Notification struct {
	ID        string
	Kind      DeletedKind
	Title     string
	Body      string
	CreatedAt time.Time
}
