package models

import "time"

// BookEventType names the kind of change a BookEvent describes.
type BookEventType string

const (
	BookEventCreated BookEventType = "book.created"
	BookEventUpdated BookEventType = "book.updated"
	BookEventDeleted BookEventType = "book.deleted"
)

// BookEvent describes a committed change to a book row.
type BookEvent struct {
	EventID    string        `json:"event_id"`
	Type       BookEventType `json:"type"`
	BookID     int64         `json:"book_id"`
	Book       *Book         `json:"book,omitempty"` // nil for deletions
	OccurredAt time.Time     `json:"occurred_at"`
}
