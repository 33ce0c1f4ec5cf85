package models

import "time"

// Announcement is a class-wide post written by the class owner
type Announcement struct {
	ID           int       `json:"id"`
	ClassID      int       `json:"classId"`
	AuthorID     int       `json:"authorId"`
	AuthorName   string    `json:"authorName,omitempty"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	RelativeTime string    `json:"relativeTime,omitempty"`
}

// AnnouncementRequest represents a create or update announcement request
type AnnouncementRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// AnnouncementPage is a cursor-paginated page of announcements
type AnnouncementPage struct {
	Items      []Announcement `json:"announcements"`
	NextCursor string         `json:"nextCursor,omitempty"`
}
