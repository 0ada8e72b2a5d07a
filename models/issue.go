package models

import "time"

// Issue represents a named publication batch (a magazine issue).
// Articles may optionally belong to one issue.
type Issue struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	PDFLink    *string   `json:"pdf_link"`
	CoverImage *string   `json:"cover_image"`
	CreatedAt  time.Time `json:"created_at"`
}
