package models

import "time"

// SavedArticle represents a user's bookmark of an article.
// Uniqueness per (user, article) is enforced by the datastore layer.
type SavedArticle struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	ArticleID int64     `json:"-"`
	Article   Article   `json:"article"`
	SavedAt   time.Time `json:"saved_at"`
}
