package models

import "time"

// ContentPreviewRunes is the maximum number of runes returned for article
// content when the caller is not entitled to the full body.
const ContentPreviewRunes = 200

// ArticleAuthor is the slice of a user record exposed on article responses.
type ArticleAuthor struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type Article struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Content     string        `json:"content"`
	ImageURL    *string       `json:"image_url"`
	AuthorID    int64         `json:"-"`
	CategoryID  int64         `json:"-"`
	IssueID     *int64        `json:"-"`
	Author      ArticleAuthor `json:"author"`
	Category    Category      `json:"category"`
	IsPremium   bool          `json:"is_premium"`
	PublishedAt time.Time     `json:"published_at"`
	ViewsCount  int           `json:"views_count"`
	LikesCount  int           `json:"likes_count"`
}

// PreviewContent returns the first ContentPreviewRunes runes of content with a
// trailing ellipsis marker. Content at or under the limit is returned unchanged.
// Counted in runes, not bytes: article bodies are not ASCII.
func PreviewContent(content string) string {
	runes := []rune(content)
	if len(runes) <= ContentPreviewRunes {
		return content
	}
	return string(runes[:ContentPreviewRunes]) + "..."
}
