package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mkravets/kiosk/models"
)

// SavedArticleRepository handles database operations for the saved_articles
// join table (a user's bookmarks).
type SavedArticleRepository struct {
	db *sql.DB
}

func NewSavedArticleRepository(db *sql.DB) *SavedArticleRepository {
	return &SavedArticleRepository{db: db}
}

// SaveArticle bookmarks an article for a user. Returns ErrNotFound if the
// article does not exist and ErrDuplicate if the pair is already saved.
// Uniqueness per (user, article) is an application-level rule, not a schema
// constraint, so the existence check runs first.
func (r *SavedArticleRepository) SaveArticle(ctx context.Context, userID, articleID int64, savedAt time.Time) (int64, error) {
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}

	var articleExists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM articles WHERE id = $1)`, articleID).Scan(&articleExists); err != nil {
		return 0, fmt.Errorf("failed to check article existence: %w", err)
	}
	if !articleExists {
		return 0, fmt.Errorf("article not found: %w", ErrNotFound)
	}

	var alreadySaved bool
	checkQuery := `SELECT EXISTS (SELECT 1 FROM saved_articles WHERE user_id = $1 AND article_id = $2)`
	if err := r.db.QueryRowContext(ctx, checkQuery, userID, articleID).Scan(&alreadySaved); err != nil {
		return 0, fmt.Errorf("failed to check existing bookmark: %w", err)
	}
	if alreadySaved {
		return 0, fmt.Errorf("bookmark for article %d: %w", articleID, ErrDuplicate)
	}

	var savedID int64
	insertQuery := `
		INSERT INTO saved_articles (user_id, article_id, saved_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, insertQuery, userID, articleID, savedAt).Scan(&savedID); err != nil {
		return 0, fmt.Errorf("failed to insert bookmark: %w", err)
	}
	return savedID, nil
}

// RemoveSavedArticle deletes a user's bookmark of an article.
// Returns ErrNotFound when no such bookmark exists.
func (r *SavedArticleRepository) RemoveSavedArticle(ctx context.Context, userID, articleID int64) error {
	query := `DELETE FROM saved_articles WHERE user_id = $1 AND article_id = $2`
	result, err := r.db.ExecContext(ctx, query, userID, articleID)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for bookmark delete: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("bookmark not found: %w", ErrNotFound)
	}
	return nil
}

// GetSavedArticles returns a user's bookmarks ordered by save time
// descending, each carrying the bookmarked article with author and category
// joined.
func (r *SavedArticleRepository) GetSavedArticles(ctx context.Context, userID int64) ([]models.SavedArticle, error) {
	query := `
		SELECT s.id, s.user_id, s.article_id, s.saved_at,
		       a.id, a.title, a.content, a.image_url,
		       a.author_id, a.category_id, a.issue_id,
		       a.is_premium, a.published_at, a.views_count, a.likes_count,
		       u.username,
		       c.name, c.slug, c.icon_url
		FROM saved_articles s
		JOIN articles a ON a.id = s.article_id
		JOIN users u ON u.id = a.author_id
		JOIN categories c ON c.id = a.category_id
		WHERE s.user_id = $1
		ORDER BY s.saved_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	var saved []models.SavedArticle
	for rows.Next() {
		var s models.SavedArticle
		a := &s.Article
		err := rows.Scan(
			&s.ID, &s.UserID, &s.ArticleID, &s.SavedAt,
			&a.ID, &a.Title, &a.Content, &a.ImageURL,
			&a.AuthorID, &a.CategoryID, &a.IssueID,
			&a.IsPremium, &a.PublishedAt, &a.ViewsCount, &a.LikesCount,
			&a.Author.Username,
			&a.Category.Name, &a.Category.Slug, &a.Category.IconURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bookmark row: %w", err)
		}
		a.Author.ID = a.AuthorID
		a.Category.ID = a.CategoryID
		saved = append(saved, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookmark rows: %w", err)
	}

	if saved == nil {
		saved = []models.SavedArticle{}
	}

	return saved, nil
}
