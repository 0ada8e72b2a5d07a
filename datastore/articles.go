package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mkravets/kiosk/models"
)

// Sort modes accepted by ListArticles. Anything else falls back to newest-first.
const (
	SortPopular = "popular"
	SortRecent  = "recent"
)

// DefaultPageSize is the fixed page size for the article catalog.
const DefaultPageSize = 10

// articleSelect joins the author and category rows needed to shape an article
// response, so handlers never fetch related rows one at a time.
const articleSelect = `
	SELECT a.id, a.title, a.content, a.image_url,
	       a.author_id, a.category_id, a.issue_id,
	       a.is_premium, a.published_at, a.views_count, a.likes_count,
	       u.username,
	       c.name, c.slug, c.icon_url
	FROM articles a
	JOIN users u ON u.id = a.author_id
	JOIN categories c ON c.id = a.category_id
`

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// ListArticlesParams describes filtering, sorting and pagination for the
// article catalog. CategoryID of nil means no category filter.
type ListArticlesParams struct {
	CategoryID *int64
	Sort       string
	Limit      int
	Offset     int
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (models.Article, error) {
	var a models.Article
	err := row.Scan(
		&a.ID, &a.Title, &a.Content, &a.ImageURL,
		&a.AuthorID, &a.CategoryID, &a.IssueID,
		&a.IsPremium, &a.PublishedAt, &a.ViewsCount, &a.LikesCount,
		&a.Author.Username,
		&a.Category.Name, &a.Category.Slug, &a.Category.IconURL,
	)
	if err != nil {
		return models.Article{}, err
	}
	a.Author.ID = a.AuthorID
	a.Category.ID = a.CategoryID
	return a, nil
}

func orderClause(sort string) string {
	if sort == SortPopular {
		return "a.views_count DESC, a.likes_count DESC"
	}
	// "recent" and the default mode both order by publish time.
	return "a.published_at DESC"
}

// ListArticles returns one catalog page with author and category joined.
func (r *ArticleRepository) ListArticles(ctx context.Context, params ListArticlesParams) ([]models.Article, error) {
	if params.Limit <= 0 {
		params.Limit = DefaultPageSize
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	var query string
	var args []any
	if params.CategoryID != nil {
		query = articleSelect + ` WHERE a.category_id = $1 ORDER BY ` + orderClause(params.Sort) + ` LIMIT $2 OFFSET $3`
		args = []any{*params.CategoryID, params.Limit, params.Offset}
	} else {
		query = articleSelect + ` ORDER BY ` + orderClause(params.Sort) + ` LIMIT $1 OFFSET $2`
		args = []any{params.Limit, params.Offset}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// GetAllArticles returns every article, newest first, with author and
// category joined. Callers that need a shuffled order reorder the slice.
func (r *ArticleRepository) GetAllArticles(ctx context.Context) ([]models.Article, error) {
	query := articleSelect + ` ORDER BY a.published_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

func collectArticles(rows *sql.Rows) ([]models.Article, error) {
	var articles []models.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	if articles == nil {
		articles = []models.Article{}
	}

	return articles, nil
}

// GetArticleByID retrieves a single article with author and category joined.
func (r *ArticleRepository) GetArticleByID(ctx context.Context, articleID int64) (*models.Article, error) {
	query := articleSelect + ` WHERE a.id = $1`
	article, err := scanArticle(r.db.QueryRowContext(ctx, query, articleID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("article not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get article by ID: %w", err)
	}
	return &article, nil
}

// CreateArticle inserts a new article record and assigns the generated ID.
// PublishedAt defaults to the current time when unset.
func (r *ArticleRepository) CreateArticle(ctx context.Context, article *models.Article) error {
	if article.PublishedAt.IsZero() {
		article.PublishedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO articles (title, content, image_url, author_id, category_id, issue_id, is_premium, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		article.Title,
		article.Content,
		article.ImageURL,
		article.AuthorID,
		article.CategoryID,
		article.IssueID,
		article.IsPremium,
		article.PublishedAt,
	).Scan(&article.ID)
	if err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}
	return nil
}

// ArticleUpdate carries a partial update: only non-nil fields are applied.
type ArticleUpdate struct {
	Title      *string
	Content    *string
	ImageURL   *string
	CategoryID *int64
	IssueID    *int64
	IsPremium  *bool
}

// UpdateArticle applies the supplied fields to an existing article.
// An update with no fields set is a no-op.
func (r *ArticleRepository) UpdateArticle(ctx context.Context, articleID int64, update ArticleUpdate) error {
	var assignments []string
	var args []any
	next := 1

	appendSet := func(column string, value any) {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, next))
		args = append(args, value)
		next++
	}

	if update.Title != nil {
		appendSet("title", *update.Title)
	}
	if update.Content != nil {
		appendSet("content", *update.Content)
	}
	if update.ImageURL != nil {
		appendSet("image_url", *update.ImageURL)
	}
	if update.CategoryID != nil {
		appendSet("category_id", *update.CategoryID)
	}
	if update.IssueID != nil {
		appendSet("issue_id", *update.IssueID)
	}
	if update.IsPremium != nil {
		appendSet("is_premium", *update.IsPremium)
	}

	if len(assignments) == 0 {
		return nil
	}

	args = append(args, articleID)
	query := fmt.Sprintf("UPDATE articles SET %s WHERE id = $%d", strings.Join(assignments, ", "), next)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for article update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("article not found: %w", ErrNotFound)
	}
	return nil
}

// DeleteArticle removes an article together with its bookmarks. Attached
// polls are detached rather than deleted. The whole removal is one
// transaction: either everything is applied or nothing is.
func (r *ArticleRepository) DeleteArticle(ctx context.Context, articleID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin article delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM saved_articles WHERE article_id = $1`, articleID); err != nil {
		return fmt.Errorf("failed to delete bookmarks for article: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE polls SET article_id = NULL WHERE article_id = $1`, articleID); err != nil {
		return fmt.Errorf("failed to detach polls from article: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, articleID)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for article delete: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("article not found: %w", ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit article delete: %w", err)
	}
	return nil
}

// IncrementViews bumps the view counter by one as a single atomic statement.
func (r *ArticleRepository) IncrementViews(ctx context.Context, articleID int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE articles SET views_count = views_count + 1 WHERE id = $1`, articleID)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for view increment: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("article not found: %w", ErrNotFound)
	}
	return nil
}

// IncrementLikes bumps the like counter by one and returns the new count.
// There is no per-user dedup: repeated likes keep counting.
func (r *ArticleRepository) IncrementLikes(ctx context.Context, articleID int64) (int, error) {
	var likes int
	query := `
		UPDATE articles SET likes_count = likes_count + 1
		WHERE id = $1
		RETURNING likes_count
	`
	err := r.db.QueryRowContext(ctx, query, articleID).Scan(&likes)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("article not found: %w", ErrNotFound)
		}
		return 0, fmt.Errorf("failed to increment likes: %w", err)
	}
	return likes, nil
}
