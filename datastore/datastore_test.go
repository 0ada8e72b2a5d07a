package datastore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/kiosk/models"
)

// openTestDB opens a fresh sqlite database with the schema applied.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open("sqlite3", filepath.Join(t.TempDir(), "kiosk_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func createTestUser(t *testing.T, db *sql.DB, username string, isAdmin bool) *models.User {
	t.Helper()

	user := &models.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "hashed-password",
		IsAdmin:        isAdmin,
	}
	require.NoError(t, NewUserRepository(db).CreateUser(context.Background(), user))
	return user
}

func createTestCategory(t *testing.T, db *sql.DB, slug string) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:    slug,
		Slug:    slug,
		IconURL: "https://example.com/" + slug + ".jpg",
	}
	require.NoError(t, NewCategoryRepository(db).CreateCategory(context.Background(), category))
	return category
}

func createTestArticle(t *testing.T, db *sql.DB, authorID, categoryID int64, title string, premium bool, publishedAt time.Time) *models.Article {
	t.Helper()

	article := &models.Article{
		Title:       title,
		Content:     "Body of " + title,
		AuthorID:    authorID,
		CategoryID:  categoryID,
		IsPremium:   premium,
		PublishedAt: publishedAt.UTC(),
	}
	require.NoError(t, NewArticleRepository(db).CreateArticle(context.Background(), article))
	return article
}

func createTestPoll(t *testing.T, db *sql.DB, question string, options []string) *models.Poll {
	t.Helper()

	poll := &models.Poll{
		Question: question,
		Options:  options,
	}
	require.NoError(t, NewPollRepository(db).CreatePoll(context.Background(), poll))
	return poll
}
