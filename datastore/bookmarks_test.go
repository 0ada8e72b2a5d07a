package datastore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveArticle_AndList(t *testing.T) {
	db := openTestDB(t)
	author := createTestUser(t, db, "author", false)
	reader := createTestUser(t, db, "reader", false)
	category := createTestCategory(t, db, "culture")
	repo := NewSavedArticleRepository(db)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	older := createTestArticle(t, db, author.ID, category.ID, "Older", false, base)
	newer := createTestArticle(t, db, author.ID, category.ID, "Newer", true, base)

	// Saved in the opposite order of their save times.
	_, err := repo.SaveArticle(context.Background(), reader.ID, newer.ID, base.Add(2*time.Hour))
	require.NoError(t, err)
	_, err = repo.SaveArticle(context.Background(), reader.ID, older.ID, base.Add(time.Hour))
	require.NoError(t, err)

	saved, err := repo.GetSavedArticles(context.Background(), reader.ID)
	require.NoError(t, err)
	require.Len(t, saved, 2)

	// Most recently saved first, with author and category joined in.
	assert.Equal(t, "Newer", saved[0].Article.Title)
	assert.Equal(t, "Older", saved[1].Article.Title)
	assert.Equal(t, "author", saved[0].Article.Author.Username)
	assert.Equal(t, "culture", saved[0].Article.Category.Slug)
	assert.True(t, saved[0].Article.IsPremium)
}

func TestSaveArticle_Duplicate(t *testing.T) {
	db := openTestDB(t)
	author := createTestUser(t, db, "author", false)
	reader := createTestUser(t, db, "reader", false)
	category := createTestCategory(t, db, "culture")
	article := createTestArticle(t, db, author.ID, category.ID, "Story", false, time.Now())
	repo := NewSavedArticleRepository(db)

	_, err := repo.SaveArticle(context.Background(), reader.ID, article.ID, time.Now())
	require.NoError(t, err)

	_, err = repo.SaveArticle(context.Background(), reader.ID, article.ID, time.Now())
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestSaveArticle_AbsentArticle(t *testing.T) {
	db := openTestDB(t)
	reader := createTestUser(t, db, "reader", false)
	repo := NewSavedArticleRepository(db)

	_, err := repo.SaveArticle(context.Background(), reader.ID, 9999, time.Now())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveSavedArticle(t *testing.T) {
	db := openTestDB(t)
	author := createTestUser(t, db, "author", false)
	reader := createTestUser(t, db, "reader", false)
	category := createTestCategory(t, db, "culture")
	article := createTestArticle(t, db, author.ID, category.ID, "Story", false, time.Now())
	repo := NewSavedArticleRepository(db)

	_, err := repo.SaveArticle(context.Background(), reader.ID, article.ID, time.Now())
	require.NoError(t, err)

	require.NoError(t, repo.RemoveSavedArticle(context.Background(), reader.ID, article.ID))

	saved, err := repo.GetSavedArticles(context.Background(), reader.ID)
	require.NoError(t, err)
	assert.Empty(t, saved)

	// Removing again is a NotFound, not a silent no-op.
	err = repo.RemoveSavedArticle(context.Background(), reader.ID, article.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetSavedArticles_EmptyIsNotNil(t *testing.T) {
	db := openTestDB(t)
	reader := createTestUser(t, db, "reader", false)
	repo := NewSavedArticleRepository(db)

	saved, err := repo.GetSavedArticles(context.Background(), reader.ID)
	require.NoError(t, err)
	assert.NotNil(t, saved)
	assert.Empty(t, saved)
}
