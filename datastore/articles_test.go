package datastore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListArticles_CategoryFilter(t *testing.T) {
	db := openTestDB(t)
	author := createTestUser(t, db, "author", false)
	culture := createTestCategory(t, db, "culture")
	science := createTestCategory(t, db, "science")
	repo := NewArticleRepository(db)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	createTestArticle(t, db, author.ID, culture.ID, "Culture piece", false, base)
	createTestArticle(t, db, author.ID, science.ID, "Science piece", false, base)

	articles, err := repo.ListArticles(context.Background(), ListArticlesParams{CategoryID: &culture.ID})
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Culture piece", articles[0].Title)
	assert.Equal(t, "culture", articles[0].Category.Slug)
	assert.Equal(t, "author", articles[0].Author.Username)
}

func TestListArticles_RecentOrder(t *testing.T) {
	db := openTestDB(t)
	author := createTestUser(t, db, "author", false)
	category := createTestCategory(t, db, "culture")
	repo := NewArticleRepository(db)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	createTestArticle(t, db, author.ID, category.ID, "Oldest", false, base)
	createTestArticle(t, db, author.ID, category.ID, "Middle", false, base.Add(time.Hour))
	createTestArticle(t, db, author.ID, category.ID, "Newest", false, base.Add(2*time.Hour))

	articles, err := repo.ListArticles(context.Background(), ListArticlesParams{Sort: SortRecent})
	require.NoError(t, err)
	require.Len(t, articles, 3)
	assert.Equal(t, "Newest", articles[0].Title)
	assert.Equal(t, "Middle", articles[1].Title)
	assert.Equal(t, "Oldest", articles[2].Title)
}

func TestListArticles_PopularOrder(t *testing.T) {
	db := openTestDB(t)
	author := createTestUser(t, db, "author", false)
	category := createTestCategory(t, db, "culture")
	repo := NewArticleRepository(db)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	quiet := createTestArticle(t, db, author.ID, category.ID, "Quiet", false, base.Add(2*time.Hour))
	popular := createTestArticle(t, db, author.ID, category.ID, "Popular", false, base)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.IncrementViews(context.Background(), popular.ID))
	}
	require.NoError(t, repo.IncrementViews(context.Background(), quiet.ID))

	articles, err := repo.ListArticles(context.Background(), ListArticlesParams{Sort: SortPopular})
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "Popular", articles[0].Title)
	assert.Equal(t, 3, articles[0].ViewsCount)
}

func TestListArticles_Pagination(t *testing.T) {
	db := openTestDB(t)
	author := createTestUser(t, db, "author", false)
	category := createTestCategory(t, db, "culture")
	repo := NewArticleRepository(db)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		createTestArticle(t, db, author.ID, category.ID, "Story", false, base.Add(time.Duration(i)*time.Minute))
	}

	firstPage, err := repo.ListArticles(context.Background(), ListArticlesParams{Limit: DefaultPageSize, Offset: 0})
	require.NoError(t, err)
	assert.Len(t, firstPage, 10)

	secondPage, err := repo.ListArticles(context.Background(), ListArticlesParams{Limit: DefaultPageSize, Offset: DefaultPageSize})
	require.NoError(t, err)
	assert.Len(t, secondPage, 2)

	thirdPage, err := repo.ListArticles(context.Background(), ListArticlesParams{Limit: DefaultPageSize, Offset: 2 * DefaultPageSize})
	require.NoError(t, err)
	assert.Empty(t, thirdPage)
}

func TestGetArticleByID_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewArticleRepository(db)

	_, err := repo.GetArticleByID(context.Background(), 9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestIncrementViewsAndLikes(t *testing.T) {
	db := openTestDB(t)
	author := createTestUser(t, db, "author", false)
	category := createTestCategory(t, db, "culture")
	article := createTestArticle(t, db, author.ID, category.ID, "Story", false, time.Now())
	repo := NewArticleRepository(db)

	require.NoError(t, repo.IncrementViews(context.Background(), article.ID))
	require.NoError(t, repo.IncrementViews(context.Background(), article.ID))

	likes, err := repo.IncrementLikes(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, likes)

	likes, err = repo.IncrementLikes(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, likes)

	got, err := repo.GetArticleByID(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ViewsCount)
	assert.Equal(t, 2, got.LikesCount)

	require.ErrorIs(t, repo.IncrementViews(context.Background(), 9999), ErrNotFound)
	_, err = repo.IncrementLikes(context.Background(), 9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateArticle_PartialFields(t *testing.T) {
	db := openTestDB(t)
	author := createTestUser(t, db, "author", false)
	category := createTestCategory(t, db, "culture")
	article := createTestArticle(t, db, author.ID, category.ID, "Original title", false, time.Now())
	repo := NewArticleRepository(db)

	newTitle := "Updated title"
	premium := true
	err := repo.UpdateArticle(context.Background(), article.ID, ArticleUpdate{
		Title:     &newTitle,
		IsPremium: &premium,
	})
	require.NoError(t, err)

	got, err := repo.GetArticleByID(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated title", got.Title)
	assert.True(t, got.IsPremium)
	// Untouched fields keep their values.
	assert.Equal(t, article.Content, got.Content)
	assert.Equal(t, category.ID, got.CategoryID)
}

func TestUpdateArticle_NoFieldsIsNoOp(t *testing.T) {
	db := openTestDB(t)
	author := createTestUser(t, db, "author", false)
	category := createTestCategory(t, db, "culture")
	article := createTestArticle(t, db, author.ID, category.ID, "Story", false, time.Now())
	repo := NewArticleRepository(db)

	require.NoError(t, repo.UpdateArticle(context.Background(), article.ID, ArticleUpdate{}))
}

func TestUpdateArticle_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewArticleRepository(db)

	title := "whatever"
	err := repo.UpdateArticle(context.Background(), 9999, ArticleUpdate{Title: &title})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteArticle_CascadesBookmarksAndDetachesPolls(t *testing.T) {
	db := openTestDB(t)
	author := createTestUser(t, db, "author", false)
	reader := createTestUser(t, db, "reader", false)
	category := createTestCategory(t, db, "culture")
	article := createTestArticle(t, db, author.ID, category.ID, "Story", false, time.Now())
	articleRepo := NewArticleRepository(db)
	savedRepo := NewSavedArticleRepository(db)
	pollRepo := NewPollRepository(db)

	_, err := savedRepo.SaveArticle(context.Background(), reader.ID, article.ID, time.Now())
	require.NoError(t, err)

	poll := createTestPoll(t, db, "Thoughts?", []string{"Yes", "No"})
	_, err = db.Exec(`UPDATE polls SET article_id = $1 WHERE id = $2`, article.ID, poll.ID)
	require.NoError(t, err)

	require.NoError(t, articleRepo.DeleteArticle(context.Background(), article.ID))

	_, err = articleRepo.GetArticleByID(context.Background(), article.ID)
	require.ErrorIs(t, err, ErrNotFound)

	saved, err := savedRepo.GetSavedArticles(context.Background(), reader.ID)
	require.NoError(t, err)
	assert.Empty(t, saved)

	// The poll survives, detached from the deleted article.
	got, err := pollRepo.GetPollByID(context.Background(), poll.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ArticleID)
}

func TestDeleteArticle_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewArticleRepository(db)

	require.ErrorIs(t, repo.DeleteArticle(context.Background(), 9999), ErrNotFound)
}
