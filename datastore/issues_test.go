package datastore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/kiosk/models"
)

func TestCreateIssue_AndGetByID(t *testing.T) {
	db := openTestDB(t)
	repo := NewIssueRepository(db)

	pdfLink := "https://example.com/issues/42.pdf"
	coverImage := "https://example.com/issues/42.jpg"
	issue := &models.Issue{
		Title:      "Autumn Edition",
		PDFLink:    &pdfLink,
		CoverImage: &coverImage,
		CreatedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.CreateIssue(context.Background(), issue))
	require.NotZero(t, issue.ID)

	got, err := repo.GetIssueByID(context.Background(), issue.ID)
	require.NoError(t, err)
	assert.Equal(t, "Autumn Edition", got.Title)
	require.NotNil(t, got.PDFLink)
	assert.Equal(t, pdfLink, *got.PDFLink)
	require.NotNil(t, got.CoverImage)
	assert.Equal(t, coverImage, *got.CoverImage)

	_, err = repo.GetIssueByID(context.Background(), 9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateIssue_DefaultsCreatedAt(t *testing.T) {
	db := openTestDB(t)
	repo := NewIssueRepository(db)

	issue := &models.Issue{Title: "Undated Edition"}
	require.NoError(t, repo.CreateIssue(context.Background(), issue))
	assert.False(t, issue.CreatedAt.IsZero())
}

func TestGetIssues_NewestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewIssueRepository(db)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"Oldest", "Middle", "Newest"} {
		issue := &models.Issue{Title: title, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, repo.CreateIssue(context.Background(), issue))
	}

	issues, err := repo.GetIssues(context.Background())
	require.NoError(t, err)
	require.Len(t, issues, 3)
	assert.Equal(t, "Newest", issues[0].Title)
	assert.Equal(t, "Middle", issues[1].Title)
	assert.Equal(t, "Oldest", issues[2].Title)
}

func TestGetIssues_EmptyIsNotNil(t *testing.T) {
	db := openTestDB(t)
	repo := NewIssueRepository(db)

	issues, err := repo.GetIssues(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, issues)
	assert.Empty(t, issues)
}
