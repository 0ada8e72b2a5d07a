package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mkravets/kiosk/models"
)

type IssueRepository struct {
	db *sql.DB
}

func NewIssueRepository(db *sql.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

func (r *IssueRepository) CreateIssue(ctx context.Context, issue *models.Issue) error {
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO issues (title, pdf_link, cover_image, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, issue.Title, issue.PDFLink, issue.CoverImage, issue.CreatedAt).Scan(&issue.ID)
	if err != nil {
		return fmt.Errorf("failed to insert issue: %w", err)
	}
	return nil
}

// GetIssueByID retrieves an issue by its ID.
func (r *IssueRepository) GetIssueByID(ctx context.Context, issueID int64) (*models.Issue, error) {
	query := `
		SELECT id, title, pdf_link, cover_image, created_at
		FROM issues
		WHERE id = $1
	`
	var issue models.Issue
	row := r.db.QueryRowContext(ctx, query, issueID)
	err := row.Scan(&issue.ID, &issue.Title, &issue.PDFLink, &issue.CoverImage, &issue.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("issue not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get issue by ID: %w", err)
	}
	return &issue, nil
}

// GetIssues returns every issue, newest first.
func (r *IssueRepository) GetIssues(ctx context.Context) ([]models.Issue, error) {
	query := `
		SELECT id, title, pdf_link, cover_image, created_at
		FROM issues
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query issues: %w", err)
	}
	defer rows.Close()

	var issues []models.Issue
	for rows.Next() {
		var issue models.Issue
		if err := rows.Scan(&issue.ID, &issue.Title, &issue.PDFLink, &issue.CoverImage, &issue.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan issue row: %w", err)
		}
		issues = append(issues, issue)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating issue rows: %w", err)
	}

	if issues == nil {
		issues = []models.Issue{}
	}

	return issues, nil
}
