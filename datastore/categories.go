package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkravets/kiosk/models"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (name, slug, icon_url)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, category.Name, category.Slug, category.IconURL).Scan(&category.ID)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// GetCategories returns every category for the browse menu.
func (r *CategoryRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	query := `
		SELECT id, name, slug, icon_url
		FROM categories
		ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug, &category.IconURL); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	if categories == nil {
		categories = []models.Category{}
	}

	return categories, nil
}

// GetCategoryBySlug retrieves a category by its unique slug.
func (r *CategoryRepository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	query := `
		SELECT id, name, slug, icon_url
		FROM categories
		WHERE slug = $1
	`
	var category models.Category
	row := r.db.QueryRowContext(ctx, query, slug)
	err := row.Scan(&category.ID, &category.Name, &category.Slug, &category.IconURL)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("category %q not found: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category by slug: %w", err)
	}
	return &category, nil
}

// GetCategoryByID retrieves a category by its ID.
func (r *CategoryRepository) GetCategoryByID(ctx context.Context, categoryID int64) (*models.Category, error) {
	query := `
		SELECT id, name, slug, icon_url
		FROM categories
		WHERE id = $1
	`
	var category models.Category
	row := r.db.QueryRowContext(ctx, query, categoryID)
	err := row.Scan(&category.ID, &category.Name, &category.Slug, &category.IconURL)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("category not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category by ID: %w", err)
	}
	return &category, nil
}
