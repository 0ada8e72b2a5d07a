package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mkravets/kiosk/models"
)

type SubscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// HasActiveSubscription reports whether the user holds a subscription that is
// both flagged active and not yet past its end date. The end date is
// authoritative: the flag alone never decides entitlement.
func (r *SubscriptionRepository) HasActiveSubscription(ctx context.Context, userID int64, now time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions
			WHERE user_id = $1 AND is_active = TRUE AND end_date > $2
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, now.UTC()).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check active subscription: %w", err)
	}
	return exists, nil
}

// GetActiveSubscription returns the user's active, unexpired subscription.
// Absence of such a row is ErrNotFound, not an "inactive" value.
func (r *SubscriptionRepository) GetActiveSubscription(ctx context.Context, userID int64, now time.Time) (*models.Subscription, error) {
	query := `
		SELECT id, user_id, type, start_date, end_date, is_active
		FROM subscriptions
		WHERE user_id = $1 AND is_active = TRUE AND end_date > $2
		ORDER BY end_date DESC
		LIMIT 1
	`
	var sub models.Subscription
	row := r.db.QueryRowContext(ctx, query, userID, now.UTC())
	err := row.Scan(&sub.ID, &sub.UserID, &sub.Type, &sub.StartDate, &sub.EndDate, &sub.IsActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("active subscription not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}
	return &sub, nil
}

// PurchaseSubscription deactivates every currently-active subscription row
// for the user (superseded rows keep their end dates) and creates a new
// active row running from now for the plan's duration. Supersede and create
// happen in one transaction so a failure leaves prior state intact.
func (r *SubscriptionRepository) PurchaseSubscription(ctx context.Context, userID int64, planType models.SubscriptionType, now time.Time) (*models.Subscription, error) {
	start := now.UTC()
	end := start.Add(planType.Duration())

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin purchase transaction: %w", err)
	}
	defer tx.Rollback()

	deactivateQuery := `UPDATE subscriptions SET is_active = FALSE WHERE user_id = $1 AND is_active = TRUE`
	if _, err := tx.ExecContext(ctx, deactivateQuery, userID); err != nil {
		return nil, fmt.Errorf("failed to deactivate prior subscriptions: %w", err)
	}

	sub := models.Subscription{
		UserID:    userID,
		Type:      planType,
		StartDate: start,
		EndDate:   end,
		IsActive:  true,
	}

	insertQuery := `
		INSERT INTO subscriptions (user_id, type, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, insertQuery, sub.UserID, string(sub.Type), sub.StartDate, sub.EndDate, sub.IsActive).Scan(&sub.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert subscription: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit subscription purchase: %w", err)
	}
	return &sub, nil
}

// GetSubscriptionsByUserID returns every subscription row for the user,
// newest first.
func (r *SubscriptionRepository) GetSubscriptionsByUserID(ctx context.Context, userID int64) ([]models.Subscription, error) {
	query := `
		SELECT id, user_id, type, start_date, end_date, is_active
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY start_date DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []models.Subscription
	for rows.Next() {
		var sub models.Subscription
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Type, &sub.StartDate, &sub.EndDate, &sub.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan subscription row: %w", err)
		}
		subs = append(subs, sub)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscription rows: %w", err)
	}

	if subs == nil {
		subs = []models.Subscription{}
	}

	return subs, nil
}

// DeactivateExpired clears the active flag on rows whose end date has
// passed. The status predicate already checks the timestamp, so this is
// flag hygiene, not an entitlement change.
func (r *SubscriptionRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE subscriptions SET is_active = FALSE WHERE is_active = TRUE AND end_date <= $1`
	result, err := r.db.ExecContext(ctx, query, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate expired subscriptions: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected for expiry sweep: %w", err)
	}
	return affected, nil
}
