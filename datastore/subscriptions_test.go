package datastore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/kiosk/models"
)

func TestHasActiveSubscription_NoRows(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "reader", false)
	repo := NewSubscriptionRepository(db)

	entitled, err := repo.HasActiveSubscription(context.Background(), user.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, entitled)
}

func TestPurchaseSubscription_MonthlyWindow(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "reader", false)
	repo := NewSubscriptionRepository(db)

	purchasedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	sub, err := repo.PurchaseSubscription(context.Background(), user.ID, models.SubscriptionMonthly, purchasedAt)
	require.NoError(t, err)
	require.NotZero(t, sub.ID)
	assert.Equal(t, models.SubscriptionMonthly, sub.Type)
	assert.True(t, sub.IsActive)
	assert.Equal(t, purchasedAt.Add(30*24*time.Hour), sub.EndDate)

	// Inside the window.
	got, err := repo.GetActiveSubscription(context.Background(), user.ID, purchasedAt.Add(29*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, sub.ID, got.ID)

	// Past the window: absence is NotFound, not an inactive value.
	_, err = repo.GetActiveSubscription(context.Background(), user.ID, purchasedAt.Add(31*24*time.Hour))
	require.ErrorIs(t, err, ErrNotFound)

	entitled, err := repo.HasActiveSubscription(context.Background(), user.ID, purchasedAt.Add(31*24*time.Hour))
	require.NoError(t, err)
	assert.False(t, entitled)
}

func TestPurchaseSubscription_SupersedesPriorActive(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "reader", false)
	repo := NewSubscriptionRepository(db)

	purchasedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	first, err := repo.PurchaseSubscription(context.Background(), user.ID, models.SubscriptionMonthly, purchasedAt)
	require.NoError(t, err)

	second, err := repo.PurchaseSubscription(context.Background(), user.ID, models.SubscriptionYearly, purchasedAt.Add(24*time.Hour))
	require.NoError(t, err)

	subs, err := repo.GetSubscriptionsByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)

	byID := map[int64]models.Subscription{}
	for _, s := range subs {
		byID[s.ID] = s
	}

	// Superseded: deactivated, end date untouched.
	assert.False(t, byID[first.ID].IsActive)
	assert.True(t, first.EndDate.Equal(byID[first.ID].EndDate))
	assert.True(t, byID[second.ID].IsActive)

	got, err := repo.GetActiveSubscription(context.Background(), user.ID, purchasedAt.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestHasActiveSubscription_StaleFlagIsNotEntitlement(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "reader", false)
	repo := NewSubscriptionRepository(db)

	purchasedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := repo.PurchaseSubscription(context.Background(), user.ID, models.SubscriptionMonthly, purchasedAt)
	require.NoError(t, err)

	// The row still carries is_active=TRUE, but the end date has passed.
	entitled, err := repo.HasActiveSubscription(context.Background(), user.ID, purchasedAt.Add(60*24*time.Hour))
	require.NoError(t, err)
	assert.False(t, entitled)
}

func TestDeactivateExpired(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "reader", false)
	other := createTestUser(t, db, "other", false)
	repo := NewSubscriptionRepository(db)

	purchasedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	expired, err := repo.PurchaseSubscription(context.Background(), user.ID, models.SubscriptionMonthly, purchasedAt)
	require.NoError(t, err)

	current, err := repo.PurchaseSubscription(context.Background(), other.ID, models.SubscriptionYearly, purchasedAt)
	require.NoError(t, err)

	swept, err := repo.DeactivateExpired(context.Background(), purchasedAt.Add(90*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	userSubs, err := repo.GetSubscriptionsByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, userSubs, 1)
	assert.Equal(t, expired.ID, userSubs[0].ID)
	assert.False(t, userSubs[0].IsActive)

	otherSubs, err := repo.GetSubscriptionsByUserID(context.Background(), other.ID)
	require.NoError(t, err)
	require.Len(t, otherSubs, 1)
	assert.Equal(t, current.ID, otherSubs[0].ID)
	assert.True(t, otherSubs[0].IsActive)
}
