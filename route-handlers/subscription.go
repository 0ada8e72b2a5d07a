package routehandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mkravets/kiosk/datastore"
	"github.com/mkravets/kiosk/models"
	"github.com/mkravets/kiosk/webutil"
)

// Holds dependencies for subscription route handlers.
type SubscriptionHandler struct {
	Subscriptions *datastore.SubscriptionRepository
}

func NewSubscriptionHandler(subscriptions *datastore.SubscriptionRepository) *SubscriptionHandler {
	return &SubscriptionHandler{Subscriptions: subscriptions}
}

type subscriptionBuyRequest struct {
	Type string `json:"type"`
}

func (h *SubscriptionHandler) HandleBuySubscription(w http.ResponseWriter, r *http.Request) error {
	identity, err := requireIdentity(r)
	if err != nil {
		return err
	}

	var req subscriptionBuyRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	planType, ok := models.IsValidSubscriptionType(req.Type)
	if !ok {
		return webutil.ErrBadRequest(fmt.Sprintf("Subscription type must be '%s' or '%s'",
			models.SubscriptionMonthly, models.SubscriptionYearly))
	}

	subscription, err := h.Subscriptions.PurchaseSubscription(r.Context(), identity.UserID, planType, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to purchase %s subscription for user %d: %w", planType, identity.UserID, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, subscription)
	return nil
}

// HandleGetStatus returns the caller's active, unexpired subscription.
// "No subscription" and "expired but flag stale" are the same NotFound
// condition: the query checks the end date alongside the flag.
func (h *SubscriptionHandler) HandleGetStatus(w http.ResponseWriter, r *http.Request) error {
	identity, err := requireIdentity(r)
	if err != nil {
		return err
	}

	subscription, err := h.Subscriptions.GetActiveSubscription(r.Context(), identity.UserID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFound("No active subscription found")
		}
		return fmt.Errorf("failed to get subscription status for user %d: %w", identity.UserID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, subscription)
	return nil
}
