package scheduler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/mkravets/kiosk/datastore"
)

// Scheduler keeps subscription active flags honest by deactivating rows
// whose end date has passed. Entitlement checks already treat the end date
// as authoritative, so the sweep never changes what a caller can access.
type Scheduler struct {
	subscriptionRepo *datastore.SubscriptionRepository
}

// New creates a new Scheduler.
func New(subscriptionRepo *datastore.SubscriptionRepository) *Scheduler {
	return &Scheduler{subscriptionRepo: subscriptionRepo}
}

// HandleTick is an HTTP handler that triggers a sweep.
// Used by Cloud Scheduler or manual curl requests.
func (s *Scheduler) HandleTick(w http.ResponseWriter, r *http.Request) {
	log.Println("INFO (Scheduler): Tick triggered via HTTP")

	swept, err := s.Tick(r.Context())
	if err != nil {
		log.Printf("ERROR (Scheduler): Tick failed: %v", err)
		http.Error(w, "scheduler tick failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK: deactivated %d expired subscriptions", swept)
}

// Tick runs a single sweep and returns the number of rows deactivated.
func (s *Scheduler) Tick(ctx context.Context) (int64, error) {
	return s.subscriptionRepo.DeactivateExpired(ctx, time.Now().UTC())
}
