// workers/tier_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"craft-mentor-system/services"
	"craft-mentor-system/utils"

	"gorm.io/gorm"
)

// SubscriptionChange matches the JSON response from the billing service.
type SubscriptionChange struct {
	UserID    string    `json:"user_id"`
	OrgID     string    `json:"org_id"`
	Tier      string    `json:"tier"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetSubscriptionChangesResponse is the top-level structure of the billing
// service response.
type GetSubscriptionChangesResponse struct {
	Subscriptions []SubscriptionChange `json:"subscriptions"`
}

// TierSyncWorker periodically reconciles users.tier against the billing
// service. The webhook-style hook (/s/admin/tier) is the primary path; this
// poller is the backstop for missed deliveries.
type TierSyncWorker struct {
	db           *gorm.DB
	billing      *services.BillingService
	interval     time.Duration
	baseURL      string // e.g., "http://localhost:8600"
	endpointPath string // e.g., "/api/v1/internal/subscriptions/changes"
	serviceToken string
	httpClient   *http.Client

	lastSync time.Time
}

func NewTierSyncWorker(db *gorm.DB, billingBaseURL, endpointPath, serviceToken string) *TierSyncWorker {
	return &TierSyncWorker{
		db:           db,
		billing:      services.NewBillingService(db),
		interval:     1 * time.Minute,
		baseURL:      billingBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient:   utils.HTTPClient,
	}
}

func (w *TierSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Tier Sync Worker (billing-service → users.tier)…")
	go w.run(ctx)
}

func (w *TierSyncWorker) run(ctx context.Context) {
	// Initial backfill from the beginning of time.
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial tier sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.syncBatch(ctx, w.lastSync); err != nil {
				log.Printf("❌ Tier sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("🛑 Tier Sync Worker stopped")
			return
		}
	}
}

func (w *TierSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	endpoint, err := url.Parse(w.baseURL + w.endpointPath)
	if err != nil {
		return fmt.Errorf("invalid billing service URL: %w", err)
	}
	q := endpoint.Query()
	if !since.IsZero() {
		q.Set("since", since.UTC().Format(time.RFC3339))
	}
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("billing service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("billing service returned %d: %s", resp.StatusCode, body)
	}

	var changes GetSubscriptionChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&changes); err != nil {
		return fmt.Errorf("failed to decode billing response: %w", err)
	}

	applied := 0
	for _, sub := range changes.Subscriptions {
		if err := w.billing.UpdateTier(sub.UserID, sub.OrgID, sub.Tier); err != nil {
			// Unknown users are expected during backfill; everything else is worth a log line.
			if err != services.ErrUserNotFound {
				log.Printf("⚠️ Tier sync skipped user %s: %v", sub.UserID, err)
			}
			continue
		}
		applied++
		if sub.UpdatedAt.After(w.lastSync) {
			w.lastSync = sub.UpdatedAt
		}
	}

	if applied > 0 {
		log.Printf("✅ Tier sync applied %d change(s)", applied)
	}
	return nil
}
