// Package notifier delivers bill lifecycle events to the patient
// notification service. Delivery is best effort: the billing transaction has
// already committed by the time an event is sent, so failures are logged and
// never propagated to the request path.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Event types emitted over the bill lifecycle.
const (
	EventBillGenerated = "BILL_GENERATED"
	EventBillPaid      = "BILL_PAID"
	EventBillCancelled = "BILL_CANCELLED"
	EventBillRefunded  = "BILL_REFUNDED"
)

// Event is a single lifecycle notification addressed to a patient.
type Event struct {
	Type      string                 `json:"type"`
	PatientID int64                  `json:"patient_id"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Notifier sends lifecycle events.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// HTTPNotifier posts events to an external notification service with a
// bounded client timeout so a slow receiver cannot stall callers.
type HTTPNotifier struct {
	url    string
	client *http.Client
	logger zerolog.Logger
}

// NewHTTP creates an HTTPNotifier. An empty url disables delivery; events
// are then logged at debug level and dropped.
func NewHTTP(url string, timeout time.Duration, logger zerolog.Logger) *HTTPNotifier {
	return &HTTPNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (n *HTTPNotifier) Notify(ctx context.Context, event Event) error {
	if n.url == "" {
		n.logger.Debug().
			Str("event", event.Type).
			Int64("patient_id", event.PatientID).
			Msg("notification delivery disabled, dropping event")
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification service returned status %d", resp.StatusCode)
	}

	n.logger.Debug().
		Str("event", event.Type).
		Int64("patient_id", event.PatientID).
		Msg("notification delivered")
	return nil
}
