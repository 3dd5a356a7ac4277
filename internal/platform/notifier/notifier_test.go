package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

func TestHTTPNotifier_DeliversEvent(t *testing.T) {
	var received Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewHTTP(srv.URL, 2*time.Second, testLogger())
	event := Event{
		Type:      EventBillGenerated,
		PatientID: 42,
		Message:   "Bill generated for appointment 7. Total amount: $105.00",
		Metadata:  map[string]interface{}{"bill_id": 1},
	}

	if err := n.Notify(context.Background(), event); err != nil {
		t.Fatalf("Notify() error: %v", err)
	}

	if received.Type != EventBillGenerated {
		t.Errorf("expected type %s, got %s", EventBillGenerated, received.Type)
	}
	if received.PatientID != 42 {
		t.Errorf("expected patient 42, got %d", received.PatientID)
	}
	if received.Message == "" {
		t.Error("expected non-empty message")
	}
}

func TestHTTPNotifier_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewHTTP(srv.URL, 2*time.Second, testLogger())
	err := n.Notify(context.Background(), Event{Type: EventBillPaid, PatientID: 1})
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
}

func TestHTTPNotifier_UnreachableService(t *testing.T) {
	n := NewHTTP("http://127.0.0.1:1", 200*time.Millisecond, testLogger())
	err := n.Notify(context.Background(), Event{Type: EventBillPaid, PatientID: 1})
	if err == nil {
		t.Fatal("expected error for unreachable service")
	}
}

func TestHTTPNotifier_DisabledWhenURLEmpty(t *testing.T) {
	n := NewHTTP("", 2*time.Second, testLogger())
	if err := n.Notify(context.Background(), Event{Type: EventBillCancelled, PatientID: 9}); err != nil {
		t.Fatalf("expected disabled notifier to succeed, got %v", err)
	}
}
