package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestPaystack(t *testing.T, handler http.HandlerFunc) *PaystackService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_secret")
	t.Setenv("PAYSTACK_BASE_URL", srv.URL)
	return NewPaystackService()
}

func TestInitializeTransaction(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]interface{}

	svc := newTestPaystack(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/initialize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotPayload)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]interface{}{
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code":       "abc123",
				"reference":         "alhijra_ref_1",
			},
		})
	})

	auth, err := svc.InitializeTransaction("pilgrim@example.com", 1500000, "alhijra_ref_1")
	if err != nil {
		t.Fatalf("InitializeTransaction: %v", err)
	}

	if gotAuth != "Bearer sk_test_secret" {
		t.Errorf("Authorization header = %q", gotAuth)
	}
	// NGN converts to kobo
	if amount, _ := gotPayload["amount"].(float64); amount != 150000000 {
		t.Errorf("amount = %v kobo, want 150000000", gotPayload["amount"])
	}
	if gotPayload["currency"] != "NGN" {
		t.Errorf("currency = %v, want NGN", gotPayload["currency"])
	}
	if auth.AuthorizationURL != "https://checkout.paystack.com/abc123" {
		t.Errorf("authorization URL = %q", auth.AuthorizationURL)
	}
	if auth.Reference != "alhijra_ref_1" {
		t.Errorf("reference = %q", auth.Reference)
	}
}

func TestInitializeTransactionAPIError(t *testing.T) {
	svc := newTestPaystack(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  false,
			"message": "Invalid key",
		})
	})

	if _, err := svc.InitializeTransaction("x@example.com", 100, "ref"); err == nil {
		t.Fatal("expected error on status=false response")
	}
}

func TestVerifyTransaction(t *testing.T) {
	svc := newTestPaystack(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/alhijra_ref_2" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]interface{}{
				"status":    "success",
				"reference": "alhijra_ref_2",
				"amount":    150000000,
				"currency":  "NGN",
				"paid_at":   "2026-08-30T10:00:00.000Z",
			},
		})
	})

	v, err := svc.VerifyTransaction("alhijra_ref_2")
	if err != nil {
		t.Fatalf("VerifyTransaction: %v", err)
	}
	if v.Status != "success" {
		t.Errorf("status = %q", v.Status)
	}
	if v.Amount != 150000000 {
		t.Errorf("amount = %d kobo", v.Amount)
	}
	if v.Currency != "NGN" {
		t.Errorf("currency = %q", v.Currency)
	}
}

func TestMissingSecretKey(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET_KEY", "")
	svc := NewPaystackService()

	if _, err := svc.InitializeTransaction("x@example.com", 100, "ref"); err == nil {
		t.Fatal("expected error when secret key is missing")
	}
}
