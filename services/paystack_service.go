package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/alhijra-ng/alhijra_backend/models"
)

// PaystackService handles interactions with the Paystack API
type PaystackService struct {
	baseURL     string
	secretKey   string
	callbackURL string
	client      *http.Client
}

// NewPaystackService creates a new Paystack service instance
func NewPaystackService() *PaystackService {
	secretKey := os.Getenv("PAYSTACK_SECRET_KEY")
	callbackURL := os.Getenv("PAYSTACK_CALLBACK_URL")

	if secretKey == "" {
		log.Printf("WARNING: PAYSTACK_SECRET_KEY is not configured")
		log.Printf("Please set this environment variable for the payment service to work")
	}

	baseURL := os.Getenv("PAYSTACK_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}

	return &PaystackService{
		baseURL:     baseURL,
		secretKey:   secretKey,
		callbackURL: callbackURL,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

// makeRequest performs an HTTP request to the Paystack API
func (s *PaystackService) makeRequest(method, endpoint string, payload interface{}) (*models.PaystackResponse, error) {
	if s.secretKey == "" {
		return nil, fmt.Errorf("missing Paystack credentials. Please set PAYSTACK_SECRET_KEY environment variable")
	}

	reqURL := s.baseURL + endpoint

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.secretKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if os.Getenv("PAYSTACK_DEBUG") == "true" {
		log.Printf("Paystack API response (%s %s): %s", method, endpoint, string(respBody))
	}

	var psResp models.PaystackResponse
	if err := json.Unmarshal(respBody, &psResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w\nResponse body: %s", err, string(respBody))
	}

	if !psResp.Status {
		log.Printf("Paystack API error: %s", psResp.Message)
		return &psResp, fmt.Errorf("paystack API error: %s", psResp.Message)
	}

	return &psResp, nil
}

// InitializeTransaction creates a hosted checkout for a booking payment and
// returns the authorization URL, access code and reference. Amount is in
// NGN; Paystack expects kobo.
func (s *PaystackService) InitializeTransaction(email string, amountNgn float64, reference string) (*models.PaystackAuthorization, error) {
	payload := models.PaystackInitRequest{
		Email:       email,
		Amount:      int64(amountNgn * 100),
		Currency:    "NGN",
		Reference:   reference,
		CallbackURL: s.callbackURL,
	}

	resp, err := s.makeRequest("POST", "/transaction/initialize", payload)
	if err != nil {
		return nil, err
	}

	auth := &models.PaystackAuthorization{}
	if v, ok := resp.Data["authorization_url"].(string); ok {
		auth.AuthorizationURL = v
	}
	if v, ok := resp.Data["access_code"].(string); ok {
		auth.AccessCode = v
	}
	if v, ok := resp.Data["reference"].(string); ok {
		auth.Reference = v
	}

	if auth.AuthorizationURL == "" {
		return nil, fmt.Errorf("failed to parse authorization URL from response")
	}

	return auth, nil
}

// VerifyTransaction confirms a payment reference with Paystack and returns
// the authoritative transaction state. The caller must treat this, not any
// client-side callback, as the source of truth.
func (s *PaystackService) VerifyTransaction(reference string) (*models.PaystackVerification, error) {
	resp, err := s.makeRequest("GET", "/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, err
	}

	verification := &models.PaystackVerification{}
	if v, ok := resp.Data["status"].(string); ok {
		verification.Status = v
	}
	if v, ok := resp.Data["reference"].(string); ok {
		verification.Reference = v
	}
	if v, ok := resp.Data["amount"].(float64); ok {
		verification.Amount = int64(v)
	}
	if v, ok := resp.Data["currency"].(string); ok {
		verification.Currency = v
	}
	if v, ok := resp.Data["paid_at"].(string); ok {
		verification.PaidAt = v
	}
	if v, ok := resp.Data["fees"].(float64); ok {
		verification.Fees = v
	}

	if verification.Status == "" {
		return nil, fmt.Errorf("failed to parse transaction status from response")
	}

	return verification, nil
}
