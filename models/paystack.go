package models

// PaystackInitRequest represents the transaction initialization payload
// sent to the Paystack API. Amount is in kobo (NGN minor unit).
type PaystackInitRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency,omitempty"`
	Reference   string `json:"reference,omitempty"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// PaystackResponse represents the standard response envelope from Paystack
type PaystackResponse struct {
	Status  bool                   `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

// PaystackAuthorization represents the hosted checkout data returned by
// transaction initialization
type PaystackAuthorization struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// PaystackVerification represents the fields of interest from transaction
// verification
type PaystackVerification struct {
	Status    string  `json:"status"` // "success", "failed", "abandoned"
	Reference string  `json:"reference"`
	Amount    int64   `json:"amount"` // kobo
	Currency  string  `json:"currency"`
	PaidAt    string  `json:"paid_at"`
	Fees      float64 `json:"fees"`
}

// InitializePaymentRequest is the body for starting a booking payment
type InitializePaymentRequest struct {
	BookingID string `json:"bookingId" validate:"required"`
}

// PaymentInitData is returned to the client so it can open the payment widget
type PaymentInitData struct {
	AuthorizationURL string `json:"authorizationUrl"`
	AccessCode       string `json:"accessCode"`
	Reference        string `json:"reference"`
}
