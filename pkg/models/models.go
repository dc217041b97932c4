package models

// ErrorResponse is the standard error shape returned by all endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CreatePaymentRequest is the body of POST /create-payment.
// The ref field carries an optional affiliate referral code.
type CreatePaymentRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Ref   string `json:"ref,omitempty"`
}

// CreatePaymentResponse is returned after a gateway session is created.
type CreatePaymentResponse struct {
	AuthorizationURL string  `json:"authorization_url"`
	Reference        string  `json:"reference"`
	Amount           float64 `json:"amount"`
}

// WebhookAck is the body returned to the gateway for every acknowledged
// webhook delivery. Status is one of: ok, ignored, already processed,
// no vouchers.
type WebhookAck struct {
	Status string `json:"status"`
}
