package sms

import (
	"context"
	"fmt"
	"log"
)

// Provider defines the interface for SMS delivery providers (Arkesel, etc.)
type Provider interface {
	Send(ctx context.Context, to, message string) (*Result, error)
}

// Result holds the provider's response for one sent message.
type Result struct {
	Status    string
	MessageID string
}

// voucherTemplate is the fixed delivery message. Serial first, PIN second.
const voucherTemplate = "Payment received!\nYour voucher:\nSerial: %s\nPIN: %s\nThank you for buying from ChalePay."

// Service delivers voucher details to buyers by SMS.
type Service struct {
	provider Provider
}

// NewService creates a new SMS service.
func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// SendVoucher sends the voucher message to a normalized phone number.
// The caller treats a failure as best-effort: the voucher is already
// allocated and is never returned to inventory on delivery failure.
func (s *Service) SendVoucher(ctx context.Context, phone, serial, pin string) error {
	message := fmt.Sprintf(voucherTemplate, serial, pin)

	result, err := s.provider.Send(ctx, phone, message)
	if err != nil {
		return fmt.Errorf("failed to send voucher SMS to %s: %w", phone, err)
	}

	log.Printf("📱 Voucher SMS sent to %s (status: %s)", phone, result.Status)
	return nil
}
