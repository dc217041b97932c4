package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewServiceConsoleMode(t *testing.T) {
	svc := NewService("noreply@chalepay.app", "ChalePay", "")
	assert.False(t, svc.useSendGrid)

	// Console mode never fails.
	assert.NoError(t, svc.SendVoucherCopy("k@example.com", "Kwame", "WG-001", "4321"))
	assert.NoError(t, svc.SendLowStockAlert("ops@chalepay.app", 3))
}

func TestNewServiceSendGridMode(t *testing.T) {
	svc := NewService("noreply@chalepay.app", "ChalePay", "SG.test-key")
	assert.True(t, svc.useSendGrid)
}
