package payments

import (
	"context"
	"log"
	"time"

	"github.com/chalepay/voucher-api/pkg/store"
)

// Record is one processed payment, keyed by the gateway reference.
type Record struct {
	Reference     string
	Phone         string
	Email         string
	Amount        float64
	VoucherSerial string
	AffiliateCode string
}

// Guard detects duplicate webhook deliveries. Gateways retry delivery on
// non-2xx or timeout, so repeats are expected, not exceptional.
//
// Policy: an unreadable log fails OPEN. Seen reports false rather than
// blocking all processing. This deliberately favors availability of voucher
// delivery over strict duplicate prevention.
type Guard interface {
	Seen(ctx context.Context, reference string) (bool, error)
	Record(ctx context.Context, rec Record) error
}

// SheetGuard keeps the payment log in the workbook's Payments sheet and
// answers membership by scanning the reference column.
type SheetGuard struct {
	store store.TabularStore
}

// NewSheetGuard creates a workbook-backed idempotency guard.
func NewSheetGuard(st store.TabularStore) *SheetGuard {
	return &SheetGuard{store: st}
}

// Seen reports whether the reference was already processed. A read failure
// fails open.
func (g *SheetGuard) Seen(ctx context.Context, reference string) (bool, error) {
	refs, err := g.store.ListPaymentRefs(ctx)
	if err != nil {
		log.Printf("⚠️  Payment log unreadable, failing open for %s: %v", reference, err)
		return false, nil
	}

	for _, r := range refs {
		if r == reference {
			return true, nil
		}
	}
	return false, nil
}

// Record appends the payment to the log.
func (g *SheetGuard) Record(ctx context.Context, rec Record) error {
	return g.store.AppendPayment(ctx, store.PaymentRow{
		Reference:     rec.Reference,
		Phone:         rec.Phone,
		Email:         rec.Email,
		Amount:        rec.Amount,
		VoucherSerial: rec.VoucherSerial,
		AffiliateCode: rec.AffiliateCode,
		LoggedAt:      time.Now().UTC().Format(time.RFC3339),
	})
}
