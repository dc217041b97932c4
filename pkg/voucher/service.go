package voucher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chalepay/voucher-api/pkg/store"
)

// ErrNoVouchers is returned when the inventory holds no unused rows.
// Exhaustion is a normal, user-visible outcome, not a fault: callers
// acknowledge it ("no vouchers left") rather than erroring.
var ErrNoVouchers = errors.New("no vouchers available")

// StatusUsed is the marker written to a consumed row.
const StatusUsed = "USED"

// Allocation is the payload handed to the buyer.
type Allocation struct {
	Serial string
	PIN    string
}

// Service allocates vouchers from the shared inventory.
//
// Allocate runs a read-scan-write sequence against the store; without
// coordination two concurrent webhook deliveries could both pick the same
// first eligible row. The service mutex serializes the whole sequence,
// which is sound because this process is the sole writer to the voucher store.
type Service struct {
	store store.TabularStore
	mu    sync.Mutex
}

// NewService creates a new voucher allocator.
func NewService(st store.TabularStore) *Service {
	return &Service{store: st}
}

// Allocate finds the lowest-index unused voucher row, marks it used with the
// buyer's details, and returns its serial and PIN. Returns ErrNoVouchers
// when the inventory is exhausted.
func (s *Service) Allocate(ctx context.Context, buyerPhone, buyerEmail, affiliateCode string) (*Allocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.store.ListVouchers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read voucher inventory: %w", err)
	}

	for _, row := range rows {
		if !available(row.Status) {
			continue
		}

		row.Status = StatusUsed
		row.AssignedPhone = buyerPhone
		row.AssignedEmail = buyerEmail
		row.AssignedAt = time.Now().UTC().Format(time.RFC3339)
		row.AffiliateCode = affiliateCode

		if err := s.store.UpdateVoucher(ctx, row); err != nil {
			return nil, fmt.Errorf("failed to mark voucher %s used: %w", row.Serial, err)
		}

		return &Allocation{Serial: row.Serial, PIN: row.PIN}, nil
	}

	return nil, ErrNoVouchers
}

// Remaining counts unused rows, for the stock gauge and the low-stock sweep.
func (s *Service) Remaining(ctx context.Context) (int, error) {
	rows, err := s.store.ListVouchers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read voucher inventory: %w", err)
	}

	count := 0
	for _, row := range rows {
		if available(row.Status) {
			count++
		}
	}
	return count, nil
}

// available reports whether a status cell marks the row as still unassigned.
// Sheets seeded by hand carry both "used" and "yes" as consumed markers, in
// mixed case and with stray whitespace.
func available(status string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	return s != "used" && s != "yes"
}
