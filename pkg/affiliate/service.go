package affiliate

import (
	"context"
	"fmt"
	"time"

	"github.com/chalepay/voucher-api/pkg/store"
)

// Sale holds data for recording one fulfilled sale under a referral code.
type Sale struct {
	Code          string
	BuyerPhone    string
	Amount        float64
	VoucherSerial string
}

// Service keeps the affiliate books: an append-only sale-event log and a
// per-code running total.
//
// RecordSale and Accrue are deliberately unlinked: the webhook handler
// invokes both with separate failure boundaries, so one failing never
// blocks the other or the response. Affiliate bookkeeping is best-effort
// relative to voucher delivery.
type Service struct {
	store      store.TabularStore
	commission float64
}

// NewService creates a new affiliate ledger. commission is the fixed amount
// credited per sale; it is never derived from the transaction amount.
func NewService(st store.TabularStore, commission float64) *Service {
	return &Service{store: st, commission: commission}
}

// RecordSale appends one sale event unconditionally.
func (s *Service) RecordSale(ctx context.Context, sale Sale) error {
	err := s.store.AppendSale(ctx, store.SaleRow{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Code:          sale.Code,
		BuyerPhone:    sale.BuyerPhone,
		Amount:        sale.Amount,
		Commission:    s.commission,
		VoucherSerial: sale.VoucherSerial,
		Paid:          "pending",
	})
	if err != nil {
		return fmt.Errorf("failed to record sale for %s: %w", sale.Code, err)
	}
	return nil
}

// Accrue credits one sale and one commission unit to the account with the
// given code, creating the account on first sale.
func (s *Service) Accrue(ctx context.Context, code string) error {
	accounts, err := s.store.ListAffiliates(ctx)
	if err != nil {
		return fmt.Errorf("failed to read affiliate accounts: %w", err)
	}

	for _, acct := range accounts {
		if acct.Code != code {
			continue
		}
		err := s.store.UpdateAffiliateTotals(ctx, acct.Index, acct.TotalSales+1, acct.TotalCommission+s.commission)
		if err != nil {
			return fmt.Errorf("failed to update totals for %s: %w", code, err)
		}
		return nil
	}

	// First sale under this code.
	err = s.store.AppendAffiliate(ctx, store.AffiliateRow{
		Code:            code,
		TotalSales:      1,
		TotalCommission: s.commission,
	})
	if err != nil {
		return fmt.Errorf("failed to create affiliate account %s: %w", code, err)
	}
	return nil
}
