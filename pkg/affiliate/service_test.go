package affiliate

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/chalepay/voucher-api/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedger(t *testing.T) (*Service, *store.Workbook) {
	t.Helper()
	w, err := store.Create(filepath.Join(t.TempDir(), "vouchers.xlsx"))
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return NewService(w, 2.0), w
}

func TestAccrueCreatesAccountOnFirstSale(t *testing.T) {
	svc, w := newLedger(t)
	ctx := context.Background()

	require.NoError(t, svc.Accrue(ctx, "AFF1"))

	accounts, err := w.ListAffiliates(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "AFF1", accounts[0].Code)
	assert.Equal(t, 1, accounts[0].TotalSales)
	assert.Equal(t, 2.0, accounts[0].TotalCommission)
}

func TestAccrueAccumulates(t *testing.T) {
	svc, w := newLedger(t)
	ctx := context.Background()

	require.NoError(t, svc.Accrue(ctx, "AFF1"))
	require.NoError(t, svc.Accrue(ctx, "AFF1"))

	accounts, err := w.ListAffiliates(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, 2, accounts[0].TotalSales)
	assert.Equal(t, 4.0, accounts[0].TotalCommission)
}

func TestAccrueKeysOnExactCode(t *testing.T) {
	svc, w := newLedger(t)
	ctx := context.Background()

	require.NoError(t, svc.Accrue(ctx, "AFF1"))
	require.NoError(t, svc.Accrue(ctx, "aff1")) // different code, exact match only

	accounts, err := w.ListAffiliates(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestRecordSaleAppendsEvents(t *testing.T) {
	svc, w := newLedger(t)
	ctx := context.Background()

	require.NoError(t, svc.RecordSale(ctx, Sale{
		Code: "AFF1", BuyerPhone: "233551234567", Amount: 25, VoucherSerial: "WG-001",
	}))
	require.NoError(t, svc.RecordSale(ctx, Sale{
		Code: "AFF1", BuyerPhone: "233200000000", Amount: 25, VoucherSerial: "WG-002",
	}))

	// Two distinct events even under the same code: the log is append-only.
	require.NoError(t, svc.Accrue(ctx, "AFF1"))
	require.NoError(t, svc.Accrue(ctx, "AFF1"))

	accounts, err := w.ListAffiliates(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, 2, accounts[0].TotalSales)
	assert.Equal(t, 2*2.0, accounts[0].TotalCommission)
}
