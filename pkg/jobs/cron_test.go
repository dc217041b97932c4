package jobs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chalepay/voucher-api/pkg/email"
	"github.com/chalepay/voucher-api/pkg/store"
	"github.com/chalepay/voucher-api/pkg/voucher"
)

func newTestManager(t *testing.T, seeded int) *CronManager {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vouchers.xlsx")
	wb, err := store.Create(path)
	require.NoError(t, err)
	t.Cleanup(func() { wb.Close() })

	for i := 0; i < seeded; i++ {
		row := store.VoucherRow{
			Index:  i + 2,
			Serial: "SER-" + string(rune('A'+i)),
			PIN:    "0000",
		}
		require.NoError(t, wb.UpdateVoucher(context.Background(), row))
	}

	vouchers := voucher.NewService(wb)
	emails := email.NewService("ops@chalepay.app", "ChalePay", "")

	return NewCronManager(vouchers, emails, "ops@chalepay.app", 10)
}

func TestStockSweepBelowThresholdAlertsOnce(t *testing.T) {
	cm := newTestManager(t, 3)

	cm.runStockSweep()
	assert.True(t, cm.alerted, "sweep below threshold should mark alerted")

	// A second sweep with stock still low must not re-alert.
	cm.runStockSweep()
	assert.True(t, cm.alerted)
}

func TestStockSweepAboveThresholdResetsAlert(t *testing.T) {
	cm := newTestManager(t, 25)
	cm.alerted = true

	cm.runStockSweep()
	assert.False(t, cm.alerted, "healthy stock should reset the alert latch")
}

func TestCronManagerStartStop(t *testing.T) {
	cm := newTestManager(t, 5)

	require.NoError(t, cm.Start())
	cm.Stop()
}
