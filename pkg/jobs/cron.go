package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/chalepay/voucher-api/pkg/email"
	"github.com/chalepay/voucher-api/pkg/metrics"
	"github.com/chalepay/voucher-api/pkg/voucher"
)

// CronManager runs the periodic stock sweep and daily summary.
type CronManager struct {
	cron              *cron.Cron
	vouchers          *voucher.Service
	emailService      *email.Service
	opsAlertEmail     string
	lowStockThreshold int

	// alerted suppresses repeat low-stock emails until stock recovers.
	alerted bool
}

func NewCronManager(vouchers *voucher.Service, emailService *email.Service, opsAlertEmail string, lowStockThreshold int) *CronManager {
	return &CronManager{
		cron:              cron.New(),
		vouchers:          vouchers,
		emailService:      emailService,
		opsAlertEmail:     opsAlertEmail,
		lowStockThreshold: lowStockThreshold,
	}
}

// Start registers the scheduled jobs and starts the scheduler.
func (cm *CronManager) Start() error {
	// Hourly low-stock sweep.
	if _, err := cm.cron.AddFunc("0 * * * *", func() {
		cm.runStockSweep()
	}); err != nil {
		return err
	}

	// Daily summary at 08:00.
	if _, err := cm.cron.AddFunc("0 8 * * *", func() {
		cm.runDailySummary()
	}); err != nil {
		return err
	}

	cm.cron.Start()
	log.Println("✅ Cron jobs started: hourly stock sweep, daily summary")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish.
func (cm *CronManager) Stop() {
	ctx := cm.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(10 * time.Second):
		log.Println("⚠️ Timed out waiting for cron jobs to finish")
	}
}

func (cm *CronManager) runStockSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	remaining, err := cm.vouchers.Remaining(ctx)
	if err != nil {
		log.Printf("❌ Stock sweep failed: %v", err)
		return
	}

	metrics.VouchersRemaining.Set(float64(remaining))

	if remaining >= cm.lowStockThreshold {
		cm.alerted = false
		return
	}

	log.Printf("⚠️ Low voucher stock: %d remaining (threshold %d)", remaining, cm.lowStockThreshold)

	if cm.alerted || cm.opsAlertEmail == "" {
		return
	}
	if err := cm.emailService.SendLowStockAlert(cm.opsAlertEmail, remaining); err != nil {
		log.Printf("⚠️ Failed to send low stock alert: %v", err)
		return
	}
	cm.alerted = true
}

func (cm *CronManager) runDailySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	remaining, err := cm.vouchers.Remaining(ctx)
	if err != nil {
		log.Printf("❌ Daily summary failed: %v", err)
		return
	}

	log.Printf("📊 Daily summary: %d vouchers remaining", remaining)
}
