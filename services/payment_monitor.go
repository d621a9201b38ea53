package services

import (
	"context"
	"sync"
	"time"

	"github.com/yeremiapane/sepatu-storefront/metrics"
	"github.com/yeremiapane/sepatu-storefront/models"
	"github.com/yeremiapane/sepatu-storefront/status"
	"github.com/yeremiapane/sepatu-storefront/utils"
	"gorm.io/gorm"
)

// PaymentMonitor mencocokkan submission yang masih menunggu dengan status di gateway,
// untuk kasus notifikasi webhook tidak sampai.
type PaymentMonitor struct {
	db        *gorm.DB
	gateway   GatewayClient
	payments  *PaymentService
	Interval  time.Duration
	BatchSize int

	stopOnce sync.Once
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewPaymentMonitor(db *gorm.DB, gateway GatewayClient) *PaymentMonitor {
	return &PaymentMonitor{
		db:        db,
		gateway:   gateway,
		payments:  NewPaymentService(db),
		Interval:  5 * time.Minute,
		BatchSize: 50,
		stopChan:  make(chan struct{}),
	}
}

// Start memulai goroutine rekonsiliasi
func (pm *PaymentMonitor) Start(ctx context.Context) {
	pm.wg.Add(1)
	go func() {
		defer pm.wg.Done()
		ticker := time.NewTicker(pm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := pm.Reconcile(ctx); err != nil {
					utils.ErrorLogger.Printf("Payment reconcile error: %v", err)
				}
			case <-pm.stopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	utils.InfoLogger.Println("Payment monitor started")
}

func (pm *PaymentMonitor) Stop() {
	pm.stopOnce.Do(func() {
		close(pm.stopChan)
	})
	pm.wg.Wait()
}

// Reconcile memeriksa satu batch submission tertunda dan mengembalikan jumlah yang berubah.
func (pm *PaymentMonitor) Reconcile(ctx context.Context) (int, error) {
	var pending []models.CheckoutSubmission
	err := pm.db.WithContext(ctx).
		Where("status IN ? AND payment_reference <> ''", []string{status.RawSubmitted, status.RawPending}).
		Order("created_at ASC").
		Limit(pm.BatchSize).
		Find(&pending).Error
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range pending {
		sub := &pending[i]
		if ctx.Err() != nil {
			return updated, ctx.Err()
		}

		gatewayStatus, err := pm.gateway.TransactionStatus(ctx, sub.PaymentReference)
		if err != nil {
			utils.ErrorLogger.Printf("Error checking transaction status for submission %s: %v", sub.ID, err)
			continue
		}

		changed, err := pm.payments.ApplyGatewayStatus(ctx, sub, gatewayStatus)
		if err != nil {
			utils.ErrorLogger.Printf("Error applying gateway status %q to submission %s: %v", gatewayStatus, sub.ID, err)
			continue
		}
		if changed {
			updated++
			metrics.PaymentReconciledTotal.WithLabelValues(sub.Status).Inc()
			utils.InfoLogger.Printf("Updated submission %s status to %s from reconcile", sub.ID, sub.Status)
		}
	}
	return updated, nil
}
