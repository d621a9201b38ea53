package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeremiapane/sepatu-storefront/models"
	"github.com/yeremiapane/sepatu-storefront/status"
	"gorm.io/gorm"
)

var ErrUnknownGatewayStatus = errors.New("status gateway tidak dikenal")

// openStatuses adalah status mentah yang masih boleh ditimpa hasil gateway.
var openStatuses = []string{status.RawSubmitted, status.RawPending, "draft"}

// PaymentService menulis hasil pembayaran dari gateway ke submission dan order terkait.
type PaymentService struct {
	db *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

// FindSubmissionByReference mencari submission berdasarkan order_id yang dikirim ke gateway.
func (s *PaymentService) FindSubmissionByReference(ctx context.Context, reference string) (*models.CheckoutSubmission, error) {
	var sub models.CheckoutSubmission
	if err := s.db.WithContext(ctx).Where("payment_reference = ?", reference).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// ApplyGatewayStatus memetakan transaction_status lewat status.FromGateway lalu menyimpan
// status mentah ke submission dan order yang dibuat darinya. changed false berarti
// tidak ada yang ditulis: status tampilan sama, atau submission sudah final di database
// (notifikasi yang datang terlambat tidak memundurkan status).
func (s *PaymentService) ApplyGatewayStatus(ctx context.Context, sub *models.CheckoutSubmission, transactionStatus string) (changed bool, err error) {
	raw := status.FromGateway(transactionStatus)
	if raw == "" {
		return false, fmt.Errorf("%w: %q", ErrUnknownGatewayStatus, transactionStatus)
	}
	if status.Normalize(raw) == status.Normalize(sub.Status) {
		return false, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CheckoutSubmission{}).
			Where("id = ? AND status IN ?", sub.ID, openStatuses).
			Update("status", raw)
		if res.Error != nil {
			return fmt.Errorf("failed to update submission status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true

		// order yang sudah final tidak ditimpa
		if err := tx.Model(&models.Order{}).
			Where("checkout_submission_id = ? AND status IN ?", sub.ID, openStatuses).
			Update("status", raw).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	sub.Status = raw
	return true, nil
}
