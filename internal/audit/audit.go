// Package audit is the best-effort event trail for money movement. Recording
// never fails the business operation it describes: errors are logged and
// swallowed.
package audit

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/finvero/corebank/internal/domain/model"
)

// Event is one audit emission. Context must already be redacted: no raw card
// numbers, CVVs, or one-time codes.
type Event struct {
	Kind          model.AuditKind
	TransactionID *int64
	UserID        int64
	MerchantID    int64
	Amount        decimal.Decimal
	Status        string
	Context       model.JSONB
	SourceAddress string
}

// Recorder receives audit events.
type Recorder interface {
	Record(ctx context.Context, e Event)
}

type storeRecorder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStoreRecorder creates a Recorder that appends events to the store.
func NewStoreRecorder(db *gorm.DB, logger *zap.Logger) Recorder {
	return &storeRecorder{
		db:     db,
		logger: logger,
	}
}

// Record appends the event. Uses its own store session so a rolled-back
// business transaction cannot drag the audit write down with it.
func (r *storeRecorder) Record(ctx context.Context, e Event) {
	record := model.AuditRecord{
		Kind:          e.Kind,
		TransactionID: e.TransactionID,
		UserID:        e.UserID,
		MerchantID:    e.MerchantID,
		Amount:        e.Amount,
		Status:        e.Status,
		Context:       e.Context,
		SourceAddress: e.SourceAddress,
	}

	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		r.logger.Error("failed to record audit event",
			zap.String("kind", string(e.Kind)),
			zap.Int64("user_id", e.UserID),
			zap.Error(err))
	}
}

// NopRecorder discards every event. Used in tests.
type NopRecorder struct{}

func (NopRecorder) Record(ctx context.Context, e Event) {}
