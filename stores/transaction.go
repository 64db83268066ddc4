package stores

import (
	"context"
	"errors"

	"github.com/Aditya-Vasipalli/buymechai/models"
	"gorm.io/gorm"
)

type TransactionStore struct {
	BaseStore
}

func NewTransactionStore(db *gorm.DB) *TransactionStore {
	return &TransactionStore{BaseStore: BaseStore{db: db}}
}

// Create inserts a finalized ledger row. The unique index on payment_uid is
// the second line of defense against double finalization; a collision
// surfaces as ErrDuplicateToken.
func (s *TransactionStore) Create(ctx context.Context, txn *models.Transaction) error {
	err := s.GetDB(ctx).Create(txn).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateToken
	}
	return err
}

func (s *TransactionStore) ListByCreator(ctx context.Context, creatorID string, limit, offset int) ([]*models.Transaction, int64, error) {
	var txns []*models.Transaction
	var total int64

	query := s.GetDB(ctx).Model(&models.Transaction{}).Where("creator_id = ?", creatorID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Order("verified_at DESC").Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

func (s *TransactionStore) TotalForCreator(ctx context.Context, creatorID string) (int64, error) {
	var total int64
	err := s.GetDB(ctx).
		Model(&models.Transaction{}).
		Where("creator_id = ?", creatorID).
		Select("COALESCE(SUM(amount_paise), 0)").
		Scan(&total).Error
	return total, err
}
