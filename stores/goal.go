package stores

import (
	"context"

	"github.com/Aditya-Vasipalli/buymechai/models"
	"gorm.io/gorm"
)

type FundingGoalStore struct {
	BaseStore
}

func NewFundingGoalStore(db *gorm.DB) *FundingGoalStore {
	return &FundingGoalStore{BaseStore: BaseStore{db: db}}
}

func (s *FundingGoalStore) Create(ctx context.Context, goal *models.FundingGoal) error {
	return s.GetDB(ctx).Create(goal).Error
}

func (s *FundingGoalStore) ListActiveByCreator(ctx context.Context, creatorID string) ([]*models.FundingGoal, error) {
	var goals []*models.FundingGoal
	err := s.GetDB(ctx).
		Where("creator_id = ? AND is_active = ?", creatorID, true).
		Order("created_at DESC").
		Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

// IncrementAmount adds to the goal's running total with a single SQL
// increment. Concurrent finalizations against the same goal must not lose
// updates, so this never reads the current value first.
func (s *FundingGoalStore) IncrementAmount(ctx context.Context, id string, amountPaise int64) error {
	result := s.GetDB(ctx).
		Model(&models.FundingGoal{}).
		Where("id = ?", id).
		UpdateColumn("current_amount_paise", gorm.Expr("current_amount_paise + ?", amountPaise))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
