package stores

import (
	"context"

	"github.com/Aditya-Vasipalli/buymechai/models"
	"gorm.io/gorm"
)

type CreatorStore struct {
	BaseStore
}

func NewCreatorStore(db *gorm.DB) *CreatorStore {
	return &CreatorStore{BaseStore: BaseStore{db: db}}
}

func (s *CreatorStore) Create(ctx context.Context, creator *models.Creator) error {
	return s.GetDB(ctx).Create(creator).Error
}

func (s *CreatorStore) GetByID(ctx context.Context, id string) (*models.Creator, error) {
	var creator models.Creator
	if err := s.GetDB(ctx).First(&creator, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &creator, nil
}

func (s *CreatorStore) GetByUsername(ctx context.Context, username string) (*models.Creator, error) {
	var creator models.Creator
	if err := s.GetDB(ctx).First(&creator, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &creator, nil
}

func (s *CreatorStore) ListTiers(ctx context.Context, creatorID string) ([]*models.ChaiTier, error) {
	var tiers []*models.ChaiTier
	err := s.GetDB(ctx).
		Where("creator_id = ?", creatorID).
		Order("amount_paise ASC").
		Find(&tiers).Error
	if err != nil {
		return nil, err
	}
	return tiers, nil
}

// GetTeamMember scopes the lookup to the creator so an intent cannot route
// payment to another creator's team member.
func (s *CreatorStore) GetTeamMember(ctx context.Context, creatorID, memberID string) (*models.TeamMember, error) {
	var member models.TeamMember
	err := s.GetDB(ctx).
		Where("id = ? AND creator_id = ?", memberID, creatorID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}
