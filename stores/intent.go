package stores

import (
	"context"
	"errors"
	"time"

	"github.com/Aditya-Vasipalli/buymechai/models"
	"gorm.io/gorm"
)

var (
	// ErrAlreadyUsed is returned by MarkUsed when the intent was consumed
	// by an earlier (possibly concurrent) verification.
	ErrAlreadyUsed = errors.New("intent already used")
	// ErrDuplicateToken is returned when an insert collides with an
	// existing payment UID.
	ErrDuplicateToken = errors.New("duplicate payment uid")
)

type IntentStore struct {
	BaseStore
}

func NewIntentStore(db *gorm.DB) *IntentStore {
	return &IntentStore{BaseStore: BaseStore{db: db}}
}

func (s *IntentStore) Create(ctx context.Context, intent *models.PendingIntent) error {
	err := s.GetDB(ctx).Create(intent).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateToken
	}
	return err
}

// FindActiveByToken returns the intent only if it belongs to the creator,
// has not expired, and has not been used.
func (s *IntentStore) FindActiveByToken(ctx context.Context, creatorID, paymentUID string, now time.Time) (*models.PendingIntent, error) {
	var intent models.PendingIntent
	err := s.GetDB(ctx).
		Where("payment_uid = ? AND creator_id = ? AND expires_at > ? AND used_at IS NULL", paymentUID, creatorID, now).
		First(&intent).Error
	if err != nil {
		return nil, err
	}
	return &intent, nil
}

// ListActiveForCreator returns unexpired, unused intents most recent first,
// so a duplicate token match prefers the latest intent.
func (s *IntentStore) ListActiveForCreator(ctx context.Context, creatorID string, now time.Time) ([]*models.PendingIntent, error) {
	var intents []*models.PendingIntent
	err := s.GetDB(ctx).
		Where("creator_id = ? AND expires_at > ? AND used_at IS NULL", creatorID, now).
		Order("created_at DESC").
		Find(&intents).Error
	if err != nil {
		return nil, err
	}
	return intents, nil
}

// MarkUsed consumes the intent with a single conditional update. The
// used_at IS NULL guard makes it a compare-and-swap: of two racing callers
// exactly one sees a row updated, the other gets ErrAlreadyUsed.
func (s *IntentStore) MarkUsed(ctx context.Context, id string, usedAt time.Time) error {
	result := s.GetDB(ctx).
		Model(&models.PendingIntent{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", usedAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyUsed
	}
	return nil
}

// DeleteExpired removes intents whose expiry passed more than the retention
// window ago. Used intents inside the window stay for audit.
func (s *IntentStore) DeleteExpired(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := s.GetDB(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&models.PendingIntent{})
	return result.RowsAffected, result.Error
}
