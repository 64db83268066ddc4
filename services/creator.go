package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Aditya-Vasipalli/buymechai/cache"
	"github.com/Aditya-Vasipalli/buymechai/models"
	"github.com/Aditya-Vasipalli/buymechai/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const creatorPageCacheTTL = 5 * time.Minute

type creatorReader interface {
	GetByID(ctx context.Context, id string) (*models.Creator, error)
	GetByUsername(ctx context.Context, username string) (*models.Creator, error)
	ListTiers(ctx context.Context, creatorID string) ([]*models.ChaiTier, error)
}

type goalStore interface {
	Create(ctx context.Context, goal *models.FundingGoal) error
	ListActiveByCreator(ctx context.Context, creatorID string) ([]*models.FundingGoal, error)
}

type ledgerReader interface {
	ListByCreator(ctx context.Context, creatorID string, limit, offset int) ([]*models.Transaction, int64, error)
	TotalForCreator(ctx context.Context, creatorID string) (int64, error)
}

type pageCache interface {
	Get(ctx context.Context, key string) (string, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CreatorService serves the public creator page and the creator-facing goal
// and transaction reads. Page data is redis-cached; the cache is optional
// and every miss or cache failure falls through to the store.
type CreatorService struct {
	creators creatorReader
	goals    goalStore
	ledger   ledgerReader
	cache    pageCache
}

func NewCreatorService(creators creatorReader, goals goalStore, ledger ledgerReader, redisCache *cache.RedisCache) *CreatorService {
	s := &CreatorService{
		creators: creators,
		goals:    goals,
		ledger:   ledger,
	}
	// A nil *RedisCache must stay a nil interface.
	if redisCache != nil {
		s.cache = redisCache
	}
	return s
}

func pageCacheKey(username string) string {
	return "creator_page:" + username
}

func (s *CreatorService) GetPage(ctx context.Context, username string) (*models.CreatorPageResponse, error) {
	if username == "" {
		return nil, validationError("username is required")
	}

	cacheKey := pageCacheKey(username)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var page models.CreatorPageResponse
			if err := json.Unmarshal([]byte(cached), &page); err == nil {
				return &page, nil
			}
		}
	}

	creator, err := s.creators.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageError(err)
	}

	tiers, err := s.creators.ListTiers(ctx, creator.ID)
	if err != nil {
		return nil, storageError(err)
	}

	goals, err := s.goals.ListActiveByCreator(ctx, creator.ID)
	if err != nil {
		return nil, storageError(err)
	}

	page := &models.CreatorPageResponse{
		Creator: creator,
		Tiers:   tiers,
		Goals:   goals,
	}

	if s.cache != nil {
		if data, err := json.Marshal(page); err == nil {
			if err := s.cache.SetWithTTL(ctx, cacheKey, string(data), creatorPageCacheTTL); err != nil {
				utils.Warn(ctx, "creator page cache write failed", map[string]interface{}{
					"username": username,
					"error":    err.Error(),
				})
			}
		}
	}

	return page, nil
}

func (s *CreatorService) CreateGoal(ctx context.Context, creatorID string, req *models.CreateGoalRequest) (*models.FundingGoal, error) {
	if creatorID == "" {
		return nil, validationError("creator_id is required")
	}
	if req.Title == "" {
		return nil, validationError("title is required")
	}
	if req.TargetAmountPaise <= 0 {
		return nil, validationError("target_amount_paise must be positive")
	}

	goal := &models.FundingGoal{
		ID:                uuid.NewString(),
		CreatorID:         creatorID,
		Title:             req.Title,
		Description:       req.Description,
		TargetAmountPaise: req.TargetAmountPaise,
		IsActive:          true,
	}

	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, storageError(err)
	}

	// The public page lists active goals; drop its cached copy so the new
	// goal shows up immediately instead of after the cache TTL.
	s.invalidatePage(ctx, creatorID)

	return goal, nil
}

func (s *CreatorService) invalidatePage(ctx context.Context, creatorID string) {
	if s.cache == nil {
		return
	}
	creator, err := s.creators.GetByID(ctx, creatorID)
	if err != nil {
		return
	}
	if err := s.cache.Delete(ctx, pageCacheKey(creator.Username)); err != nil {
		utils.Warn(ctx, "creator page cache invalidation failed", map[string]interface{}{
			"creator_id": creatorID,
			"error":      err.Error(),
		})
	}
}

func (s *CreatorService) ListGoals(ctx context.Context, creatorID string) ([]*models.FundingGoal, error) {
	if creatorID == "" {
		return nil, validationError("creator_id is required")
	}
	goals, err := s.goals.ListActiveByCreator(ctx, creatorID)
	if err != nil {
		return nil, storageError(err)
	}
	return goals, nil
}

// ListTransactions returns the verified support feed, newest first, with the
// all-time verified total alongside.
func (s *CreatorService) ListTransactions(ctx context.Context, creatorID string, limit, offset int) (*models.TransactionListResponse, error) {
	if creatorID == "" {
		return nil, validationError("creator_id is required")
	}

	txns, total, err := s.ledger.ListByCreator(ctx, creatorID, limit, offset)
	if err != nil {
		return nil, storageError(err)
	}

	totalPaise, err := s.ledger.TotalForCreator(ctx, creatorID)
	if err != nil {
		return nil, storageError(err)
	}

	return &models.TransactionListResponse{
		Transactions: txns,
		Total:        total,
		TotalPaise:   totalPaise,
	}, nil
}
