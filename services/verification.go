package services

import (
	"context"
	"errors"
	"time"

	"github.com/Aditya-Vasipalli/buymechai/models"
	"github.com/Aditya-Vasipalli/buymechai/stores"
	"github.com/Aditya-Vasipalli/buymechai/token"
	"github.com/Aditya-Vasipalli/buymechai/utils"
	"github.com/google/uuid"
)

type intentMatcher interface {
	ListActiveForCreator(ctx context.Context, creatorID string, now time.Time) ([]*models.PendingIntent, error)
	MarkUsed(ctx context.Context, id string, usedAt time.Time) error
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}

type ledgerWriter interface {
	Create(ctx context.Context, txn *models.Transaction) error
}

// VerificationService reconciles a supporter-presented token against the
// creator's outstanding intents. Matching is scan-and-match: the presented
// token is trimmed of copy-paste whitespace and compared exactly against
// each active candidate, newest first. The cost is O(active intents per
// creator), which the intent TTL keeps small.
//
// Finalization (consume the intent, write the ledger row) runs in one
// transaction: a failed ledger write rolls the consumed intent back, so a
// supporter can retry after a transient storage fault. At-most-once rests on
// two independent guards inside that boundary: the intent store's
// compare-and-swap on used_at, and the ledger's unique payment_uid index.
type VerificationService struct {
	intents   intentMatcher
	ledger    ledgerWriter
	projector *LedgerProjector
	now       func() time.Time
}

func NewVerificationService(intents intentMatcher, ledger ledgerWriter, projector *LedgerProjector) *VerificationService {
	return &VerificationService{
		intents:   intents,
		ledger:    ledger,
		projector: projector,
		now:       time.Now,
	}
}

func (s *VerificationService) Verify(ctx context.Context, req *models.VerifyRequest) (*models.Transaction, error) {
	if req.Token == "" {
		return nil, validationError("token is required")
	}
	if req.CreatorID == "" {
		return nil, validationError("creator_id is required")
	}

	now := s.now()
	presented := token.Normalize(req.Token)

	// A long-form token carries a checksum over its body; a failing one is
	// a mangled transcription and cannot match anything, so reject it
	// before scanning. The answer stays the generic one.
	if token.IsLongForm(presented) && !token.ChecksumOK(presented) {
		return nil, ErrNotFound
	}

	candidates, err := s.intents.ListActiveForCreator(ctx, req.CreatorID, now)
	if err != nil {
		return nil, storageError(err)
	}
	utils.Debug(ctx, "scanning active intents", map[string]interface{}{
		"creator_id": req.CreatorID,
		"candidates": len(candidates),
	})

	var intent *models.PendingIntent
	for _, candidate := range candidates {
		if candidate.PaymentUID == presented {
			intent = candidate
			break
		}
	}
	if intent == nil {
		// Missing, expired, used and wrong-creator all collapse into the
		// same answer so the endpoint leaks nothing about which tokens
		// exist.
		return nil, ErrNotFound
	}

	var txn *models.Transaction
	err = s.intents.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.intents.MarkUsed(txCtx, intent.ID, now); err != nil {
			return err
		}
		txn = &models.Transaction{
			ID:               uuid.NewString(),
			PaymentUID:       intent.PaymentUID,
			CreatorID:        intent.CreatorID,
			TeamMemberID:     intent.TeamMemberID,
			FundingGoalID:    intent.FundingGoalID,
			ChaiTierID:       intent.ChaiTierID,
			SupporterName:    intent.SupporterName,
			SupporterMessage: intent.SupporterMessage,
			AmountPaise:      intent.AmountPaise,
			Status:           models.TransactionStatusVerified,
			VerifiedAt:       now,
		}
		return s.ledger.Create(txCtx, txn)
	})
	if err != nil {
		if errors.Is(err, stores.ErrAlreadyUsed) || errors.Is(err, stores.ErrDuplicateToken) {
			return nil, ErrAlreadyUsed
		}
		// Rolled back: the intent stays active and the supporter can retry
		// once storage recovers.
		utils.Error(ctx, "finalization failed, intent rolled back", map[string]interface{}{
			"creator_id": intent.CreatorID,
			"intent_id":  intent.ID,
			"error":      err.Error(),
		})
		return nil, storageError(err)
	}

	s.projector.Apply(ctx, txn)

	utils.Info(ctx, "payment verified", map[string]interface{}{
		"creator_id": txn.CreatorID,
		"amount":     txn.AmountPaise,
	})

	return txn, nil
}
