package services

import (
	"context"
	"errors"
	"time"

	"github.com/Aditya-Vasipalli/buymechai/models"
	"github.com/Aditya-Vasipalli/buymechai/stores"
	"github.com/Aditya-Vasipalli/buymechai/token"
	"github.com/Aditya-Vasipalli/buymechai/upi"
	"github.com/Aditya-Vasipalli/buymechai/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxSupporterNameLen    = 100
	maxSupporterMessageLen = 500
)

type intentStore interface {
	Create(ctx context.Context, intent *models.PendingIntent) error
	FindActiveByToken(ctx context.Context, creatorID, paymentUID string, now time.Time) (*models.PendingIntent, error)
	ListActiveForCreator(ctx context.Context, creatorID string, now time.Time) ([]*models.PendingIntent, error)
}

type payeeDirectory interface {
	GetByID(ctx context.Context, id string) (*models.Creator, error)
	GetTeamMember(ctx context.Context, creatorID, memberID string) (*models.TeamMember, error)
}

// IntentService mints correlation tokens and persists pending intents. The
// response hands the caller everything needed for the external payment leg:
// the token, its expiry, and the UPI deep link carrying the token as note.
type IntentService struct {
	intents  intentStore
	creators payeeDirectory
	tokens   *token.Generator
	ttl      time.Duration
	now      func() time.Time
}

func NewIntentService(intents intentStore, creators payeeDirectory, tokens *token.Generator, ttl time.Duration) *IntentService {
	return &IntentService{
		intents:  intents,
		creators: creators,
		tokens:   tokens,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *IntentService) CreateIntent(ctx context.Context, req *models.CreateIntentRequest) (*models.CreateIntentResponse, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	payeeVPA, payeeName, err := s.resolvePayee(ctx, req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	intent := &models.PendingIntent{
		ID:               uuid.NewString(),
		CreatorID:        req.CreatorID,
		TeamMemberID:     req.TeamMemberID,
		FundingGoalID:    req.FundingGoalID,
		ChaiTierID:       req.ChaiTierID,
		SupporterName:    req.SupporterName,
		SupporterMessage: req.SupporterMessage,
		AmountPaise:      req.AmountPaise,
		CreatedAt:        now,
		ExpiresAt:        now.Add(s.ttl),
	}

	// Token collisions are vanishingly rare at the short form's 64-bit
	// digest width, but the unique index makes them loud; re-mint rather
	// than fail the supporter.
	created := false
	for attempt := 0; attempt < 3; attempt++ {
		tok, err := s.tokens.Mint(req.CreatorID, req.AmountPaise, req.SupporterName, now)
		if err != nil {
			return nil, storageError(err)
		}
		intent.PaymentUID = tok

		err = s.intents.Create(ctx, intent)
		if err == nil {
			created = true
			break
		}
		if errors.Is(err, stores.ErrDuplicateToken) {
			utils.Warn(ctx, "payment uid collision, re-minting", map[string]interface{}{
				"creator_id": req.CreatorID,
			})
			continue
		}
		return nil, storageError(err)
	}
	if !created {
		return nil, storageError(stores.ErrDuplicateToken)
	}

	upiURL := upi.PaymentURL(upi.PaymentParams{
		PayeeVPA:        payeeVPA,
		PayeeName:       payeeName,
		AmountPaise:     req.AmountPaise,
		TransactionNote: intent.PaymentUID,
		TransactionRef:  intent.ID,
	})

	utils.Info(ctx, "payment intent created", map[string]interface{}{
		"creator_id": req.CreatorID,
		"amount":     req.AmountPaise,
		"expires_at": intent.ExpiresAt,
	})

	return &models.CreateIntentResponse{
		Token:     intent.PaymentUID,
		ExpiresAt: intent.ExpiresAt,
		UpiURL:    upiURL,
	}, nil
}

// PaymentQR renders the deep link of an active intent as a PNG, for clients
// that cannot follow upi:// links directly.
func (s *IntentService) PaymentQR(ctx context.Context, creatorID, tok string, size int) ([]byte, error) {
	params, err := s.paymentParams(ctx, creatorID, tok)
	if err != nil {
		return nil, err
	}
	return upi.QRCodePNG(params, size)
}

// PaymentLink rebuilds the deep link of an active intent, for mobile clients
// that lost the original create response.
func (s *IntentService) PaymentLink(ctx context.Context, creatorID, tok string) (string, error) {
	params, err := s.paymentParams(ctx, creatorID, tok)
	if err != nil {
		return "", err
	}
	return upi.PaymentURL(params), nil
}

func (s *IntentService) paymentParams(ctx context.Context, creatorID, tok string) (upi.PaymentParams, error) {
	if creatorID == "" || tok == "" {
		return upi.PaymentParams{}, validationError("creator_id and token are required")
	}

	intent, err := s.intents.FindActiveByToken(ctx, creatorID, token.Normalize(tok), s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return upi.PaymentParams{}, ErrNotFound
		}
		return upi.PaymentParams{}, storageError(err)
	}

	req := &models.CreateIntentRequest{CreatorID: intent.CreatorID, TeamMemberID: intent.TeamMemberID}
	payeeVPA, payeeName, err := s.resolvePayee(ctx, req)
	if err != nil {
		return upi.PaymentParams{}, err
	}

	return upi.PaymentParams{
		PayeeVPA:        payeeVPA,
		PayeeName:       payeeName,
		AmountPaise:     intent.AmountPaise,
		TransactionNote: intent.PaymentUID,
		TransactionRef:  intent.ID,
	}, nil
}

// ListActiveIntents returns a creator's outstanding intents, newest first.
func (s *IntentService) ListActiveIntents(ctx context.Context, creatorID string) ([]*models.PendingIntent, error) {
	if creatorID == "" {
		return nil, validationError("creator_id is required")
	}
	intents, err := s.intents.ListActiveForCreator(ctx, creatorID, s.now())
	if err != nil {
		return nil, storageError(err)
	}
	return intents, nil
}

func (s *IntentService) validateCreateRequest(req *models.CreateIntentRequest) error {
	if req.CreatorID == "" {
		return validationError("creator_id is required")
	}
	if req.AmountPaise <= 0 {
		return validationError("amount_paise must be positive")
	}
	if req.SupporterName == "" {
		return validationError("supporter_name is required")
	}
	if len(req.SupporterName) > maxSupporterNameLen {
		return validationError("supporter_name too long")
	}
	if len(req.SupporterMessage) > maxSupporterMessageLen {
		return validationError("supporter_message too long")
	}
	return nil
}

// resolvePayee picks the VPA the supporter actually pays: the team member's
// when the intent names one, the creator's otherwise.
func (s *IntentService) resolvePayee(ctx context.Context, req *models.CreateIntentRequest) (vpa, name string, err error) {
	creator, err := s.creators.GetByID(ctx, req.CreatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", validationError("unknown creator")
		}
		return "", "", storageError(err)
	}

	if req.TeamMemberID != nil {
		member, err := s.creators.GetTeamMember(ctx, req.CreatorID, *req.TeamMemberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", "", validationError("unknown team member")
			}
			return "", "", storageError(err)
		}
		return member.UpiVPA, member.Name, nil
	}

	return creator.UpiVPA, creator.DisplayName, nil
}
