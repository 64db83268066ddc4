package services

import (
	"context"

	"github.com/Aditya-Vasipalli/buymechai/models"
	"github.com/Aditya-Vasipalli/buymechai/utils"
)

type goalIncrementer interface {
	IncrementAmount(ctx context.Context, id string, amountPaise int64) error
}

// LedgerProjector applies the side effects of a finalized transaction. Goal
// progress is a best-effort projection outside the finalization's atomicity
// boundary: a failed increment is logged and swallowed, never rolled back
// into the verify call.
type LedgerProjector struct {
	goals goalIncrementer
	retry *utils.RetryConfig
}

func NewLedgerProjector(goals goalIncrementer) *LedgerProjector {
	return &LedgerProjector{
		goals: goals,
		retry: utils.DefaultRetryConfig(),
	}
}

func (p *LedgerProjector) Apply(ctx context.Context, txn *models.Transaction) {
	if txn.FundingGoalID == nil {
		return
	}

	goalID := *txn.FundingGoalID
	err := utils.Retry(ctx, p.retry, func() error {
		return p.goals.IncrementAmount(ctx, goalID, txn.AmountPaise)
	})
	if err != nil {
		utils.Error(ctx, "funding goal projection failed", map[string]interface{}{
			"goal_id":     goalID,
			"creator_id":  txn.CreatorID,
			"amount":      txn.AmountPaise,
			"payment_uid": txn.PaymentUID,
			"error":       err.Error(),
		})
	}
}
