package models

import (
	"time"
)

type TransactionStatus string

const (
	TransactionStatusVerified TransactionStatus = "verified"
)

// Transaction is the finalized ledger record written when a pending intent is
// reconciled. The unique index on PaymentUID guarantees at most one ledger
// row per token even if two verifications race past the intent store.
type Transaction struct {
	ID               string            `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PaymentUID       string            `json:"payment_uid" gorm:"not null;uniqueIndex"`
	CreatorID        string            `json:"creator_id" gorm:"not null;index"`
	TeamMemberID     *string           `json:"team_member_id,omitempty"`
	FundingGoalID    *string           `json:"funding_goal_id,omitempty"`
	ChaiTierID       *string           `json:"chai_tier_id,omitempty"`
	SupporterName    string            `json:"supporter_name" gorm:"not null"`
	SupporterMessage string            `json:"supporter_message"`
	AmountPaise      int64             `json:"amount_paise" gorm:"not null"`
	Status           TransactionStatus `json:"status" gorm:"not null;default:'verified'"`
	VerifiedAt       time.Time         `json:"verified_at" gorm:"not null"`
	CreatedAt        time.Time         `json:"created_at" gorm:"autoCreateTime"`
}

type VerifyRequest struct {
	Token     string `json:"token"`
	CreatorID string `json:"creator_id"`
}

type VerifyResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type TransactionListResponse struct {
	Transactions []*Transaction `json:"transactions"`
	Total        int64          `json:"total"`
	TotalPaise   int64          `json:"total_paise"`
}
