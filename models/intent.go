package models

import (
	"time"
)

// PendingIntent is a not-yet-confirmed support payment. The supporter pays
// out-of-band over UPI with the payment UID in the transaction note, then
// pastes the UID back so the platform can reconcile it.
//
// An intent is consumed at most once: UsedAt is set exactly once by
// verification and a used intent never matches again. Rows are retained
// after use for audit; only the retention sweep removes expired ones.
type PendingIntent struct {
	ID               string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PaymentUID       string     `json:"payment_uid" gorm:"not null;uniqueIndex"`
	CreatorID        string     `json:"creator_id" gorm:"not null;index"`
	TeamMemberID     *string    `json:"team_member_id,omitempty"`
	FundingGoalID    *string    `json:"funding_goal_id,omitempty"`
	ChaiTierID       *string    `json:"chai_tier_id,omitempty"`
	SupporterName    string     `json:"supporter_name" gorm:"not null"`
	SupporterMessage string     `json:"supporter_message"`
	AmountPaise      int64      `json:"amount_paise" gorm:"not null"`
	CreatedAt        time.Time  `json:"created_at" gorm:"autoCreateTime"`
	ExpiresAt        time.Time  `json:"expires_at" gorm:"not null;index"`
	UsedAt           *time.Time `json:"used_at,omitempty" gorm:"index"`
}

type CreateIntentRequest struct {
	CreatorID        string  `json:"creator_id"`
	AmountPaise      int64   `json:"amount_paise"`
	SupporterName    string  `json:"supporter_name"`
	SupporterMessage string  `json:"supporter_message,omitempty"`
	ChaiTierID       *string `json:"chai_tier_id,omitempty"`
	TeamMemberID     *string `json:"team_member_id,omitempty"`
	FundingGoalID    *string `json:"funding_goal_id,omitempty"`
}

type CreateIntentResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UpiURL    string    `json:"upi_url"`
}
