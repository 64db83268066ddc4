package models

import (
	"time"
)

// Creator is the public profile supporters pay. The VPA is the UPI address
// payments are sent to; the platform itself never moves money.
type Creator struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Username    string    `json:"username" gorm:"not null;uniqueIndex"`
	DisplayName string    `json:"display_name" gorm:"not null"`
	Bio         string    `json:"bio"`
	UpiVPA      string    `json:"upi_vpa" gorm:"not null"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// ChaiTier is a suggested support amount. Informational only; intents record
// which tier was picked but amounts are free-form.
type ChaiTier struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatorID   string    `json:"creator_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	AmountPaise int64     `json:"amount_paise" gorm:"not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TeamMember is a sub-recipient with their own VPA. When an intent names a
// team member, the payment deep link targets the member's VPA instead of the
// creator's.
type TeamMember struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatorID string    `json:"creator_id" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"not null"`
	Role      string    `json:"role"`
	UpiVPA    string    `json:"upi_vpa" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type CreatorPageResponse struct {
	Creator *Creator       `json:"creator"`
	Tiers   []*ChaiTier    `json:"tiers"`
	Goals   []*FundingGoal `json:"goals"`
}
