package models

import (
	"time"
)

// FundingGoal accumulates verified support. CurrentAmountPaise only ever
// grows from this path and is updated with an atomic SQL increment, never
// read-modify-write.
type FundingGoal struct {
	ID                 string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatorID          string    `json:"creator_id" gorm:"not null;index"`
	Title              string    `json:"title" gorm:"not null"`
	Description        string    `json:"description"`
	TargetAmountPaise  int64     `json:"target_amount_paise" gorm:"not null"`
	CurrentAmountPaise int64     `json:"current_amount_paise" gorm:"not null;default:0"`
	IsActive           bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt          time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type CreateGoalRequest struct {
	Title             string `json:"title"`
	Description       string `json:"description,omitempty"`
	TargetAmountPaise int64  `json:"target_amount_paise"`
}

type GoalListResponse struct {
	Goals []*FundingGoal `json:"goals"`
}
