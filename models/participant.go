package models

import (
	"time"
)

// ChallengeParticipant 挑战参与记录，(challenge, user) 唯一
// Balance 由 service 层在事务内修改，可短暂为负（随后 IsFailed 置真）
type ChallengeParticipant struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	ChallengeID      uint       `json:"challenge_id" gorm:"uniqueIndex:uniq_participant,priority:1;not null"`
	UserID           uint       `json:"user_id" gorm:"uniqueIndex:uniq_participant,priority:2;not null"`
	InitialBudget    int        `json:"initial_budget" gorm:"not null"` // 入会时的挑战预算
	Balance          int        `json:"balance" gorm:"not null"`
	IsFailed         *bool      `json:"is_failed"`                       // 三态：nil 未知 / false / true；置真后不再回退
	OcrCount         int        `json:"ocr_count" gorm:"default:0"`      // 认证天数，每自然日最多 +1
	LastVerifiedDate *time.Time `json:"last_verified_date" gorm:"type:date"`
	JoinedAt         time.Time  `json:"joined_at" gorm:"autoCreateTime"`
	Challenge        Challenge  `json:"-" gorm:"foreignKey:ChallengeID"`
	User             User       `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (ChallengeParticipant) TableName() string {
	return "challenge_participants"
}

// Failed IsFailed 为真时返回 true，nil 视为未失败
func (p *ChallengeParticipant) Failed() bool {
	return p.IsFailed != nil && *p.IsFailed
}

// VerifiedOn 当天是否已经认证过（按自然日比较）
func (p *ChallengeParticipant) VerifiedOn(day time.Time) bool {
	if p.LastVerifiedDate == nil {
		return false
	}
	return p.LastVerifiedDate.Format("2006-01-02") == day.Format("2006-01-02")
}
