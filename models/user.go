package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// UserStatusLocked 锁定：不可登录
	UserStatusLocked = "locked"
	// UserStatusActive 正常：可登录
	UserStatusActive = "active"
)

const (
	// SexMale 男
	SexMale = "M"
	// SexFemale 女
	SexFemale = "F"
)

// User 用户模型
type User struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	Email           string         `json:"email" gorm:"uniqueIndex;size:100;not null"`
	Password        string         `json:"-" gorm:"size:255;not null"`
	Nickname        string         `json:"nickname" gorm:"uniqueIndex;size:50;not null"`
	Sex             string         `json:"sex" gorm:"size:1;not null;default:M"` // M 或 F
	BirthDate       time.Time      `json:"birth_date" gorm:"type:date;not null"`
	Career          uint8          `json:"career" gorm:"not null"` // 职业代码（序数）
	Introduction    string         `json:"introduction" gorm:"size:255"`
	ProfileImage    string         `json:"profile_image" gorm:"size:255"`
	TotalSaving     uint           `json:"total_saving" gorm:"default:0"`      // 累计节约金额，积分类勋章依据
	ChallengeStreak uint           `json:"challenge_streak" gorm:"default:0"`  // 累计认证天数，连续类勋章依据
	Status          string         `json:"status" gorm:"size:20;default:active;index"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}

// BirthYear 出生年份（推荐系统的人口特征之一）
func (u *User) BirthYear() int {
	return u.BirthDate.Year()
}

// SexIndicator 性别二值编码：M=0，F=1
func (u *User) SexIndicator() float64 {
	if u.Sex == SexFemale {
		return 1
	}
	return 0
}
