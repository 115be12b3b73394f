package models

import (
	"time"
)

// Follow 关注关系：follower 关注 following
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"uniqueIndex:uniq_follow,priority:1;not null"`
	FollowingID uint      `json:"following_id" gorm:"uniqueIndex:uniq_follow,priority:2;not null"`
	CreatedAt   time.Time `json:"created_at"`
	Follower    User      `json:"-" gorm:"foreignKey:FollowerID"`
	Following   User      `json:"-" gorm:"foreignKey:FollowingID"`
}

// TableName 设置表名
func (Follow) TableName() string {
	return "follows"
}
