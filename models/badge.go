package models

import (
	"time"
)

// 勋章类型
const (
	// BadgeTypePoint 积分类：按累计节约金额颁发
	BadgeTypePoint = 0
	// BadgeTypeStreak 连续类：按累计认证天数颁发
	BadgeTypeStreak = 1
	// BadgeTypeHidden 隐藏类，预留
	BadgeTypeHidden = 2
)

// Badge 勋章定义
type Badge struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"size:255;not null"`
	Description   string    `json:"description" gorm:"size:255"`
	BadgeType     int       `json:"badge_type" gorm:"default:0"`
	RequiredDate  *int      `json:"required_date"`  // 连续类：所需认证天数
	RequiredMoney *int      `json:"required_money"` // 积分类：所需节约金额
	ImageURL      string    `json:"image_url" gorm:"size:255"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName 设置表名
func (Badge) TableName() string {
	return "badges"
}

// UserBadge 用户获得的勋章，(user, badge) 唯一
type UserBadge struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"uniqueIndex:uniq_user_badge,priority:1;not null"`
	BadgeID    uint      `json:"badge_id" gorm:"uniqueIndex:uniq_user_badge,priority:2;not null"`
	AchievedAt time.Time `json:"achieved_at" gorm:"type:date"`
	User       User      `json:"-" gorm:"foreignKey:UserID"`
	Badge      Badge     `json:"badge" gorm:"foreignKey:BadgeID"`
}

// TableName 设置表名
func (UserBadge) TableName() string {
	return "user_badges"
}

func intPtr(v int) *int { return &v }

// DefaultBadges 默认勋章，数据库初始化时在空表里播种
func DefaultBadges() []Badge {
	return []Badge{
		{Name: "三日坚持", Description: "累计认证 3 天", BadgeType: BadgeTypeStreak, RequiredDate: intPtr(3)},
		{Name: "一周达人", Description: "累计认证 7 天", BadgeType: BadgeTypeStreak, RequiredDate: intPtr(7)},
		{Name: "半月铁人", Description: "累计认证 14 天", BadgeType: BadgeTypeStreak, RequiredDate: intPtr(14)},
		{Name: "满月王者", Description: "累计认证 28 天", BadgeType: BadgeTypeStreak, RequiredDate: intPtr(28)},
		{Name: "小有积蓄", Description: "累计节约 1 万元", BadgeType: BadgeTypePoint, RequiredMoney: intPtr(10000)},
		{Name: "理财新星", Description: "累计节约 10 万元", BadgeType: BadgeTypePoint, RequiredMoney: intPtr(100000)},
		{Name: "节约大师", Description: "累计节约 100 万元", BadgeType: BadgeTypePoint, RequiredMoney: intPtr(1000000)},
	}
}
