package models

import (
	"time"

	"gorm.io/gorm"
)

// ChallengeStatus 挑战状态
type ChallengeStatus uint8

const (
	// ChallengeStatusRecruit 招募中
	ChallengeStatusRecruit ChallengeStatus = 0
	// ChallengeStatusInProgress 进行中
	ChallengeStatusInProgress ChallengeStatus = 1
	// ChallengeStatusCompleted 已完成
	ChallengeStatusCompleted ChallengeStatus = 2
	// ChallengeStatusCanceled 已取消（仅招募阶段可达）
	ChallengeStatusCanceled ChallengeStatus = 3
)

// String 状态名称
func (s ChallengeStatus) String() string {
	switch s {
	case ChallengeStatusRecruit:
		return "RECRUIT"
	case ChallengeStatusInProgress:
		return "IN_PROGRESS"
	case ChallengeStatusCompleted:
		return "COMPLETED"
	case ChallengeStatusCanceled:
		return "CANCELED"
	}
	return "UNKNOWN"
}

// Category 消费类别编码 1..9
const (
	CategoryCafe           = 1 // 咖啡/甜品
	CategoryRestaurant     = 2 // 外出就餐
	CategoryGrocery        = 3 // 买菜/生鲜
	CategoryShopping       = 4 // 购物
	CategoryCulture        = 5 // 文化生活
	CategoryHobby          = 6 // 兴趣爱好
	CategoryDrink          = 7 // 烟酒
	CategoryTransportation = 8 // 交通
	CategoryEtc            = 9 // 其他
)

// CategoryNames 类别编码到名称
var CategoryNames = map[int]string{
	CategoryCafe:           "咖啡/甜品",
	CategoryRestaurant:     "外出就餐",
	CategoryGrocery:        "买菜/生鲜",
	CategoryShopping:       "购物",
	CategoryCulture:        "文化生活",
	CategoryHobby:          "兴趣爱好",
	CategoryDrink:          "烟酒",
	CategoryTransportation: "交通",
	CategoryEtc:            "其他",
}

// 挑战约束范围
const (
	MinDuration        = 7
	MaxDuration        = 28
	MinParticipants    = 1
	MaxParticipantsCap = 100
)

// Challenge 节约挑战
type Challenge struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	CreatorID       uint            `json:"creator_id" gorm:"index;not null"`
	Category        int             `json:"category" gorm:"not null"` // 1..9
	Title           string          `json:"title" gorm:"size:60;not null"`
	Description     string          `json:"description" gorm:"size:85"`
	StartDate       time.Time       `json:"start_date" gorm:"type:date;not null"`
	Duration        int             `json:"duration" gorm:"not null"`             // 天数 7..28
	EndDate         time.Time       `json:"end_date" gorm:"type:date;not null"`   // 恒等于 start_date + duration
	Visibility      bool            `json:"visibility" gorm:"default:false"`      // false 公开 true 私密
	MaxParticipants int             `json:"max_participants" gorm:"default:1"`    // 1..100
	Budget          int             `json:"budget" gorm:"not null"`               // 人均预算（韩元整数）
	Status          ChallengeStatus `json:"status" gorm:"default:0;index"`
	ProgressRate    float64         `json:"progress_rate" gorm:"default:0"` // 预留：客户端目前按日期自行计算进度
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `json:"-" gorm:"index"`
	Creator         User            `json:"-" gorm:"foreignKey:CreatorID"`
}

// TableName 设置表名
func (Challenge) TableName() string {
	return "challenges"
}

// ComputeEndDate 由开始日期和持续天数计算结束日期
func ComputeEndDate(startDate time.Time, duration int) time.Time {
	return startDate.AddDate(0, 0, duration)
}

// 邀请状态
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusRejected = "rejected"
)

// ChallengeInvite 挑战邀请
type ChallengeInvite struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ChallengeID uint      `json:"challenge_id" gorm:"uniqueIndex:uniq_invite,priority:1;not null"`
	FromUserID  uint      `json:"from_user_id" gorm:"not null"`
	ToUserID    uint      `json:"to_user_id" gorm:"uniqueIndex:uniq_invite,priority:2;not null"`
	Status      string    `json:"status" gorm:"size:10;default:pending"` // pending/accepted/rejected
	CreatedAt   time.Time `json:"created_at"`
	Challenge   Challenge `json:"-" gorm:"foreignKey:ChallengeID"`
	FromUser    User      `json:"-" gorm:"foreignKey:FromUserID"`
	ToUser      User      `json:"-" gorm:"foreignKey:ToUserID"`
}

// TableName 设置表名
func (ChallengeInvite) TableName() string {
	return "challenge_invites"
}

// ChallengeReaction 挑战互动（加油/想参加），每人每挑战一行，重复提交覆盖
type ChallengeReaction struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ChallengeID uint      `json:"challenge_id" gorm:"uniqueIndex:uniq_reaction,priority:1;not null"`
	UserID      uint      `json:"user_id" gorm:"uniqueIndex:uniq_reaction,priority:2;not null"`
	Encourage   bool      `json:"encourage"`
	WantToJoin  bool      `json:"want_to_join"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Challenge   Challenge `json:"-" gorm:"foreignKey:ChallengeID"`
	User        User      `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (ChallengeReaction) TableName() string {
	return "challenge_reactions"
}
