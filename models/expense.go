package models

import (
	"time"

	"gorm.io/datatypes"
)

// Expense 认证通过的消费记录
type Expense struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ChallengeID   uint      `json:"challenge_id" gorm:"index;not null"`
	UserID        uint      `json:"user_id" gorm:"index;not null"`
	Store         string    `json:"store" gorm:"size:255;not null"`
	Amount        int       `json:"amount" gorm:"not null"` // 韩元整数，恒为正
	PaymentDate   time.Time `json:"payment_date" gorm:"not null"`
	IsHandwritten bool      `json:"is_handwritten"` // true 手动录入 false OCR 识别
	CreatedAt     time.Time `json:"created_at"`
	Challenge     Challenge `json:"-" gorm:"foreignKey:ChallengeID"`
	User          User      `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}

// OCR 识别任务状态
const (
	OCRStatusProcessing = "processing"
	OCRStatusCompleted  = "completed"
	OCRStatusFailed     = "failed"
)

// OCRResult OCR 识别结果，原始返回保存为 JSON 供用户确认和问题排查
type OCRResult struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	ChallengeID uint           `json:"challenge_id" gorm:"index;not null"`
	ImageObject string         `json:"image_object" gorm:"size:255"` // 上传图片的对象名
	ResultData  datatypes.JSON `json:"result_data"`
	Status      string         `json:"status" gorm:"size:20;default:processing"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at"`
	User        User           `json:"-" gorm:"foreignKey:UserID"`
	Challenge   Challenge      `json:"-" gorm:"foreignKey:ChallengeID"`
}

// TableName 设置表名
func (OCRResult) TableName() string {
	return "ocr_results"
}
