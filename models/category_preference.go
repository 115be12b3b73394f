package models

import (
	"time"
)

// UserChallengeCategory 用户的九类消费偏好，每个用户一行
// 推荐系统把它当作 9 维向量使用
type UserChallengeCategory struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Cafe           bool      `json:"cafe"`           // 咖啡/甜品
	Restaurant     bool      `json:"restaurant"`     // 外出就餐
	Grocery        bool      `json:"grocery"`        // 买菜/生鲜
	Shopping       bool      `json:"shopping"`       // 购物
	Culture        bool      `json:"culture"`        // 文化生活
	Hobby          bool      `json:"hobby"`          // 兴趣爱好
	Drink          bool      `json:"drink"`          // 烟酒
	Transportation bool      `json:"transportation"` // 交通
	Etc            bool      `json:"etc"`            // 其他
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	User           User      `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (UserChallengeCategory) TableName() string {
	return "user_challenge_categories"
}

// Vector 偏好布尔值展开为 9 维 0/1 向量，顺序与类别编码 1..9 一致
func (c *UserChallengeCategory) Vector() []float64 {
	bools := []bool{
		c.Cafe, c.Restaurant, c.Grocery, c.Shopping, c.Culture,
		c.Hobby, c.Drink, c.Transportation, c.Etc,
	}
	vec := make([]float64, len(bools))
	for i, b := range bools {
		if b {
			vec[i] = 1
		}
	}
	return vec
}
