package service

import (
	"errors"
	"time"

	"challengobi/models"

	"gorm.io/gorm"
)

// CheckAndAwardBadges 检查并颁发用户达标且尚未拥有的勋章，返回本次新颁发的勋章
//
// 连续类勋章按累计认证天数（challenge_streak）判定，
// 积分类勋章按累计节约金额（total_saving）判定。
// 由消费认证流程在事务提交后尽力而为地触发，也可单独调用。
func CheckAndAwardBadges(db *gorm.DB, userID uint) ([]models.Badge, error) {
	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var badges []models.Badge
	if err := db.Find(&badges).Error; err != nil {
		return nil, err
	}

	var ownedIDs []uint
	if err := db.Model(&models.UserBadge{}).Where("user_id = ?", userID).
		Pluck("badge_id", &ownedIDs).Error; err != nil {
		return nil, err
	}
	owned := make(map[uint]bool, len(ownedIDs))
	for _, id := range ownedIDs {
		owned[id] = true
	}

	var awarded []models.Badge
	for _, badge := range badges {
		if owned[badge.ID] || !badgeAchieved(&user, &badge) {
			continue
		}
		userBadge := models.UserBadge{
			UserID:     userID,
			BadgeID:    badge.ID,
			AchievedAt: DateOnly(time.Now()),
		}
		if err := db.Create(&userBadge).Error; err != nil {
			// (user, badge) 唯一索引兜底并发重复颁发，冲突跳过
			continue
		}
		awarded = append(awarded, badge)
	}
	return awarded, nil
}

// badgeAchieved 用户是否达到勋章门槛
func badgeAchieved(user *models.User, badge *models.Badge) bool {
	switch badge.BadgeType {
	case models.BadgeTypeStreak:
		return badge.RequiredDate != nil && int(user.ChallengeStreak) >= *badge.RequiredDate
	case models.BadgeTypePoint:
		return badge.RequiredMoney != nil && int(user.TotalSaving) >= *badge.RequiredMoney
	}
	return false
}
