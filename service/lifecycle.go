package service

import (
	"errors"
	"time"

	"challengobi/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DateOnly 截断到自然日
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SweepStatuses 按日期推进挑战状态，幂等，可在读路径和定时任务里随时调用
// 全部转移都是条件更新（status = X where status = Y），并发调用互不干扰
func SweepStatuses(db *gorm.DB, today time.Time) error {
	day := DateOnly(today)

	// 到达开始日期的招募中挑战：只有创建者一人则作废，否则进入进行中
	var starting []models.Challenge
	if err := db.Where("status = ? AND start_date <= ?", models.ChallengeStatusRecruit, day).
		Find(&starting).Error; err != nil {
		return err
	}
	for _, ch := range starting {
		var count int64
		if err := db.Model(&models.ChallengeParticipant{}).
			Where("challenge_id = ?", ch.ID).Count(&count).Error; err != nil {
			return err
		}
		next := models.ChallengeStatusInProgress
		if count <= 1 {
			// 无人响应的招募没有意义
			next = models.ChallengeStatusCanceled
		}
		if err := db.Model(&models.Challenge{}).
			Where("id = ? AND status = ?", ch.ID, models.ChallengeStatusRecruit).
			Update("status", next).Error; err != nil {
			return err
		}
	}

	// 到达结束日期的进行中挑战：结算完成
	var ending []models.Challenge
	if err := db.Where("status = ? AND end_date <= ?", models.ChallengeStatusInProgress, day).
		Find(&ending).Error; err != nil {
		return err
	}
	for _, ch := range ending {
		if err := completeChallenge(db, ch.ID); err != nil {
			return err
		}
	}
	return nil
}

// completeChallenge 把进行中的挑战置为完成，并把未失败参与者的剩余余额
// 计入其累计节约金额。条件更新保证并发清扫下只结算一次。
func completeChallenge(db *gorm.DB, challengeID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Challenge{}).
			Where("id = ? AND status = ?", challengeID, models.ChallengeStatusInProgress).
			Update("status", models.ChallengeStatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 已被其他清扫处理
			return nil
		}

		var parts []models.ChallengeParticipant
		if err := tx.Where("challenge_id = ?", challengeID).Find(&parts).Error; err != nil {
			return err
		}
		for _, p := range parts {
			if !p.Failed() && p.Balance > 0 {
				if err := tx.Model(&models.User{}).Where("id = ?", p.UserID).
					UpdateColumn("total_saving", gorm.Expr("total_saving + ?", p.Balance)).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Join 加入挑战
// 事务内对挑战行加锁后复查容量，配合 (challenge_id, user_id) 唯一索引，
// 两个并发加入最多只有一个成功
func Join(db *gorm.DB, challengeID, userID uint, today time.Time) (*models.ChallengeParticipant, error) {
	var participant *models.ChallengeParticipant

	err := db.Transaction(func(tx *gorm.DB) error {
		var challenge models.Challenge
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", challengeID).First(&challenge).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrChallengeNotFound
			}
			return err
		}

		if challenge.Status != models.ChallengeStatusRecruit {
			return ErrNotRecruiting
		}
		if !challenge.StartDate.After(DateOnly(today)) {
			return ErrAlreadyStarted
		}

		var count int64
		if err := tx.Model(&models.ChallengeParticipant{}).
			Where("challenge_id = ?", challengeID).Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(challenge.MaxParticipants) {
			return ErrCapacityExceeded
		}

		var existing models.ChallengeParticipant
		if err := tx.Where("challenge_id = ? AND user_id = ?", challengeID, userID).
			First(&existing).Error; err == nil {
			return ErrAlreadyJoined
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// 私密挑战需要有已接受的邀请
		if challenge.Visibility {
			var invite models.ChallengeInvite
			if err := tx.Where("challenge_id = ? AND to_user_id = ? AND status = ?",
				challengeID, userID, models.InviteStatusAccepted).
				First(&invite).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotInvited
				}
				return err
			}
		}

		notFailed := false
		participant = &models.ChallengeParticipant{
			ChallengeID:   challengeID,
			UserID:        userID,
			InitialBudget: challenge.Budget,
			Balance:       challenge.Budget,
			IsFailed:      &notFailed,
		}
		return tx.Create(participant).Error
	})
	if err != nil {
		return nil, err
	}
	return participant, nil
}

// Leave 退出挑战，仅招募期允许
func Leave(db *gorm.DB, challengeID, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var challenge models.Challenge
		if err := tx.Where("id = ?", challengeID).First(&challenge).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrChallengeNotFound
			}
			return err
		}
		if challenge.Status != models.ChallengeStatusRecruit {
			return ErrNotRecruiting
		}

		res := tx.Where("challenge_id = ? AND user_id = ?", challengeID, userID).
			Delete(&models.ChallengeParticipant{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrParticipantNotFound
		}
		return nil
	})
}

// Invite 邀请用户加入挑战，仅招募期允许
// 私密挑战要求被邀请者是邀请者的粉丝
func Invite(db *gorm.DB, challengeID, fromUserID, toUserID uint) (*models.ChallengeInvite, error) {
	if fromUserID == toUserID {
		return nil, ErrSelfInvite
	}

	var invite *models.ChallengeInvite
	err := db.Transaction(func(tx *gorm.DB) error {
		var challenge models.Challenge
		if err := tx.Where("id = ?", challengeID).First(&challenge).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrChallengeNotFound
			}
			return err
		}
		if challenge.Status != models.ChallengeStatusRecruit {
			return ErrNotRecruiting
		}

		var toUser models.User
		if err := tx.Where("id = ?", toUserID).First(&toUser).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if challenge.Visibility {
			var follow models.Follow
			if err := tx.Where("follower_id = ? AND following_id = ?", toUserID, fromUserID).
				First(&follow).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotAFollower
				}
				return err
			}
		}

		var existingPart models.ChallengeParticipant
		if err := tx.Where("challenge_id = ? AND user_id = ?", challengeID, toUserID).
			First(&existingPart).Error; err == nil {
			return ErrAlreadyParticipant
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var existingInvite models.ChallengeInvite
		if err := tx.Where("challenge_id = ? AND to_user_id = ?", challengeID, toUserID).
			First(&existingInvite).Error; err == nil {
			return ErrAlreadyInvited
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		invite = &models.ChallengeInvite{
			ChallengeID: challengeID,
			FromUserID:  fromUserID,
			ToUserID:    toUserID,
			Status:      models.InviteStatusPending,
		}
		return tx.Create(invite).Error
	})
	if err != nil {
		return nil, err
	}
	return invite, nil
}

// RespondInvite 被邀请者接受或拒绝邀请
func RespondInvite(db *gorm.DB, inviteID, userID uint, accept bool) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var invite models.ChallengeInvite
		if err := tx.Where("id = ?", inviteID).First(&invite).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInviteNotFound
			}
			return err
		}
		if invite.ToUserID != userID {
			return ErrNotInvitee
		}
		if invite.Status != models.InviteStatusPending {
			return ErrInviteHandled
		}

		next := models.InviteStatusRejected
		if accept {
			next = models.InviteStatusAccepted
		}
		return tx.Model(&models.ChallengeInvite{}).
			Where("id = ? AND status = ?", inviteID, models.InviteStatusPending).
			Update("status", next).Error
	})
}

// Cancel 创建者在招募期取消挑战
func Cancel(db *gorm.DB, challengeID, requesterID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var challenge models.Challenge
		if err := tx.Where("id = ?", challengeID).First(&challenge).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrChallengeNotFound
			}
			return err
		}
		if challenge.CreatorID != requesterID {
			return ErrNotCreator
		}
		if challenge.Status != models.ChallengeStatusRecruit {
			return ErrNotRecruiting
		}
		return tx.Model(&models.Challenge{}).
			Where("id = ? AND status = ?", challengeID, models.ChallengeStatusRecruit).
			Update("status", models.ChallengeStatusCanceled).Error
	})
}
