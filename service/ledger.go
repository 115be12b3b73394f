package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"challengobi/database"
	"challengobi/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExpenseLineItem 待登记的单条消费明细（OCR 识别或手动录入）
type ExpenseLineItem struct {
	Store       string    `json:"store"`
	Amount      int       `json:"amount"`
	PaymentDate time.Time `json:"payment_date"`
}

// ApplyResult 消费登记结果
type ApplyResult struct {
	ExpenseIDs      []uint                 `json:"expense_ids"`
	TotalAmount     int                    `json:"total_amount"`
	Balance         int                    `json:"balance"`
	OcrCount        int                    `json:"ocr_count"`
	Failed          bool                   `json:"failed"`
	ChallengeStatus models.ChallengeStatus `json:"challenge_status"`
}

// badgeCheck 认证成功后触发的勋章检查，尽力而为：在主事务提交后异步执行，
// 失败只记日志，绝不影响已提交的登记结果
var badgeCheck = func(userID uint) {
	go func() {
		if _, err := CheckAndAwardBadges(database.DB, userID); err != nil {
			log.Printf("勋章检查失败 user=%d: %v", userID, err)
		}
	}()
}

// validateLineItems 校验消费明细：店名非空、金额为正、支付日期落在挑战期间内
func validateLineItems(items []ExpenseLineItem, startDate, endDate time.Time) error {
	if len(items) == 0 {
		return &ValidationError{Index: 0, Message: "消费明细为空"}
	}
	for i, item := range items {
		if strings.TrimSpace(item.Store) == "" {
			return newValidationError(i, "店名不能为空")
		}
		if item.Amount <= 0 {
			return newValidationError(i, "金额必须为正数")
		}
		day := DateOnly(item.PaymentDate)
		if day.Before(DateOnly(startDate)) || day.After(DateOnly(endDate)) {
			return newValidationError(i, "支付日期 %s 不在挑战期间内", day.Format("2006-01-02"))
		}
	}
	return nil
}

// ApplyExpenseBatch 登记一批消费明细（OCR 确认路径）
//
// 策略：先记账后判负。超支的批次照常入账，余额降到 0 及以下时把参与者标记为失败，
// 而不是拒绝这笔提交；全部参与者失败时挑战整体提前完成。
// 余额、认证天数、失败标记和消费记录在同一事务内提交，参与者行加锁串行化
// 同一参与者的并发提交。
func ApplyExpenseBatch(db *gorm.DB, challengeID, userID uint, items []ExpenseLineItem, today time.Time) (*ApplyResult, error) {
	var result *ApplyResult

	err := db.Transaction(func(tx *gorm.DB) error {
		challenge, participant, err := loadForUpdate(tx, challengeID, userID)
		if err != nil {
			return err
		}
		if err := validateLineItems(items, challenge.StartDate, challenge.EndDate); err != nil {
			return err
		}

		result, err = applyTx(tx, challenge, participant, items, today, false)
		return err
	})
	if err != nil {
		return nil, err
	}

	badgeCheck(userID)
	return result, nil
}

// AddManualExpense 手动快速录入单条消费
//
// 策略：快速失败。余额不足时在任何状态变更之前拒绝，与 OCR 批量路径的
// 先记账后判负不同。
func AddManualExpense(db *gorm.DB, challengeID, userID uint, item ExpenseLineItem, today time.Time) (*ApplyResult, error) {
	var result *ApplyResult

	err := db.Transaction(func(tx *gorm.DB) error {
		challenge, participant, err := loadForUpdate(tx, challengeID, userID)
		if err != nil {
			return err
		}
		items := []ExpenseLineItem{item}
		if err := validateLineItems(items, challenge.StartDate, challenge.EndDate); err != nil {
			return err
		}
		if item.Amount > participant.Balance {
			return ErrInsufficientBalance
		}

		result, err = applyTx(tx, challenge, participant, items, today, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	badgeCheck(userID)
	return result, nil
}

// loadForUpdate 读取挑战并对参与者行加 FOR UPDATE 锁，检查前置条件
func loadForUpdate(tx *gorm.DB, challengeID, userID uint) (*models.Challenge, *models.ChallengeParticipant, error) {
	var challenge models.Challenge
	if err := tx.Where("id = ?", challengeID).First(&challenge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrChallengeNotFound
		}
		return nil, nil, err
	}
	if challenge.Status != models.ChallengeStatusInProgress {
		return nil, nil, ErrNotInProgress
	}

	var participant models.ChallengeParticipant
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		First(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrParticipantNotFound
		}
		return nil, nil, err
	}
	if participant.Failed() {
		return nil, nil, ErrAlreadyFailed
	}
	return &challenge, &participant, nil
}

// applyTx 在已加锁的事务内完成全部状态变更：
// 扣减余额、每自然日一次的认证计数（参与者 ocr_count 与用户 challenge_streak
// 是同一触发条件下两个各自独立的计数器）、失败标记、消费入库，
// 以及全员失败时的挑战级联完成
func applyTx(tx *gorm.DB, challenge *models.Challenge, participant *models.ChallengeParticipant,
	items []ExpenseLineItem, today time.Time, handwritten bool) (*ApplyResult, error) {

	total := 0
	for _, item := range items {
		total += item.Amount
	}
	newBalance := participant.Balance - total

	updates := map[string]interface{}{"balance": newBalance}

	ocrCount := participant.OcrCount
	streakBumped := !participant.VerifiedOn(today)
	if streakBumped {
		ocrCount++
		updates["ocr_count"] = ocrCount
		updates["last_verified_date"] = DateOnly(today)
	}

	nowFailed := newBalance <= 0
	if nowFailed {
		updates["is_failed"] = true
	}

	if err := tx.Model(&models.ChallengeParticipant{}).
		Where("id = ?", participant.ID).Updates(updates).Error; err != nil {
		return nil, err
	}

	if streakBumped {
		if err := tx.Model(&models.User{}).Where("id = ?", participant.UserID).
			UpdateColumn("challenge_streak", gorm.Expr("challenge_streak + ?", 1)).Error; err != nil {
			return nil, err
		}
	}

	expenses := make([]models.Expense, 0, len(items))
	for _, item := range items {
		expenses = append(expenses, models.Expense{
			ChallengeID:   challenge.ID,
			UserID:        participant.UserID,
			Store:         item.Store,
			Amount:        item.Amount,
			PaymentDate:   item.PaymentDate,
			IsHandwritten: handwritten,
		})
	}
	if err := tx.Create(&expenses).Error; err != nil {
		return nil, err
	}

	status := challenge.Status
	if nowFailed {
		// 级联检查：全员失败则挑战提前完成
		// 与触发变更同一事务，读到的是一致的参与者快照
		var alive int64
		if err := tx.Model(&models.ChallengeParticipant{}).
			Where("challenge_id = ? AND (is_failed IS NULL OR is_failed = ?)", challenge.ID, false).
			Count(&alive).Error; err != nil {
			return nil, err
		}
		if alive == 0 {
			if err := tx.Model(&models.Challenge{}).
				Where("id = ? AND status = ?", challenge.ID, models.ChallengeStatusInProgress).
				Update("status", models.ChallengeStatusCompleted).Error; err != nil {
				return nil, err
			}
			status = models.ChallengeStatusCompleted
		}
	}

	ids := make([]uint, 0, len(expenses))
	for _, e := range expenses {
		ids = append(ids, e.ID)
	}

	return &ApplyResult{
		ExpenseIDs:      ids,
		TotalAmount:     total,
		Balance:         newBalance,
		OcrCount:        ocrCount,
		Failed:          nowFailed,
		ChallengeStatus: status,
	}, nil
}
