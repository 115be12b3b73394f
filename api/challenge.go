package api

import (
	"errors"
	"log"
	"time"

	"challengobi/database"
	"challengobi/middleware"
	"challengobi/models"
	"challengobi/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ChallengeHandler 挑战处理器
type ChallengeHandler struct{}

// NewChallengeHandler 创建挑战处理器
func NewChallengeHandler() *ChallengeHandler {
	return &ChallengeHandler{}
}

// CreateChallengeRequest 创建挑战请求
type CreateChallengeRequest struct {
	Category        int    `json:"category" binding:"required,min=1,max=9" example:"1"`
	Title           string `json:"title" binding:"required,max=60" example:"一周咖啡费减半"`
	Description     string `json:"description" binding:"omitempty,max=85" example:"早上的美式换成速溶"`
	StartDate       string `json:"start_date" binding:"required" example:"2025-07-01"`
	Duration        int    `json:"duration" binding:"required" example:"14"`
	Visibility      bool   `json:"visibility" example:"false"` // false 公开 true 私密
	MaxParticipants int    `json:"max_participants" binding:"required" example:"5"`
	Budget          int    `json:"budget" binding:"required,gt=0" example:"100000"`
}

// ChallengeListRequest 挑战列表请求
type ChallengeListRequest struct {
	Page     int    `form:"page" example:"1"`
	PageSize int    `form:"page_size" example:"10"`
	Status   *int   `form:"status" example:"0"`   // 省略则返回全部状态
	Category int    `form:"category" example:"1"` // 省略则不过滤类别
	Keyword  string `form:"keyword"`              // 标题模糊搜索
}

// ChallengeDetail 挑战详情
type ChallengeDetail struct {
	models.Challenge
	CategoryName     string                       `json:"category_name"`
	ParticipantCount int                          `json:"participant_count"`
	EncourageCount   int64                        `json:"encourage_count"`
	WantToJoinCount  int64                        `json:"want_to_join_count"`
	Participants     []ChallengeParticipantDetail `json:"participants,omitempty"`
}

// ChallengeParticipantDetail 参与者详情，仅进行中及之后返回余额
type ChallengeParticipantDetail struct {
	UserID   uint   `json:"user_id"`
	Nickname string `json:"nickname"`
	Balance  int    `json:"balance"`
	IsFailed *bool  `json:"is_failed"`
	OcrCount int    `json:"ocr_count"`
}

// sweep 读路径兜底推进状态，定时任务漏掉的过期挑战在这里补上
func sweep() {
	if err := service.SweepStatuses(database.DB, time.Now()); err != nil {
		log.Printf("挑战状态推进失败: %v", err)
	}
}

// Create 创建挑战
// @Summary 创建挑战
// @Description 创建节约挑战，创建者自动成为第一个参与者
// @Tags 挑战
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateChallengeRequest true "挑战信息"
// @Success 200 {object} Response{data=models.Challenge} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/challenges [post]
func (h *ChallengeHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if req.Duration < models.MinDuration || req.Duration > models.MaxDuration {
		BadRequest(c, "持续天数必须在 7 到 28 天之间")
		return
	}
	if req.MaxParticipants < models.MinParticipants || req.MaxParticipants > models.MaxParticipantsCap {
		BadRequest(c, "人数上限必须在 1 到 100 之间")
		return
	}

	startDate, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local)
	if err != nil {
		BadRequest(c, "开始日期格式错误，应为: 2006-01-02")
		return
	}
	if !startDate.After(service.DateOnly(time.Now())) {
		BadRequest(c, "开始日期必须晚于今天")
		return
	}

	challenge := models.Challenge{
		CreatorID:       userID,
		Category:        req.Category,
		Title:           req.Title,
		Description:     req.Description,
		StartDate:       startDate,
		Duration:        req.Duration,
		EndDate:         models.ComputeEndDate(startDate, req.Duration),
		Visibility:      req.Visibility,
		MaxParticipants: req.MaxParticipants,
		Budget:          req.Budget,
		Status:          models.ChallengeStatusRecruit,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&challenge).Error; err != nil {
			return err
		}
		// 创建者自动入会
		notFailed := false
		participant := models.ChallengeParticipant{
			ChallengeID:   challenge.ID,
			UserID:        userID,
			InitialBudget: challenge.Budget,
			Balance:       challenge.Budget,
			IsFailed:      &notFailed,
		}
		return tx.Create(&participant).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "创建挑战失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", challenge)
}

// List 获取挑战列表
// @Summary 获取挑战列表
// @Description 获取挑战列表，支持分页和按状态、类别、关键字筛选
// @Tags 挑战
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param status query int false "状态筛选 0招募中 1进行中 2已完成 3已取消"
// @Param category query int false "类别筛选 1..9"
// @Param keyword query string false "标题关键字"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Challenge}} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/challenges [get]
func (h *ChallengeHandler) List(c *gin.Context) {
	sweep()

	var req ChallengeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	// 私密挑战不出现在公开列表
	query := database.DB.Model(&models.Challenge{}).Where("visibility = ?", false)

	if req.Status != nil {
		query = query.Where("status = ?", *req.Status)
	}
	if req.Category != 0 {
		query = query.Where("category = ?", req.Category)
	}
	if req.Keyword != "" {
		query = query.Where("title LIKE ?", "%"+req.Keyword+"%")
	}

	var total int64
	query.Count(&total)

	var challenges []models.Challenge
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.PageSize).
		Find(&challenges).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     challenges,
	})
}

// ListMine 获取我参与的挑战
// @Summary 获取我参与的挑战
// @Description 获取当前用户参与的全部挑战
// @Tags 挑战
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Challenge} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/challenges/mine [get]
func (h *ChallengeHandler) ListMine(c *gin.Context) {
	sweep()
	userID := middleware.GetCurrentUserID(c)

	var challenges []models.Challenge
	if err := database.DB.
		Joins("JOIN challenge_participants ON challenge_participants.challenge_id = challenges.id").
		Where("challenge_participants.user_id = ?", userID).
		Order("challenges.created_at DESC").
		Find(&challenges).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, challenges)
}

// Get 获取挑战详情
// @Summary 获取挑战详情
// @Description 获取挑战详情及参与者状态
// @Tags 挑战
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "挑战ID"
// @Success 200 {object} Response{data=ChallengeDetail} "获取成功"
// @Failure 404 {object} Response "挑战不存在"
// @Router /api/v1/challenges/{id} [get]
func (h *ChallengeHandler) Get(c *gin.Context) {
	sweep()
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var challenge models.Challenge
	if err := database.DB.First(&challenge, id).Error; err != nil {
		NotFound(c, "挑战不存在")
		return
	}

	// 私密挑战只对创建者、参与者和被邀请者可见，其余按不存在处理
	if challenge.Visibility && challenge.CreatorID != userID {
		var member int64
		database.DB.Model(&models.ChallengeParticipant{}).
			Where("challenge_id = ? AND user_id = ?", id, userID).Count(&member)
		if member == 0 {
			var invited int64
			database.DB.Model(&models.ChallengeInvite{}).
				Where("challenge_id = ? AND to_user_id = ?", id, userID).Count(&invited)
			if invited == 0 {
				NotFound(c, "挑战不存在")
				return
			}
		}
	}

	var participants []models.ChallengeParticipant
	if err := database.DB.Preload("User").Where("challenge_id = ?", id).
		Find(&participants).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询参与者失败"))
		return
	}

	var encourageCount, wantToJoinCount int64
	database.DB.Model(&models.ChallengeReaction{}).
		Where("challenge_id = ? AND encourage = ?", id, true).Count(&encourageCount)
	database.DB.Model(&models.ChallengeReaction{}).
		Where("challenge_id = ? AND want_to_join = ?", id, true).Count(&wantToJoinCount)

	detail := ChallengeDetail{
		Challenge:        challenge,
		CategoryName:     models.CategoryNames[challenge.Category],
		ParticipantCount: len(participants),
		EncourageCount:   encourageCount,
		WantToJoinCount:  wantToJoinCount,
	}
	for _, p := range participants {
		detail.Participants = append(detail.Participants, ChallengeParticipantDetail{
			UserID:   p.UserID,
			Nickname: p.User.Nickname,
			Balance:  p.Balance,
			IsFailed: p.IsFailed,
			OcrCount: p.OcrCount,
		})
	}

	Success(c, detail)
}

// UpdateChallengeRequest 更新挑战请求，省略的字段保持原值
type UpdateChallengeRequest struct {
	Category        int     `json:"category" binding:"omitempty,min=1,max=9" example:"1"`
	Title           string  `json:"title" binding:"omitempty,max=60" example:"一周咖啡费减半"`
	Description     *string `json:"description" binding:"omitempty,max=85" example:"早上的美式换成速溶"`
	StartDate       string  `json:"start_date" example:"2025-07-01"`
	Duration        int     `json:"duration" example:"14"`
	Visibility      *bool   `json:"visibility"`
	MaxParticipants int     `json:"max_participants" example:"5"`
	Budget          int     `json:"budget" binding:"omitempty,gt=0" example:"100000"`
}

// Update 更新挑战
// @Summary 更新挑战
// @Description 创建者在招募期修改挑战信息，结束日期按开始日期和持续天数重算
// @Tags 挑战
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "挑战ID"
// @Param request body UpdateChallengeRequest true "修改内容"
// @Success 200 {object} Response{data=models.Challenge} "更新成功"
// @Failure 403 {object} Response "不是创建者"
// @Failure 409 {object} Response "不是招募中的挑战"
// @Router /api/v1/challenges/{id} [put]
func (h *ChallengeHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var challenge models.Challenge
	if err := database.DB.First(&challenge, id).Error; err != nil {
		NotFound(c, "挑战不存在")
		return
	}
	if challenge.CreatorID != userID {
		Forbidden(c, "只有挑战创建者可以执行此操作")
		return
	}
	// 开始后挑战内容冻结
	if challenge.Status != models.ChallengeStatusRecruit {
		Conflict(c, "不是招募中的挑战")
		return
	}

	if req.Category != 0 {
		challenge.Category = req.Category
	}
	if req.Title != "" {
		challenge.Title = req.Title
	}
	if req.Description != nil {
		challenge.Description = *req.Description
	}
	if req.Visibility != nil {
		challenge.Visibility = *req.Visibility
	}
	if req.StartDate != "" {
		startDate, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local)
		if err != nil {
			BadRequest(c, "开始日期格式错误，应为: 2006-01-02")
			return
		}
		if !startDate.After(service.DateOnly(time.Now())) {
			BadRequest(c, "开始日期必须晚于今天")
			return
		}
		challenge.StartDate = startDate
	}
	if req.Duration != 0 {
		if req.Duration < models.MinDuration || req.Duration > models.MaxDuration {
			BadRequest(c, "持续天数必须在 7 到 28 天之间")
			return
		}
		challenge.Duration = req.Duration
	}
	if req.MaxParticipants != 0 {
		if req.MaxParticipants < models.MinParticipants || req.MaxParticipants > models.MaxParticipantsCap {
			BadRequest(c, "人数上限必须在 1 到 100 之间")
			return
		}
		var joined int64
		database.DB.Model(&models.ChallengeParticipant{}).
			Where("challenge_id = ?", id).Count(&joined)
		if int64(req.MaxParticipants) < joined {
			BadRequest(c, "人数上限不能低于当前参与人数")
			return
		}
		challenge.MaxParticipants = req.MaxParticipants
	}

	// 结束日期恒等于开始日期加持续天数
	challenge.EndDate = models.ComputeEndDate(challenge.StartDate, challenge.Duration)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if req.Budget != 0 && req.Budget != challenge.Budget {
			challenge.Budget = req.Budget
			// 招募期尚未产生消费，参与者预算同步刷新
			if err := tx.Model(&models.ChallengeParticipant{}).
				Where("challenge_id = ?", id).
				Updates(map[string]interface{}{
					"initial_budget": req.Budget,
					"balance":        req.Budget,
				}).Error; err != nil {
				return err
			}
		}
		return tx.Save(&challenge).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "更新挑战失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", challenge)
}

// Join 加入挑战
// @Summary 加入挑战
// @Description 加入招募中的挑战，私密挑战需要有已接受的邀请
// @Tags 挑战
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "挑战ID"
// @Success 200 {object} Response{data=models.ChallengeParticipant} "加入成功"
// @Failure 404 {object} Response "挑战不存在"
// @Failure 409 {object} Response "状态或名额冲突"
// @Router /api/v1/challenges/{id}/join [post]
func (h *ChallengeHandler) Join(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	participant, err := service.Join(database.DB, id, userID, time.Now())
	if err != nil {
		serviceError(c, err, "加入挑战失败")
		return
	}

	SuccessWithMessage(c, "加入成功", participant)
}

// Leave 退出挑战
// @Summary 退出挑战
// @Description 退出招募中的挑战，开始后不可退出
// @Tags 挑战
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "挑战ID"
// @Success 200 {object} Response "退出成功"
// @Failure 404 {object} Response "挑战或参与记录不存在"
// @Failure 409 {object} Response "挑战已开始"
// @Router /api/v1/challenges/{id}/leave [post]
func (h *ChallengeHandler) Leave(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := service.Leave(database.DB, id, userID); err != nil {
		serviceError(c, err, "退出挑战失败")
		return
	}

	SuccessWithMessage(c, "已退出挑战", nil)
}

// InviteRequest 邀请请求
type InviteRequest struct {
	UserID uint `json:"user_id" binding:"required" example:"21"`
}

// Invite 邀请用户
// @Summary 邀请用户加入挑战
// @Description 邀请用户加入招募中的挑战，私密挑战只能邀请自己的粉丝
// @Tags 挑战
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "挑战ID"
// @Param request body InviteRequest true "被邀请用户"
// @Success 200 {object} Response{data=models.ChallengeInvite} "邀请成功"
// @Failure 403 {object} Response "被邀请者不是粉丝"
// @Failure 409 {object} Response "重复邀请或已参与"
// @Router /api/v1/challenges/{id}/invite [post]
func (h *ChallengeHandler) Invite(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	invite, err := service.Invite(database.DB, id, userID, req.UserID)
	if err != nil {
		serviceError(c, err, "邀请失败")
		return
	}

	SuccessWithMessage(c, "邀请已发送", invite)
}

// RespondInviteRequest 响应邀请请求
type RespondInviteRequest struct {
	Accept bool `json:"accept" example:"true"`
}

// RespondInvite 响应邀请
// @Summary 接受或拒绝邀请
// @Description 被邀请者接受或拒绝挑战邀请
// @Tags 挑战
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "邀请ID"
// @Param request body RespondInviteRequest true "响应"
// @Success 200 {object} Response "处理成功"
// @Failure 403 {object} Response "不是被邀请者"
// @Failure 409 {object} Response "邀请已处理"
// @Router /api/v1/challenges/invites/{id} [put]
func (h *ChallengeHandler) RespondInvite(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RespondInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if err := service.RespondInvite(database.DB, id, userID, req.Accept); err != nil {
		serviceError(c, err, "处理邀请失败")
		return
	}

	if req.Accept {
		SuccessWithMessage(c, "已接受邀请", nil)
	} else {
		SuccessWithMessage(c, "已拒绝邀请", nil)
	}
}

// ListInvites 获取我收到的邀请
// @Summary 获取我收到的邀请
// @Description 获取当前用户收到的待处理邀请
// @Tags 挑战
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.ChallengeInvite} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/challenges/invites [get]
func (h *ChallengeHandler) ListInvites(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var invites []models.ChallengeInvite
	if err := database.DB.Where("to_user_id = ? AND status = ?", userID, models.InviteStatusPending).
		Order("created_at DESC").Find(&invites).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, invites)
}

// Cancel 取消挑战
// @Summary 取消挑战
// @Description 创建者在招募期取消挑战，开始后不可取消
// @Tags 挑战
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "挑战ID"
// @Success 200 {object} Response "取消成功"
// @Failure 403 {object} Response "不是创建者"
// @Failure 409 {object} Response "挑战已开始"
// @Router /api/v1/challenges/{id} [delete]
func (h *ChallengeHandler) Cancel(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := service.Cancel(database.DB, id, userID); err != nil {
		serviceError(c, err, "取消挑战失败")
		return
	}

	SuccessWithMessage(c, "挑战已取消", nil)
}

// ReactionRequest 挑战互动请求
type ReactionRequest struct {
	Encourage  bool `json:"encourage" example:"true"`
	WantToJoin bool `json:"want_to_join" example:"false"`
}

// React 提交挑战互动
// @Summary 加油 / 想参加
// @Description 对挑战表态，每人每挑战一条记录，重复提交覆盖之前的表态
// @Tags 挑战
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "挑战ID"
// @Param request body ReactionRequest true "表态内容"
// @Success 200 {object} Response{data=models.ChallengeReaction} "提交成功"
// @Failure 404 {object} Response "挑战不存在"
// @Router /api/v1/challenges/{id}/reactions [post]
func (h *ChallengeHandler) React(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var challenge models.Challenge
	if err := database.DB.First(&challenge, id).Error; err != nil {
		NotFound(c, "挑战不存在")
		return
	}

	reaction := models.ChallengeReaction{ChallengeID: id, UserID: userID}
	if err := database.DB.Where("challenge_id = ? AND user_id = ?", id, userID).
		First(&reaction).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		InternalError(c, SafeErrorMessage(err, "查询互动记录失败"))
		return
	}
	reaction.Encourage = req.Encourage
	reaction.WantToJoin = req.WantToJoin

	if err := database.DB.Save(&reaction).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "提交互动失败"))
		return
	}

	SuccessWithMessage(c, "已表态", reaction)
}
