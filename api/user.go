package api

import (
	"strconv"

	"challengobi/config"
	"challengobi/database"
	"challengobi/middleware"
	"challengobi/models"
	"challengobi/service"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户社交处理器
type UserHandler struct {
	cfg *config.Config
}

// NewUserHandler 创建用户社交处理器
func NewUserHandler(cfg *config.Config) *UserHandler {
	return &UserHandler{cfg: cfg}
}

// UserBrief 列表里展示的用户摘要
type UserBrief struct {
	ID           uint   `json:"id"`
	Nickname     string `json:"nickname"`
	Introduction string `json:"introduction"`
	ProfileImage string `json:"profile_image"`
}

func briefOf(u *models.User) UserBrief {
	return UserBrief{
		ID:           u.ID,
		Nickname:     u.Nickname,
		Introduction: u.Introduction,
		ProfileImage: u.ProfileImage,
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, "无效的ID")
		return 0, false
	}
	return uint(id), true
}

// Follow 关注用户
// @Summary 关注用户
// @Description 关注指定用户，重复关注直接返回成功
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "被关注用户ID"
// @Success 200 {object} Response "关注成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/v1/users/{id}/follow [post]
func (h *UserHandler) Follow(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if targetID == userID {
		BadRequest(c, "不能关注自己")
		return
	}

	var target models.User
	if err := database.DB.First(&target, targetID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	var existing models.Follow
	if err := database.DB.Where("follower_id = ? AND following_id = ?", userID, targetID).
		First(&existing).Error; err == nil {
		SuccessWithMessage(c, "已关注", nil)
		return
	}

	follow := models.Follow{FollowerID: userID, FollowingID: targetID}
	if err := database.DB.Create(&follow).Error; err != nil {
		// 唯一索引兜底并发重复关注
		SuccessWithMessage(c, "已关注", nil)
		return
	}

	SuccessWithMessage(c, "关注成功", nil)
}

// Unfollow 取消关注
// @Summary 取消关注
// @Description 取消对指定用户的关注
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "被关注用户ID"
// @Success 200 {object} Response "取消成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/users/{id}/follow [delete]
func (h *UserHandler) Unfollow(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	database.DB.Where("follower_id = ? AND following_id = ?", userID, targetID).
		Delete(&models.Follow{})

	SuccessWithMessage(c, "已取消关注", nil)
}

// Followers 粉丝列表
// @Summary 获取粉丝列表
// @Description 获取指定用户的粉丝列表
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} Response{data=[]UserBrief} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/users/{id}/followers [get]
func (h *UserHandler) Followers(c *gin.Context) {
	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var users []models.User
	if err := database.DB.
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", targetID).
		Find(&users).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	briefs := make([]UserBrief, 0, len(users))
	for i := range users {
		briefs = append(briefs, briefOf(&users[i]))
	}
	Success(c, briefs)
}

// Following 关注列表
// @Summary 获取关注列表
// @Description 获取指定用户关注的人
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} Response{data=[]UserBrief} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/users/{id}/following [get]
func (h *UserHandler) Following(c *gin.Context) {
	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var users []models.User
	if err := database.DB.
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", targetID).
		Find(&users).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	briefs := make([]UserBrief, 0, len(users))
	for i := range users {
		briefs = append(briefs, briefOf(&users[i]))
	}
	Success(c, briefs)
}

// GetCategoryPreference 获取消费偏好
// @Summary 获取消费偏好
// @Description 获取当前用户的九类消费偏好
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.UserChallengeCategory} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/users/categories [get]
func (h *UserHandler) GetCategoryPreference(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var pref models.UserChallengeCategory
	if err := database.DB.Where("user_id = ?", userID).First(&pref).Error; err != nil {
		NotFound(c, "消费偏好不存在")
		return
	}

	Success(c, pref)
}

// CategoryPreferenceRequest 消费偏好请求，九类全量覆盖
type CategoryPreferenceRequest struct {
	Cafe           bool `json:"cafe"`
	Restaurant     bool `json:"restaurant"`
	Grocery        bool `json:"grocery"`
	Shopping       bool `json:"shopping"`
	Culture        bool `json:"culture"`
	Hobby          bool `json:"hobby"`
	Drink          bool `json:"drink"`
	Transportation bool `json:"transportation"`
	Etc            bool `json:"etc"`
}

// UpdateCategoryPreference 更新消费偏好
// @Summary 更新消费偏好
// @Description 全量覆盖当前用户的九类消费偏好
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryPreferenceRequest true "偏好信息"
// @Success 200 {object} Response{data=models.UserChallengeCategory} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/users/categories [put]
func (h *UserHandler) UpdateCategoryPreference(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CategoryPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var pref models.UserChallengeCategory
	if err := database.DB.Where("user_id = ?", userID).First(&pref).Error; err != nil {
		pref = models.UserChallengeCategory{UserID: userID}
	}

	pref.Cafe = req.Cafe
	pref.Restaurant = req.Restaurant
	pref.Grocery = req.Grocery
	pref.Shopping = req.Shopping
	pref.Culture = req.Culture
	pref.Hobby = req.Hobby
	pref.Drink = req.Drink
	pref.Transportation = req.Transportation
	pref.Etc = req.Etc

	if err := database.DB.Save(&pref).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "保存偏好失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", pref)
}

// RecommendedUser 推荐结果，相似度加上展示信息
type RecommendedUser struct {
	UserBrief
	Similarity float64 `json:"similarity"`
}

// Recommendations 相似用户推荐
// @Summary 获取相似用户推荐
// @Description 按消费偏好和人口特征的加权余弦相似度推荐最相似的用户
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]RecommendedUser} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "消费偏好不存在"
// @Router /api/v1/users/recommendations [get]
func (h *UserHandler) Recommendations(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	// 快照一次性读出，打分在内存中完成
	var users []models.User
	if err := database.DB.Where("status = ?", models.UserStatusActive).Find(&users).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询用户失败"))
		return
	}
	var prefs []models.UserChallengeCategory
	if err := database.DB.Find(&prefs).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询偏好失败"))
		return
	}

	recs, err := service.Recommend(userID, users, prefs, h.cfg.Recommend.TopK)
	if err != nil {
		serviceError(c, err, "推荐计算失败")
		return
	}

	byID := make(map[uint]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	result := make([]RecommendedUser, 0, len(recs))
	for _, rec := range recs {
		u, ok := byID[rec.UserID]
		if !ok {
			continue
		}
		result = append(result, RecommendedUser{
			UserBrief:  briefOf(u),
			Similarity: rec.Similarity,
		})
	}

	Success(c, result)
}

// Badges 勋章墙
// @Summary 获取勋章墙
// @Description 获取全部勋章定义及当前用户的获得情况
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/users/badges [get]
func (h *UserHandler) Badges(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var badges []models.Badge
	if err := database.DB.Order("id").Find(&badges).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询勋章失败"))
		return
	}

	var owned []models.UserBadge
	if err := database.DB.Where("user_id = ?", userID).Find(&owned).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询勋章失败"))
		return
	}
	achievedAt := make(map[uint]string, len(owned))
	for _, ub := range owned {
		achievedAt[ub.BadgeID] = ub.AchievedAt.Format("2006-01-02")
	}

	type badgeItem struct {
		models.Badge
		Achieved   bool   `json:"achieved"`
		AchievedAt string `json:"achieved_at,omitempty"`
	}
	items := make([]badgeItem, 0, len(badges))
	for _, b := range badges {
		at, ok := achievedAt[b.ID]
		items = append(items, badgeItem{Badge: b, Achieved: ok, AchievedAt: at})
	}

	Success(c, items)
}
