package api

import (
	"time"

	"challengobi/config"
	"challengobi/database"
	"challengobi/middleware"
	"challengobi/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email" example:"saver@example.com"`
	Password  string `json:"password" binding:"required,min=6,max=50" example:"password123"`
	Nickname  string `json:"nickname" binding:"required,min=2,max=20" example:"节约达人"`
	Sex       string `json:"sex" binding:"required,oneof=M F" example:"F"`
	BirthDate string `json:"birth_date" binding:"required" example:"1995-03-01"`
	Career    uint8  `json:"career" binding:"required,min=1,max=15" example:"2"`
}

// LoginRequest 登录请求（支持邮箱或昵称）
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"saver@example.com"` // 可为邮箱或昵称
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token    string      `json:"token"`
	UserInfo models.User `json:"user_info"`
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户账号，注册时需填写性别、出生日期和职业（用户推荐的依据）
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 200 {object} Response{data=models.User} "注册成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	birthDate, err := time.ParseInLocation("2006-01-02", req.BirthDate, time.Local)
	if err != nil {
		BadRequest(c, "出生日期格式错误，应为: 2006-01-02")
		return
	}

	// 检查邮箱和昵称是否已被使用
	var existingUser models.User
	if err := database.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		BadRequest(c, "该邮箱已被注册")
		return
	}
	if err := database.DB.Where("nickname = ?", req.Nickname).First(&existingUser).Error; err == nil {
		BadRequest(c, "昵称已被使用")
		return
	}

	// 加密密码
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "密码加密失败")
		return
	}

	user := models.User{
		Email:     req.Email,
		Password:  string(hashedPassword),
		Nickname:  req.Nickname,
		Sex:       req.Sex,
		BirthDate: birthDate,
		Career:    req.Career,
		Status:    models.UserStatusActive,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建用户失败"))
		return
	}

	// 同步建一行空的消费偏好，后续在设置页勾选
	pref := models.UserChallengeCategory{UserID: user.ID}
	if err := database.DB.Create(&pref).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "初始化消费偏好失败"))
		return
	}

	SuccessWithMessage(c, "注册成功", user)
}

// Login 用户登录
// @Summary 用户登录
// @Description 用户登录获取 JWT token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "邮箱或密码错误"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	// 查找用户（支持邮箱或昵称）
	var user models.User
	if err := database.DB.Where("email = ? OR nickname = ?", req.Email, req.Email).First(&user).Error; err != nil {
		Unauthorized(c, "邮箱或密码错误")
		return
	}

	// 仅正常用户可登录
	if user.Status != models.UserStatusActive {
		Forbidden(c, "账号已锁定，请联系管理员解锁")
		return
	}

	// 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "邮箱或密码错误")
		return
	}

	// 生成 token
	token, err := middleware.GenerateToken(user.ID, user.Nickname, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "生成 token 失败")
		return
	}

	Success(c, LoginResponse{
		Token:    token,
		UserInfo: user,
	})
}

// CheckAvailability 检查邮箱或昵称是否可用
// @Summary 检查邮箱或昵称是否可用
// @Description 注册前检查邮箱或昵称是否已被占用
// @Tags 认证
// @Accept json
// @Produce json
// @Param email query string false "邮箱"
// @Param nickname query string false "昵称"
// @Success 200 {object} Response "检查结果"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/auth/check [get]
func (h *AuthHandler) CheckAvailability(c *gin.Context) {
	email := c.Query("email")
	nickname := c.Query("nickname")
	if email == "" && nickname == "" {
		BadRequest(c, "请提供邮箱或昵称")
		return
	}

	result := gin.H{}
	if email != "" {
		var count int64
		database.DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
		result["email_available"] = count == 0
	}
	if nickname != "" {
		var count int64
		database.DB.Model(&models.User{}).Where("nickname = ?", nickname).Count(&count)
		result["nickname_available"] = count == 0
	}

	Success(c, result)
}

// GetProfile 获取当前用户信息
// @Summary 获取当前用户信息
// @Description 获取当前登录用户的详细信息
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	Success(c, user)
}

// UpdateProfileRequest 更新资料请求
type UpdateProfileRequest struct {
	Nickname     string `json:"nickname" binding:"omitempty,min=2,max=20" example:"省钱小能手"`
	Introduction string `json:"introduction" binding:"omitempty,max=255" example:"一起攒钱吧"`
	ProfileImage string `json:"profile_image" binding:"omitempty,max=255"`
	Career       uint8  `json:"career" binding:"omitempty,min=1,max=15" example:"3"`
}

// UpdateProfile 更新当前用户资料
// @Summary 更新当前用户资料
// @Description 更新昵称、简介、头像或职业
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "资料信息"
// @Success 200 {object} Response{data=models.User} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	updates := map[string]interface{}{}
	if req.Nickname != "" && req.Nickname != user.Nickname {
		var count int64
		database.DB.Model(&models.User{}).Where("nickname = ? AND id != ?", req.Nickname, userID).Count(&count)
		if count > 0 {
			BadRequest(c, "昵称已被使用")
			return
		}
		updates["nickname"] = req.Nickname
	}
	if req.Introduction != "" {
		updates["introduction"] = req.Introduction
	}
	if req.ProfileImage != "" {
		updates["profile_image"] = req.ProfileImage
	}
	if req.Career != 0 {
		updates["career"] = req.Career
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新资料失败"))
			return
		}
	}

	SuccessWithMessage(c, "更新成功", user)
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required" example:"oldpassword123"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=50" example:"newpassword123"`
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Description 修改当前用户密码
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "密码信息"
// @Success 200 {object} Response "修改成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "原密码错误"
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	// 验证旧密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		Unauthorized(c, "原密码错误")
		return
	}

	// 加密新密码
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "密码加密失败")
		return
	}

	if err := database.DB.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新密码失败"))
		return
	}

	SuccessWithMessage(c, "密码修改成功", nil)
}
