package api

import (
	"encoding/json"
	"io"
	"time"

	"challengobi/config"
	"challengobi/database"
	"challengobi/middleware"
	"challengobi/models"
	"challengobi/service"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// ExpenseHandler 消费认证处理器
type ExpenseHandler struct {
	ocrClient *service.OCRClient
}

// NewExpenseHandler 创建消费认证处理器
func NewExpenseHandler(cfg *config.Config) *ExpenseHandler {
	return &ExpenseHandler{
		ocrClient: service.NewOCRClient(&cfg.OCR),
	}
}

// maxReceiptSize 单张票据图片大小上限
const maxReceiptSize = 10 << 20

// OCRUploadResponse 票据识别响应，明细是草稿，需要用户确认后才入账
type OCRUploadResponse struct {
	OCRResultID uint                  `json:"ocr_result_id"`
	Items       []service.OCRLineItem `json:"items"`
}

// UploadReceipts 上传票据识别
// @Summary 上传票据图片识别消费明细
// @Description 上传票据图片给 OCR 服务器识别，返回的明细是草稿，确认后才入账。识别失败不改变任何状态。
// @Tags 消费认证
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "挑战ID"
// @Param images formData file true "票据图片，可多张"
// @Success 200 {object} Response{data=OCRUploadResponse} "识别成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 502 {object} Response "OCR 服务不可用"
// @Router /api/v1/challenges/{id}/expenses/ocr [post]
func (h *ExpenseHandler) UploadReceipts(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	challengeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		BadRequest(c, "请上传票据图片")
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		BadRequest(c, "请上传票据图片")
		return
	}

	var images []service.OCRImage
	for _, file := range files {
		if file.Size > maxReceiptSize {
			BadRequest(c, "图片大小不能超过 10MB")
			return
		}
		f, err := file.Open()
		if err != nil {
			BadRequest(c, "读取图片失败")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			BadRequest(c, "读取图片失败")
			return
		}
		images = append(images, service.OCRImage{Filename: file.Filename, Data: data})
	}

	items, err := h.ocrClient.ExtractLineItems(images)
	if err != nil {
		serviceError(c, err, "票据识别失败")
		return
	}

	// 原始识别结果落库，供确认页回显和问题排查
	raw, err := json.Marshal(items)
	if err != nil {
		InternalError(c, "保存识别结果失败")
		return
	}
	now := time.Now()
	ocrResult := models.OCRResult{
		UserID:      userID,
		ChallengeID: challengeID,
		ImageObject: files[0].Filename,
		ResultData:  datatypes.JSON(raw),
		Status:      models.OCRStatusCompleted,
		CompletedAt: &now,
	}
	if err := database.DB.Create(&ocrResult).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "保存识别结果失败"))
		return
	}

	Success(c, OCRUploadResponse{
		OCRResultID: ocrResult.ID,
		Items:       items,
	})
}

// ConfirmBatchRequest 确认入账请求
type ConfirmBatchRequest struct {
	OCRResultID uint                      `json:"ocr_result_id" example:"12"`
	Items       []service.ExpenseLineItem `json:"items" binding:"required"`
}

// ConfirmBatch 确认识别结果入账
// @Summary 确认识别明细入账
// @Description 把用户确认后的消费明细一次性入账。超支的批次照常入账并把参与者标记为失败，不拒绝提交。
// @Tags 消费认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "挑战ID"
// @Param request body ConfirmBatchRequest true "确认的明细"
// @Success 200 {object} Response{data=service.ApplyResult} "入账成功"
// @Failure 400 {object} Response "明细校验失败"
// @Failure 409 {object} Response "挑战不在进行中或参与者已失败"
// @Router /api/v1/challenges/{id}/expenses/batch [post]
func (h *ExpenseHandler) ConfirmBatch(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	challengeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ConfirmBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	result, err := service.ApplyExpenseBatch(database.DB, challengeID, userID, req.Items, time.Now())
	if err != nil {
		serviceError(c, err, "入账失败")
		return
	}

	SuccessWithMessage(c, "入账成功", result)
}

// ManualExpenseRequest 手动录入请求
type ManualExpenseRequest struct {
	Store       string `json:"store" binding:"required,max=255" example:"食堂"`
	Amount      int    `json:"amount" binding:"required,gt=0" example:"8000"`
	PaymentDate string `json:"payment_date" binding:"required" example:"2025-07-03"`
}

// AddManual 手动录入消费
// @Summary 手动快速录入单条消费
// @Description 手动录入一条消费，余额不足时直接拒绝，不改变任何状态
// @Tags 消费认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "挑战ID"
// @Param request body ManualExpenseRequest true "消费信息"
// @Success 200 {object} Response{data=service.ApplyResult} "录入成功"
// @Failure 400 {object} Response "余额不足或参数错误"
// @Failure 409 {object} Response "挑战不在进行中或参与者已失败"
// @Router /api/v1/challenges/{id}/expenses [post]
func (h *ExpenseHandler) AddManual(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	challengeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ManualExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	paymentDate, err := time.ParseInLocation("2006-01-02", req.PaymentDate, time.Local)
	if err != nil {
		BadRequest(c, "支付日期格式错误，应为: 2006-01-02")
		return
	}

	item := service.ExpenseLineItem{
		Store:       req.Store,
		Amount:      req.Amount,
		PaymentDate: paymentDate,
	}
	result, err := service.AddManualExpense(database.DB, challengeID, userID, item, time.Now())
	if err != nil {
		serviceError(c, err, "录入失败")
		return
	}

	SuccessWithMessage(c, "录入成功", result)
}

// List 获取挑战内的消费记录
// @Summary 获取我在挑战内的消费记录
// @Description 获取当前用户在指定挑战内的全部消费记录
// @Tags 消费认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "挑战ID"
// @Success 200 {object} Response{data=[]models.Expense} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/challenges/{id}/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	challengeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var expenses []models.Expense
	if err := database.DB.Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		Order("payment_date DESC, id DESC").Find(&expenses).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, expenses)
}
