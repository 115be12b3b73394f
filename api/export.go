package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"challengobi/database"
	"challengobi/middleware"
	"challengobi/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct{}

// NewExportHandler 创建导出处理器
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// exportQuery 解析导出的时间范围并查出当前用户的消费记录
func exportQuery(c *gin.Context) ([]models.Expense, string, string, bool) {
	userID := middleware.GetCurrentUserID(c)

	startStr := c.Query("start_date")
	endStr := c.Query("end_date")
	if startStr == "" || endStr == "" {
		BadRequest(c, "请提供开始日期和结束日期")
		return nil, "", "", false
	}

	startDate, err := time.ParseInLocation("2006-01-02", startStr, time.Local)
	if err != nil {
		BadRequest(c, "开始日期格式错误，应为: 2006-01-02")
		return nil, "", "", false
	}
	endDate, err := time.ParseInLocation("2006-01-02", endStr, time.Local)
	if err != nil {
		BadRequest(c, "结束日期格式错误，应为: 2006-01-02")
		return nil, "", "", false
	}
	endDate = endDate.Add(24*time.Hour - time.Second)

	var expenses []models.Expense
	if err := database.DB.
		Where("user_id = ? AND payment_date >= ? AND payment_date <= ?", userID, startDate, endDate).
		Order("payment_date DESC").
		Find(&expenses).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return nil, "", "", false
	}
	return expenses, startStr, endStr, true
}

func expenseSource(e *models.Expense) string {
	if e.IsHandwritten {
		return "手动录入"
	}
	return "票据识别"
}

// ExportCSV 导出消费记录为 CSV
// @Summary 导出消费记录为 CSV
// @Description 根据日期范围导出当前用户的消费记录为 CSV 文件
// @Tags 导出
// @Accept json
// @Produce text/csv
// @Security BearerAuth
// @Param start_date query string true "开始日期 (2025-07-01)"
// @Param end_date query string true "结束日期 (2025-07-31)"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	expenses, startStr, endStr, ok := exportQuery(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	headers := []string{"ID", "挑战ID", "店名", "金额", "来源", "支付日期", "创建时间"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	for _, expense := range expenses {
		row := []string{
			fmt.Sprintf("%d", expense.ID),
			fmt.Sprintf("%d", expense.ChallengeID),
			expense.Store,
			fmt.Sprintf("%d", expense.Amount),
			expenseSource(&expense),
			expense.PaymentDate.Format("2006-01-02"),
			expense.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "生成 CSV 失败")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	filename := fmt.Sprintf("expenses_%s_%s.csv", startStr, endStr)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel 导出消费记录为 Excel
// @Summary 导出消费记录为 Excel
// @Description 根据日期范围导出当前用户的消费记录为 xlsx 文件
// @Tags 导出
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_date query string true "开始日期 (2025-07-01)"
// @Param end_date query string true "结束日期 (2025-07-31)"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	expenses, startStr, endStr, ok := exportQuery(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "消费记录"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 10)
	f.SetColWidth(sheetName, "C", "C", 30)
	f.SetColWidth(sheetName, "D", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 12)
	f.SetColWidth(sheetName, "F", "F", 15)
	f.SetColWidth(sheetName, "G", "G", 20)

	headers := []string{"ID", "挑战ID", "店名", "金额", "来源", "支付日期", "创建时间"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	var totalAmount int
	for i, expense := range expenses {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), expense.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), expense.ChallengeID)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), expense.Store)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), expense.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), expenseSource(&expense))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), expense.PaymentDate.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), expense.CreatedAt.Format("2006-01-02 15:04:05"))
		totalAmount += expense.Amount
	}

	// 汇总行
	summaryRow := len(expenses) + 2
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "合计")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("C%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", summaryRow), totalAmount)
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", summaryRow), fmt.Sprintf("共 %d 条记录", len(expenses)))
	f.MergeCell(sheetName, fmt.Sprintf("E%d", summaryRow), fmt.Sprintf("G%d", summaryRow))

	filename := fmt.Sprintf("expenses_%s_%s.xlsx", startStr, endStr)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}
}

// ExportJSON 导出消费记录为 JSON
// @Summary 导出消费记录为 JSON
// @Description 根据日期范围导出当前用户的消费记录及汇总
// @Tags 导出
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "开始日期 (2025-07-01)"
// @Param end_date query string true "结束日期 (2025-07-31)"
// @Success 200 {object} Response{data=[]models.Expense} "导出成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	expenses, startStr, endStr, ok := exportQuery(c)
	if !ok {
		return
	}

	var totalAmount int
	for _, expense := range expenses {
		totalAmount += expense.Amount
	}

	Success(c, gin.H{
		"start_date":   startStr,
		"end_date":     endStr,
		"total_count":  len(expenses),
		"total_amount": totalAmount,
		"expenses":     expenses,
	})
}
