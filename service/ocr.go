package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"

	"challengobi/config"

	"github.com/google/uuid"
)

// OCRImage 待识别的票据图片
type OCRImage struct {
	Filename string
	Data     []byte
}

// OCRLineItem OCR 服务器识别出的单条出账明细
type OCRLineItem struct {
	Store   string `json:"store"`
	Expense int    `json:"expense"`
}

// ocrResponse OCR 服务器响应
type ocrResponse struct {
	Results []OCRLineItem `json:"results"`
}

// OCRClient 外部 OCR 服务器客户端
// 识别失败是常态（超时、识别不出），调用方在收到错误时不得做任何状态变更
type OCRClient struct {
	cfg        *config.OCRConfig
	httpClient *http.Client
}

// NewOCRClient 创建 OCR 客户端
func NewOCRClient(cfg *config.OCRConfig) *OCRClient {
	return &OCRClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// ExtractLineItems 上传图片并获取识别出的出账明细
// 任何传输、状态码或解析失败都包装为 ErrOCRService 返回
func (c *OCRClient) ExtractLineItems(images []OCRImage) ([]OCRLineItem, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: 没有上传图片", ErrOCRService)
	}

	buf := new(bytes.Buffer)
	writer := multipart.NewWriter(buf)
	for _, img := range images {
		// 对象名用 uuid 重命名，避免客户端文件名冲突或注入
		objectName := uuid.New().String() + path.Ext(img.Filename)
		part, err := writer.CreateFormFile("files", objectName)
		if err != nil {
			return nil, fmt.Errorf("%w: 构建上传请求失败: %v", ErrOCRService, err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, fmt.Errorf("%w: 构建上传请求失败: %v", ErrOCRService, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("%w: 构建上传请求失败: %v", ErrOCRService, err)
	}

	req, err := http.NewRequest("POST", c.cfg.BaseURL+"/extract_text/", buf)
	if err != nil {
		return nil, fmt.Errorf("%w: 创建请求失败: %v", ErrOCRService, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: 请求 OCR 服务器失败: %v", ErrOCRService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: 读取响应失败: %v", ErrOCRService, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: OCR 服务器返回 %d", ErrOCRService, resp.StatusCode)
	}

	var parsed ocrResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: 解析响应失败: %v", ErrOCRService, err)
	}
	return parsed.Results, nil
}
