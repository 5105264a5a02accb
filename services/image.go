package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vnkhanh/rehash-backend/models"
)

// Model ảnh và đơn giá mỗi ảnh (USD). Đoạn đầu dùng flux-pro làm
// khung neo phong cách, các đoạn sau dùng recraft-v3 rẻ hơn.
const (
	ModelFluxPro   = "flux-pro/kontext"
	ModelRecraftV3 = "fal-ai/recraft-v3"

	CostFluxPro   = 0.04
	CostRecraftV3 = 0.02
)

const (
	falBaseURL  = "https://fal.run"
	imageWidth  = 1024
	imageHeight = 576
)

// FalClient gọi fal.ai để sinh ảnh minh hoạ cho từng đoạn kịch bản
type FalClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewFalClient(apiKey string) *FalClient {
	return &FalClient{
		apiKey:     apiKey,
		baseURL:    falBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type falImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type falImageResponse struct {
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

// GeneratedImage là kết quả sinh một ảnh kèm thông tin tính phí
type GeneratedImage struct {
	URL   string
	Model string
	Cost  float64
}

var ErrFalNotConfigured = errors.New("dịch vụ sinh ảnh chưa được cấu hình")

// GenerateSegmentImage sinh ảnh 1024x576 cho một đoạn.
// isFirstSegment quyết định model và giá.
func (c *FalClient) GenerateSegmentImage(ctx context.Context, prompt string, isFirstSegment bool) (*GeneratedImage, error) {
	if c == nil || c.apiKey == "" {
		return nil, ErrFalNotConfigured
	}

	var path string
	var payload map[string]any
	result := &GeneratedImage{}

	if isFirstSegment {
		path = "/fal-ai/flux-pro"
		payload = map[string]any{
			"prompt":                prompt,
			"image_size":            falImageSize{Width: imageWidth, Height: imageHeight},
			"num_inference_steps":   28,
			"guidance_scale":        3.5,
			"num_images":            1,
			"enable_safety_checker": true,
		}
		result.Model = ModelFluxPro
		result.Cost = CostFluxPro
	} else {
		path = "/fal-ai/recraft-v3"
		payload = map[string]any{
			"prompt":     prompt,
			"image_size": falImageSize{Width: imageWidth, Height: imageHeight},
			"style":      "digital_illustration",
		}
		result.Model = ModelRecraftV3
		result.Cost = CostRecraftV3
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lỗi gọi fal.ai: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errText, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("fal.ai trả về status %d: %s", resp.StatusCode, string(errText))
	}

	var parsed falImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("lỗi đọc response fal.ai: %w", err)
	}
	if len(parsed.Images) == 0 || parsed.Images[0].URL == "" {
		return nil, errors.New("response fal.ai không có URL ảnh")
	}

	result.URL = parsed.Images[0].URL
	return result, nil
}

// DownloadImage tải ảnh về để đẩy lên storage của mình
// (URL của fal.ai chỉ là tạm thời)
func (c *FalClient) DownloadImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lỗi tải ảnh: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tải ảnh thất bại, status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// TotalImageCost cộng chi phí của toàn bộ đoạn
func TotalImageCost(segments []models.ScriptSegment) float64 {
	total := 0.0
	for _, seg := range segments {
		total += seg.Cost
	}
	return total
}

// ApplySegmentImage gán ảnh + model + giá + prompt (đã sửa) vào đúng đoạn
func ApplySegmentImage(segments []models.ScriptSegment, segmentID, imageURL, prompt string, img *GeneratedImage) []models.ScriptSegment {
	updated := make([]models.ScriptSegment, len(segments))
	copy(updated, segments)
	for i := range updated {
		if updated[i].ID == segmentID {
			updated[i].ImageURL = imageURL
			updated[i].Model = img.Model
			updated[i].Cost = img.Cost
			updated[i].ImagePrompt = prompt
		}
	}
	return updated
}

// RemoveSegmentByID loại đoạn theo id và đánh lại Order liên tục từ 0
func RemoveSegmentByID(segments []models.ScriptSegment, segmentID string) []models.ScriptSegment {
	updated := []models.ScriptSegment{}
	for _, seg := range segments {
		if seg.ID == segmentID {
			continue
		}
		seg.Order = len(updated)
		updated = append(updated, seg)
	}
	return updated
}
