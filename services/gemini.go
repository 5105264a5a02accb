package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/vnkhanh/rehash-backend/config"
)

// TextAI là interface chung cho mọi lời gọi sinh văn bản,
// cho phép thay bằng fake trong test
type TextAI interface {
	// GenerateText gọi model ở chế độ tự do, trả về văn bản thô
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// GenerateJSON gọi model ở chế độ ràng buộc JSON (response MIME application/json)
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// GeminiClient gói API key + tên model, inject từ AppConfig
type GeminiClient struct {
	apiKey string
	model  string
}

func NewGeminiClient(cfg config.AppConfig) *GeminiClient {
	return &GeminiClient{apiKey: cfg.GeminiAPIKey, model: cfg.GeminiModel}
}

func (g *GeminiClient) generate(ctx context.Context, systemPrompt, userPrompt string, jsonMode bool) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("không thể tạo Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	}
	if jsonMode {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("lỗi Gemini xử lý: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini không trả kết quả hợp lệ")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

func (g *GeminiClient) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return g.generate(ctx, systemPrompt, userPrompt, false)
}

func (g *GeminiClient) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return g.generate(ctx, systemPrompt, userPrompt, true)
}

// OCRImage đọc chữ trong ảnh bằng Gemini vision (ảnh truyền theo bytes).
// mimeType dạng "image/png" / "image/jpeg"
func (g *GeminiClient) OCRImage(ctx context.Context, data []byte, mimeType string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("không thể tạo Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(
		"You are an OCR engine. Extract all readable text, equations, headings, and bullet lists from images. Return plain text with line breaks preserved.",
	)}}

	format := strings.TrimPrefix(mimeType, "image/")
	resp, err := model.GenerateContent(ctx,
		genai.ImageData(format, data),
		genai.Text("Extract every bit of textual information from this image. Output plain text only."),
	)
	if err != nil {
		return "", fmt.Errorf("lỗi Gemini OCR: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
