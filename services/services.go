package services

import "github.com/vnkhanh/rehash-backend/config"

// Client dùng chung cho toàn bộ controllers, khởi tạo một lần lúc boot
var (
	Gemini *GeminiClient
	OCR    *OCRService
	Search *TavilyClient
	Images *FalClient

	appConfig config.AppConfig
)

// Init khởi tạo các client theo cấu hình môi trường
func Init(cfg config.AppConfig) {
	appConfig = cfg
	Gemini = NewGeminiClient(cfg)
	OCR = NewOCRService(cfg, Gemini)
	Search = NewTavilyClient(cfg.TavilyAPIKey)
	Images = NewFalClient(cfg.FalAIKey)
}

// GoogleCredsFile trả về đường dẫn credentials cho Cloud TTS
func GoogleCredsFile() string {
	return appConfig.GoogleCredsFile
}
