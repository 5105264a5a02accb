package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"github.com/vnkhanh/rehash-backend/config"
)

// OCRService trích chữ từ ảnh theo chuỗi fallback:
// provider chính là Gemini vision, nếu trả về trắng thì thử Cloud Vision.
// Mỗi provider chỉ được gọi đúng 1 lần cho mỗi ảnh, không retry.
// OCR là best-effort: mọi lỗi đều được nuốt và trả về chuỗi rỗng,
// pipeline vẫn đi tiếp với phần chú thích của ảnh.
type OCRService struct {
	gemini    *GeminiClient
	credsFile string
}

func NewOCRService(cfg config.AppConfig, gemini *GeminiClient) *OCRService {
	return &OCRService{gemini: gemini, credsFile: cfg.GoogleCredsFile}
}

func (o *OCRService) ExtractTextFromImage(ctx context.Context, data []byte, mimeType string) string {
	text, err := o.gemini.OCRImage(ctx, data, mimeType)
	if err != nil {
		log.Println("Gemini OCR lỗi, chuyển sang Cloud Vision:", err)
	}
	if strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text)
	}

	text, err = o.cloudVisionOCR(ctx, data)
	if err != nil {
		log.Println("Cloud Vision OCR lỗi, bỏ qua ảnh:", err)
		return ""
	}
	return strings.TrimSpace(text)
}

func (o *OCRService) cloudVisionOCR(ctx context.Context, data []byte) (string, error) {
	var opts []option.ClientOption
	if o.credsFile != "" {
		opts = append(opts, option.WithCredentialsFile(o.credsFile))
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return "", err
	}
	defer client.Close()

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: data},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	}
	resp, err := client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Responses) == 0 {
		return "", nil
	}
	r := resp.Responses[0]
	if r.Error != nil {
		return "", fmt.Errorf("vision annotate: %s", r.Error.Message)
	}
	if r.FullTextAnnotation == nil {
		return "", nil
	}
	return r.FullTextAnnotation.Text, nil
}
