package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/vnkhanh/rehash-backend/models"
)

// Tốc độ đọc trung bình dùng để quy đổi phút → số từ mục tiêu
const WordsPerMinute = 150

// Ngân sách ký tự cho nội dung nguồn khi sinh kịch bản (rộng hơn
// các task sinh nội dung vì kịch bản cần nhiều ngữ cảnh hơn)
const ScriptCharBudget = 15000

// CountWords đếm số từ tách theo whitespace
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// GenerateStyledScript sinh kịch bản đọc theo persona của style đã chọn.
// supplemental (nếu có) là phần ngữ cảnh bổ sung từ web search, được nối
// sau nội dung gốc trước khi cắt về ngân sách ký tự.
func GenerateStyledScript(ctx context.Context, ai TextAI, content, stylePrompt string, targetWordCount int, supplemental string) (string, error) {
	fullContent := content
	if supplemental != "" {
		fullContent = content + "\n\n" + supplemental
	}

	systemPrompt := fmt.Sprintf(`%s

IMPORTANT REQUIREMENTS:
- Target word count: %d words (±10%%)
- Maintain technical accuracy while being engaging
- Include natural transitions and pacing cues
- Write for audio narration (conversational, clear pronunciation)
- Add [PAUSE] markers where natural breaks should occur
- Use the specified style consistently throughout

Your script should be ready to be read aloud and converted to audio.`, stylePrompt, targetWordCount)

	userPrompt := "Create an engaging educational script from this content. Make it entertaining while keeping it accurate:\n\n" +
		TruncateText(fullContent, ScriptCharBudget)

	script, err := ai.GenerateText(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", fmt.Errorf("sinh kịch bản thất bại: %w", err)
	}
	return strings.TrimSpace(script), nil
}

var (
	blankLinesRe     = regexp.MustCompile(`\n\n+`)
	stageDirectionRe = regexp.MustCompile(`^\[.*\]$`)
)

// SplitScriptSegments tách kịch bản thành các đoạn theo dòng trống.
// Đoạn rỗng và đoạn chỉ là chỉ dẫn sân khấu ([PAUSE], [MUSIC]...) bị loại.
func SplitScriptSegments(script string) []string {
	parts := blankLinesRe.Split(script, -1)
	segments := []string{}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || stageDirectionRe.MatchString(p) {
			continue
		}
		segments = append(segments, p)
	}
	return segments
}

// FallbackImagePrompt là prompt ảnh mặc định khi model không trả được prompt
func FallbackImagePrompt(segmentText string) string {
	runes := []rune(segmentText)
	if len(runes) > 100 {
		runes = runes[:100]
	}
	return fmt.Sprintf("Visual representation of: %s...", string(runes))
}

const segmentPromptTemplate = `You are an expert at creating image prompts for video essays. Given a script segment, create a detailed, visually descriptive prompt for an image that would accompany this narration.

Visual Style Guide: %s

The image should:
- Complement and enhance the narration
- Be visually engaging and appropriate for the content
- Follow the established visual style
- Be suitable for %s format

Respond with ONLY the image prompt, nothing else. Be specific about composition, colors, mood, and visual elements.`

// GenerateSegmentPrompts sinh image prompt cho từng đoạn, TUẦN TỰ theo
// thứ tự đoạn. Đoạn nào sinh lỗi thì dùng prompt fallback, không bao giờ
// làm hỏng cả danh sách.
func GenerateSegmentPrompts(ctx context.Context, ai TextAI, segmentTexts []string, style StyleTemplate) []models.ScriptSegment {
	systemPrompt := fmt.Sprintf(segmentPromptTemplate, style.VisualStyle, style.Name)

	segments := make([]models.ScriptSegment, 0, len(segmentTexts))
	for i, text := range segmentTexts {
		imagePrompt := ""
		raw, err := ai.GenerateText(ctx, systemPrompt, fmt.Sprintf("Script segment: %q", text))
		if err != nil {
			log.Printf("Lỗi sinh image prompt cho đoạn %d: %v\n", i, err)
		} else {
			imagePrompt = strings.TrimSpace(raw)
		}
		if imagePrompt == "" {
			imagePrompt = FallbackImagePrompt(text)
		}

		segments = append(segments, models.ScriptSegment{
			ID:          fmt.Sprintf("segment-%d", i),
			Text:        text,
			ImagePrompt: imagePrompt,
			Order:       i,
		})
	}
	return segments
}
