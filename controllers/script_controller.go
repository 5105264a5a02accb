package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vnkhanh/rehash-backend/models"
	"github.com/vnkhanh/rehash-backend/services"
	"github.com/vnkhanh/rehash-backend/utils"
)

// Style mặc định khi note chưa gắn phong cách nào
var defaultStyleTemplate = services.StyleTemplate{
	Name:        "video essay",
	VisualStyle: "Clean, professional video essay style with clear imagery",
}

// fetchOwnedNote lấy note theo id và chặn truy cập chéo giữa các user
func fetchOwnedNote(c *gin.Context, db *gorm.DB, noteID string) (*models.Note, bool) {
	userID := c.GetString("user_id")

	if _, err := uuid.Parse(noteID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Note ID không hợp lệ"})
		return nil, false
	}

	var note models.Note
	if err := db.Where("id = ? AND user_id = ?", noteID, userID).First(&note).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy note"})
		return nil, false
	}
	return &note, true
}

// ListStyles trả về danh sách phong cách kịch bản cho client chọn
func ListStyles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"styles": services.AllStyles()})
}

type GenerateScriptInput struct {
	NoteID          string `json:"noteId" binding:"required"`
	Style           string `json:"style" binding:"required"`
	DurationMinutes int    `json:"durationMinutes" binding:"required"`
}

// GenerateScript sinh kịch bản video essay từ nội dung của note:
// kiểm tra độ đủ nội dung (bổ sung bằng web search nếu thiếu), sinh kịch
// bản theo persona của style, rồi tách đoạn + sinh image prompt cho từng đoạn.
func GenerateScript(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input GenerateScriptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Note ID is required"})
		return
	}

	styleTemplate, ok := services.GetStyleTemplate(models.ScriptStyle(input.Style))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid style is required (casually-explained, cgp-grey, kurzgesagt, school-of-life)"})
		return
	}

	if input.DurationMinutes < 1 || input.DurationMinutes > 10 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Duration must be between 1 and 10 minutes"})
		return
	}

	note, ok := fetchOwnedNote(c, db, input.NoteID)
	if !ok {
		return
	}

	// Ưu tiên notes đã sinh, fallback về văn bản gộp ban đầu
	sourceContent := note.NotesMD
	if sourceContent == "" {
		sourceContent = note.InputText
	}
	if sourceContent == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Note has no content to generate script from"})
		return
	}

	ctx := c.Request.Context()
	targetWordCount := input.DurationMinutes * services.WordsPerMinute

	// Kiểm tra + bổ sung nội dung nếu quá mỏng so với thời lượng
	supplement := services.SupplementContent(ctx, services.Search, sourceContent, targetWordCount)

	supplemental := ""
	if supplement.WasSupplemented {
		if _, after, found := strings.Cut(supplement.Content, "--- Additional Context ---"); found {
			supplemental = strings.TrimSpace(after)
		}
	}

	script, err := services.GenerateStyledScript(ctx, services.Gemini, sourceContent, styleTemplate.SystemPrompt, targetWordCount, supplemental)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate script", "details": err.Error()})
		return
	}

	if err := db.Model(note).Updates(map[string]interface{}{
		"script_text":             script,
		"script_style":            input.Style,
		"script_duration_minutes": input.DurationMinutes,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save script"})
		return
	}

	// Tách đoạn + sinh image prompt. Lỗi lưu segments không làm fail
	// request vì client có thể sinh lại qua endpoint segments.
	segmentTexts := services.SplitScriptSegments(script)
	segments := services.GenerateSegmentPrompts(ctx, services.Gemini, segmentTexts, styleTemplate)

	if err := db.Model(note).Update("script_segments", datatypes.NewJSONSlice(segments)).Error; err != nil {
		fmt.Println("Không lưu được segments:", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"script":            script,
		"style":             input.Style,
		"durationMinutes":   input.DurationMinutes,
		"wordCount":         services.CountWords(script),
		"wasSupplemented":   supplement.WasSupplemented,
		"supplementWarning": supplement.Warning,
	})
}

type NoteIDInput struct {
	NoteID string `json:"noteId" binding:"required"`
}

// GenerateSegments tách lại kịch bản hiện tại thành đoạn và sinh mới
// toàn bộ image prompt (dùng khi user đã sửa tay kịch bản)
func GenerateSegments(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input NoteIDInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Note ID is required"})
		return
	}

	note, ok := fetchOwnedNote(c, db, input.NoteID)
	if !ok {
		return
	}

	if note.ScriptText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Script not found. Generate a script first."})
		return
	}

	styleTemplate := defaultStyleTemplate
	if tpl, ok := services.GetStyleTemplate(models.ScriptStyle(note.ScriptStyle)); ok {
		styleTemplate = tpl
	}

	segmentTexts := services.SplitScriptSegments(note.ScriptText)
	segments := services.GenerateSegmentPrompts(c.Request.Context(), services.Gemini, segmentTexts, styleTemplate)

	if err := db.Model(note).Update("script_segments", datatypes.NewJSONSlice(segments)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save segments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"segments": segments,
		"count":    len(segments),
	})
}

type SegmentImageInput struct {
	NoteID         string `json:"noteId" binding:"required"`
	SegmentID      string `json:"segmentId" binding:"required"`
	Prompt         string `json:"prompt" binding:"required"`
	IsFirstSegment bool   `json:"isFirstSegment"`
}

// GenerateSegmentImage sinh ảnh minh hoạ cho một đoạn qua fal.ai,
// lưu ảnh về storage của mình và cộng dồn chi phí vào note
func GenerateSegmentImage(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input SegmentImageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	note, ok := fetchOwnedNote(c, db, input.NoteID)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	img, err := services.Images.GenerateSegmentImage(ctx, input.Prompt, input.IsFirstSegment)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate image", "details": err.Error()})
		return
	}

	// URL fal.ai chỉ sống tạm thời, tải về và lưu vào storage của mình
	data, err := services.Images.DownloadImage(ctx, img.URL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image file", "details": err.Error()})
		return
	}

	objectPath := fmt.Sprintf("images/%s_%s_%d.png", note.ID, input.SegmentID, time.Now().UnixMilli())
	publicURL, err := utils.UploadBytesToSupabase(data, objectPath, "image/png")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi upload Supabase", "details": err.Error()})
		return
	}

	segments := services.ApplySegmentImage(note.ScriptSegments, input.SegmentID, publicURL, input.Prompt, img)
	totalCost := services.TotalImageCost(segments)

	if err := db.Model(note).Updates(map[string]interface{}{
		"script_segments":  datatypes.NewJSONSlice(segments),
		"total_image_cost": totalCost,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image metadata"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"imageUrl": publicURL,
		"cost":     img.Cost,
		"model":    img.Model,
	})
}

type RemoveSegmentInput struct {
	NoteID    string `json:"noteId" binding:"required"`
	SegmentID string `json:"segmentId" binding:"required"`
}

// RemoveSegment loại một đoạn khỏi kịch bản, đánh lại thứ tự
// và tính lại tổng chi phí ảnh
func RemoveSegment(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input RemoveSegmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Note ID and segment ID are required"})
		return
	}

	note, ok := fetchOwnedNote(c, db, input.NoteID)
	if !ok {
		return
	}

	segments := services.RemoveSegmentByID(note.ScriptSegments, input.SegmentID)
	totalCost := services.TotalImageCost(segments)

	if err := db.Model(note).Updates(map[string]interface{}{
		"script_segments":  datatypes.NewJSONSlice(segments),
		"total_image_cost": totalCost,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove segment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type UpdateScriptInput struct {
	NoteID     string `json:"noteId" binding:"required"`
	ScriptText string `json:"scriptText" binding:"required"`
}

// UpdateScript lưu kịch bản user đã sửa tay. Segments cũ giữ nguyên
// cho đến khi client gọi sinh lại.
func UpdateScript(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input UpdateScriptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Script text is required"})
		return
	}

	note, ok := fetchOwnedNote(c, db, input.NoteID)
	if !ok {
		return
	}

	if err := db.Model(note).Update("script_text", input.ScriptText).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save script"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GenerateAudio đọc kịch bản (đã bỏ chỉ dẫn sân khấu) thành MP3
// và lưu vào storage
func GenerateAudio(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input NoteIDInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Note ID is required"})
		return
	}

	note, ok := fetchOwnedNote(c, db, input.NoteID)
	if !ok {
		return
	}

	if note.ScriptText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please generate a script first before creating audio"})
		return
	}

	cleaned := services.StripStageDirections(note.ScriptText)
	if cleaned == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Script contains no readable content after cleaning"})
		return
	}

	audio, err := services.SynthesizeScript(c.Request.Context(), services.GoogleCredsFile(), cleaned)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate audio", "details": err.Error()})
		return
	}

	objectPath := fmt.Sprintf("audio/%s_%d.mp3", note.ID, time.Now().UnixMilli())
	publicURL, err := utils.UploadBytesToSupabase(audio, objectPath, "audio/mpeg")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi upload Supabase", "details": err.Error()})
		return
	}

	now := time.Now()
	if err := db.Model(note).Updates(map[string]interface{}{
		"audio_url":          publicURL,
		"audio_generated_at": &now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save audio metadata"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"audioUrl": publicURL})
}
