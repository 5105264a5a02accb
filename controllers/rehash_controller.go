package controllers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vnkhanh/rehash-backend/models"
	"github.com/vnkhanh/rehash-backend/services"
	"github.com/vnkhanh/rehash-backend/utils"
	"github.com/vnkhanh/rehash-backend/ws"
)

const maxUploadSize = 50 * 1024 * 1024 // 50MB mỗi file

var imageMimeByExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".heic": "image/heic",
	".heif": "image/heif",
}

// CreateRehash nhận multipart gồm ảnh + tài liệu + text note, trích xuất
// toàn bộ nội dung, gộp thành một văn bản rồi chạy song song 3 task sinh
// (notes/reddit/cards) và lưu kết quả thành một Note.
//
// Form fields:
//   - title:       tiêu đề tuỳ chọn
//   - text_notes:  các đoạn text dán trực tiếp (lặp lại được)
//   - images:      file ảnh (jpg/png/heic/heif)
//   - image_notes: chú thích của user cho từng ảnh, theo thứ tự images
//   - documents:   file tài liệu (docx/txt/pdf)
func CreateRehash(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Form không hợp lệ", "details": err.Error()})
		return
	}

	title := c.PostForm("title")
	textNotes := form.Value["text_notes"]
	imageNotes := form.Value["image_notes"]
	imageFiles := form.File["images"]
	documentFiles := form.File["documents"]

	hasText := false
	for _, t := range textNotes {
		if strings.TrimSpace(t) != "" {
			hasText = true
			break
		}
	}
	if len(imageFiles) == 0 && len(documentFiles) == 0 && !hasText {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cần ít nhất một ảnh, tài liệu hoặc đoạn text"})
		return
	}

	// Validate file trước khi xử lý bất cứ thứ gì
	for _, file := range imageFiles {
		if file.Size > maxUploadSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File " + file.Filename + " vượt quá 50MB"})
			return
		}
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if _, ok := imageMimeByExt[ext]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ảnh " + file.Filename + " không hỗ trợ (chỉ JPG, PNG, HEIC, HEIF)"})
			return
		}
	}
	for _, file := range documentFiles {
		if file.Size > maxUploadSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File " + file.Filename + " vượt quá 50MB"})
			return
		}
		if _, err := services.GetInputTypeFromExt(filepath.Ext(file.Filename)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	noteID := uuid.New()
	ctx := c.Request.Context()

	// == Bước 1: OCR ảnh + upload storage ==
	ws.SendNoteStatus(noteID.String(), "Đang trích xuất", 0.1, "")

	imageFragments := []services.ImageFragment{}
	photos := []models.Photo{}
	for i, file := range imageFiles {
		annotation := ""
		if i < len(imageNotes) {
			annotation = imageNotes[i]
		}

		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không đọc được ảnh " + file.Filename})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không đọc được ảnh " + file.Filename})
			return
		}

		ext := strings.ToLower(filepath.Ext(file.Filename))
		ocrText := services.OCR.ExtractTextFromImage(ctx, data, imageMimeByExt[ext])

		photoID := uuid.New()
		publicURL, err := utils.UploadImageToSupabase(file, photoID.String())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi upload Supabase", "details": err.Error()})
			return
		}

		imageFragments = append(imageFragments, services.ImageFragment{
			Filename:   file.Filename,
			Annotation: annotation,
			OCRText:    ocrText,
		})
		photos = append(photos, models.Photo{
			ID:         photoID,
			NoteID:     noteID,
			UserID:     uid,
			ImageURL:   publicURL,
			Annotation: annotation,
			Idx:        i,
			Filename:   file.Filename,
			FileSize:   file.Size,
		})
	}

	// == Bước 2: trích xuất tài liệu ==
	documentFragments := []services.DocumentFragment{}
	for _, file := range documentFiles {
		documentFragments = append(documentFragments, services.DocumentFragment{
			Label: file.Filename,
			Text:  services.ExtractDocumentText(file),
		})
	}

	// == Bước 3: gộp toàn bộ input thành một văn bản ==
	consolidated, derivedTitle := services.ConsolidateInputs(documentFragments, textNotes, imageFragments, title)
	if strings.TrimSpace(consolidated) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không trích xuất được nội dung nào từ các input"})
		return
	}

	// == Bước 4: chạy song song 3 task sinh nội dung ==
	ws.SendNoteStatus(noteID.String(), "Đang sinh nội dung", 0.5, "")
	outcome := services.DispatchGeneration(ctx, services.Gemini, consolidated)

	summary := "Generated rehash"
	if outcome.NotesMD != "" {
		summary = services.TruncateText(outcome.NotesMD, 500)
	}

	// == Bước 5: lưu kết quả ==
	now := time.Now()
	note := models.Note{
		ID:          noteID,
		UserID:      uid,
		Title:       derivedTitle,
		InputText:   consolidated,
		Summary:     summary,
		NotesMD:     outcome.NotesMD,
		RedditJSON:  datatypes.NewJSONType(outcome.Reddit),
		CardsJSON:   datatypes.NewJSONType(outcome.Cards),
		ProcessedAt: &now,
	}
	if err := db.Create(&note).Error; err != nil {
		ws.SendNoteStatus(noteID.String(), "Lỗi", 1, err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không lưu được note", "details": err.Error()})
		return
	}

	if len(photos) > 0 {
		if err := db.Create(&photos).Error; err != nil {
			// Photos lỗi không làm hỏng cả request
			ws.SendNoteStatus(noteID.String(), "Lỗi lưu ảnh", 0.9, err.Error())
		}
	}

	ws.SendNoteStatus(noteID.String(), "Hoàn thành", 1, "")
	ws.BroadcastNoteListChanged()

	c.JSON(http.StatusOK, gin.H{"noteId": note.ID})
}
