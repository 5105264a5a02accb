package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/rehash-backend/models"
	"github.com/vnkhanh/rehash-backend/utils"
	"github.com/vnkhanh/rehash-backend/ws"
)

// GetNotes liệt kê note của user đang đăng nhập, mới nhất trước
func GetNotes(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	query := db.Model(&models.Note{}).Where("user_id = ?", userID)

	// tìm kiếm theo tiêu đề
	if search := c.Query("search"); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	// phân trang
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đếm tổng số note"})
		return
	}

	var notes []models.Note
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&notes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách note"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  notes,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetNoteDetail trả về note kèm ảnh đính kèm
func GetNoteDetail(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	note, ok := fetchOwnedNote(c, db, c.Param("id"))
	if !ok {
		return
	}

	if err := db.Preload("Photos").First(note, "id = ?", note.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy chi tiết note"})
		return
	}

	c.JSON(http.StatusOK, note)
}

type RenameNoteInput struct {
	Title string `json:"title" binding:"required"`
}

// RenameNote đổi tiêu đề note
func RenameNote(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input RenameNoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, ok := fetchOwnedNote(c, db, c.Param("id"))
	if !ok {
		return
	}

	if err := db.Model(note).Update("title", input.Title).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đổi tên note"})
		return
	}

	ws.BroadcastNoteListChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Đổi tên thành công"})
}

// DeleteNote xoá note cùng ảnh đính kèm (cả bản ghi lẫn file storage)
func DeleteNote(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	note, ok := fetchOwnedNote(c, db, c.Param("id"))
	if !ok {
		return
	}

	var photos []models.Photo
	db.Where("note_id = ?", note.ID).Find(&photos)

	if err := db.Where("note_id = ?", note.ID).Delete(&models.Photo{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xoá ảnh của note"})
		return
	}
	if err := db.Delete(note).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xoá note"})
		return
	}

	// Dọn file storage ngoài luồng, lỗi chỉ log
	go func() {
		for _, photo := range photos {
			if photo.ImageURL == "" {
				continue
			}
			if err := utils.DeleteFileFromSupabase(photo.ImageURL); err != nil {
				println("Lỗi xoá file storage:", err.Error())
			}
		}
	}()

	ws.BroadcastNoteListChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Xóa thành công"})
}
