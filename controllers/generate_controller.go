package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/rehash-backend/services"
)

// Input chung cho 3 endpoint sinh nội dung từ text thô
type GenerateInput struct {
	Text string `json:"text" binding:"required"`
}

// GenerateNotes sinh ghi chú markdown từ text, trả về {"notes": "..."}
func GenerateNotes(c *gin.Context) {
	var input GenerateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text content is required"})
		return
	}

	notes, err := services.GenerateNotesTask(c.Request.Context(), services.Gemini, input.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate notes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// GenerateReddit sinh thread thảo luận, trả về thẳng object thread.
// Task này không có fallback: output không hợp lệ là lỗi 500.
func GenerateReddit(c *gin.Context) {
	var input GenerateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text content is required"})
		return
	}

	thread, err := services.GenerateRedditTask(c.Request.Context(), services.Gemini, input.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate Reddit thread"})
		return
	}

	c.JSON(http.StatusOK, thread)
}

// GenerateCards sinh bộ thẻ ôn tập, trả về {"cards": [...]}.
// Không bao giờ 500 vì task luôn có bộ thẻ fallback.
func GenerateCards(c *gin.Context) {
	var input GenerateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text content is required"})
		return
	}

	cardSet := services.GenerateCardsTask(c.Request.Context(), services.Gemini, input.Text)
	c.JSON(http.StatusOK, gin.H{"cards": cardSet.Cards})
}
