package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/rehash-backend/controllers"
	"github.com/vnkhanh/rehash-backend/middleware"
	"github.com/vnkhanh/rehash-backend/ws"
	"gorm.io/gorm"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	user := api.Group("")
	{
		user.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db))

		user.POST("/auth/change-password", controllers.ChangePassword)

		// Pipeline rehash chính: upload -> trích xuất -> sinh nội dung
		user.POST("/rehash", controllers.CreateRehash)

		// Quản lý note
		user.GET("/notes", controllers.GetNotes)
		user.GET("/notes/:id", controllers.GetNoteDetail)
		user.PATCH("/notes/:id", controllers.RenameNote)
		user.DELETE("/notes/:id", controllers.DeleteNote)

		// Các task sinh nội dung độc lập từ text thô
		user.POST("/generate/notes", controllers.GenerateNotes)
		user.POST("/generate/reddit", controllers.GenerateReddit)
		user.POST("/generate/cards", controllers.GenerateCards)

		// Kịch bản video essay
		user.GET("/script/styles", controllers.ListStyles)
		user.POST("/generate/script", controllers.GenerateScript)
		user.POST("/generate/segments", controllers.GenerateSegments)
		user.POST("/generate/image", controllers.GenerateSegmentImage)
		user.POST("/remove-segment", controllers.RemoveSegment)
		user.POST("/update-script", controllers.UpdateScript)
		user.POST("/generate/audio", controllers.GenerateAudio)
	}

	r.GET("/ws/note/:id", ws.HandleNoteWebSocket)
	r.GET("/ws/status", ws.HandleGlobalWebSocket)

	return r
}
