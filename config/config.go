package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/rehash-backend/models"
)

var DB *gorm.DB

func InitDB() {
	// Lấy thông tin từ biến môi trường
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	// DSN cho PostgreSQL
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Ho_Chi_Minh",
		dbHost, dbUser, dbPass, dbName, dbPort,
	)

	// Kết nối DB với logger
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatal("Không thể kết nối database:", err)
	}

	DB = db

	// Lấy *sql.DB để config connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Không thể lấy sql.DB từ gorm:", err)
	}

	// Connection Pooling config
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	// AutoMigrate các models
	err = DB.AutoMigrate(
		&models.User{},
		&models.Note{},
		&models.Photo{},
	)
	if err != nil {
		log.Fatal("autoMigrate lỗi: ", err)
	}
	log.Println("postgreSQL connected & migrated successfully!")
}

// AppConfig gom toàn bộ cấu hình provider bên ngoài.
// Được load một lần ở main và inject vào các service khi khởi tạo,
// không đọc env rải rác trong logic.
type AppConfig struct {
	GeminiAPIKey    string
	GeminiModel     string
	TavilyAPIKey    string
	FalAIKey        string
	SupabaseURL     string
	SupabaseKey     string
	GoogleCredsFile string // credentials cho Cloud Vision + Cloud TTS
}

func LoadAppConfig() AppConfig {
	cfg := AppConfig{
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     os.Getenv("GEMINI_MODEL"),
		TavilyAPIKey:    os.Getenv("TAVILY_API_KEY"),
		FalAIKey:        os.Getenv("FAL_AI_API_KEY"),
		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseKey:     os.Getenv("SUPABASE_KEY"),
		GoogleCredsFile: os.Getenv("GOOGLE_CREDENTIALS_JSON"),
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-2.0-flash"
	}
	if cfg.GeminiAPIKey == "" {
		log.Println("GEMINI_API_KEY chưa được cấu hình, các API sinh nội dung sẽ lỗi")
	}
	if cfg.TavilyAPIKey == "" {
		log.Println("TAVILY_API_KEY chưa được cấu hình, bỏ qua bước bổ sung nội dung từ web search")
	}
	return cfg
}
