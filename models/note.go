package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Các style kịch bản video essay được hỗ trợ
type ScriptStyle string

const (
	StyleKurzgesagt        ScriptStyle = "kurzgesagt"
	StyleCasuallyExplained ScriptStyle = "casually-explained"
	StyleCGPGrey           ScriptStyle = "cgp-grey"
	StyleSchoolOfLife      ScriptStyle = "school-of-life"
)

// RedditComment là một bình luận trong thread thảo luận mô phỏng.
// Replies chỉ lồng 1 cấp (reply không có replies con).
type RedditComment struct {
	User    string          `json:"user"`
	Body    string          `json:"body"`
	Up      int             `json:"up"`
	Replies []RedditComment `json:"replies,omitempty"`
}

// RedditThread là kết quả của task sinh thread thảo luận
type RedditThread struct {
	Title    string          `json:"title"`
	OP       string          `json:"op"`
	Comments []RedditComment `json:"comments"`
}

// GameCard là một thẻ ôn tập: "mcq" (trắc nghiệm 4 lựa chọn)
// hoặc "cloze" (điền vào chỗ trống ___ với 3 phương án nhiễu)
type GameCard struct {
	Type        string   `json:"type"`
	Prompt      string   `json:"prompt"`
	Answer      string   `json:"answer"`
	Choices     []string `json:"choices,omitempty"`
	Text        string   `json:"text,omitempty"`
	Distractors []string `json:"distractors,omitempty"`
}

type CardSet struct {
	Cards []GameCard `json:"cards"`
}

// ScriptSegment là một "beat" của kịch bản: đoạn lời thoại + prompt ảnh minh hoạ.
// Giữ key camelCase để khớp payload phía client.
type ScriptSegment struct {
	ID          string  `json:"id"`
	Text        string  `json:"text"`
	ImagePrompt string  `json:"imagePrompt"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Order       int     `json:"order"`
	Model       string  `json:"model,omitempty"`
	Cost        float64 `json:"cost"`
}

// Note là bản ghi rehash: văn bản gộp từ các input + kết quả của 3 task sinh
// (notes/reddit/cards, mỗi trường có thể vắng khi task tương ứng thất bại)
// + các trường kịch bản video essay được ghi thêm về sau
type Note struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	User   User      `gorm:"constraint:OnDelete:CASCADE;" json:"user"`

	Title     string `gorm:"size:255;not null" json:"title"`
	InputText string `gorm:"type:text" json:"input_text"`
	Summary   string `gorm:"size:600" json:"summary"`

	NotesMD    string                            `gorm:"type:text" json:"notes_md"`
	RedditJSON datatypes.JSONType[*RedditThread] `gorm:"type:jsonb" json:"reddit_json"`
	CardsJSON  datatypes.JSONType[*CardSet]      `gorm:"type:jsonb" json:"cards_json"`

	ScriptText            string                             `gorm:"type:text" json:"script_text"`
	ScriptStyle           string                             `gorm:"size:30" json:"script_style"`
	ScriptDurationMinutes int                                `json:"script_duration_minutes"`
	ScriptSegments        datatypes.JSONSlice[ScriptSegment] `gorm:"type:jsonb" json:"script_segments"`
	TotalImageCost        float64                            `gorm:"default:0" json:"total_image_cost"`

	AudioURL         string     `gorm:"type:text" json:"audio_url"`
	AudioGeneratedAt *time.Time `json:"audio_generated_at"`

	ProcessedAt *time.Time `json:"processed_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Photos []Photo `gorm:"foreignKey:NoteID" json:"photos"`
}
