package models

import (
	"time"

	"github.com/google/uuid"
)

// Photo là một ảnh người dùng tải lên cho một rehash,
// kèm chú thích và vị trí upload
type Photo struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	NoteID uuid.UUID `gorm:"type:uuid;not null" json:"note_id"`
	UserID uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	User   User      `gorm:"constraint:OnDelete:CASCADE;" json:"user"`

	ImageURL   string `gorm:"type:text;not null" json:"image_url"`
	Annotation string `gorm:"type:text" json:"annotation"`
	Idx        int    `json:"idx"`
	Filename   string `gorm:"size:255" json:"filename"`
	FileSize   int64  `json:"file_size"` // bytes

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
