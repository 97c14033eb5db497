package model

import (
	"time"

	"github.com/google/uuid"
)

// FileRecord is gorm model for metadata of an uploaded file. The bytes
// themselves live in the storage backend under Filename; the unique index
// on (user_id, filename) makes a re-upload of the same name update the
// existing row instead of inserting a duplicate.
type FileRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	Filename string    `gorm:"type:text;not null;uniqueIndex:idx_owner_filename" json:"filename"`
	Size     int64     `json:"size"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_owner_filename;<-:create" json:"user_id"`
	User     User      `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP" json:"created_at"`
}
