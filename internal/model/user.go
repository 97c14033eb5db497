// Package model contain gorm model for recording data to database
package model

import (
	"time"

	"github.com/google/uuid"
)

// Account roles. RoleAdmin is only assigned by the bootstrap tooling,
// regular signups always get RoleUser.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is gorm model for an account that can own uploaded files.
// Password holds the bcrypt hash, never the plaintext.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Username  string    `gorm:"type:text;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	Role      string    `gorm:"type:text;default:'user'" json:"role"`
	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`

	Files []FileRecord `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
