// internal/auth/refresh_model.go
package auth

import (
	"time"

	"gorm.io/gorm"
)

type RefreshToken struct {
	ID        uint       `gorm:"primaryKey"`
	UserID    uint       `gorm:"index"`
	Email     string     `gorm:"size:255"`
	Papel     Papel      `gorm:"size:20"`
	FamilyID  string     `gorm:"size:36;index"`
	Hash      string     `gorm:"uniqueIndex"`
	ExpiresAt time.Time  `gorm:"index"`
	RevokedAt *time.Time
	CreatedAt time.Time
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&RefreshToken{})
}
