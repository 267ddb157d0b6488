package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShareCode grants time-limited, once-per-IP public read access to one
// catalog. Lifecycle: active and unused at creation, stamped with UsedAt and
// UsedByIP on first redemption, deactivated once expired, and hard-deleted
// after the cleanup grace period.
type ShareCode struct {
	ID        string     `gorm:"primaryKey;size:36"`
	Code      string     `gorm:"size:64;not null;uniqueIndex:uk_share_codes_code"`
	CatalogID string     `gorm:"column:catalog_id;size:36;not null;index:idx_share_codes_catalog_id"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`
	UsedAt    *time.Time `gorm:"column:used_at"`
	UsedByIP  *string    `gorm:"column:used_by_ip;size:64"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

func (ShareCode) TableName() string {
	return "share_codes"
}

func (s *ShareCode) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
