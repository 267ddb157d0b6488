package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Catalog struct {
	ID          string      `gorm:"primaryKey;size:36"`
	Title       string      `gorm:"size:120;not null"`
	Description *string     `gorm:"type:text"`
	CoverPhoto  *string     `gorm:"size:512"`
	OwnerID     string      `gorm:"column:owner_id;size:128;not null;index:idx_catalogs_owner_id"`
	Items       []Item      `gorm:"foreignKey:CatalogID;constraint:OnDelete:CASCADE"`
	ShareCodes  []ShareCode `gorm:"foreignKey:CatalogID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime"`
}

func (Catalog) TableName() string {
	return "catalogs"
}

func (c *Catalog) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
