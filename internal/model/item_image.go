package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VariantSelection binds an image to a specific variant combination by axis
// name, e.g. {"Color": "Red"}.
type VariantSelection map[string]string

type ItemImage struct {
	ID               string                              `gorm:"primaryKey;size:36"`
	ItemID           string                              `gorm:"column:item_id;size:36;not null;index:idx_item_images_item_id"`
	URL              string                              `gorm:"column:url;size:512;not null"`
	SortOrder        int                                 `gorm:"column:sort_order;not null"`
	VariantSelection datatypes.JSONType[VariantSelection] `gorm:"column:variant_selection"`
	CreatedAt        time.Time                           `gorm:"autoCreateTime"`
	UpdatedAt        time.Time                           `gorm:"autoUpdateTime"`
}

func (ItemImage) TableName() string {
	return "item_images"
}

func (i *ItemImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
