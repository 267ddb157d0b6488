package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Specification is a free-form label/value pair attached to an item or a
// variant option, e.g. {"Material", "Cotton"}.
type Specification struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// VariantOption is one selectable value on a variant axis. It may carry its
// own specifications in addition to the item-level ones.
type VariantOption struct {
	Value          string          `json:"value"`
	Specifications []Specification `json:"specifications,omitempty"`
}

// Variant is a named axis with its options, e.g. Name "Size" with options
// "S", "M", "L".
type Variant struct {
	Name    string          `json:"name"`
	Options []VariantOption `json:"options"`
}

type Item struct {
	ID             string                             `gorm:"primaryKey;size:36"`
	CatalogID      string                             `gorm:"column:catalog_id;size:36;not null;index:idx_items_catalog_id"`
	Name           string                             `gorm:"size:120;not null"`
	Description    *string                            `gorm:"type:text"`
	Price          *float64
	Specifications datatypes.JSONSlice[Specification] `gorm:"column:specifications"`
	Variants       datatypes.JSONSlice[Variant]       `gorm:"column:variants"`
	Images         []ItemImage                        `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time                          `gorm:"autoCreateTime"`
	UpdatedAt      time.Time                          `gorm:"autoUpdateTime"`
}

func (Item) TableName() string {
	return "items"
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
