package repository

import (
	"context"

	"github.com/Kyle-Pantig/catalog/internal/model"
	"gorm.io/gorm"
)

type ItemImageRepository interface {
	Create(ctx context.Context, image *model.ItemImage) error
	FindByID(ctx context.Context, id string) (*model.ItemImage, error)
	FindByItem(ctx context.Context, itemID string) ([]model.ItemImage, error)
	UpdateOrder(ctx context.Context, id string, order int) error
	DeleteByItem(ctx context.Context, itemID string) error
	SetDB(db *gorm.DB)
}

type itemImageRepository struct {
	db *gorm.DB
}

func NewItemImageRepository(db *gorm.DB) ItemImageRepository {
	return &itemImageRepository{db: db}
}

func (r *itemImageRepository) Create(ctx context.Context, image *model.ItemImage) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *itemImageRepository) FindByID(ctx context.Context, id string) (*model.ItemImage, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var image model.ItemImage
	if err := r.db.WithContext(ctx).First(&image, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *itemImageRepository) FindByItem(ctx context.Context, itemID string) ([]model.ItemImage, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var images []model.ItemImage
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("sort_order asc, created_at asc").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (r *itemImageRepository) UpdateOrder(ctx context.Context, id string, order int) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Model(&model.ItemImage{}).
		Where("id = ?", id).
		Update("sort_order", order).Error
}

func (r *itemImageRepository) DeleteByItem(ctx context.Context, itemID string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Delete(&model.ItemImage{}).Error
}

func (r *itemImageRepository) SetDB(db *gorm.DB) {
	r.db = db
}
