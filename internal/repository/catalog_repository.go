package repository

import (
	"context"
	"errors"

	"github.com/Kyle-Pantig/catalog/internal/model"
	"gorm.io/gorm"
)

var ErrDBNotReady = errors.New("database not initialized")

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order asc, created_at asc")
}

type CatalogRepository interface {
	Create(ctx context.Context, catalog *model.Catalog) error
	FindByID(ctx context.Context, id string) (*model.Catalog, error)
	FindByIDWithItems(ctx context.Context, id string) (*model.Catalog, error)
	FindByOwner(ctx context.Context, ownerID string) ([]model.Catalog, error)
	Updates(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	SetDB(db *gorm.DB)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) Create(ctx context.Context, catalog *model.Catalog) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(catalog).Error
}

func (r *catalogRepository) FindByID(ctx context.Context, id string) (*model.Catalog, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var catalog model.Catalog
	if err := r.db.WithContext(ctx).First(&catalog, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &catalog, nil
}

func (r *catalogRepository) FindByIDWithItems(ctx context.Context, id string) (*model.Catalog, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var catalog model.Catalog
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		Preload("Items.Images", orderedImages).
		First(&catalog, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &catalog, nil
}

func (r *catalogRepository) FindByOwner(ctx context.Context, ownerID string) ([]model.Catalog, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var catalogs []model.Catalog
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		Preload("Items.Images", orderedImages).
		Preload("ShareCodes").
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&catalogs).Error; err != nil {
		return nil, err
	}
	return catalogs, nil
}

func (r *catalogRepository) Updates(ctx context.Context, id string, fields map[string]interface{}) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Model(&model.Catalog{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *catalogRepository) Delete(ctx context.Context, id string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	// Items, images and share codes go with it via the FK cascade.
	return r.db.WithContext(ctx).Delete(&model.Catalog{}, "id = ?", id).Error
}

func (r *catalogRepository) SetDB(db *gorm.DB) {
	r.db = db
}
