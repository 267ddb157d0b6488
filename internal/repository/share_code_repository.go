package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Kyle-Pantig/catalog/internal/model"
	"gorm.io/gorm"
)

type ShareCodeRepository interface {
	Create(ctx context.Context, code *model.ShareCode) error
	FindByID(ctx context.Context, id string) (*model.ShareCode, error)
	FindByCode(ctx context.Context, code string) (*model.ShareCode, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	FindActive(ctx context.Context) ([]model.ShareCode, error)
	FindWithExpiry(ctx context.Context) ([]model.ShareCode, error)
	MarkUsed(ctx context.Context, id string, usedAt time.Time, usedByIP string) error
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	SetDB(db *gorm.DB)
}

type shareCodeRepository struct {
	db *gorm.DB
}

func NewShareCodeRepository(db *gorm.DB) ShareCodeRepository {
	return &shareCodeRepository{db: db}
}

func (r *shareCodeRepository) Create(ctx context.Context, code *model.ShareCode) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *shareCodeRepository) FindByID(ctx context.Context, id string) (*model.ShareCode, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var sc model.ShareCode
	if err := r.db.WithContext(ctx).First(&sc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sc, nil
}

func (r *shareCodeRepository) FindByCode(ctx context.Context, code string) (*model.ShareCode, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var sc model.ShareCode
	if err := r.db.WithContext(ctx).First(&sc, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &sc, nil
}

func (r *shareCodeRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	if r.db == nil {
		return false, ErrDBNotReady
	}
	var sc model.ShareCode
	err := r.db.WithContext(ctx).Select("id").First(&sc, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// FindActive returns all active codes that carry an expiration. Expiry
// filtering happens in the caller against the normalized clock.
func (r *shareCodeRepository) FindActive(ctx context.Context) ([]model.ShareCode, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var codes []model.ShareCode
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND expires_at IS NOT NULL", true).
		Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// FindWithExpiry returns every code that carries an expiration, active or not.
func (r *shareCodeRepository) FindWithExpiry(ctx context.Context) ([]model.ShareCode, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var codes []model.ShareCode
	if err := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL").
		Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *shareCodeRepository) MarkUsed(ctx context.Context, id string, usedAt time.Time, usedByIP string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Model(&model.ShareCode{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"used_at": usedAt, "used_by_ip": usedByIP}).Error
}

func (r *shareCodeRepository) Deactivate(ctx context.Context, id string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Model(&model.ShareCode{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *shareCodeRepository) Delete(ctx context.Context, id string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Delete(&model.ShareCode{}, "id = ?", id).Error
}

func (r *shareCodeRepository) SetDB(db *gorm.DB) {
	r.db = db
}
