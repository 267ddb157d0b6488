package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Kyle-Pantig/catalog/internal/model"
	"github.com/Kyle-Pantig/catalog/internal/repository"
	"github.com/Kyle-Pantig/catalog/internal/storage"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ImageInput struct {
	URL              string
	VariantSelection model.VariantSelection
}

type ItemCreate struct {
	Name           string
	Description    *string
	Price          *float64
	Specifications []model.Specification
	Variants       []model.Variant
	Images         []ImageInput
}

// ItemUpdate carries partial updates: nil means "leave untouched". For the
// list-valued fields a non-nil value replaces the whole list, never merges.
type ItemUpdate struct {
	Name           *string
	Description    *string
	Price          *float64
	Specifications *[]model.Specification
	Variants       *[]model.Variant
	Images         *[]ImageInput
}

type ImageOrder struct {
	ID    string
	Order int
}

type ItemService interface {
	Create(ctx context.Context, catalogID, ownerID string, in ItemCreate) (*model.Item, error)
	Update(ctx context.Context, catalogID, itemID, ownerID string, update ItemUpdate) (*model.Item, error)
	Delete(ctx context.Context, catalogID, itemID, ownerID string) error
	ReorderImages(ctx context.Context, catalogID, itemID, ownerID string, orders []ImageOrder) (*model.Item, error)
}

type itemService struct {
	guard     CatalogService
	itemRepo  repository.ItemRepository
	imageRepo repository.ItemImageRepository
	images    storage.ImageStore
}

func NewItemService(guard CatalogService, itemRepo repository.ItemRepository, imageRepo repository.ItemImageRepository, images storage.ImageStore) ItemService {
	return &itemService{guard: guard, itemRepo: itemRepo, imageRepo: imageRepo, images: images}
}

// findItemInCatalog loads the item and rejects ids that belong to another
// catalog, so a mismatched path cannot reach a foreign item.
func (s *itemService) findItemInCatalog(ctx context.Context, catalogID, itemID string) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if item.CatalogID != catalogID {
		return nil, ErrNotFound
	}
	return item, nil
}

func (s *itemService) Create(ctx context.Context, catalogID, ownerID string, in ItemCreate) (*model.Item, error) {
	if _, err := s.guard.VerifyOwner(ctx, catalogID, ownerID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 120 {
		return nil, errors.New("invalid name")
	}

	item := &model.Item{
		CatalogID:      catalogID,
		Name:           name,
		Description:    in.Description,
		Price:          in.Price,
		Specifications: in.Specifications,
		Variants:       in.Variants,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	for idx, img := range in.Images {
		image := &model.ItemImage{
			ItemID:           item.ID,
			URL:              img.URL,
			SortOrder:        idx,
			VariantSelection: datatypes.NewJSONType(img.VariantSelection),
		}
		if err := s.imageRepo.Create(ctx, image); err != nil {
			return nil, err
		}
	}

	return s.itemRepo.FindByIDWithImages(ctx, item.ID)
}

func (s *itemService) Update(ctx context.Context, catalogID, itemID, ownerID string, update ItemUpdate) (*model.Item, error) {
	if _, err := s.guard.VerifyOwner(ctx, catalogID, ownerID); err != nil {
		return nil, err
	}
	if _, err := s.findItemInCatalog(ctx, catalogID, itemID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" || len(name) > 120 {
			return nil, errors.New("invalid name")
		}
		fields["name"] = name
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.Price != nil {
		fields["price"] = *update.Price
	}
	if update.Specifications != nil {
		fields["specifications"] = datatypes.JSONSlice[model.Specification](*update.Specifications)
	}
	if update.Variants != nil {
		fields["variants"] = datatypes.JSONSlice[model.Variant](*update.Variants)
	}
	if len(fields) > 0 {
		if err := s.itemRepo.Updates(ctx, itemID, fields); err != nil {
			return nil, err
		}
	}

	// Supplying images replaces the whole set; order is the list index.
	if update.Images != nil {
		if err := s.imageRepo.DeleteByItem(ctx, itemID); err != nil {
			return nil, err
		}
		for idx, img := range *update.Images {
			image := &model.ItemImage{
				ItemID:           itemID,
				URL:              img.URL,
				SortOrder:        idx,
				VariantSelection: datatypes.NewJSONType(img.VariantSelection),
			}
			if err := s.imageRepo.Create(ctx, image); err != nil {
				return nil, err
			}
		}
	}

	return s.itemRepo.FindByIDWithImages(ctx, itemID)
}

func (s *itemService) Delete(ctx context.Context, catalogID, itemID, ownerID string) error {
	if _, err := s.guard.VerifyOwner(ctx, catalogID, ownerID); err != nil {
		return err
	}
	if _, err := s.findItemInCatalog(ctx, catalogID, itemID); err != nil {
		return err
	}

	images, err := s.imageRepo.FindByItem(ctx, itemID)
	if err != nil {
		return err
	}
	urls := make([]string, 0, len(images))
	for i := range images {
		urls = append(urls, images[i].URL)
	}

	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		return err
	}

	if len(urls) > 0 && s.images != nil {
		s.images.DeleteImages(ctx, urls)
	}
	return nil
}

func (s *itemService) ReorderImages(ctx context.Context, catalogID, itemID, ownerID string, orders []ImageOrder) (*model.Item, error) {
	if _, err := s.guard.VerifyOwner(ctx, catalogID, ownerID); err != nil {
		return nil, err
	}
	if _, err := s.findItemInCatalog(ctx, catalogID, itemID); err != nil {
		return nil, err
	}

	existing, err := s.imageRepo.FindByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	belongs := make(map[string]bool, len(existing))
	for i := range existing {
		belongs[existing[i].ID] = true
	}
	for _, o := range orders {
		if !belongs[o.ID] {
			return nil, ErrNotFound
		}
	}

	// The per-row updates are independent; issue them concurrently and wait
	// for all before returning the refreshed item.
	g, gctx := errgroup.WithContext(ctx)
	for _, o := range orders {
		o := o
		g.Go(func() error {
			return s.imageRepo.UpdateOrder(gctx, o.ID, o.Order)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return s.itemRepo.FindByIDWithImages(ctx, itemID)
}
