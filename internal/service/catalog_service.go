package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/Kyle-Pantig/catalog/internal/model"
	"github.com/Kyle-Pantig/catalog/internal/repository"
	"github.com/Kyle-Pantig/catalog/internal/storage"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")
var ErrForbidden = errors.New("forbidden")

type CatalogUpdate struct {
	Title       *string
	Description *string
	CoverPhoto  *string
}

type CatalogService interface {
	Create(ctx context.Context, ownerID, title string, description, coverPhoto *string) (*model.Catalog, error)
	ListMine(ctx context.Context, ownerID string) ([]model.Catalog, error)
	Update(ctx context.Context, catalogID, ownerID string, update CatalogUpdate) (*model.Catalog, error)
	Delete(ctx context.Context, catalogID, ownerID string) error
	VerifyOwner(ctx context.Context, catalogID, ownerID string) (*model.Catalog, error)
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
	images      storage.ImageStore
}

func NewCatalogService(catalogRepo repository.CatalogRepository, images storage.ImageStore) CatalogService {
	return &catalogService{catalogRepo: catalogRepo, images: images}
}

// VerifyOwner is the ownership guard: every owner-scoped mutation on a
// catalog or anything nested under it passes through here exactly once
// before any write.
func (s *catalogService) VerifyOwner(ctx context.Context, catalogID, ownerID string) (*model.Catalog, error) {
	catalog, err := s.catalogRepo.FindByID(ctx, catalogID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if catalog.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return catalog, nil
}

func (s *catalogService) Create(ctx context.Context, ownerID, title string, description, coverPhoto *string) (*model.Catalog, error) {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 120 {
		return nil, errors.New("invalid title")
	}
	catalog := &model.Catalog{
		Title:       title,
		Description: description,
		CoverPhoto:  coverPhoto,
		OwnerID:     ownerID,
	}
	if err := s.catalogRepo.Create(ctx, catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

func (s *catalogService) ListMine(ctx context.Context, ownerID string) ([]model.Catalog, error) {
	return s.catalogRepo.FindByOwner(ctx, ownerID)
}

func (s *catalogService) Update(ctx context.Context, catalogID, ownerID string, update CatalogUpdate) (*model.Catalog, error) {
	if _, err := s.VerifyOwner(ctx, catalogID, ownerID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" || len(title) > 120 {
			return nil, errors.New("invalid title")
		}
		fields["title"] = title
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.CoverPhoto != nil {
		fields["cover_photo"] = *update.CoverPhoto
	}
	if len(fields) == 0 {
		return nil, errors.New("no fields to update")
	}

	if err := s.catalogRepo.Updates(ctx, catalogID, fields); err != nil {
		return nil, err
	}
	return s.catalogRepo.FindByID(ctx, catalogID)
}

// Delete removes the catalog and, through the cascade, its items, images and
// share codes. Image URLs are collected before the database delete; blob
// cleanup runs after it and never fails the request.
func (s *catalogService) Delete(ctx context.Context, catalogID, ownerID string) error {
	if _, err := s.VerifyOwner(ctx, catalogID, ownerID); err != nil {
		return err
	}

	catalog, err := s.catalogRepo.FindByIDWithItems(ctx, catalogID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	var urls []string
	for i := range catalog.Items {
		for j := range catalog.Items[i].Images {
			urls = append(urls, catalog.Items[i].Images[j].URL)
		}
	}

	if err := s.catalogRepo.Delete(ctx, catalogID); err != nil {
		return err
	}

	if len(urls) > 0 && s.images != nil {
		deleted := s.images.DeleteImages(ctx, urls)
		log.Printf("catalog %s deleted, reclaimed %d/%d images", catalogID, deleted, len(urls))
	}
	return nil
}
