package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Kyle-Pantig/catalog/internal/clock"
	"github.com/Kyle-Pantig/catalog/internal/model"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// memDB backs the fake repositories with plain maps. It mimics the bits of
// datastore behavior the services rely on: per-row updates, FK cascades and
// ordered child loads.
type memDB struct {
	mu       sync.Mutex
	catalogs map[string]model.Catalog
	items    map[string]model.Item
	images   map[string]model.ItemImage
	codes    map[string]model.ShareCode
	seq      int
}

func newMemDB() *memDB {
	return &memDB{
		catalogs: map[string]model.Catalog{},
		items:    map[string]model.Item{},
		images:   map[string]model.ItemImage{},
		codes:    map[string]model.ShareCode{},
	}
}

// nextTime hands out strictly increasing creation timestamps so insertion
// order is reconstructable.
func (db *memDB) nextTime() time.Time {
	db.seq++
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(db.seq) * time.Second)
}

func (db *memDB) sortedImagesForItem(itemID string) []model.ItemImage {
	var images []model.ItemImage
	for _, img := range db.images {
		if img.ItemID == itemID {
			images = append(images, img)
		}
	}
	sort.Slice(images, func(i, j int) bool {
		if images[i].SortOrder != images[j].SortOrder {
			return images[i].SortOrder < images[j].SortOrder
		}
		return images[i].CreatedAt.Before(images[j].CreatedAt)
	})
	return images
}

func (db *memDB) catalogWithItems(id string) (*model.Catalog, bool) {
	catalog, ok := db.catalogs[id]
	if !ok {
		return nil, false
	}
	var items []model.Item
	for _, item := range db.items {
		if item.CatalogID == id {
			item.Images = db.sortedImagesForItem(item.ID)
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	catalog.Items = items
	return &catalog, true
}

type fakeCatalogRepo struct {
	db *memDB
}

func (r *fakeCatalogRepo) Create(ctx context.Context, catalog *model.Catalog) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if catalog.ID == "" {
		catalog.ID = uuid.NewString()
	}
	catalog.CreatedAt = r.db.nextTime()
	r.db.catalogs[catalog.ID] = *catalog
	return nil
}

func (r *fakeCatalogRepo) FindByID(ctx context.Context, id string) (*model.Catalog, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	catalog, ok := r.db.catalogs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &catalog, nil
}

func (r *fakeCatalogRepo) FindByIDWithItems(ctx context.Context, id string) (*model.Catalog, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	catalog, ok := r.db.catalogWithItems(id)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return catalog, nil
}

func (r *fakeCatalogRepo) FindByOwner(ctx context.Context, ownerID string) ([]model.Catalog, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var catalogs []model.Catalog
	for id, c := range r.db.catalogs {
		if c.OwnerID != ownerID {
			continue
		}
		full, _ := r.db.catalogWithItems(id)
		for _, sc := range r.db.codes {
			if sc.CatalogID == id {
				full.ShareCodes = append(full.ShareCodes, sc)
			}
		}
		catalogs = append(catalogs, *full)
	}
	sort.Slice(catalogs, func(i, j int) bool {
		return catalogs[j].CreatedAt.Before(catalogs[i].CreatedAt)
	})
	return catalogs, nil
}

func (r *fakeCatalogRepo) Updates(ctx context.Context, id string, fields map[string]interface{}) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	catalog, ok := r.db.catalogs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for col, val := range fields {
		switch col {
		case "title":
			catalog.Title = val.(string)
		case "description":
			v := val.(string)
			catalog.Description = &v
		case "cover_photo":
			v := val.(string)
			catalog.CoverPhoto = &v
		}
	}
	r.db.catalogs[id] = catalog
	return nil
}

func (r *fakeCatalogRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.catalogs, id)
	for itemID, item := range r.db.items {
		if item.CatalogID != id {
			continue
		}
		for imgID, img := range r.db.images {
			if img.ItemID == itemID {
				delete(r.db.images, imgID)
			}
		}
		delete(r.db.items, itemID)
	}
	for codeID, code := range r.db.codes {
		if code.CatalogID == id {
			delete(r.db.codes, codeID)
		}
	}
	return nil
}

func (r *fakeCatalogRepo) SetDB(db *gorm.DB) {}

type fakeItemRepo struct {
	db *memDB
}

func (r *fakeItemRepo) Create(ctx context.Context, item *model.Item) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.CreatedAt = r.db.nextTime()
	r.db.items[item.ID] = *item
	return nil
}

func (r *fakeItemRepo) FindByID(ctx context.Context, id string) (*model.Item, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	item, ok := r.db.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &item, nil
}

func (r *fakeItemRepo) FindByIDWithImages(ctx context.Context, id string) (*model.Item, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	item, ok := r.db.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	item.Images = r.db.sortedImagesForItem(id)
	return &item, nil
}

func (r *fakeItemRepo) Updates(ctx context.Context, id string, fields map[string]interface{}) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	item, ok := r.db.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for col, val := range fields {
		switch col {
		case "name":
			item.Name = val.(string)
		case "description":
			v := val.(string)
			item.Description = &v
		case "price":
			v := val.(float64)
			item.Price = &v
		case "specifications":
			item.Specifications = val.(datatypes.JSONSlice[model.Specification])
		case "variants":
			item.Variants = val.(datatypes.JSONSlice[model.Variant])
		}
	}
	r.db.items[id] = item
	return nil
}

func (r *fakeItemRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.items, id)
	for imgID, img := range r.db.images {
		if img.ItemID == id {
			delete(r.db.images, imgID)
		}
	}
	return nil
}

func (r *fakeItemRepo) SetDB(db *gorm.DB) {}

type fakeImageRepo struct {
	db *memDB
}

func (r *fakeImageRepo) Create(ctx context.Context, image *model.ItemImage) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if image.ID == "" {
		image.ID = uuid.NewString()
	}
	image.CreatedAt = r.db.nextTime()
	r.db.images[image.ID] = *image
	return nil
}

func (r *fakeImageRepo) FindByID(ctx context.Context, id string) (*model.ItemImage, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	image, ok := r.db.images[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &image, nil
}

func (r *fakeImageRepo) FindByItem(ctx context.Context, itemID string) ([]model.ItemImage, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.sortedImagesForItem(itemID), nil
}

func (r *fakeImageRepo) UpdateOrder(ctx context.Context, id string, order int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	image, ok := r.db.images[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	image.SortOrder = order
	r.db.images[id] = image
	return nil
}

func (r *fakeImageRepo) DeleteByItem(ctx context.Context, itemID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, img := range r.db.images {
		if img.ItemID == itemID {
			delete(r.db.images, id)
		}
	}
	return nil
}

func (r *fakeImageRepo) SetDB(db *gorm.DB) {}

type fakeCodeRepo struct {
	db *memDB
	// collideFirst makes the first N CodeExists calls report a collision,
	// to exercise the regeneration loop.
	collideFirst int
	existsCalls  int
	// failDeactivate/failDelete inject per-record update failures.
	failDeactivate map[string]bool
	failDelete     map[string]bool
}

type errInjected struct{}

func (errInjected) Error() string { return "injected failure" }

func (r *fakeCodeRepo) Create(ctx context.Context, code *model.ShareCode) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	code.CreatedAt = r.db.nextTime()
	r.db.codes[code.ID] = *code
	return nil
}

func (r *fakeCodeRepo) FindByID(ctx context.Context, id string) (*model.ShareCode, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	code, ok := r.db.codes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &code, nil
}

func (r *fakeCodeRepo) FindByCode(ctx context.Context, code string) (*model.ShareCode, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, sc := range r.db.codes {
		if sc.Code == code {
			found := sc
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCodeRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.existsCalls++
	if r.collideFirst > 0 {
		r.collideFirst--
		return true, nil
	}
	for _, sc := range r.db.codes {
		if sc.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCodeRepo) FindActive(ctx context.Context) ([]model.ShareCode, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var codes []model.ShareCode
	for _, sc := range r.db.codes {
		if sc.IsActive && sc.ExpiresAt != nil {
			codes = append(codes, sc)
		}
	}
	return codes, nil
}

func (r *fakeCodeRepo) FindWithExpiry(ctx context.Context) ([]model.ShareCode, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var codes []model.ShareCode
	for _, sc := range r.db.codes {
		if sc.ExpiresAt != nil {
			codes = append(codes, sc)
		}
	}
	return codes, nil
}

func (r *fakeCodeRepo) MarkUsed(ctx context.Context, id string, usedAt time.Time, usedByIP string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	code, ok := r.db.codes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	code.UsedAt = &usedAt
	code.UsedByIP = &usedByIP
	r.db.codes[id] = code
	return nil
}

func (r *fakeCodeRepo) Deactivate(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.failDeactivate[id] {
		return errInjected{}
	}
	code, ok := r.db.codes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	code.IsActive = false
	r.db.codes[id] = code
	return nil
}

func (r *fakeCodeRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.failDelete[id] {
		return errInjected{}
	}
	delete(r.db.codes, id)
	return nil
}

func (r *fakeCodeRepo) SetDB(db *gorm.DB) {}

// fakeClock is a settable time source, normalized like the real one.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clock.Normalize(c.now)
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeImageStore records every delete request.
type fakeImageStore struct {
	mu      sync.Mutex
	deleted []string
}

func (s *fakeImageStore) DeleteImages(ctx context.Context, imageURLs []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, imageURLs...)
	return len(imageURLs)
}

func (s *fakeImageStore) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.deleted))
	copy(out, s.deleted)
	return out
}
