package service

import (
	"context"
	"testing"

	"github.com/Kyle-Pantig/catalog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestItemCreateWithStructuredFields(t *testing.T) {
	f := newSvcFixture(t)
	catalog := f.createCatalog(t, "owner-1")

	item, err := f.items.Create(context.Background(), catalog.ID, "owner-1", ItemCreate{
		Name:        "  Linen Shirt ",
		Description: strPtr("lightweight"),
		Price:       floatPtr(49.99),
		Specifications: []model.Specification{
			{Label: "Material", Value: "Linen"},
		},
		Variants: []model.Variant{
			{Name: "Size", Options: []model.VariantOption{{Value: "M"}, {Value: "L"}}},
		},
		Images: []ImageInput{
			{URL: "https://img/front.png"},
			{URL: "https://img/back.png", VariantSelection: model.VariantSelection{"Size": "L"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Linen Shirt", item.Name)
	require.NotNil(t, item.Price)
	assert.Equal(t, 49.99, *item.Price)
	require.Len(t, item.Specifications, 1)
	assert.Equal(t, "Material", item.Specifications[0].Label)
	require.Len(t, item.Variants, 1)
	assert.Len(t, item.Variants[0].Options, 2)

	require.Len(t, item.Images, 2)
	assert.Equal(t, "https://img/front.png", item.Images[0].URL)
	assert.Equal(t, 0, item.Images[0].SortOrder)
	assert.Equal(t, 1, item.Images[1].SortOrder)
	assert.Equal(t, model.VariantSelection{"Size": "L"}, item.Images[1].VariantSelection.Data())
}

func TestItemCreateValidation(t *testing.T) {
	f := newSvcFixture(t)
	catalog := f.createCatalog(t, "owner-1")

	_, err := f.items.Create(context.Background(), catalog.ID, "owner-1", ItemCreate{Name: "   "})
	assert.Error(t, err)

	_, err = f.items.Create(context.Background(), catalog.ID, "intruder", ItemCreate{Name: "Shirt"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.items.Create(context.Background(), "missing", "owner-1", ItemCreate{Name: "Shirt"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemUpdatePartialFields(t *testing.T) {
	f := newSvcFixture(t)
	catalog := f.createCatalog(t, "owner-1")
	item := f.createItemWithImages(t, catalog.ID, "owner-1", "https://img/1.png")

	updated, err := f.items.Update(context.Background(), catalog.ID, item.ID, "owner-1", ItemUpdate{
		Price: floatPtr(19.5),
	})
	require.NoError(t, err)
	assert.Equal(t, "Linen Shirt", updated.Name, "omitted fields stay untouched")
	require.NotNil(t, updated.Price)
	assert.Equal(t, 19.5, *updated.Price)
	assert.Len(t, updated.Images, 1, "omitted images stay untouched")

	specs := []model.Specification{{Label: "Fit", Value: "Relaxed"}}
	updated, err = f.items.Update(context.Background(), catalog.ID, item.ID, "owner-1", ItemUpdate{
		Name:           strPtr("Linen Shirt v2"),
		Specifications: &specs,
	})
	require.NoError(t, err)
	assert.Equal(t, "Linen Shirt v2", updated.Name)
	require.Len(t, updated.Specifications, 1)
	assert.Equal(t, "Fit", updated.Specifications[0].Label)
}

func TestItemUpdateReplacesImageSet(t *testing.T) {
	f := newSvcFixture(t)
	catalog := f.createCatalog(t, "owner-1")
	item := f.createItemWithImages(t, catalog.ID, "owner-1", "https://img/old-1.png", "https://img/old-2.png")

	oldIDs := map[string]bool{}
	for _, img := range item.Images {
		oldIDs[img.ID] = true
	}

	newImages := []ImageInput{
		{URL: "https://img/new-b.png"},
		{URL: "https://img/new-a.png"},
		{URL: "https://img/new-c.png"},
	}
	updated, err := f.items.Update(context.Background(), catalog.ID, item.ID, "owner-1", ItemUpdate{
		Images: &newImages,
	})
	require.NoError(t, err)

	require.Len(t, updated.Images, 3)
	for i, img := range updated.Images {
		assert.False(t, oldIDs[img.ID], "old image rows must be gone")
		assert.Equal(t, i, img.SortOrder, "order follows the submitted list")
		assert.Equal(t, newImages[i].URL, img.URL)
	}

	empty := []ImageInput{}
	updated, err = f.items.Update(context.Background(), catalog.ID, item.ID, "owner-1", ItemUpdate{
		Images: &empty,
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Images, "empty list clears the set")
}

func TestItemUpdateRejectsForeignItem(t *testing.T) {
	f := newSvcFixture(t)
	mine := f.createCatalog(t, "owner-1")
	other, err := f.catalogs.Create(context.Background(), "owner-1", "Other Catalog", nil, nil)
	require.NoError(t, err)
	item := f.createItemWithImages(t, other.ID, "owner-1")

	// Item exists, but under a different catalog than the path claims.
	_, err = f.items.Update(context.Background(), mine.ID, item.ID, "owner-1", ItemUpdate{
		Name: strPtr("renamed"),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemDeleteReclaimsImages(t *testing.T) {
	f := newSvcFixture(t)
	catalog := f.createCatalog(t, "owner-1")
	item := f.createItemWithImages(t, catalog.ID, "owner-1", "https://img/1.png", "https://img/2.png")
	keep := f.createItemWithImages(t, catalog.ID, "owner-1", "https://img/keep.png")

	require.NoError(t, f.items.Delete(context.Background(), catalog.ID, item.ID, "owner-1"))

	_, err := f.itemRepo.FindByID(context.Background(), item.ID)
	assert.Error(t, err)
	assert.ElementsMatch(t, []string{"https://img/1.png", "https://img/2.png"}, f.store.Deleted())

	kept, err := f.itemRepo.FindByIDWithImages(context.Background(), keep.ID)
	require.NoError(t, err)
	assert.Len(t, kept.Images, 1, "sibling items untouched")
}

func TestReorderImages(t *testing.T) {
	f := newSvcFixture(t)
	catalog := f.createCatalog(t, "owner-1")
	item := f.createItemWithImages(t, catalog.ID, "owner-1",
		"https://img/a.png", "https://img/b.png", "https://img/c.png")

	orders := []ImageOrder{
		{ID: item.Images[0].ID, Order: 2},
		{ID: item.Images[1].ID, Order: 0},
		{ID: item.Images[2].ID, Order: 1},
	}
	updated, err := f.items.ReorderImages(context.Background(), catalog.ID, item.ID, "owner-1", orders)
	require.NoError(t, err)

	require.Len(t, updated.Images, 3)
	assert.Equal(t, "https://img/b.png", updated.Images[0].URL)
	assert.Equal(t, "https://img/c.png", updated.Images[1].URL)
	assert.Equal(t, "https://img/a.png", updated.Images[2].URL)
}

func TestReorderImagesRejectsForeignImageID(t *testing.T) {
	f := newSvcFixture(t)
	catalog := f.createCatalog(t, "owner-1")
	item := f.createItemWithImages(t, catalog.ID, "owner-1", "https://img/a.png")
	otherItem := f.createItemWithImages(t, catalog.ID, "owner-1", "https://img/z.png")

	_, err := f.items.ReorderImages(context.Background(), catalog.ID, item.ID, "owner-1", []ImageOrder{
		{ID: otherItem.Images[0].ID, Order: 0},
	})
	assert.ErrorIs(t, err, ErrNotFound)

	// The foreign image keeps its original order.
	stored, err := f.imageRepo.FindByID(context.Background(), otherItem.Images[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.SortOrder)
}
