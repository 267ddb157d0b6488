package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/Kyle-Pantig/catalog/internal/model"
	"github.com/Kyle-Pantig/catalog/internal/service"
	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	svc service.CatalogService
}

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

type ItemImageResponse struct {
	ID               string            `json:"id"`
	ItemID           string            `json:"itemId"`
	URL              string            `json:"url"`
	Order            int               `json:"order"`
	VariantSelection map[string]string `json:"variantSelection,omitempty"`
	CreatedAt        string            `json:"createdAt"`
}

type ItemResponse struct {
	ID             string                `json:"id"`
	CatalogID      string                `json:"catalogId"`
	Name           string                `json:"name"`
	Description    *string               `json:"description,omitempty"`
	Price          *float64              `json:"price,omitempty"`
	Specifications []model.Specification `json:"specifications,omitempty"`
	Variants       []model.Variant       `json:"variants,omitempty"`
	Images         []ItemImageResponse   `json:"images"`
	CreatedAt      string                `json:"createdAt"`
}

type CatalogResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	CoverPhoto  *string `json:"coverPhoto,omitempty"`
	OwnerID     string  `json:"ownerId"`
	CreatedAt   string  `json:"createdAt"`
}

// CatalogWithItemsResponse is the nested shape used for the owner listing
// and the viewer snapshot. ShareCodes stays an empty (not null) list for
// viewers.
type CatalogWithItemsResponse struct {
	CatalogResponse
	Items      []ItemResponse      `json:"items"`
	ShareCodes []ShareCodeResponse `json:"shareCodes"`
}

func toImageResponse(img *model.ItemImage) ItemImageResponse {
	return ItemImageResponse{
		ID:               img.ID,
		ItemID:           img.ItemID,
		URL:              img.URL,
		Order:            img.SortOrder,
		VariantSelection: img.VariantSelection.Data(),
		CreatedAt:        img.CreatedAt.Format(time.RFC3339),
	}
}

func toItemResponse(item *model.Item) ItemResponse {
	images := make([]ItemImageResponse, 0, len(item.Images))
	for i := range item.Images {
		images = append(images, toImageResponse(&item.Images[i]))
	}
	return ItemResponse{
		ID:             item.ID,
		CatalogID:      item.CatalogID,
		Name:           item.Name,
		Description:    item.Description,
		Price:          item.Price,
		Specifications: item.Specifications,
		Variants:       item.Variants,
		Images:         images,
		CreatedAt:      item.CreatedAt.Format(time.RFC3339),
	}
}

func toCatalogResponse(catalog *model.Catalog) CatalogResponse {
	return CatalogResponse{
		ID:          catalog.ID,
		Title:       catalog.Title,
		Description: catalog.Description,
		CoverPhoto:  catalog.CoverPhoto,
		OwnerID:     catalog.OwnerID,
		CreatedAt:   catalog.CreatedAt.Format(time.RFC3339),
	}
}

func toCatalogWithItemsResponse(catalog *model.Catalog) CatalogWithItemsResponse {
	items := make([]ItemResponse, 0, len(catalog.Items))
	for i := range catalog.Items {
		items = append(items, toItemResponse(&catalog.Items[i]))
	}
	codes := make([]ShareCodeResponse, 0, len(catalog.ShareCodes))
	for i := range catalog.ShareCodes {
		codes = append(codes, toShareCodeResponse(&catalog.ShareCodes[i]))
	}
	return CatalogWithItemsResponse{
		CatalogResponse: toCatalogResponse(catalog),
		Items:           items,
		ShareCodes:      codes,
	}
}

type CreateCatalogRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	CoverPhoto  *string `json:"coverPhoto"`
}

type UpdateCatalogRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CoverPhoto  *string `json:"coverPhoto"`
}

func (h *CatalogHandler) Create(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req CreateCatalogRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	catalog, err := h.svc.Create(c.Request().Context(), uid, req.Title, req.Description, req.CoverPhoto)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toCatalogResponse(catalog))
}

func (h *CatalogHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	catalogs, err := h.svc.ListMine(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch catalogs"))
	}
	resp := make([]CatalogWithItemsResponse, 0, len(catalogs))
	for i := range catalogs {
		resp = append(resp, toCatalogWithItemsResponse(&catalogs[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) Update(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req UpdateCatalogRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	catalog, err := h.svc.Update(c.Request().Context(), c.Param("id"), uid, service.CatalogUpdate{
		Title:       req.Title,
		Description: req.Description,
		CoverPhoto:  req.CoverPhoto,
	})
	if err != nil {
		return catalogError(c, err, "failed to update catalog")
	}
	return c.JSON(http.StatusOK, toCatalogResponse(catalog))
}

func (h *CatalogHandler) Delete(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	if err := h.svc.Delete(c.Request().Context(), c.Param("id"), uid); err != nil {
		return catalogError(c, err, "failed to delete catalog")
	}
	return c.JSON(http.StatusOK, NewMessageResponse("Catalog deleted successfully"))
}

// catalogError maps guard failures to their statuses and hides everything
// else behind a generic message.
func catalogError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "catalog not found"))
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not authorized"))
	default:
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", fallback))
	}
}
