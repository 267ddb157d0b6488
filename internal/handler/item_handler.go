package handler

import (
	"errors"
	"net/http"

	"github.com/Kyle-Pantig/catalog/internal/model"
	"github.com/Kyle-Pantig/catalog/internal/service"
	"github.com/labstack/echo/v4"
)

type ItemHandler struct {
	svc service.ItemService
}

func NewItemHandler(svc service.ItemService) *ItemHandler {
	return &ItemHandler{svc: svc}
}

type ItemImageRequest struct {
	URL              string            `json:"url"`
	VariantSelection map[string]string `json:"variantSelection"`
}

type CreateItemRequest struct {
	Name           string                `json:"name"`
	Description    *string               `json:"description"`
	Price          *float64              `json:"price"`
	Specifications []model.Specification `json:"specifications"`
	Variants       []model.Variant       `json:"variants"`
	Images         []ItemImageRequest    `json:"images"`
}

type UpdateItemRequest struct {
	Name           *string                `json:"name"`
	Description    *string                `json:"description"`
	Price          *float64               `json:"price"`
	Specifications *[]model.Specification `json:"specifications"`
	Variants       *[]model.Variant       `json:"variants"`
	Images         *[]ItemImageRequest    `json:"images"`
}

type ImageOrderRequest struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

type ReorderImagesRequest struct {
	Images []ImageOrderRequest `json:"images"`
}

func toImageInputs(reqs []ItemImageRequest) []service.ImageInput {
	inputs := make([]service.ImageInput, 0, len(reqs))
	for _, r := range reqs {
		inputs = append(inputs, service.ImageInput{URL: r.URL, VariantSelection: r.VariantSelection})
	}
	return inputs
}

func (h *ItemHandler) Create(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	item, err := h.svc.Create(c.Request().Context(), c.Param("id"), uid, service.ItemCreate{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Specifications: req.Specifications,
		Variants:       req.Variants,
		Images:         toImageInputs(req.Images),
	})
	if err != nil {
		return itemError(c, err, "failed to create item")
	}
	return c.JSON(http.StatusCreated, toItemResponse(item))
}

func (h *ItemHandler) Update(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	update := service.ItemUpdate{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Specifications: req.Specifications,
		Variants:       req.Variants,
	}
	if req.Images != nil {
		inputs := toImageInputs(*req.Images)
		update.Images = &inputs
	}
	item, err := h.svc.Update(c.Request().Context(), c.Param("id"), c.Param("itemId"), uid, update)
	if err != nil {
		return itemError(c, err, "failed to update item")
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}

func (h *ItemHandler) Delete(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	if err := h.svc.Delete(c.Request().Context(), c.Param("id"), c.Param("itemId"), uid); err != nil {
		return itemError(c, err, "failed to delete item")
	}
	return c.JSON(http.StatusOK, NewMessageResponse("Item deleted successfully"))
}

func (h *ItemHandler) ReorderImages(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req ReorderImagesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	orders := make([]service.ImageOrder, 0, len(req.Images))
	for _, img := range req.Images {
		orders = append(orders, service.ImageOrder{ID: img.ID, Order: img.Order})
	}
	item, err := h.svc.ReorderImages(c.Request().Context(), c.Param("id"), c.Param("itemId"), uid, orders)
	if err != nil {
		return itemError(c, err, "failed to reorder images")
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}

func itemError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "item not found"))
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not authorized"))
	default:
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", fallback))
	}
}
