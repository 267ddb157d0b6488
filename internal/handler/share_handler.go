package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/Kyle-Pantig/catalog/internal/model"
	"github.com/Kyle-Pantig/catalog/internal/service"
	"github.com/labstack/echo/v4"
)

type ShareHandler struct {
	svc service.ShareService
}

func NewShareHandler(svc service.ShareService) *ShareHandler {
	return &ShareHandler{svc: svc}
}

type ShareCodeResponse struct {
	ID        string  `json:"id"`
	Code      string  `json:"code"`
	CatalogID string  `json:"catalogId"`
	ExpiresAt *string `json:"expiresAt"`
	UsedAt    *string `json:"usedAt,omitempty"`
	UsedByIP  *string `json:"usedByIp,omitempty"`
	IsActive  bool    `json:"isActive"`
	CreatedAt string  `json:"createdAt"`
}

func toShareCodeResponse(sc *model.ShareCode) ShareCodeResponse {
	var expiresAt, usedAt *string
	if sc.ExpiresAt != nil {
		val := sc.ExpiresAt.Format(time.RFC3339)
		expiresAt = &val
	}
	if sc.UsedAt != nil {
		val := sc.UsedAt.Format(time.RFC3339)
		usedAt = &val
	}
	return ShareCodeResponse{
		ID:        sc.ID,
		Code:      sc.Code,
		CatalogID: sc.CatalogID,
		ExpiresAt: expiresAt,
		UsedAt:    usedAt,
		UsedByIP:  sc.UsedByIP,
		IsActive:  sc.IsActive,
		CreatedAt: sc.CreatedAt.Format(time.RFC3339),
	}
}

// CreateShareCodeRequest accepts an expiry hint for schema compatibility,
// but expiry is a fixed 24h policy and the hint is never applied.
type CreateShareCodeRequest struct {
	ExpiresAt *string `json:"expiresAt"`
}

type ValidateResponse struct {
	Valid     bool   `json:"valid"`
	Message   string `json:"message,omitempty"`
	CatalogID string `json:"catalogId,omitempty"`
}

func (h *ShareHandler) Create(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req CreateShareCodeRequest
	_ = c.Bind(&req)
	if req.ExpiresAt != nil {
		log.Printf("share-code create: ignoring client-supplied expiresAt %q (fixed 24h policy)", *req.ExpiresAt)
	}

	sc, err := h.svc.Issue(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return shareError(c, err, "failed to create share code")
	}
	return c.JSON(http.StatusCreated, toShareCodeResponse(sc))
}

func (h *ShareHandler) Delete(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	if err := h.svc.Revoke(c.Request().Context(), c.Param("codeId"), uid); err != nil {
		return shareError(c, err, "failed to delete share code")
	}
	return c.JSON(http.StatusOK, NewMessageResponse("Share code deleted successfully"))
}

// View is the public redeem endpoint: it may stamp first use or lazily
// deactivate an expired code before answering.
func (h *ShareHandler) View(c echo.Context) error {
	requesterIP := ClientIP(c.Request())
	catalog, err := h.svc.Redeem(c.Request().Context(), c.Param("code"), requesterIP)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCodeInvalid),
			errors.Is(err, service.ErrCodeExpired),
			errors.Is(err, service.ErrCodeUsed):
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", err.Error()))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "failed to fetch catalog"))
		}
	}
	return c.JSON(http.StatusOK, toCatalogWithItemsResponse(catalog))
}

// Validate is the side-effect-free pre-flight check; it always answers 200.
func (h *ShareHandler) Validate(c echo.Context) error {
	result, err := h.svc.Validate(c.Request().Context(), c.Param("code"))
	if err != nil {
		return c.JSON(http.StatusOK, ValidateResponse{Valid: false, Message: "Error validating code"})
	}
	return c.JSON(http.StatusOK, ValidateResponse{
		Valid:     result.Valid,
		Message:   result.Message,
		CatalogID: result.CatalogID,
	})
}

func shareError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "not found"))
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not authorized"))
	default:
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", fallback))
	}
}
