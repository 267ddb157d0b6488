package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Kyle-Pantig/catalog/internal/clock"
	"github.com/Kyle-Pantig/catalog/internal/handler"
	"github.com/Kyle-Pantig/catalog/internal/identity"
	appmw "github.com/Kyle-Pantig/catalog/internal/middleware"
	"github.com/Kyle-Pantig/catalog/internal/repository"
	"github.com/Kyle-Pantig/catalog/internal/service"
	"github.com/Kyle-Pantig/catalog/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type Server struct {
	e           *echo.Echo
	catalogRepo repository.CatalogRepository
	itemRepo    repository.ItemRepository
	imageRepo   repository.ItemImageRepository
	codeRepo    repository.ShareCodeRepository
	cleanup     service.CleanupService
}

func New(db *gorm.DB, provider identity.Provider, images storage.ImageStore, clk clock.Clock) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 30 * time.Second
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			if strings.HasSuffix(u.Hostname(), "vercel.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	catalogRepo := repository.NewCatalogRepository(db)
	itemRepo := repository.NewItemRepository(db)
	imageRepo := repository.NewItemImageRepository(db)
	codeRepo := repository.NewShareCodeRepository(db)

	catalogSvc := service.NewCatalogService(catalogRepo, images)
	itemSvc := service.NewItemService(catalogSvc, itemRepo, imageRepo, images)
	shareSvc := service.NewShareService(catalogSvc, codeRepo, catalogRepo, clk)
	cleanupSvc := service.NewCleanupService(codeRepo, clk)

	authHandler := handler.NewAuthHandler(provider)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	itemHandler := handler.NewItemHandler(itemSvc)
	shareHandler := handler.NewShareHandler(shareSvc)

	authMw := appmw.NewAuthMiddleware(provider)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})

	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)

	catalog := e.Group("/catalog")
	catalog.GET("/view/:code", shareHandler.View)
	catalog.POST("", catalogHandler.Create, authMw.RequireAuth)
	catalog.GET("/my", catalogHandler.ListMine, authMw.RequireAuth)
	catalog.PUT("/:id", catalogHandler.Update, authMw.RequireAuth)
	catalog.DELETE("/:id", catalogHandler.Delete, authMw.RequireAuth)
	catalog.POST("/:id/items", itemHandler.Create, authMw.RequireAuth)
	catalog.PUT("/:id/items/:itemId", itemHandler.Update, authMw.RequireAuth)
	catalog.DELETE("/:id/items/:itemId", itemHandler.Delete, authMw.RequireAuth)
	catalog.PUT("/:id/items/:itemId/reorder-images", itemHandler.ReorderImages, authMw.RequireAuth)

	share := e.Group("/share")
	share.GET("/validate/:code", shareHandler.Validate)
	share.POST("/catalog/:id", shareHandler.Create, authMw.RequireAuth)
	share.DELETE("/:codeId", shareHandler.Delete, authMw.RequireAuth)

	return &Server{
		e:           e,
		catalogRepo: catalogRepo,
		itemRepo:    itemRepo,
		imageRepo:   imageRepo,
		codeRepo:    codeRepo,
		cleanup:     cleanupSvc,
	}
}

// Cleanup exposes the sweep service for the background reaper.
func (s *Server) Cleanup() service.CleanupService {
	return s.cleanup
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
