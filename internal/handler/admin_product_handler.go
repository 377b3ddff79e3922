package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// カテゴリ作成の入力
type CategoryCreateRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Image string `json:"image" validate:"max=500"`
}

// 商品作成/更新の入力（PUTも全項目）
type ProductRequest struct {
	Name          string          `json:"name" validate:"required,max=255"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	Discount      int             `json:"discount" validate:"gte=0,lte=100"`
	SKU           string          `json:"sku" validate:"required,max=100"`
	CategoryID    int64           `json:"category_id" validate:"required"`
	InStock       *bool           `json:"in_stock"`
	Colors        []string        `json:"colors"`
	Sizes         []string        `json:"sizes"`
	Features      []string        `json:"features"`
	Images        []string        `json:"images"`
}

func (r ProductRequest) toInput() usecase.ProductInput {
	return usecase.ProductInput{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Discount:      r.Discount,
		SKU:           r.SKU,
		CategoryID:    r.CategoryID,
		InStock:       r.InStock,
		Colors:        r.Colors,
		Sizes:         r.Sizes,
		Features:      r.Features,
		Images:        r.Images,
	}
}

// 在庫フラグ更新の入力
type StockUpdateRequest struct {
	InStock *bool `json:"in_stock" validate:"required"`
}

// /admin のカタログ管理（カテゴリ・商品・レビュー）
type AdminProductHandler struct {
	uc      *usecase.ProductUsecase
	reviews *usecase.ReviewUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase, reviews *usecase.ReviewUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc, reviews: reviews}
}

// adminを登録
func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo) {
	admin := e.Group("/admin")
	admin.Use(middleware.AdminRoleGuard())

	admin.POST("/categories", h.createCategory)
	admin.POST("/products", h.createProduct)
	admin.PUT("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)
	admin.PUT("/products/:id/stock", h.updateStock)
	admin.DELETE("/reviews/:id", h.deleteReview)
}

func (h *AdminProductHandler) createCategory(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	var req CategoryCreateRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.uc.AdminCreateCategory(c.Request().Context(), adminID, usecase.CategoryInput{
		Name:  req.Name,
		Image: req.Image,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	var req ProductRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.uc.AdminCreateProduct(c.Request().Context(), adminID, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c)
	}
	var req ProductRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.uc.AdminUpdateProduct(c.Request().Context(), adminID, id, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c)
	}

	if err := h.uc.AdminDeleteProduct(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminProductHandler) updateStock(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c)
	}
	var req StockUpdateRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.uc.AdminSetStock(c.Request().Context(), adminID, id, *req.InStock)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) deleteReview(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c)
	}

	if err := h.reviews.AdminDeleteReview(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
