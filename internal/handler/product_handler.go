package handler

import (
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /products の公開API（レビュー投稿/削除はログイン必須）
type ProductHandler struct {
	uc      *usecase.ProductUsecase
	reviews *usecase.ReviewUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase, reviews *usecase.ReviewUsecase) *ProductHandler {
	return &ProductHandler{uc: uc, reviews: reviews}
}

type AddReviewRequest struct {
	Rating  *int   `json:"rating" validate:"required"`
	Comment string `json:"comment"`
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products", h.list)
	e.GET("/products/featured", h.featured)
	e.GET("/products/related", h.related)
	e.GET("/products/:id", h.detail)
	e.GET("/products/:id/reviews", h.listReviews)

	auth := middleware.RequireAuth()
	e.POST("/products/:id/add_review", h.addReview, auth)
	e.DELETE("/products/:id/review", h.deleteReview, auth)
}

func (h *ProductHandler) list(c echo.Context) error {
	minPrice, ok := queryDecimal(c, "min_price")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string][]string{"min_price": {"A valid number is required."}})
	}
	maxPrice, ok := queryDecimal(c, "max_price")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string][]string{"max_price": {"A valid number is required."}})
	}

	out, err := h.uc.ListProducts(c.Request().Context(), usecase.ListProductsInput{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		SortBy:   c.QueryParam("sort_by"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) featured(c echo.Context) error {
	out, err := h.uc.FeaturedProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) related(c echo.Context) error {
	raw := strings.TrimSpace(c.QueryParam("product_id"))
	if raw == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "product_id parameter is required"})
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}

	out, err := h.uc.RelatedProducts(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c)
	}

	p, err := h.uc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) listReviews(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c)
	}

	out, err := h.reviews.ListReviews(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 同じユーザーの2回目は上書き（どちらも201）
func (h *ProductHandler) addReview(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c)
	}

	var req AddReviewRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.reviews.SubmitReview(c.Request().Context(), userID, id, usecase.SubmitReviewInput{
		Rating:  *req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ProductHandler) deleteReview(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c)
	}

	if err := h.reviews.DeleteMyReview(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// 空ならnil。数値でなければok=false
func queryDecimal(c echo.Context, name string) (*decimal.Decimal, bool) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, false
	}
	return &d, true
}
