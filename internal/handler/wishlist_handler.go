package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type WishlistHandler struct {
	uc *usecase.WishlistUsecase
}

func NewWishlistHandler(uc *usecase.WishlistUsecase) *WishlistHandler {
	return &WishlistHandler{uc: uc}
}

type WishlistRequest struct {
	ProductID int64 `json:"product_id"`
}

type ToggleResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (h *WishlistHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/wishlist")
	g.Use(middleware.RequireAuth())

	g.GET("", h.list)
	g.POST("", h.add)
	g.POST("/toggle", h.toggle)
	g.DELETE("/:id", h.remove)
}

func (h *WishlistHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.List(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 既にあれば200、新規なら201
func (h *WishlistHandler) add(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	var req WishlistRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	out, created, err := h.uc.Add(c.Request().Context(), userID, req.ProductID)
	if err != nil {
		return writeError(c, err)
	}
	if created {
		return c.JSON(http.StatusCreated, out)
	}
	return c.JSON(http.StatusOK, out)
}

// 追加は201、削除は200
func (h *WishlistHandler) toggle(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	var req WishlistRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	res, err := h.uc.Toggle(c.Request().Context(), userID, req.ProductID)
	if err != nil {
		return writeError(c, err)
	}
	if res == usecase.WishlistAdded {
		return c.JSON(http.StatusCreated, ToggleResponse{Message: "Added to wishlist", Status: string(res)})
	}
	return c.JSON(http.StatusOK, ToggleResponse{Message: "Removed from wishlist", Status: string(res)})
}

func (h *WishlistHandler) remove(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c)
	}
	if err := h.uc.Remove(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
