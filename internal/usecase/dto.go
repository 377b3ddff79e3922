package usecase

import (
	"time"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

type UserDTO struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

func toUserDTO(u *model.User) UserDTO {
	if u == nil {
		return UserDTO{}
	}
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
	}
}

// 一覧用
type ProductSummary struct {
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	Price              decimal.Decimal `json:"price"`
	OriginalPrice      decimal.Decimal `json:"original_price"`
	Discount           int             `json:"discount"`
	DiscountPercentage int64           `json:"discount_percentage"`
	Rating             decimal.Decimal `json:"rating"`
	ReviewsCount       int64           `json:"reviews_count"`
	SKU                string          `json:"sku"`
	Category           *model.Category `json:"category"`
	InStock            bool            `json:"in_stock"`
	Images             []string        `json:"images"`
}

// 詳細用
type ProductDetail struct {
	ProductSummary
	Description   string          `json:"description"`
	Colors        []string        `json:"colors"`
	Sizes         []string        `json:"sizes"`
	Features      []string        `json:"features"`
	Reviews       []ReviewOutput  `json:"reviews"`
	AverageRating decimal.Decimal `json:"average_rating"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type ReviewOutput struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	User      UserDTO   `json:"user"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type CartLineOutput struct {
	ID         int64           `json:"id"`
	Product    ProductSummary  `json:"product"`
	Quantity   int64           `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
}

type CartTotalOutput struct {
	Total decimal.Decimal  `json:"total"`
	Count int64            `json:"count"`
	Items []CartLineOutput `json:"items"`
}

type WishlistOutput struct {
	ID        int64          `json:"id"`
	Product   ProductSummary `json:"product"`
	CreatedAt time.Time      `json:"created_at"`
}

type OrderItemOutput struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	OrderNumber     string            `json:"order_number"`
	UserID          int64             `json:"user_id"`
	Status          model.OrderStatus `json:"status"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	ShippingAddress string            `json:"shipping_address"`
	PaymentMethod   string            `json:"payment_method"`
	Items           []OrderItemOutput `json:"items"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func toProductSummary(p model.Product) ProductSummary {
	return ProductSummary{
		ID:                 p.ID,
		Name:               p.Name,
		Price:              p.Price,
		OriginalPrice:      p.OriginalPrice,
		Discount:           p.Discount,
		DiscountPercentage: p.DiscountPercentage(),
		Rating:             p.Rating,
		ReviewsCount:       p.ReviewsCount,
		SKU:                p.SKU,
		Category:           p.Category,
		InStock:            p.InStock,
		Images:             nonNil(p.Images),
	}
}

func toProductSummaries(ps []model.Product) []ProductSummary {
	out := make([]ProductSummary, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProductSummary(p))
	}
	return out
}

func toReviewOutput(r model.Review) ReviewOutput {
	out := ReviewOutput{
		ID:        r.ID,
		ProductID: r.ProductID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
	if r.User != nil {
		out.User = toUserDTO(r.User)
		out.UserName = r.User.DisplayName()
	}
	return out
}

func toCartLineOutput(ci model.CartItem) CartLineOutput {
	out := CartLineOutput{
		ID:        ci.ID,
		Quantity:  ci.Quantity,
		CreatedAt: ci.CreatedAt,
	}
	if ci.Product != nil {
		out.Product = toProductSummary(*ci.Product)
		out.TotalPrice = lineTotal(ci.Product.Price, ci.Quantity)
	}
	return out
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	out := OrderOutput{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Status:          o.Status,
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		Items:           make([]OrderItemOutput, 0, len(items)),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, OrderItemOutput{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductNameSnapshot,
			Quantity:    it.Quantity,
			Price:       it.Price,
			CreatedAt:   it.CreatedAt,
		})
	}
	return out
}

// 単価×数量
func lineTotal(price decimal.Decimal, qty int64) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(qty))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
