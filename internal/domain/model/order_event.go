package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const EventOrderPlaced = "order.placed"

// 注文確定後に外部へ流すイベント
type OrderPlacedEvent struct {
	Type        string            `json:"type"`
	OrderID     int64             `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	UserID      int64             `json:"user_id"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Items       []OrderPlacedItem `json:"items"`
	PlacedAt    time.Time         `json:"placed_at"`
}

type OrderPlacedItem struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}
