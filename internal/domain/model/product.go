package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	OriginalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"original_price"`
	Discount      int             `gorm:"not null;default:0" json:"discount"`

	//reviewsから再計算するキャッシュ
	Rating       decimal.Decimal `gorm:"type:decimal(3,1);not null;default:0" json:"rating"`
	ReviewsCount int64           `gorm:"not null;default:0" json:"reviews_count"`

	SKU        string    `gorm:"column:sku;type:varchar(100);not null;uniqueIndex" json:"sku"`
	CategoryID int64     `gorm:"not null;index" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	InStock    bool      `gorm:"not null" json:"in_stock"`

	Colors   []string `gorm:"type:text;serializer:json" json:"colors"`
	Sizes    []string `gorm:"type:text;serializer:json" json:"sizes"`
	Features []string `gorm:"type:text;serializer:json" json:"features"`
	Images   []string `gorm:"type:text;serializer:json" json:"images"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// 定価からの割引率（%）。定価が無い/安くない場合は0。
func (p Product) DiscountPercentage() int64 {
	if !p.OriginalPrice.IsPositive() || p.OriginalPrice.LessThanOrEqual(p.Price) {
		return 0
	}
	return p.OriginalPrice.Sub(p.Price).
		Div(p.OriginalPrice).
		Mul(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}
