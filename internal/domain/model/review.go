package model

import "time"

const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

// 1ユーザー1商品につき1件（再投稿は上書き）
type Review struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;uniqueIndex:ux_reviews_product_user,priority:1" json:"product_id"`
	UserID    int64     `gorm:"not null;uniqueIndex:ux_reviews_product_user,priority:2;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
