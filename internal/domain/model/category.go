package model

import "time"

// 商品カテゴリ
type Category struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Image string `gorm:"type:varchar(500)" json:"image"`
	//表示用の件数
	Count     int64     `gorm:"not null;default:0" json:"count"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
