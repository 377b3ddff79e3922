package model

// AutoMigrate対象
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Product{},
		&Review{},
		&CartItem{},
		&WishlistItem{},
		&Order{},
		&OrderItem{},
		&AuditLog{},
	}
}
