package usecase

import (
	"strings"

	"github.com/google/uuid"
)

const orderNumberPrefix = "ORD-"

// 注文番号を作る約束（テストでは固定値を返す実装に差し替える）
type OrderNumberGenerator interface {
	NewOrderNumber() string
}

// ORD- + UUID先頭8桁（大文字16進）
type UUIDOrderNumberGenerator struct{}

func (UUIDOrderNumberGenerator) NewOrderNumber() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return orderNumberPrefix + strings.ToUpper(hex[:8])
}
