package usecase

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

type CategoryInput struct {
	Name  string
	Image string
}

// 管理者の商品作成/更新（PUTは全項目置き換え）
type ProductInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	OriginalPrice decimal.Decimal
	Discount      int
	SKU           string
	CategoryID    int64
	//nilなら作成時true、更新時は現状維持
	InStock  *bool
	Colors   []string
	Sizes    []string
	Features []string
	Images   []string
}

func (in ProductInput) validate() error {
	fields := map[string][]string{}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		fields["name"] = append(fields["name"], "This field is required.")
	} else if len(name) > 255 {
		fields["name"] = append(fields["name"], "Ensure this field has no more than 255 characters.")
	}
	if !in.Price.IsPositive() {
		fields["price"] = append(fields["price"], "Ensure this value is greater than 0.")
	}
	if in.OriginalPrice.IsNegative() {
		fields["original_price"] = append(fields["original_price"], "Ensure this value is greater than or equal to 0.")
	}
	if in.Discount < 0 || in.Discount > 100 {
		fields["discount"] = append(fields["discount"], "Ensure this value is between 0 and 100.")
	}
	sku := strings.TrimSpace(in.SKU)
	if sku == "" {
		fields["sku"] = append(fields["sku"], "This field is required.")
	} else if len(sku) > 100 {
		fields["sku"] = append(fields["sku"], "Ensure this field has no more than 100 characters.")
	}
	if in.CategoryID <= 0 {
		fields["category_id"] = append(fields["category_id"], "This field is required.")
	}
	if len(fields) > 0 {
		return NewFieldErrors(fields)
	}
	return nil
}

func (u *ProductUsecase) AdminCreateCategory(ctx context.Context, actorUserID int64, in CategoryInput) (model.Category, error) {
	if actorUserID <= 0 {
		return model.Category{}, unauthorized()
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Category{}, NewFieldError("name", "This field is required.")
	}
	if len(name) > 100 {
		return model.Category{}, NewFieldError("name", "Ensure this field has no more than 100 characters.")
	}

	var out model.Category
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		c, err := r.Categories().Create(ctx, model.Category{Name: name, Image: strings.TrimSpace(in.Image)})
		if errors.Is(err, repo.ErrDuplicateKey) {
			return NewError(ErrConflict, "category with this name already exists")
		}
		if err != nil {
			return internalError(err)
		}
		if err := recordAudit(ctx, r.AuditLogs(), actorUserID, model.AuditActionCreateCategory, model.AuditResourceCategory, c.ID, nil, c); err != nil {
			return internalError(err)
		}
		out = c
		return nil
	})
	if err != nil {
		return model.Category{}, err
	}
	return out, nil
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, actorUserID int64, in ProductInput) (ProductDetail, error) {
	if actorUserID <= 0 {
		return ProductDetail{}, unauthorized()
	}
	if err := in.validate(); err != nil {
		return ProductDetail{}, err
	}

	inStock := true
	if in.InStock != nil {
		inStock = *in.InStock
	}
	p := model.Product{
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Discount:      in.Discount,
		SKU:           strings.TrimSpace(in.SKU),
		CategoryID:    in.CategoryID,
		InStock:       inStock,
		Colors:        nonNil(in.Colors),
		Sizes:         nonNil(in.Sizes),
		Features:      nonNil(in.Features),
		Images:        nonNil(in.Images),
	}

	var id int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := ensureCategory(ctx, r, p.CategoryID); err != nil {
			return err
		}
		created, err := r.Products().Create(ctx, p)
		if errors.Is(err, repo.ErrDuplicateKey) {
			return NewError(ErrConflict, "product with this sku already exists")
		}
		if err != nil {
			return internalError(err)
		}
		if err := recordAudit(ctx, r.AuditLogs(), actorUserID, model.AuditActionCreateProduct, model.AuditResourceProduct, created.ID, nil, created); err != nil {
			return internalError(err)
		}
		id = created.ID
		return nil
	})
	if err != nil {
		return ProductDetail{}, err
	}
	return u.GetProduct(ctx, id)
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, actorUserID int64, productID int64, in ProductInput) (ProductDetail, error) {
	if actorUserID <= 0 {
		return ProductDetail{}, unauthorized()
	}
	if productID <= 0 {
		return ProductDetail{}, notFound("product")
	}
	if err := in.validate(); err != nil {
		return ProductDetail{}, err
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Products().FindByIDForUpdate(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("product")
		}
		if err != nil {
			return internalError(err)
		}
		if err := ensureCategory(ctx, r, in.CategoryID); err != nil {
			return err
		}

		after := before
		after.Name = strings.TrimSpace(in.Name)
		after.Description = in.Description
		after.Price = in.Price
		after.OriginalPrice = in.OriginalPrice
		after.Discount = in.Discount
		after.SKU = strings.TrimSpace(in.SKU)
		after.CategoryID = in.CategoryID
		if in.InStock != nil {
			after.InStock = *in.InStock
		}
		after.Colors = nonNil(in.Colors)
		after.Sizes = nonNil(in.Sizes)
		after.Features = nonNil(in.Features)
		after.Images = nonNil(in.Images)

		err = r.Products().Update(ctx, after)
		if errors.Is(err, repo.ErrDuplicateKey) {
			return NewError(ErrConflict, "product with this sku already exists")
		}
		if err != nil {
			return internalError(err)
		}
		return recordAuditOrInternal(ctx, r, actorUserID, model.AuditActionUpdateProduct, model.AuditResourceProduct, productID, before, after)
	})
	if err != nil {
		return ProductDetail{}, err
	}
	return u.GetProduct(ctx, productID)
}

// 在庫フラグの切り替え
func (u *ProductUsecase) AdminSetStock(ctx context.Context, actorUserID int64, productID int64, inStock bool) (ProductDetail, error) {
	if actorUserID <= 0 {
		return ProductDetail{}, unauthorized()
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Products().FindByIDForUpdate(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("product")
		}
		if err != nil {
			return internalError(err)
		}
		if before.InStock == inStock {
			return nil
		}
		if err := r.Products().SetInStock(ctx, productID, inStock); err != nil {
			return internalError(err)
		}
		return recordAuditOrInternal(ctx, r, actorUserID, model.AuditActionUpdateStock, model.AuditResourceProduct, productID,
			map[string]bool{"in_stock": before.InStock},
			map[string]bool{"in_stock": inStock},
		)
	})
	if err != nil {
		return ProductDetail{}, err
	}
	return u.GetProduct(ctx, productID)
}

// 論理削除。カート/ウィッシュリストからも外す（注文明細はスナップショットなので残る）
func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, actorUserID int64, productID int64) error {
	if actorUserID <= 0 {
		return unauthorized()
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Products().FindByIDForUpdate(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("product")
		}
		if err != nil {
			return internalError(err)
		}
		if err := r.Products().SoftDelete(ctx, productID); err != nil {
			return internalError(err)
		}
		if err := r.CartItems().DeleteByProductID(ctx, productID); err != nil {
			return internalError(err)
		}
		if err := r.Wishlist().DeleteByProductID(ctx, productID); err != nil {
			return internalError(err)
		}
		return recordAuditOrInternal(ctx, r, actorUserID, model.AuditActionDeleteProduct, model.AuditResourceProduct, productID, before, nil)
	})
}

func ensureCategory(ctx context.Context, r repo.TxRepos, categoryID int64) error {
	_, err := r.Categories().FindByID(ctx, categoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewFieldError("category_id", "Invalid pk - object does not exist.")
	}
	if err != nil {
		return internalError(err)
	}
	return nil
}

func recordAuditOrInternal(
	ctx context.Context,
	r repo.TxRepos,
	actorUserID int64,
	action model.AuditAction,
	resourceType model.AuditResourceType,
	resourceID int64,
	before interface{},
	after interface{},
) error {
	if err := recordAudit(ctx, r.AuditLogs(), actorUserID, action, resourceType, resourceID, before, after); err != nil {
		return internalError(err)
	}
	return nil
}
