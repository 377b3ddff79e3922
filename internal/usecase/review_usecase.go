package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

const maxReviewCommentLength = 2000

type ReviewUsecase struct {
	tx       repo.TransactionManager
	products repo.ProductRepository
	reviews  repo.ReviewRepository
}

func NewReviewUsecase(tx repo.TransactionManager, products repo.ProductRepository, reviews repo.ReviewRepository) *ReviewUsecase {
	return &ReviewUsecase{tx: tx, products: products, reviews: reviews}
}

type SubmitReviewInput struct {
	Rating  int
	Comment string
}

// 平均を小数1桁に四捨五入。レビューが無ければ0
func averageRating(st repo.ReviewStats) decimal.Decimal {
	if st.Count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(st.Total).
		Div(decimal.NewFromInt(st.Count)).
		Round(1)
}

// (product, user)で1件。2回目以降は上書きして、商品の評価キャッシュを再計算する
func (u *ReviewUsecase) SubmitReview(ctx context.Context, userID int64, productID int64, in SubmitReviewInput) (ReviewOutput, error) {
	if userID <= 0 {
		return ReviewOutput{}, unauthorized()
	}
	fields := map[string][]string{}
	if in.Rating < model.MinReviewRating || in.Rating > model.MaxReviewRating {
		fields["rating"] = []string{fmt.Sprintf("Ensure this value is between %d and %d.", model.MinReviewRating, model.MaxReviewRating)}
	}
	comment := strings.TrimSpace(in.Comment)
	if utf8.RuneCountInString(comment) > maxReviewCommentLength {
		fields["comment"] = []string{fmt.Sprintf("Ensure this field has no more than %d characters.", maxReviewCommentLength)}
	}
	if len(fields) > 0 {
		return ReviewOutput{}, NewFieldErrors(fields)
	}
	if productID <= 0 {
		return ReviewOutput{}, notFound("product")
	}

	var out ReviewOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//同じ商品へのレビューはここで直列化
		_, err := r.Products().FindByIDForUpdate(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("product")
		}
		if err != nil {
			return internalError(err)
		}

		rv, err := r.Reviews().Upsert(ctx, model.Review{
			ProductID: productID,
			UserID:    userID,
			Rating:    in.Rating,
			Comment:   comment,
		})
		if err != nil {
			return internalError(err)
		}
		if err := recomputeRating(ctx, r, productID); err != nil {
			return err
		}
		out = toReviewOutput(rv)
		return nil
	})
	if err != nil {
		return ReviewOutput{}, err
	}
	return out, nil
}

func (u *ReviewUsecase) ListReviews(ctx context.Context, productID int64) ([]ReviewOutput, error) {
	if _, err := u.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("product")
		}
		return nil, internalError(err)
	}

	rvs, err := u.reviews.ListByProductID(ctx, productID)
	if err != nil {
		return nil, internalError(err)
	}
	out := make([]ReviewOutput, 0, len(rvs))
	for _, rv := range rvs {
		out = append(out, toReviewOutput(rv))
	}
	return out, nil
}

// 自分のレビューを削除
func (u *ReviewUsecase) DeleteMyReview(ctx context.Context, userID int64, productID int64) error {
	if userID <= 0 {
		return unauthorized()
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		rv, err := r.Reviews().FindByProductAndUser(ctx, productID, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("review")
		}
		if err != nil {
			return internalError(err)
		}
		return deleteAndRecompute(ctx, r, rv)
	})
}

func (u *ReviewUsecase) AdminDeleteReview(ctx context.Context, actorUserID int64, reviewID int64) error {
	if actorUserID <= 0 {
		return unauthorized()
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		rv, err := r.Reviews().FindByID(ctx, reviewID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("review")
		}
		if err != nil {
			return internalError(err)
		}
		if err := deleteAndRecompute(ctx, r, rv); err != nil {
			return err
		}
		rv.User = nil
		return recordAuditOrInternal(ctx, r, actorUserID, model.AuditActionDeleteReview, model.AuditResourceReview, rv.ID, rv, nil)
	})
}

func deleteAndRecompute(ctx context.Context, r repo.TxRepos, rv model.Review) error {
	//削除済み商品のレビューもある
	_, err := r.Products().FindByIDForUpdate(ctx, rv.ProductID)
	productGone := errors.Is(err, repo.ErrNotFound)
	if err != nil && !productGone {
		return internalError(err)
	}

	if err := r.Reviews().DeleteByID(ctx, rv.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("review")
		}
		return internalError(err)
	}
	if productGone {
		return nil
	}
	return recomputeRating(ctx, r, rv.ProductID)
}

// 差分ではなく毎回全件から集計し直す
func recomputeRating(ctx context.Context, r repo.TxRepos, productID int64) error {
	st, err := r.Reviews().Stats(ctx, productID)
	if err != nil {
		return internalError(err)
	}
	if err := r.Products().UpdateRatingCache(ctx, productID, averageRating(st), st.Count); err != nil {
		return internalError(err)
	}
	return nil
}
