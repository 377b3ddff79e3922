package middleware

import (
	"context"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

// JWTを検証し、tvとDBのtoken_versionが一致するユーザーだけ返す。
// ログアウトでtoken_versionが進むと、それ以前のトークンはここで弾かれる。
func verifyBearer(ctx context.Context, parser TokenParser, users repository.UserRepository, raw string) *model.User {
	claims, err := parser.Parse(raw)
	if err != nil {
		return nil
	}

	//DBから最新のuserを取得する
	u := loadActiveUser(ctx, users, claims.UserID)
	if u == nil {
		return nil
	}

	//token_version が一致しなければ強制ログアウト扱い
	if u.TokenVersion != claims.TokenVersion {
		return nil
	}
	return u
}
