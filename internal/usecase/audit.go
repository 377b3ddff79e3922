package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// 監査ログを1件書く（変更前後はJSON文字列）
func recordAudit(
	ctx context.Context,
	audits repo.AuditLogRepository,
	actorUserID int64,
	action model.AuditAction,
	resourceType model.AuditResourceType,
	resourceID int64,
	before interface{},
	after interface{},
) error {
	return audits.Create(ctx, model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeJSON:   toJSON(before),
		AfterJSON:    toJSON(after),
		CreatedAt:    time.Now(),
	})
}

func toJSON(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

type AuditLogUsecase struct {
	audits repo.AuditLogRepository
}

func NewAuditLogUsecase(audits repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{audits: audits}
}

func (u *AuditLogUsecase) List(ctx context.Context, actorUserID int64, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	if actorUserID <= 0 {
		return nil, unauthorized()
	}
	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedFrom.After(*f.CreatedTo) {
		return nil, NewError(ErrValidation, "from must be before to")
	}

	logs, err := u.audits.List(ctx, f)
	if err != nil {
		return nil, internalError(err)
	}
	return logs, nil
}

// 対象1件の変更履歴
func (u *AuditLogUsecase) History(ctx context.Context, actorUserID int64, resourceType model.AuditResourceType, resourceID int64) ([]model.AuditLog, error) {
	if actorUserID <= 0 {
		return nil, unauthorized()
	}
	if !resourceType.Valid() {
		return nil, NewFieldError("resource_type", fmt.Sprintf("%q is not a valid choice.", resourceType))
	}

	logs, err := u.audits.ListForResource(ctx, resourceType, resourceID)
	if err != nil {
		return nil, internalError(err)
	}
	return logs, nil
}
