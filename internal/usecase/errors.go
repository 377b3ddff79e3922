package usecase

import (
	"errors"
	"fmt"
)

// handlerはerrors.Isでこの種類を見てステータスを決める
var (
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("not found")
	ErrAuthentication = errors.New("authentication required")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInternal       = errors.New("internal error")
)

type AppError struct {
	Kind    error
	Message string
	//項目ごとのエラー（{"rating": ["..."]}）
	Fields map[string][]string
	cause  error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Kind, e.cause}
	}
	return []error{e.Kind}
}

func (e *AppError) Cause() error {
	return e.cause
}

func NewError(kind error, message string) error {
	return &AppError{Kind: kind, Message: message}
}

// 1項目だけのバリデーションエラー
func NewFieldError(field string, message string) error {
	return NewFieldErrors(map[string][]string{field: {message}})
}

func NewFieldErrors(fields map[string][]string) error {
	return &AppError{Kind: ErrValidation, Message: "invalid request", Fields: fields}
}

// DBなど想定外の失敗。原因はログ用に保持する
func internalError(err error) error {
	var ae *AppError
	if errors.As(err, &ae) {
		return err
	}
	return &AppError{Kind: ErrInternal, Message: "db error", cause: err}
}

func notFound(what string) error {
	return NewError(ErrNotFound, what+" not found")
}

func unauthorized() error {
	return NewError(ErrAuthentication, "Authentication credentials were not provided.")
}

func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}
