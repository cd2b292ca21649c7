package util

import (
	"errors"
	"fmt"
)

var (
	ErrGroupNotFound = errors.New("学生数据不存在")
	ErrEmptyPayload  = errors.New("请求数据为空")
)

// ValidationError 字段校验失败，用户可自行修正
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IdentityConflictError 客户端声明的提交ID与重新计算的身份不一致
type IdentityConflictError struct {
	Reason string
}

func (e *IdentityConflictError) Error() string {
	return e.Reason
}

func NewIdentityConflictError(reason string) *IdentityConflictError {
	return &IdentityConflictError{Reason: reason}
}

// StorageError 事务或存储层失败，细节记日志，对外只给通用信息
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
