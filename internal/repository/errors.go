package repository

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable 存储无法完成请求（连接失败、语句被拒绝等）
var ErrStoreUnavailable = errors.New("store unavailable")

// StoreError 携带失败操作名的存储错误
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStoreUnavailable }

func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
