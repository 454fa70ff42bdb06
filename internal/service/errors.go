package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRecord 原始输入不是合法记录，不会触达存储
	ErrInvalidRecord = errors.New("invalid record")
	// ErrPartialLinkFailure 扁平行已写入，但有关联类别写入失败；重新导入即可补齐
	ErrPartialLinkFailure = errors.New("partial link failure")
)

// 失败所处阶段
const (
	StageNormalize = "normalize"
	StageMovie     = "movie"
	StageLinks     = "links"
)

// IngestError 单条记录导入失败
type IngestError struct {
	Stage      string
	Title      string
	ExternalID string
	Err        error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("导入 %q 失败 [%s]: %v", e.Title, e.Stage, e.Err)
}

func (e *IngestError) Unwrap() error { return e.Err }
