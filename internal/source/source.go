package source

import (
	"context"
	"errors"
	"fmt"
)

// ErrStop 回调返回它表示提前结束遍历，Records 返回 nil
var ErrStop = errors.New("stop")

// Source 原始记录序列：惰性、有限，每次调用 Records 都从第一条开始
type Source interface {
	Records(ctx context.Context, fn func(raw any) error) error
}

// Counter 可以预先统计记录数的数据源，用于进度展示
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Undecodable 无法解析为 JSON 的一行，原样交给下游按无效记录处理
type Undecodable struct {
	Line int
	Err  error
}

func (u Undecodable) String() string {
	return fmt.Sprintf("第 %d 行: %v", u.Line, u.Err)
}
