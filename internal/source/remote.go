package source

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/user/moovie-ingest/internal/utils"
)

// Remote 通过 HTTP(S) 获取的数据集。首次使用时下载到临时文件，之后按 File 读取，
// 因此 Records 和 Count 可以多次调用而只下载一次。用完需要 Close。
type Remote struct {
	URL    string
	client *utils.HTTPClient

	mu   sync.Mutex
	file *File
}

// NewRemote 创建远程数据源
func NewRemote(rawURL string, client *utils.HTTPClient) *Remote {
	return &Remote{URL: rawURL, client: client}
}

// IsRemote 判断数据集位置是否为 http(s) 地址
func IsRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (r *Remote) Records(ctx context.Context, fn func(raw any) error) error {
	f, err := r.fetch(ctx)
	if err != nil {
		return err
	}
	return f.Records(ctx, fn)
}

func (r *Remote) Count(ctx context.Context) (int, error) {
	f, err := r.fetch(ctx)
	if err != nil {
		return 0, err
	}
	return f.Count(ctx)
}

// Close 删除下载的临时文件
func (r *Remote) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := os.Remove(r.file.Path)
	r.file = nil
	return err
}

func (r *Remote) fetch(ctx context.Context) (*File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file != nil {
		return r.file, nil
	}

	// 保留扩展名，File 据此选择解压方式
	tmp, err := os.CreateTemp("", "moovie-dataset-*"+suffix(r.URL))
	if err != nil {
		return nil, fmt.Errorf("创建临时文件失败: %w", err)
	}
	if _, err := r.client.Download(ctx, r.URL, tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("写入临时文件失败: %w", err)
	}

	r.file = NewFile(tmp.Name())
	return r.file, nil
}

// suffix URL 路径的扩展名，例如 movies.jsonl.gz -> .jsonl.gz
func suffix(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if i := strings.Index(base, "."); i > 0 {
		return base[i:]
	}
	return ""
}
