package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient 下载数据集用的 HTTP 客户端，失败时按退避重试
type HTTPClient struct {
	httpClient *http.Client
	userAgent  string
	retries    int
	backoff    time.Duration
}

// NewHTTPClient 创建新的HTTP客户端
// 数据集可能有数百 MB，这里不设整体超时，只限制建连和响应头
func NewHTTPClient() *HTTPClient {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = 30 * time.Second
	return &HTTPClient{
		httpClient: &http.Client{Transport: transport},
		userAgent:  "moovie-ingest/1.0",
		retries:    3,
		backoff:    time.Second,
	}
}

// WithRetry 调整重试次数与首次退避间隔
func (c *HTTPClient) WithRetry(retries int, backoff time.Duration) *HTTPClient {
	clone := *c
	clone.retries = retries
	clone.backoff = backoff
	return &clone
}

// StatusError 非 2xx 响应
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("请求 %s 失败，状态码: %d", e.URL, e.StatusCode)
}

// Download 把 url 的响应体写入 dst，返回写入字节数。
// 连接错误和 5xx 会重试；已经开始写入 dst 后不再重试。
func (c *HTTPClient) Download(ctx context.Context, url string, dst io.Writer) (int64, error) {
	var lastErr error
	wait := c.backoff
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
		}

		resp, err := c.get(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			lastErr = err
			continue
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = &StatusError{URL: url, StatusCode: resp.StatusCode}
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return 0, &StatusError{URL: url, StatusCode: resp.StatusCode}
		}

		n, err := io.Copy(dst, resp.Body)
		resp.Body.Close()
		if err != nil {
			return n, fmt.Errorf("读取响应失败: %w", err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("下载失败，已重试 %d 次: %w", c.retries, lastErr)
}

func (c *HTTPClient) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "*/*")
	return c.httpClient.Do(req)
}
