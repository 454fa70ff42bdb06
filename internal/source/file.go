package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// maxLineSize 单行上限，带 1536 维向量的记录约 30KB
const maxLineSize = 64 << 20

// File 数据集导出文件：JSON Lines（每行一个对象）或顶层 JSON 数组。
// .gz / .zst 后缀自动解压。
type File struct {
	Path string
}

// NewFile 创建文件数据源
func NewFile(path string) *File {
	return &File{Path: path}
}

// Records 逐条解码并回调；数字保留为 json.Number
func (f *File) Records(ctx context.Context, fn func(raw any) error) error {
	return f.walk(ctx, false, fn)
}

// Count 遍历一遍文件统计记录数
func (f *File) Count(ctx context.Context) (int, error) {
	n := 0
	err := f.walk(ctx, true, func(any) error {
		n++
		return nil
	})
	return n, err
}

func (f *File) walk(ctx context.Context, skipDecode bool, fn func(raw any) error) error {
	r, err := f.open()
	if err != nil {
		return err
	}
	defer r.Close()

	br := bufio.NewReaderSize(r, 1<<20)
	first, err := peekNonSpace(br)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("读取 %s 失败: %w", f.Path, err)
	}

	if first == '[' {
		err = walkArray(ctx, br, skipDecode, fn)
	} else {
		err = walkLines(ctx, br, skipDecode, fn)
	}
	if errors.Is(err, ErrStop) {
		return nil
	}
	return err
}

func walkLines(ctx context.Context, r io.Reader, skipDecode bool, fn func(raw any) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<20), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if skipDecode {
			if err := fn(nil); err != nil {
				return err
			}
			continue
		}

		raw, err := decode(text)
		if err != nil {
			raw = Undecodable{Line: line, Err: err}
		}
		if err := fn(raw); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("读取第 %d 行后失败: %w", line, err)
	}
	return nil
}

func walkArray(ctx context.Context, r io.Reader, skipDecode bool, fn func(raw any) error) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("解析 JSON 数组失败: %w", err)
	}
	for dec.More() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var raw any
		if skipDecode {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return fmt.Errorf("解析 JSON 数组元素失败: %w", err)
			}
		} else if err := dec.Decode(&raw); err != nil {
			// 数组内的语法错误无法跳过，只能中止
			return fmt.Errorf("解析 JSON 数组元素失败: %w", err)
		}
		if err := fn(raw); err != nil {
			return err
		}
	}
	return nil
}

func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("一行中包含多个 JSON 值")
	}
	return raw, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == 0xEF || b == 0xBB || b == 0xBF {
			continue
		}
		return b, br.UnreadByte()
	}
}

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i].Close())
	}
	return errors.Join(errs...)
}

func (f *File) open() (io.ReadCloser, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("打开数据集失败: %w", err)
	}

	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".gz":
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("gzip 解压失败: %w", err)
		}
		return &multiCloser{Reader: gz, closers: []io.Closer{file, gz}}, nil
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("zstd 解压失败: %w", err)
		}
		rc := zr.IOReadCloser()
		return &multiCloser{Reader: rc, closers: []io.Closer{file, rc}}, nil
	}
	return file, nil
}
