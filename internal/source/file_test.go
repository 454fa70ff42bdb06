package source_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moovie-ingest/internal/source"
)

const jsonl = `{"title": "A", "year": 1999}

{"title": "B", "genres": ["Drama"]}
{not json}
{"title": "C"}
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func collect(t *testing.T, src source.Source) []any {
	t.Helper()
	var out []any
	require.NoError(t, src.Records(context.Background(), func(raw any) error {
		out = append(out, raw)
		return nil
	}))
	return out
}

func titles(records []any) []string {
	var out []string
	for _, raw := range records {
		if m, ok := raw.(map[string]any); ok {
			out = append(out, m["title"].(string))
		}
	}
	return out
}

func TestFileLines(t *testing.T) {
	f := source.NewFile(writeFile(t, "movies.jsonl", []byte(jsonl)))

	records := collect(t, f)
	require.Len(t, records, 4, "空行跳过，坏行保留")
	assert.Equal(t, []string{"A", "B", "C"}, titles(records))

	// 数字保留原文
	assert.Equal(t, json.Number("1999"), records[0].(map[string]any)["year"])

	bad, ok := records[2].(source.Undecodable)
	require.True(t, ok)
	assert.Equal(t, 4, bad.Line)
	assert.Error(t, bad.Err)

	n, err := f.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestFileArray(t *testing.T) {
	data := []byte("  [\n {\"title\": \"A\"},\n {\"title\": \"B\"},\n \"scalar\"\n]\n")
	f := source.NewFile(writeFile(t, "movies.json", data))

	records := collect(t, f)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"A", "B"}, titles(records))
	assert.Equal(t, "scalar", records[2])

	n, err := f.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestFileGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(jsonl))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	f := source.NewFile(writeFile(t, "movies.jsonl.gz", buf.Bytes()))
	assert.Equal(t, []string{"A", "B", "C"}, titles(collect(t, f)))
}

func TestFileZstd(t *testing.T) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = zw.Write([]byte(`[{"title": "A"}, {"title": "B"}]`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	f := source.NewFile(writeFile(t, "movies.json.zst", buf.Bytes()))
	assert.Equal(t, []string{"A", "B"}, titles(collect(t, f)))
}

func TestFileStopEarly(t *testing.T) {
	f := source.NewFile(writeFile(t, "movies.jsonl", []byte(jsonl)))

	seen := 0
	err := f.Records(context.Background(), func(any) error {
		seen++
		if seen == 2 {
			return source.ErrStop
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, seen)
}

func TestFileRestartsFromBeginning(t *testing.T) {
	f := source.NewFile(writeFile(t, "movies.jsonl", []byte(jsonl)))
	assert.Equal(t, titles(collect(t, f)), titles(collect(t, f)))
}

func TestFileEmpty(t *testing.T) {
	f := source.NewFile(writeFile(t, "empty.jsonl", []byte("\n  \n")))
	assert.Empty(t, collect(t, f))
}

func TestFileCancelled(t *testing.T) {
	f := source.NewFile(writeFile(t, "movies.jsonl", []byte(jsonl)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.Records(ctx, func(any) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileMissing(t *testing.T) {
	f := source.NewFile(filepath.Join(t.TempDir(), "nope.jsonl"))
	err := f.Records(context.Background(), func(any) error { return nil })
	assert.ErrorIs(t, err, os.ErrNotExist)
}
