package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/user/moovie-ingest/internal/model"
	"github.com/user/moovie-ingest/internal/utils"
)

// GeneratedKeyPrefix 无自然键记录的占位键前缀
const GeneratedKeyPrefix = "generated_"

// Refs 关联类别 -> 原始名称列表（顺序与原始记录一致）
type Refs map[model.LinkCategory][]string

// Normalize 将一条反规范化记录拆成扁平行和各类别的名称列表。
// 不做任何 I/O；只有输入不是 JSON 对象时返回 ErrInvalidRecord。
func Normalize(raw any) (*model.Movie, Refs, error) {
	record, ok := asRecord(raw)
	if !ok {
		return nil, nil, fmt.Errorf("%w: 期望 JSON 对象，实际为 %T", ErrInvalidRecord, raw)
	}

	movie := &model.Movie{
		Title:            stringAt(record, "title"),
		Plot:             stringAt(record, "plot"),
		FullPlot:         stringAt(record, "fullplot"),
		Runtime:          intAt(record, "runtime"),
		Rated:            stringAt(record, "rated"),
		Type:             stringAt(record, "type"),
		Poster:           stringAt(record, "poster"),
		NumMflixComments: intAt(record, "num_mflix_comments"),
		Year:             yearAt(record, "year"),
		Released:         timeAt(record, "released"),
		LastUpdated:      timeAt(record, "lastupdated"),

		AwardsWins:        intAt(record, "awards", "wins"),
		AwardsNominations: intAt(record, "awards", "nominations"),
		AwardsText:        stringAt(record, "awards", "text"),

		IMDbRating: floatAt(record, "imdb", "rating"),
		IMDbVotes:  intAt(record, "imdb", "votes"),
		IMDbID:     stringAt(record, "imdb", "id"),

		TomatoesViewerRating:     floatAt(record, "tomatoes", "viewer", "rating"),
		TomatoesViewerNumReviews: intAt(record, "tomatoes", "viewer", "numReviews"),
		TomatoesViewerMeter:      intAt(record, "tomatoes", "viewer", "meter"),
		TomatoesCriticRating:     floatAt(record, "tomatoes", "critic", "rating"),
		TomatoesCriticNumReviews: intAt(record, "tomatoes", "critic", "numReviews"),
		TomatoesCriticMeter:      intAt(record, "tomatoes", "critic", "meter"),
		TomatoesDVD:              timeAt(record, "tomatoes", "dvd"),
		TomatoesProduction:       stringAt(record, "tomatoes", "production"),
		TomatoesLastUpdated:      timeAt(record, "tomatoes", "lastUpdated"),

		PlotEmbedding: EmbeddingOf(record["plot_embedding"]),
	}
	movie.ExternalID, movie.KeyGenerated = naturalKey(record)

	refs := make(Refs, len(model.LinkCategories))
	for _, category := range model.LinkCategories {
		refs[category] = NameList(record[category.SourceField()])
	}
	return movie, refs, nil
}

// NameList 把字段值统一成名称列表：单个标量视为一个元素，nil 为空列表，
// 空串/0/false 以及嵌套对象、数组元素被丢弃
func NameList(v any) []string {
	names := []string{}
	switch val := v.(type) {
	case nil:
	case []any:
		for _, item := range val {
			if name, ok := nameOf(item); ok {
				names = append(names, name)
			}
		}
	case []string:
		for _, item := range val {
			if item != "" {
				names = append(names, item)
			}
		}
	default:
		if name, ok := nameOf(val); ok {
			names = append(names, name)
		}
	}
	return names
}

func nameOf(v any) (string, bool) {
	switch v.(type) {
	case map[string]any, []any:
		return "", false
	}
	if !utils.Truthy(v) {
		return "", false
	}
	name := utils.ToString(v)
	return name, name != ""
}

// EmbeddingOf 将向量字段规范为 float64 序列；缺失或含非数字元素时返回空序列
func EmbeddingOf(v any) model.Embedding {
	switch val := v.(type) {
	case []any:
		out := make(model.Embedding, 0, len(val))
		for _, item := range val {
			if _, isString := item.(string); isString {
				return model.Embedding{}
			}
			f, ok := utils.ToFloat(item)
			if !ok {
				return model.Embedding{}
			}
			out = append(out, f)
		}
		return out
	case []float64:
		return append(model.Embedding{}, val...)
	case []float32:
		out := make(model.Embedding, len(val))
		for i, f := range val {
			out[i] = float64(f)
		}
		return out
	case nil, string, bool, map[string]any:
		return model.Embedding{}
	default:
		// 单个数字视为一维向量
		if f, ok := utils.ToFloat(val); ok {
			return model.Embedding{f}
		}
	}
	return model.Embedding{}
}

// naturalKey 依次取 external_id、_id（字符串或 {"$oid": ...}）、imdb.id，
// 都没有时生成占位键并标记 generated
func naturalKey(record map[string]any) (string, bool) {
	if key := utils.ToString(record["external_id"]); key != "" {
		return key, false
	}
	if id, ok := record["_id"]; ok {
		if oid := utils.ValueAt(id, "$oid"); oid != nil {
			id = oid
		}
		if key := utils.ToString(id); key != "" {
			return key, false
		}
	}
	if imdbID := utils.ToString(utils.ValueAt(record, "imdb", "id")); imdbID != "" {
		return "imdb:" + imdbID, false
	}
	return GeneratedKeyPrefix + uuid.NewString(), true
}

func asRecord(raw any) (map[string]any, bool) {
	switch val := raw.(type) {
	case model.RawRecord:
		return val, val != nil
	case map[string]any:
		return val, val != nil
	}
	return nil, false
}

// displayName 原始记录的标题，用于日志
func displayName(raw any) string {
	if record, ok := asRecord(raw); ok {
		return utils.ToString(record["title"])
	}
	return ""
}

func stringAt(record map[string]any, path ...string) *string {
	v := utils.ValueAt(record, path...)
	switch v.(type) {
	case nil, map[string]any, []any:
		return nil
	}
	s := utils.ToString(v)
	return &s
}

func intAt(record map[string]any, path ...string) *int {
	if i, ok := utils.ToInt(utils.ValueAt(record, path...)); ok {
		return &i
	}
	return nil
}

func yearAt(record map[string]any, path ...string) *int {
	if i, ok := utils.LeadingInt(utils.ValueAt(record, path...)); ok {
		return &i
	}
	return nil
}

func floatAt(record map[string]any, path ...string) *float64 {
	if f, ok := utils.ToFloat(utils.ValueAt(record, path...)); ok {
		return &f
	}
	return nil
}

func timeAt(record map[string]any, path ...string) *time.Time {
	if t, ok := utils.ToTime(utils.ValueAt(record, path...)); ok {
		return &t
	}
	return nil
}
