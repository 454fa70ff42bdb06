package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// ValueAt 沿键路径取嵌套值，路径中任一层不是对象或缺失时返回 nil
// 例: ValueAt(raw, "tomatoes", "viewer", "rating")
func ValueAt(obj any, path ...string) any {
	current := obj
	for _, key := range path {
		m, ok := AsMap(current)
		if !ok {
			return nil
		}
		current, ok = m[key]
		if !ok {
			return nil
		}
	}
	return current
}

// AsMap 判断是否为 JSON 对象
func AsMap(v any) (map[string]any, bool) {
	switch val := v.(type) {
	case map[string]any:
		return val, val != nil
	}
	return nil, false
}

// ToString 将标量转换为 string，nil 和非标量返回空串
func ToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		// JSON数字默认解析为float64
		if val == math.Trunc(val) && math.Abs(val) < 1e15 {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		if val {
			return "true"
		}
		return "false"
	}
	return ""
}

// ToFloat 数字或数字字符串转 float64
func ToFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, !math.IsNaN(val) && !math.IsInf(val, 0)
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	case map[string]any:
		// Extended JSON: {"$numberInt": "5"}
		for _, key := range []string{"$numberInt", "$numberLong", "$numberDouble", "$numberDecimal"} {
			if n, ok := val[key]; ok {
				return ToFloat(n)
			}
		}
	}
	return 0, false
}

// ToInt 数字或数字字符串转 int，带小数部分的数字截断；如 "1,234" 的千分位也接受
func ToInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i), true
		}
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(val), ",", "")
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		v = s
	}
	f, ok := ToFloat(v)
	if !ok || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// LeadingInt 取字符串开头的连续数字，例如 "2012è" -> 2012
func LeadingInt(v any) (int, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		end := 0
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		if end == 0 {
			return 0, false
		}
		i, err := strconv.Atoi(s[:end])
		return i, err == nil
	}
	return ToInt(v)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ToTime 解析日期：字符串、Extended JSON {"$date": ...} 或毫秒时间戳
func ToTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
		return time.Time{}, false
	case map[string]any:
		if d, ok := val["$date"]; ok {
			if nested, ok := AsMap(d); ok {
				// {"$date": {"$numberLong": "..."}}
				d = nested["$numberLong"]
			}
			if _, isString := d.(string); isString {
				if t, ok := ToTime(d); ok {
					return t, true
				}
			}
			if ms, ok := ToFloat(d); ok {
				return time.UnixMilli(int64(ms)).UTC(), true
			}
		}
	}
	return time.Time{}, false
}

// Truthy 标量的真值：空串、0、false、nil 为假
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	default:
		if f, ok := ToFloat(v); ok {
			return f != 0
		}
	}
	return true
}
