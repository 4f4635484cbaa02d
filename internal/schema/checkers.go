package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/juju/schema"
)

// checkError 与 juju/schema 内置错误保持相同格式
type checkError struct {
	want string
	got  any
	path []string
}

func (e checkError) Error() string {
	prefix := strings.TrimPrefix(strings.Join(e.path, ""), ".")
	if prefix != "" {
		prefix += ": "
	}
	if e.got == nil {
		return fmt.Sprintf("%sexpected %s, got nothing", prefix, e.want)
	}
	return fmt.Sprintf("%sexpected %s, got %T(%#v)", prefix, e.want, e.got, e.got)
}

type integerC struct{}

// Integer 接受没有小数部分的数值，返回 int64
func Integer() schema.Checker {
	return integerC{}
}

// isInt64 判断浮点数是否为整数且落在 int64 范围内，2^63 本身越界
func isInt64(n float64) bool {
	return n == math.Trunc(n) && n >= -(1<<63) && n < 1<<63
}

func (integerC) Coerce(v any, path []string) (any, error) {
	switch n := v.(type) {
	case float64:
		if isInt64(n) {
			return int64(n), nil
		}
	case float32:
		if isInt64(float64(n)) {
			return int64(n), nil
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
	case nil:
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return rv.Int(), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return int64(rv.Uint()), nil
		}
	}
	return nil, checkError{"int", v, path}
}

type uuidC struct{}

// UUID 接受标准格式的 UUID 字符串
func UUID() schema.Checker {
	return uuidC{}
}

func (uuidC) Coerce(v any, path []string) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, checkError{"uuid", v, path}
	}
	if _, err := uuid.Parse(s); err != nil {
		return nil, checkError{"uuid", v, path}
	}
	return s, nil
}

type timestampC struct{}

// Timestamp 接受 RFC 3339 字符串或毫秒级 Unix 时间戳，返回 time.Time
func Timestamp() schema.Checker {
	return timestampC{}
}

func (timestampC) Coerce(v any, path []string) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed, nil
		}
	case float64:
		return time.UnixMilli(int64(t)).UTC(), nil
	}
	return nil, checkError{"timestamp", v, path}
}

type nullableC struct {
	checker schema.Checker
}

// Nullable 允许 null，其余值交给内部 Checker
func Nullable(checker schema.Checker) schema.Checker {
	return nullableC{checker}
}

func (c nullableC) Coerce(v any, path []string) (any, error) {
	if v == nil {
		return nil, nil
	}
	return c.checker.Coerce(v, path)
}

type jsonC struct{}

// JSON 递归接受 字面量 | 自身数组 | 字符串键映射，原样返回
func JSON() schema.Checker {
	return jsonC{}
}

func (c jsonC) Coerce(v any, path []string) (any, error) {
	switch value := v.(type) {
	case nil, bool, string, float64, json.Number:
		return v, nil
	case []any:
		for i, item := range value {
			if _, err := c.Coerce(item, append(path[:len(path):len(path)], fmt.Sprintf("[%d]", i))); err != nil {
				return nil, err
			}
		}
		return v, nil
	case map[string]any:
		for k, item := range value {
			if _, err := c.Coerce(item, append(path[:len(path):len(path)], ".", k)); err != nil {
				return nil, err
			}
		}
		return v, nil
	}
	return nil, checkError{"json", v, path}
}
