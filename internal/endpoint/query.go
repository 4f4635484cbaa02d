package endpoint

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/google/go-querystring/query"
)

// EncodeQuery 仅对 GET 且查询参数非空的请求生效：
// 过滤 nil 值，按 Query Schema 校验，再将值转换为字符串并编码
// 空字符串会原样保留，只有路径参数才做空值检查
func (t *Table) EncodeQuery(d *Descriptor, q map[string]any) (string, error) {
	if d == nil || d.Method != MethodGet || len(q) == 0 {
		return "", nil
	}

	filtered := make(map[string]any, len(q))
	for k, v := range q {
		if v != nil {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return "", nil
	}

	if d.Query != nil {
		normalized, err := d.Query.Validate(filtered)
		if err != nil {
			return "", fmt.Errorf("endpoint %s query: %w", d.ID, err)
		}
		if m, ok := normalized.(map[string]any); ok {
			filtered = m
		}
	}

	values := url.Values{}
	for k, v := range filtered {
		for _, s := range queryStrings(v) {
			values.Add(k, s)
		}
	}
	return values.Encode(), nil
}

func queryStrings(v any) []string {
	switch value := v.(type) {
	case nil:
		return nil
	case string:
		return []string{value}
	case []string:
		return value
	case []any:
		var out []string
		for _, item := range value {
			out = append(out, queryStrings(item)...)
		}
		return out
	case bool:
		return []string{strconv.FormatBool(value)}
	case float64:
		return []string{strconv.FormatFloat(value, 'f', -1, 64)}
	case float32:
		return []string{strconv.FormatFloat(float64(value), 'f', -1, 32)}
	case json.Number:
		return []string{value.String()}
	case time.Time:
		return []string{value.Format(time.RFC3339)}
	case fmt.Stringer:
		return []string{value.String()}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return []string{strconv.FormatInt(rv.Int(), 10)}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return []string{strconv.FormatUint(rv.Uint(), 10)}
	}
	return []string{fmt.Sprint(v)}
}

// QueryFromStruct 通过 `url` tag 将结构体转换为查询参数
//
//	type page struct {
//		Begin int `url:"begIndex"`
//		End   int `url:"endIndex,omitempty"`
//	}
func QueryFromStruct(v any) (map[string]any, error) {
	values, err := query.Values(v)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(values))
	for k, vs := range values {
		switch len(vs) {
		case 0:
		case 1:
			out[k] = vs[0]
		default:
			items := make([]any, len(vs))
			for i, s := range vs {
				items[i] = s
			}
			out[k] = items
		}
	}
	return out, nil
}
