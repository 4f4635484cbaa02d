package schema

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Decode 将 Validate 的输出转换为具体的 Go 类型
// T 为 any 时直接返回原值
func Decode[T any](v any) (T, error) {
	var out T
	if direct, ok := v.(T); ok {
		return direct, nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &out,
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(v); err != nil {
		return out, fmt.Errorf("decode %T: %w", out, err)
	}
	return out, nil
}
