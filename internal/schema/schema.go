// Package schema 定义 LCU 各类负载的结构校验器
//
// 每个 Schema 包装一个 juju/schema 的 Checker：校验通过时返回规范化后的值
// （整数统一为 int64，时间为 time.Time，对象为 map[string]any），
// 不通过时返回 *MismatchError，不会 panic。
package schema

import (
	"fmt"
	"strings"

	"github.com/juju/schema"
)

// Schema 是具名的负载校验器
type Schema struct {
	name    string
	checker schema.Checker
	blob    bool
}

// New 用给定的 Checker 创建 Schema
func New(name string, checker schema.Checker) *Schema {
	return &Schema{name: name, checker: checker}
}

func (s *Schema) Name() string {
	if s == nil {
		return AnyJSON.name
	}
	return s.name
}

// IsBlob 表示该 Schema 描述的是二进制资源而不是 JSON
func (s *Schema) IsBlob() bool {
	return s != nil && s.blob
}

// Validate 校验并规范化 v；nil Schema 等同于 AnyJSON
func (s *Schema) Validate(v any) (out any, err error) {
	if s == nil {
		s = AnyJSON
	}
	if s.blob {
		if b, ok := v.([]byte); ok {
			return b, nil
		}
		return nil, &MismatchError{Schema: s.name, Expected: "binary", Detail: fmt.Sprintf("expected binary, got %T", v), Value: v}
	}

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = &MismatchError{Schema: s.name, Detail: fmt.Sprintf("checker panicked: %v", r), Value: v}
		}
	}()

	out, err = s.checker.Coerce(v, nil)
	if err != nil {
		return nil, newMismatchError(s.name, err, v)
	}
	return out, nil
}

// MismatchError 描述负载与 Schema 不匹配的位置和期望的类型
type MismatchError struct {
	Schema   string
	Path     string
	Expected string
	Detail   string
	// Value 为校验前的原始值，便于排查
	Value any
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("payload does not match schema %s: %s", e.Schema, e.Detail)
}

// juju/schema 的错误格式为 "<path>: expected <kind>, got <value>"
func newMismatchError(name string, err error, value any) *MismatchError {
	detail := err.Error()
	result := &MismatchError{Schema: name, Detail: detail, Value: value}

	before, after, found := strings.Cut(detail, "expected ")
	if !found {
		return result
	}
	result.Path = strings.TrimSuffix(strings.TrimSpace(before), ":")
	expected, _, _ := strings.Cut(after, ", got")
	result.Expected = expected
	return result
}
