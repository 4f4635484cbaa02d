// Package endpoint 维护 LCU 端点描述表，负责路径模板的编译与反向匹配
package endpoint

import (
	"strings"

	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/schema"
)

type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

// Descriptor 描述一个端点，ID 即路径模板，如 /lol-summoner/v1/summoners/:id
type Descriptor struct {
	ID     string
	Method Method
	Return *schema.Schema
	// Query 为空时不校验查询参数
	Query *schema.Schema

	params  []string
	muxPath string
}

// Params 返回模板中的参数名，按出现顺序
func (d *Descriptor) Params() []string {
	return d.params
}

func (d *Descriptor) IsStatic() bool {
	return len(d.params) == 0
}

// parseTemplate 将 :name 形式的模板转换为 gorilla/mux 的 {name} 形式
// 参数可以出现在段中间，例如 /profile-icons/:id.jpg
func parseTemplate(template string) (params []string, muxPath string) {
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		ch := template[i]
		if ch != ':' || (i > 0 && template[i-1] != '/') {
			b.WriteByte(ch)
			continue
		}
		j := i + 1
		for j < len(template) && isNameChar(template[j]) {
			j++
		}
		if j == i+1 {
			b.WriteByte(ch)
			continue
		}
		name := template[i+1 : j]
		params = append(params, name)
		b.WriteString("{" + name + "}")
		i = j - 1
	}
	return params, b.String()
}

func isNameChar(ch byte) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}
