package endpoint

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/schema"
)

const (
	resolveCacheSize = 256
	resolveCacheTTL  = time.Hour
)

// Table 是构建后不再修改的端点描述表
type Table struct {
	descriptors map[string]*Descriptor
	ordered     []*Descriptor
	static      map[string]*Descriptor
	dynamic     []*Descriptor
	router      *mux.Router
	events      map[string]*schema.Schema
	// 未命中也会以 nil 缓存
	cache *expirable.LRU[string, *Descriptor]
}

// NewTable 按注册顺序构建描述表，动态模板的匹配顺序与注册顺序一致
func NewTable(descriptors []Descriptor, events map[string]*schema.Schema) (*Table, error) {
	t := &Table{
		descriptors: make(map[string]*Descriptor, len(descriptors)),
		static:      make(map[string]*Descriptor),
		router:      mux.NewRouter(),
		events:      make(map[string]*schema.Schema, len(events)),
		cache:       expirable.NewLRU[string, *Descriptor](resolveCacheSize, nil, resolveCacheTTL),
	}

	for i := range descriptors {
		d := descriptors[i]
		if d.ID == "" || !strings.HasPrefix(d.ID, "/") {
			return nil, fmt.Errorf("endpoint %q: template must start with /", d.ID)
		}
		if _, ok := t.descriptors[d.ID]; ok {
			return nil, fmt.Errorf("endpoint %s: registered twice", d.ID)
		}
		if d.Method == "" {
			d.Method = MethodGet
		}
		if d.Return == nil {
			d.Return = schema.AnyJSON
		}
		d.params, d.muxPath = parseTemplate(d.ID)

		if d.IsStatic() {
			t.static[d.ID] = &d
		} else {
			route := t.router.NewRoute().Name(d.ID).Path(d.muxPath)
			if err := route.GetError(); err != nil {
				return nil, fmt.Errorf("endpoint %s: %w", d.ID, err)
			}
			t.dynamic = append(t.dynamic, &d)
		}
		t.descriptors[d.ID] = &d
		t.ordered = append(t.ordered, &d)
	}

	for name, s := range events {
		t.events[name] = s
	}
	return t, nil
}

func MustNewTable(descriptors []Descriptor, events map[string]*schema.Schema) *Table {
	t, err := NewTable(descriptors, events)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup 按端点 ID（模板）查找描述
func (t *Table) Lookup(id string) (*Descriptor, bool) {
	d, ok := t.descriptors[id]
	return d, ok
}

// Descriptors 按注册顺序返回全部端点
func (t *Table) Descriptors() []*Descriptor {
	out := make([]*Descriptor, len(t.ordered))
	copy(out, t.ordered)
	return out
}

// CompilePath 用 params 替换模板中的全部参数，参数值会做路径转义
func (t *Table) CompilePath(id string, params map[string]string) (string, error) {
	d, ok := t.descriptors[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrEndpointNotFound, id)
	}
	if d.IsStatic() {
		return d.ID, nil
	}

	pairs := make([]string, 0, len(d.params)*2)
	for _, name := range d.params {
		value, ok := params[name]
		if !ok {
			return "", &MissingParameterError{Endpoint: id, Parameter: name}
		}
		if value == "" {
			return "", &EmptyParameterError{Endpoint: id, Parameter: name}
		}
		pairs = append(pairs, name, url.PathEscape(value))
	}

	u, err := t.router.Get(id).URLPath(pairs...)
	if err != nil {
		return "", fmt.Errorf("endpoint %s: %w", id, err)
	}
	return u.Path, nil
}

// Resolve 将具体路径反查为端点描述：先精确匹配静态模板，再按注册顺序尝试动态模板
func (t *Table) Resolve(concretePath string) (*Descriptor, bool) {
	concretePath, _, _ = strings.Cut(concretePath, "?")
	if d, ok := t.static[concretePath]; ok {
		return d, true
	}
	if d, ok := t.cache.Get(concretePath); ok {
		return d, d != nil
	}

	d := t.match(concretePath)
	t.cache.Add(concretePath, d)
	return d, d != nil
}

func (t *Table) match(concretePath string) *Descriptor {
	u, err := url.Parse(concretePath)
	if err != nil {
		return nil
	}
	req := &http.Request{Method: http.MethodGet, URL: u}
	var match mux.RouteMatch
	if !t.router.Match(req, &match) || match.Route == nil {
		return nil
	}
	return t.descriptors[match.Route.GetName()]
}

// EventSchema 返回事件名注册的 Schema，未注册时返回 nil
func (t *Table) EventSchema(eventName string) *schema.Schema {
	return t.events[eventName]
}

// SchemaForEvent 返回事件名注册的 Schema，未注册的事件退回 AnyJSON，数据原样交付
func (t *Table) SchemaForEvent(eventName string) *schema.Schema {
	if s := t.EventSchema(eventName); s != nil {
		return s
	}
	return schema.AnyJSON
}

// ReturnSchema 返回端点声明的返回 Schema，未注册的端点退回 AnyJSON
func (t *Table) ReturnSchema(id string) *schema.Schema {
	if d, ok := t.descriptors[id]; ok {
		return d.Return
	}
	return schema.AnyJSON
}

// EventNameForPath 将端点路径转换为事件名
// /lol-gameflow/v1/session -> lol-gameflow_v1_session
func EventNameForPath(path string) string {
	return strings.ReplaceAll(strings.TrimPrefix(path, "/"), "/", "_")
}
