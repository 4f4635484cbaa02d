// Package fetch 通过 HTTPS 请求 LCU 的资源接口，并按端点描述校验返回值
package fetch

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/endpoint"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/logger"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/metrics"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/remote"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/schema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/life-stream-dev/life-stream-go-lcu-client/internal/fetch"
	// 错误响应体只读取这么多
	maxErrorBody = 64 << 10
)

// Init 是单次请求的附加参数
type Init struct {
	// Method 覆盖端点声明的方法
	Method endpoint.Method
	// Header 会合并到请求头中，但不会覆盖 Authorization
	Header http.Header
	Body   []byte
}

type Fetcher struct {
	table   *endpoint.Table
	client  *http.Client
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Fetcher)

// WithHTTPClient 使用调用方提供的 http.Client，TLS 配置由调用方负责
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

func WithTable(table *endpoint.Table) Option {
	return func(f *Fetcher) {
		f.table = table
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Fetcher) {
		f.metrics = m
	}
}

// DefaultHTTPClient 跳过证书校验，LCU 使用自签名证书
func DefaultHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	return &http.Client{Transport: transport}
}

func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		table:  endpoint.Default(),
		client: DefaultHTTPClient(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fetcher) Table() *endpoint.Table {
	return f.table
}

// Fetch 请求 endpointID 对应的资源并按其返回 Schema 校验
// Blob 端点返回 []byte，其余返回校验后的值
func (f *Fetcher) Fetch(ctx context.Context, endpointID string, pt remote.PortToken, params map[string]string, query map[string]any, init *Init) (any, error) {
	d, ok := f.table.Lookup(endpointID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", endpoint.ErrEndpointNotFound, endpointID)
	}
	path, err := f.table.CompilePath(endpointID, params)
	if err != nil {
		return nil, err
	}
	if init == nil {
		init = &Init{}
	}
	method := d.Method
	if init.Method != "" {
		method = init.Method
	}
	if method == endpoint.MethodGet {
		encoded, err := f.table.EncodeQuery(d, query)
		if err != nil {
			return nil, err
		}
		if encoded != "" {
			path += "?" + encoded
		}
	}

	ctx, span := f.tracer.Start(ctx, "lcu.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("lcu.endpoint", endpointID),
			attribute.String("http.method", string(method)),
		),
	)
	defer span.End()

	result, err := f.fetch(ctx, d, method, path, pt, init)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}

func (f *Fetcher) fetch(ctx context.Context, d *endpoint.Descriptor, method endpoint.Method, path string, pt remote.PortToken, init *Init) (any, error) {
	resp, err := f.do(ctx, method, path, pt, init)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	contentType := resp.Header.Get("Content-Type")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(d.ID, resp, contentType)
	}

	if d.Return.IsBlob() {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return body, nil
	}

	if !isJSON(contentType) {
		return nil, &UnsupportedContentTypeError{Endpoint: d.ID, ContentType: contentType}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var value any
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &value); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return d.Return.Validate(value)
}

func (f *Fetcher) do(ctx context.Context, method endpoint.Method, path string, pt remote.PortToken, init *Init) (*http.Response, error) {
	var body io.Reader
	if init.Body != nil {
		body = bytes.NewReader(init.Body)
	}
	req, err := http.NewRequestWithContext(ctx, string(method), pt.URL("https", path), body)
	if err != nil {
		return nil, err
	}
	for k, values := range init.Header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if init.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", pt.AuthorizationHeader())

	start := time.Now()
	resp, err := f.client.Do(req)
	elapsed := time.Since(start)
	f.metrics.FetchObserved(string(method), elapsed)
	if err != nil {
		logger.DebugF("[fetch] %s %s failed after %s: %v", method, path, elapsed, err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	logger.DebugF("[fetch] %s %s -> %d in %s", method, path, resp.StatusCode, elapsed)
	return resp, nil
}

// RawResponse 是未经校验的响应
type RawResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// JSON 在响应为 JSON 时返回解析后的值
func (r *RawResponse) JSON() (any, bool) {
	if !isJSON(r.ContentType) {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil, false
	}
	return v, true
}

// Raw 请求任意路径且不做校验，用于调试
func (f *Fetcher) Raw(ctx context.Context, path string, pt remote.PortToken, init *Init) (*RawResponse, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if init == nil {
		init = &Init{}
	}
	method := init.Method
	if method == "" {
		method = endpoint.MethodGet
	}

	ctx, span := f.tracer.Start(ctx, "lcu.fetch.raw",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("lcu.path", path), attribute.String("http.method", string(method))),
	)
	defer span.End()

	resp, err := f.do(ctx, method, path, pt, init)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	return &RawResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Get 是 Fetch 的泛型版本，返回值按端点绑定的类型解码
func Get[T any](ctx context.Context, f *Fetcher, e endpoint.Endpoint[T], pt remote.PortToken, params map[string]string, query map[string]any) (T, error) {
	v, err := f.Fetch(ctx, e.ID, pt, params, query, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return schema.Decode[T](v)
}

func isJSON(contentType string) bool {
	if strings.Contains(contentType, "application/json") {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && strings.HasSuffix(mediaType, "+json")
}
