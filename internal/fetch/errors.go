package fetch

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type UnsupportedContentTypeError struct {
	Endpoint    string
	ContentType string
}

func (e *UnsupportedContentTypeError) Error() string {
	return fmt.Sprintf("endpoint %s: unsupported content type %q", e.Endpoint, e.ContentType)
}

// StatusError 表示非 2xx 响应，Body 为 JSON 时是解析后的值，否则为字符串
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       any
}

func (e *StatusError) Error() string {
	if m, ok := e.Body.(map[string]any); ok {
		if msg, ok := m["message"].(string); ok && msg != "" {
			return fmt.Sprintf("endpoint %s: status %d: %s", e.Endpoint, e.StatusCode, msg)
		}
	}
	return fmt.Sprintf("endpoint %s: status %d", e.Endpoint, e.StatusCode)
}

func newStatusError(id string, resp *http.Response, contentType string) *StatusError {
	result := &StatusError{Endpoint: id, StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		return result
	}
	if isJSON(contentType) {
		var v any
		if json.Unmarshal(body, &v) == nil {
			result.Body = v
			return result
		}
	}
	result.Body = string(body)
	return result
}
