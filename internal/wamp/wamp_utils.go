package wamp

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errPayloadExhausted = errors.New("frame payload exhausted")

// DecodeError 表示无法解析的入站帧，调用方应记录后丢弃
type DecodeError struct {
	Raw    []byte
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	raw := string(e.Raw)
	if len(raw) > 128 {
		raw = raw[:128] + "..."
	}
	if e.Err != nil {
		return fmt.Sprintf("decode frame %q: %s: %v", raw, e.Reason, e.Err)
	}
	return fmt.Sprintf("decode frame %q: %s", raw, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeError(f *Frame, reason string, err error) *DecodeError {
	return &DecodeError{Raw: f.Raw, Reason: reason, Err: err}
}

// DecodeFrame 将一个文本帧解码为 Frame
// 未知的消息类型不会报错，由调用方通过 Known 判断
func DecodeFrame(data []byte) (*Frame, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, &DecodeError{Raw: data, Reason: "not a JSON array", Err: err}
	}
	if len(elements) == 0 {
		return nil, &DecodeError{Raw: data, Reason: "empty frame"}
	}

	var messageType int
	if string(elements[0]) == "null" {
		return nil, &DecodeError{Raw: data, Reason: "message type is null"}
	}
	if err := json.Unmarshal(elements[0], &messageType); err != nil {
		return nil, &DecodeError{Raw: data, Reason: "message type is not an integer", Err: err}
	}

	return &Frame{
		Type:    MessageType(messageType),
		Payload: elements[1:],
		Raw:     data,
	}, nil
}

func (f *Frame) Remaining() int {
	return len(f.Payload) - f.cursor
}

func (f *Frame) readRaw() (json.RawMessage, error) {
	if f.cursor >= len(f.Payload) {
		return nil, errPayloadExhausted
	}
	raw := f.Payload[f.cursor]
	f.cursor++
	return raw, nil
}

func (f *Frame) readString() (string, error) {
	raw, err := f.readRaw()
	if err != nil {
		return "", err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}

// readText 读取字符串字段，非字符串时返回其 JSON 文本
func (f *Frame) readText() (string, error) {
	raw, err := f.readRaw()
	if err != nil {
		return "", err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	return string(raw), nil
}

// EventName 从主题中去掉 OnJsonApiEvent_ 前缀
func EventName(topic string) (string, bool) {
	return strings.CutPrefix(topic, TopicPrefix)
}

// Topic 返回事件名对应的订阅主题
func Topic(eventName string) string {
	return TopicPrefix + eventName
}

// DecodeValue 将 JSON 片段解码为 any，数字保持为 float64
func DecodeValue(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
