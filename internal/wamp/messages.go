package wamp

import (
	"encoding/json"
	"fmt"
)

func encode(elements ...any) []byte {
	data, err := json.Marshal(elements)
	if err != nil {
		// 元素只包含整数和字符串，不会失败
		panic(fmt.Sprintf("wamp: encode frame: %v", err))
	}
	return data
}

// NewCallFrame 构造 [2, requestId, endpointId]
func NewCallFrame(requestID, endpointID string) []byte {
	return encode(CALL, requestID, endpointID)
}

// NewSubscribeFrame 构造 [5, "OnJsonApiEvent_" + eventName]
func NewSubscribeFrame(eventName string) []byte {
	return encode(SUBSCRIBE, Topic(eventName))
}

// NewUnsubscribeFrame 构造 [6, "OnJsonApiEvent_" + eventName]
func NewUnsubscribeFrame(eventName string) []byte {
	return encode(UNSUBSCRIBE, Topic(eventName))
}

// NewCallResultFrame 构造 [3, requestId, result]，用于模拟服务端
func NewCallResultFrame(requestID string, result any) ([]byte, error) {
	return json.Marshal([]any{CALLRESULT, requestID, result})
}

// NewCallErrorFrame 构造 [4, requestId, errorType, message]
func NewCallErrorFrame(requestID, errorType, message string) []byte {
	return encode(CALLERROR, requestID, errorType, message)
}

// NewEventFrame 构造 [8, topic, envelope]，envelope 按 LCU 的习惯编码为字符串
func NewEventFrame(eventName string, envelope any) ([]byte, error) {
	inner, err := json.Marshal(envelope)
	if err != nil {
		return nil, err
	}
	return json.Marshal([]any{EVENT, Topic(eventName), string(inner)})
}

func ParseCallResult(f *Frame) (*CallResult, error) {
	requestID, err := f.readString()
	if err != nil {
		return nil, decodeError(f, "reading request id", err)
	}
	result, err := f.readRaw()
	if err != nil {
		// 结果缺失时视为 null
		result = json.RawMessage("null")
	}
	return &CallResult{RequestID: requestID, Result: result}, nil
}

func ParseCallError(f *Frame) (*CallError, error) {
	requestID, err := f.readString()
	if err != nil {
		return nil, decodeError(f, "reading request id", err)
	}
	errorType, err := f.readText()
	if err != nil {
		return nil, decodeError(f, "reading error type", err)
	}
	// message 可以省略
	message, _ := f.readText()
	return &CallError{RequestID: requestID, ErrorType: errorType, Message: message}, nil
}

// ParseEvent 解析 [8, topic, envelope]
// envelope 通常是 JSON 字符串，部分版本直接内联为对象，两种都接受
func ParseEvent(f *Frame) (*Event, error) {
	topic, err := f.readString()
	if err != nil {
		return nil, decodeError(f, "reading topic", err)
	}
	eventName, ok := EventName(topic)
	if !ok {
		eventName = topic
	}

	raw, err := f.readRaw()
	if err != nil {
		return nil, decodeError(f, "reading envelope", err)
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		raw = json.RawMessage(text)
	}

	event := &Event{Topic: topic, EventName: eventName}
	if err := json.Unmarshal(raw, &event.Envelope); err != nil {
		return nil, decodeError(f, "decoding envelope", err)
	}
	switch event.Envelope.EventType {
	case EventCreate, EventUpdate, EventDelete:
	default:
		return nil, decodeError(f, fmt.Sprintf("unknown event type %q", event.Envelope.EventType), nil)
	}
	return event, nil
}
