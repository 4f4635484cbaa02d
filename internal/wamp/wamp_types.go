// Package wamp 实现了 LCU 使用的 WAMP v1 消息格式
package wamp

import (
	"encoding/json"
	"fmt"
)

// MessageType 定义了帧的消息类型，即 JSON 数组的第一个元素
type MessageType int

const (
	WELCOME     MessageType = iota // 服务端欢迎消息
	PREFIX                         // 前缀定义
	CALL                           // 客户端调用
	CALLRESULT                     // 调用结果
	CALLERROR                      // 调用失败
	SUBSCRIBE                      // 订阅主题
	UNSUBSCRIBE                    // 取消订阅
	PUBLISH                        // 发布消息
	EVENT                          // 主题事件
)

// MessageTypeMap 将 MessageType 映射到其字符串表示
var MessageTypeMap = map[MessageType]string{
	WELCOME:     "WELCOME",
	PREFIX:      "PREFIX",
	CALL:        "CALL",
	CALLRESULT:  "CALLRESULT",
	CALLERROR:   "CALLERROR",
	SUBSCRIBE:   "SUBSCRIBE",
	UNSUBSCRIBE: "UNSUBSCRIBE",
	PUBLISH:     "PUBLISH",
	EVENT:       "EVENT",
}

func (messageType MessageType) String() string {
	if name, ok := MessageTypeMap[messageType]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(messageType))
}

func (messageType MessageType) Known() bool {
	_, ok := MessageTypeMap[messageType]
	return ok
}

// TopicPrefix 是 LCU JSON API 事件主题的前缀
const TopicPrefix = "OnJsonApiEvent_"

// Frame 是解码后的一帧，Payload 为类型标记之后的元素
type Frame struct {
	Type    MessageType
	Payload []json.RawMessage
	Raw     []byte

	cursor int
}

const (
	EventCreate = "Create"
	EventUpdate = "Update"
	EventDelete = "Delete"
)

// Envelope 是 EVENT 帧携带的事件包装
type Envelope struct {
	EventType string          `json:"eventType"`
	URI       string          `json:"uri"`
	Data      json.RawMessage `json:"data"`
}

type CallResult struct {
	RequestID string
	Result    json.RawMessage
}

type CallError struct {
	RequestID string
	ErrorType string
	Message   string
}

type Event struct {
	Topic     string
	EventName string
	Envelope  Envelope
}
