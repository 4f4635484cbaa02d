package client

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/logger"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/remote"
)

// Conn 是客户端使用的传输层，*websocket.Conn 满足该接口
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// controlWriter 由支持关闭握手的传输实现
type controlWriter interface {
	WriteControl(messageType int, data []byte, deadline time.Time) error
}

// DefaultDialer 跳过证书校验，LCU 使用自签名证书
func DefaultDialer() *websocket.Dialer {
	return &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 10 * time.Second,
		TLSClientConfig:  &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
	}
}

// Connect 连接 wss://127.0.0.1:{port}/ 并返回处于 Open 状态的客户端
func Connect(ctx context.Context, pt remote.PortToken, opts ...Option) (*Client, error) {
	o := newOptions(opts)
	dialer := o.dialer
	if dialer == nil {
		dialer = DefaultDialer()
	}

	header := http.Header{}
	header.Set("Authorization", pt.AuthorizationHeader())
	conn, resp, err := dialer.DialContext(ctx, pt.URL("wss", "/"), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", pt.Host(), err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", pt.Host(), err)
	}
	return newClient(conn, o), nil
}

// send 写出一帧，调用方必须持有 writeMu
func (c *Client) send(data []byte) error {
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		logger.ErrorF("[%s] Fail to send frame, details: %v", c.id, err)
		return err
	}
	logger.DebugF("[%s] Send frame %s", c.id, data)
	return nil
}

func isNetClosedError(err error) bool {
	if errors.Is(err, net.ErrClosed) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && errors.Is(opErr.Err, net.ErrClosed)
}

func (c *Client) handleReadError(err error) {
	switch {
	case c.State() == StateClosed || isNetClosedError(err):
		logger.DebugF("[%s] Reader stopped: %v", c.id, err)
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		logger.InfoF("[%s] Remote closed connection", c.id)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		logger.WarnF("[%s] Connection dropped", c.id)
	case os.IsTimeout(err):
		logger.WarnF("[%s] Reading timeout", c.id)
	default:
		logger.ErrorF("[%s] Error occured while reading frame, details: %v", c.id, err)
	}
}
