// Package remote 描述与 LCU 进程相关的外部协作者
package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	c "github.com/life-stream-dev/life-stream-go-lcu-client/internal/config"
)

var ErrNotRunning = errors.New("remote process is not running")

// PortToken 是一次连接所需的端口与凭据，Token 为已编码的 Basic 凭据
type PortToken struct {
	Port  string
	Token string
}

func (p PortToken) Validate() error {
	if p.Port == "" {
		return errors.New("port is empty")
	}
	if n, err := strconv.Atoi(p.Port); err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("invalid port %q", p.Port)
	}
	if p.Token == "" {
		return errors.New("token is empty")
	}
	return nil
}

// Host 返回 127.0.0.1:{port}
func (p PortToken) Host() string {
	return net.JoinHostPort("127.0.0.1", p.Port)
}

// URL 返回指定协议下的本地地址，例如 https://127.0.0.1:2999/path
// path 应当已经完成转义
func (p PortToken) URL(scheme, path string) string {
	return scheme + "://" + p.Host() + path
}

func (p PortToken) AuthorizationHeader() string {
	return "Basic " + p.Token
}

// Locator 负责发现 LCU 进程以及它的端口与凭据
type Locator interface {
	Running(ctx context.Context) (bool, error)
	PortToken(ctx context.Context) (PortToken, error)
}

// StaticLocator 使用配置文件中的固定端口与凭据
type StaticLocator struct {
	PT      PortToken
	running bool
}

func NewStaticLocator(config c.Config) *StaticLocator {
	return &StaticLocator{
		PT:      PortToken{Port: config.Remote.Port, Token: config.Remote.Token},
		running: config.Remote.Running,
	}
}

func (l *StaticLocator) Running(context.Context) (bool, error) {
	return l.running, nil
}

func (l *StaticLocator) PortToken(context.Context) (PortToken, error) {
	if !l.running {
		return PortToken{}, ErrNotRunning
	}
	return l.PT, l.PT.Validate()
}
