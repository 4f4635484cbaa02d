package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

const DefaultPath = "config.json"

type Config struct {
	Remote struct {
		Port    string `json:"port"`
		Token   string `json:"token"`
		Running bool   `json:"running"`
	} `json:"remote"`
	Monitor struct {
		PollInterval   string `json:"poll_interval"`
		StatusEndpoint string `json:"status_endpoint"`
	} `json:"monitor"`
	Journal struct {
		Enabled          bool   `json:"enabled"`
		Host             string `json:"host"`
		Port             uint64 `json:"port"`
		Username         string `json:"username"`
		Password         string `json:"password"`
		Database         string `json:"database"`
		Collection       string `json:"collection"`
		UseTLS           bool   `json:"use_tls"`
		ConnectTimeout   string `json:"connect_timeout"`
		OperationTimeout string `json:"operation_timeout"`
		MaxPoolSize      uint64 `json:"max_pool_size"`
	} `json:"journal"`
	Metrics struct {
		Listen string `json:"listen"`
	} `json:"metrics"`
	DebugMode bool   `json:"debug_mode"`
	AppName   string `json:"app_name"`
	LogDir    string `json:"log_dir"`
}

var (
	ErrConfigCreated = errors.New("the configuration file does not exist and has been created. Please try again after editing the configuration file")
	ErrInvalidConfig = errors.New("the configuration file does not contain valid JSON")
)

// Default 返回带有默认值的配置，同时作为首次运行时写出的模板
func Default() Config {
	var c Config
	c.Monitor.PollInterval = "1s"
	c.Monitor.StatusEndpoint = "/lol-summoner/v1/status"
	c.Journal.Host = "127.0.0.1"
	c.Journal.Port = 27017
	c.Journal.Database = "lcu"
	c.Journal.Collection = "events"
	c.Journal.ConnectTimeout = "10s"
	c.Journal.OperationTimeout = "5s"
	c.Journal.MaxPoolSize = 4
	c.AppName = "lcu-client"
	c.LogDir = "logs"
	return c
}

// ReadConfig 读取配置文件，文件不存在时写出模板并返回 ErrConfigCreated
func ReadConfig(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Default(), fmt.Errorf("reading %s: %w", path, err)
		}
		data, _ := json.MarshalIndent(Default(), "", "\t")
		if werr := os.WriteFile(path, data, 0644); werr != nil {
			return Default(), fmt.Errorf("writing config template %s: %w", path, werr)
		}
		return Default(), ErrConfigCreated
	}

	loaded := Default()
	if err := json.Unmarshal(bytes, &loaded); err != nil {
		return Default(), fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return loaded, nil
}
