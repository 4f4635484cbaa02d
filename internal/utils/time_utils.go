package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// 按后缀长度从长到短排列，保证 "ms" 先于 "m"/"s" 匹配
var durationUnits = []struct {
	suffix string
	unit   time.Duration
}{
	{"ms", time.Millisecond},
	{"s", time.Second},
	{"m", time.Minute},
	{"h", time.Hour},
	{"d", 24 * time.Hour},
}

// ParseStringTime 解析配置文件中的时间字符串，例如 "500ms"、"10s"、"5m"、"2h"、"1d"
func ParseStringTime(timeString string) (time.Duration, error) {
	timeString = strings.ToLower(strings.TrimSpace(timeString))
	if timeString == "" {
		return 0, fmt.Errorf("empty time string")
	}
	for _, u := range durationUnits {
		cutString, found := strings.CutSuffix(timeString, u.suffix)
		if !found {
			continue
		}
		number, err := strconv.Atoi(cutString)
		if err != nil {
			return 0, fmt.Errorf("invalid time format %q: %w", timeString, err)
		}
		if number < 0 {
			return 0, fmt.Errorf("negative time %q", timeString)
		}
		return time.Duration(number) * u.unit, nil
	}
	return 0, fmt.Errorf("invalid time format: %s", timeString)
}

// ParseStringTimeOr 解析失败或为空时返回默认值
func ParseStringTimeOr(timeString string, fallback time.Duration) time.Duration {
	if timeString == "" {
		return fallback
	}
	d, err := ParseStringTime(timeString)
	if err != nil || d == 0 {
		return fallback
	}
	return d
}
