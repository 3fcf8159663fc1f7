package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

// 内置默认值。delay 档位来自对源站限流升级行为的长期观察，不是与源站的契约。
const (
	DefaultMovieBaseURL = "https://movie.douban.com"
	DefaultBookBaseURL  = "https://book.douban.com"
	DefaultMusicBaseURL = "https://music.douban.com"

	DefaultRequestTimeout = 30 * time.Second
	DefaultPageSize       = 30

	DefaultBaseDelay       = 4 * time.Second
	DefaultJitterRange     = 4 * time.Second
	DefaultSlowBaseDelay   = 10 * time.Second
	DefaultSlowJitterRange = 5 * time.Second
	DefaultSlowThreshold   = 200

	DefaultRetryMax      = 3
	DefaultRetryPauseMin = 5 * time.Second
	DefaultRetryPauseMax = 10 * time.Second
)

// Config 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认判断）。
type Config struct {
	LogLevel string

	// 三个内容垂直站的基址（测试/镜像场景可覆盖）。
	MovieBaseURL string
	BookBaseURL  string
	MusicBaseURL string

	RequestTimeout time.Duration
	PageSize       int

	// Fetcher 延迟档位：计数超过 SlowThreshold 后切换到 slow 档。
	BaseDelay       time.Duration
	JitterRange     time.Duration
	SlowBaseDelay   time.Duration
	SlowJitterRange time.Duration
	SlowThreshold   int64

	// 瞬时失败的有界重试（含首次尝试的最大总次数为 RetryMax）。
	RetryMax      int
	RetryPauseMin time.Duration
	RetryPauseMax time.Duration
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s：%v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// Load 读取配置：.env（可选）→ 环境变量（前缀 DBMC_）→ 配置文件（可选）→ 默认值。
//
// 发现规则（固定）：
// - file 非空：读取该 yaml 文件（不存在即报错——显式给出的路径必须有效）
// - file 为空：只依赖环境变量与默认值（库内核不强制配置文件存在）
func Load(file string) (Config, error) {
	// .env 是开发期便利，缺失不算错误。
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DBMC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if strings.TrimSpace(file) != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, &Error{Code: ErrCodeInvalid, Err: err}
		}
	}

	cfg := Config{
		LogLevel:        v.GetString("log_level"),
		MovieBaseURL:    strings.TrimRight(v.GetString("movie_base_url"), "/"),
		BookBaseURL:     strings.TrimRight(v.GetString("book_base_url"), "/"),
		MusicBaseURL:    strings.TrimRight(v.GetString("music_base_url"), "/"),
		RequestTimeout:  v.GetDuration("request_timeout"),
		PageSize:        v.GetInt("page_size"),
		BaseDelay:       v.GetDuration("base_delay"),
		JitterRange:     v.GetDuration("jitter_range"),
		SlowBaseDelay:   v.GetDuration("slow_base_delay"),
		SlowJitterRange: v.GetDuration("slow_jitter_range"),
		SlowThreshold:   v.GetInt64("slow_threshold"),
		RetryMax:        v.GetInt("retry_max"),
		RetryPauseMin:   v.GetDuration("retry_pause_min"),
		RetryPauseMax:   v.GetDuration("retry_pause_max"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, &Error{Code: ErrCodeInvalid, Err: err}
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("movie_base_url", DefaultMovieBaseURL)
	v.SetDefault("book_base_url", DefaultBookBaseURL)
	v.SetDefault("music_base_url", DefaultMusicBaseURL)
	v.SetDefault("request_timeout", DefaultRequestTimeout)
	v.SetDefault("page_size", DefaultPageSize)
	v.SetDefault("base_delay", DefaultBaseDelay)
	v.SetDefault("jitter_range", DefaultJitterRange)
	v.SetDefault("slow_base_delay", DefaultSlowBaseDelay)
	v.SetDefault("slow_jitter_range", DefaultSlowJitterRange)
	v.SetDefault("slow_threshold", DefaultSlowThreshold)
	v.SetDefault("retry_max", DefaultRetryMax)
	v.SetDefault("retry_pause_min", DefaultRetryPauseMin)
	v.SetDefault("retry_pause_max", DefaultRetryPauseMax)
}

func (c Config) validate() error {
	for _, bu := range []struct {
		name, raw string
	}{
		{"movie_base_url", c.MovieBaseURL},
		{"book_base_url", c.BookBaseURL},
		{"music_base_url", c.MusicBaseURL},
	} {
		u, err := url.Parse(bu.raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s 无效：%q", bu.name, bu.raw)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s 必须是 http/https：%q", bu.name, bu.raw)
		}
	}

	if c.RequestTimeout <= 0 {
		return errors.New("request_timeout 必须为正")
	}
	if c.PageSize < 1 {
		return errors.New("page_size 必须 >= 1")
	}
	if c.BaseDelay < 0 || c.JitterRange < 0 || c.SlowBaseDelay < 0 || c.SlowJitterRange < 0 {
		return errors.New("延迟配置不能为负")
	}
	if c.SlowThreshold < 0 {
		return errors.New("slow_threshold 不能为负")
	}
	if c.RetryMax < 1 {
		return errors.New("retry_max 必须 >= 1")
	}
	if c.RetryPauseMin < 0 || c.RetryPauseMax < c.RetryPauseMin {
		return errors.New("retry_pause 区间无效（要求 0 <= min <= max）")
	}
	return nil
}
