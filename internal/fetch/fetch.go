// Package fetch 实现对源站的限速抓取：自适应延迟、拦截识别、有界重试。
//
// 约束：
// - 单实例持有进程级请求计数（显式状态，不允许包级全局）
// - 所有请求串行发出；并发会破坏基于计数的延迟契约
// - 不做任何缓存；RawPage 归调用方所有，随用随弃
package fetch

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/John-Robertt/DBMC/internal/config"
	"github.com/John-Robertt/DBMC/internal/domain"
	"github.com/John-Robertt/DBMC/internal/infra/httpx"
)

// maxResponseBodyBytes 限制单页响应体大小（条目页远小于该值，超出即异常页面）。
const maxResponseBodyBytes = 10 * 1024 * 1024

// Stats 是对外暴露的观测数据（测试/运维钩子，不属于抓取契约）。
type Stats struct {
	RequestCount int64  `json:"request_count"`
	SlowMode     bool   `json:"slow_mode"`
	Mode         string `json:"mode"` // "normal" / "slow"
}

// Fetcher 是面向源站的限速抓取器。
//
// 延迟模型：每次请求前 sleep base + random(0, jitter)；计数超过阈值后
// 切换到 slow 档并保持（模拟源站自身的限流升级，直到显式 Reset）。
type Fetcher struct {
	client *http.Client
	cfg    config.Config
	log    *zap.Logger

	// Detect 判定封禁页；默认 DefaultBlockDetector，测试可替换。
	Detect BlockDetector

	// sleep 可注入（测试中消除真实等待）；默认按 ctx 可取消地等待。
	sleep func(ctx context.Context, d time.Duration) error

	mu    sync.Mutex
	rnd   *rand.Rand
	count int64
	slow  bool
}

// New 构造 Fetcher。client 为空时按 cfg.RequestTimeout 自建；log 为空时静默。
func New(cfg config.Config, client *http.Client, log *zap.Logger) *Fetcher {
	if client == nil {
		client = httpx.NewClient(cfg.RequestTimeout)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		client: client,
		cfg:    cfg,
		log:    log,
		Detect: DefaultBlockDetector,
		sleep:  sleepCtx,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Fetch 抓取单个页面并返回页面文本。
//
// 错误分类：
//   - *BlockedError / *ForbiddenError：终态，立即返回（不重试）
//   - *NetworkError：瞬时，重试至多 cfg.RetryMax 次（含首次），重试间隔取
//     [RetryPauseMin, RetryPauseMax] 内随机值
func (f *Fetcher) Fetch(ctx context.Context, rawURL, credential string, class domain.DomainClass) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= f.cfg.RetryMax; attempt++ {
		if attempt > 1 {
			pause := f.retryPause()
			f.log.Debug("抓取失败，等待后重试",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt),
				zap.Duration("pause", pause),
			)
			if err := f.sleep(ctx, pause); err != nil {
				return "", &NetworkError{URL: rawURL, Err: err}
			}
		}

		if err := f.intelligentDelay(ctx); err != nil {
			return "", &NetworkError{URL: rawURL, Err: err}
		}

		body, err := f.doOnce(ctx, rawURL, credential, class)
		if err == nil {
			return body, nil
		}

		var be *BlockedError
		var fe *ForbiddenError
		if errors.As(err, &be) || errors.As(err, &fe) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

// intelligentDelay 在每次请求前执行自适应延迟，并推进请求计数。
// 计数推进与档位切换在同一临界区内完成；sleep 在临界区外（可取消）。
func (f *Fetcher) intelligentDelay(ctx context.Context) error {
	f.mu.Lock()
	f.count++
	if !f.slow && f.count > f.cfg.SlowThreshold {
		f.slow = true
		f.log.Info("请求计数超过阈值，进入 slow 档",
			zap.Int64("count", f.count),
			zap.Int64("threshold", f.cfg.SlowThreshold),
		)
	}

	base, jitter := f.cfg.BaseDelay, f.cfg.JitterRange
	if f.slow {
		base, jitter = f.cfg.SlowBaseDelay, f.cfg.SlowJitterRange
	}
	d := base
	if jitter > 0 {
		d += time.Duration(f.rnd.Int63n(int64(jitter)))
	}
	f.mu.Unlock()

	return f.sleep(ctx, d)
}

func (f *Fetcher) doOnce(ctx context.Context, rawURL, credential string, class domain.DomainClass) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &NetworkError{URL: rawURL, Err: err}
	}
	httpx.ApplyProfile(req, class, credential)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &NetworkError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return "", &ForbiddenError{URL: rawURL}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return "", &NetworkError{URL: rawURL, StatusCode: resp.StatusCode, Err: err}
	}
	body := string(b)

	// 先识别拦截再看状态码：验证页常以 200 返回。
	if marker, blocked := f.Detect(body); blocked {
		return "", &BlockedError{URL: rawURL, Marker: marker}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &NetworkError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	return body, nil
}

func (f *Fetcher) retryPause() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	span := f.cfg.RetryPauseMax - f.cfg.RetryPauseMin
	if span <= 0 {
		return f.cfg.RetryPauseMin
	}
	return f.cfg.RetryPauseMin + time.Duration(f.rnd.Int63n(int64(span)))
}

// Stats 返回当前计数与档位（只读观测）。
func (f *Fetcher) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	mode := "normal"
	if f.slow {
		mode = "slow"
	}
	return Stats{RequestCount: f.count, SlowMode: f.slow, Mode: mode}
}

// ResetCounter 清零计数并退出 slow 档。
// 这是特权运维操作：禁止在批量抓取进行中调用。
func (f *Fetcher) ResetCounter() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count = 0
	f.slow = false
}

// SetCount 直接设置计数（运维/测试钩子）；档位按新计数重新判定。
func (f *Fetcher) SetCount(n int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count = n
	f.slow = n > f.cfg.SlowThreshold
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
