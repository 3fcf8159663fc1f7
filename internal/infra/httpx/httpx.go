package httpx

import (
	"errors"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/John-Robertt/DBMC/internal/domain"
)

// Transport 把“UA 池 + 基础请求头”固化为统一策略。
//
// 设计目标：fetch 层只负责“限速 + 重试 + 拦截识别”，不关心请求头细节。
// 注意：重试不在这里做——fetch 层需要区分“终态拦截”与“瞬时失败”，
// RoundTripper 内盲目重试会把被封禁的窗口进一步烧掉。
type Transport struct {
	Base http.RoundTripper

	ua *uaPool
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	// Clone 会复制 Header 等，避免在 RoundTripper 内部“污染”调用方的 request。
	r := req.Clone(req.Context())
	if r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", t.ua.random())
	}
	return base.RoundTrip(r)
}

// NewClient 构造用于源站页面抓取的 HTTP client。
//
// 规则：
// - 内置 UA 池：每个请求随机 UA（未显式指定时）
// - 总超时由调用方配置；重试/限速由 fetch 层统一控制
func NewClient(timeout time.Duration) *http.Client {
	base := &http.Transport{
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
	}
	return &http.Client{
		Transport: &Transport{Base: base, ua: globalUA},
		Timeout:   timeout,
	}
}

// ApplyProfile 按内容垂直站设置请求头档位。
//
// 约束：
// - credential 是不透明会话凭证，原样透传为 Cookie（本核心不校验/不续期）
// - Referer 取请求自身的 scheme+host（基址可被测试/镜像覆盖，不能写死站点域名）
func ApplyProfile(req *http.Request, class domain.DomainClass, credential string) {
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")

	if req.URL != nil && req.URL.Host != "" {
		req.Header.Set("Referer", req.URL.Scheme+"://"+req.URL.Host+"/")
	}

	// 不设置 Accept-Encoding：交给 net/http 透明处理 gzip，
	// 手工声明会关闭自动解压，下游解析会拿到压缩字节。
	switch class {
	case domain.DomainBook, domain.DomainMusic:
		req.Header.Set("Upgrade-Insecure-Requests", "1")
	default:
		req.Header.Set("Upgrade-Insecure-Requests", "1")
		req.Header.Set("Sec-Fetch-Site", "same-origin")
		req.Header.Set("Sec-Fetch-Mode", "navigate")
	}

	if credential != "" {
		req.Header.Set("Cookie", credential)
	}
}

type uaPool struct {
	mu  sync.Mutex
	rnd *rand.Rand
	uas []string
}

func (p *uaPool) random() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uas[p.rnd.Intn(len(p.uas))]
}

var globalUA = newUAPool()

func newUAPool() *uaPool {
	// 尽量保持 UA 列表短小但多样；未来可扩充（不对外暴露配置）。
	uas := []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_6) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Safari/605.1.15",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	}
	return &uaPool{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		uas: uas,
	}
}
