package fetch

import "fmt"

// BlockedError 表示响应体命中了人机验证/封禁特征。
// 终态错误：对已生效的封禁重试只会烧掉本就稀缺的“对站点友好”窗口。
type BlockedError struct {
	URL    string
	Marker string // 命中的特征词（用于解释，不用于控制流）
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("被站点拦截（命中特征 %q）：%s", e.Marker, e.URL)
}

// ForbiddenError 表示 HTTP 403。终态错误，不重试。
type ForbiddenError struct {
	URL string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("HTTP 403 Forbidden：%s", e.URL)
}

// NetworkError 表示瞬时网络/状态错误（可重试）。
type NetworkError struct {
	URL        string
	StatusCode int // 0 表示传输层错误（无响应）
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP %d：%s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("请求失败：%s：%v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
