package collect

import (
	"time"

	"github.com/John-Robertt/DBMC/internal/domain"
)

// Observer 接收批量抓取的进度回调（由上层决定呈现方式：日志/进度条/指标）。
//
// 约束：
// - 回调在抓取循环内同步执行，实现必须轻量（重活请自行异步化）
// - 任何回调都不允许影响批次结果；Observer 是只读旁路
type Observer interface {
	OnStart(ownerID string, opts BatchOptions)
	OnItem(done, total int, id string, err error, dur time.Duration)
	OnFinish(result domain.BatchResult, dur time.Duration)
}
