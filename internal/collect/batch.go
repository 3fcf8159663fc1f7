package collect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/John-Robertt/DBMC/internal/domain"
	"github.com/John-Robertt/DBMC/internal/extract"
)

// 列表状态过滤（源站的列表路径段）。
const (
	StatusWish    = "wish"    // 想看/想读
	StatusDoing   = "do"      // 在看/在读
	StatusCollect = "collect" // 看过/读过
)

// BatchOptions 控制一次批量抓取。
type BatchOptions struct {
	// Status 是列表状态过滤（wish/do/collect），必填。
	Status string

	// Category 决定列表所在垂直站与详情抓取的期望分类；零值按 movies 处理。
	Category domain.Category

	// Limit 是条目数上限；<=0 表示不设上限（翻到零条目页为止）。
	Limit int

	// ContinueOnError 为 nil 时按 true 处理（默认单条失败不中断批次）。
	ContinueOnError *bool

	// IncludeDetails 打开后逐条抓详情页；关闭时只登记列表页信息。
	IncludeDetails bool
}

func (o BatchOptions) continueOnError() bool {
	return o.ContinueOnError == nil || *o.ContinueOnError
}

func (o BatchOptions) category() domain.Category {
	if o.Category.Valid() {
		return o.Category
	}
	return domain.CategoryMovies
}

// ScrapeBatch 分页抓取用户列表并逐条产出记录。
//
// 约束：
// - 翻页在达到 Limit 或遇到零条目页时停止；条目顺序严格保持列表顺序
// - 批次总是跑完并返回完整账目（除非 ContinueOnError=false 短路）
// - 列表页本身抓不下来是批次级失败：返回已有账目 + error
func (c *Collector) ScrapeBatch(ctx context.Context, ownerID, credential string, opts BatchOptions) (domain.BatchResult, error) {
	var out domain.BatchResult

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return out, fmt.Errorf("ownerID 不能为空")
	}
	if err := validateStatus(opts.Status); err != nil {
		return out, err
	}

	started := time.Now()
	if c.Obs != nil {
		c.Obs.OnStart(ownerID, opts)
	}

	items, err := c.collectListItems(ctx, ownerID, credential, opts)
	if err != nil {
		out.Finalize()
		return out, err
	}

	aborted := false
	for i, it := range items {
		if aborted {
			break
		}

		itemStarted := time.Now()
		itemErr := c.processListItem(ctx, it, credential, opts, &out)
		if itemErr != nil {
			out.Failures = append(out.Failures, domain.ItemFailure{
				ID:        it.SubjectID,
				ErrorCode: errorCode(itemErr),
				ErrorMsg:  itemErr.Error(),
			})
			if !opts.continueOnError() {
				aborted = true
			}
		}

		if c.Obs != nil {
			c.Obs.OnItem(i+1, len(items), it.SubjectID, itemErr, time.Since(itemStarted))
		}
	}

	out.Finalize()
	if c.Obs != nil {
		c.Obs.OnFinish(out, time.Since(started))
	}
	return out, nil
}

// collectListItems 翻页收集列表条目，直到 Limit 或零条目页。
func (c *Collector) collectListItems(ctx context.Context, ownerID, credential string, opts BatchOptions) ([]extract.ListItem, error) {
	category := opts.category()
	base := c.cfg.MovieBaseURL
	if category == domain.CategoryBooks {
		base = c.cfg.BookBaseURL
	}

	var collected []extract.ListItem
	for start := 0; ; start += c.cfg.PageSize {
		if opts.Limit > 0 && len(collected) >= opts.Limit {
			break
		}

		listURL := fmt.Sprintf("%s/people/%s/%s?start=%d&sort=time&rating=all&filter=all&mode=grid",
			base, ownerID, opts.Status, start)
		page, err := c.fetcher.Fetch(ctx, listURL, credential, category.DomainClass())
		if err != nil {
			return collected, fmt.Errorf("列表页抓取失败（start=%d）：%w", start, err)
		}

		items, err := extract.ParseList(page, listURL)
		if err != nil {
			return collected, fmt.Errorf("列表页解析失败（start=%d）：%w", start, err)
		}
		if len(items) == 0 {
			break
		}

		collected = append(collected, items...)
		c.log.Debug("列表页已收集",
			zap.Int("start", start),
			zap.Int("got", len(items)),
			zap.Int("collected", len(collected)),
		)
	}

	if opts.Limit > 0 && len(collected) > opts.Limit {
		collected = collected[:opts.Limit]
	}
	return collected, nil
}

// processListItem 处理单个列表条目：抓详情或只登记列表信息，写入分桶与 Sink。
func (c *Collector) processListItem(ctx context.Context, it extract.ListItem, credential string, opts BatchOptions, out *domain.BatchResult) error {
	var rec domain.Record

	if opts.IncludeDetails {
		r, _, err := c.ScrapeOne(ctx, it.SubjectID, credential, opts.category())
		if err != nil {
			return err
		}
		rec = r
	} else {
		// 列表页只有身份信息：产出最小记录（内容事实留给后续详情抓取）。
		rec = domain.Record{
			SubjectID: it.SubjectID,
			Title:     it.Title,
			DoubanURL: it.URL,
			Category:  opts.category(),
		}
		if rec.SubjectID == "" || rec.Title == "" {
			return &ValidationError{ID: it.SubjectID, Missing: []string{"subjectId", "title"}}
		}
	}

	if c.Sink != nil {
		if err := c.Sink.Write(ctx, rec); err != nil {
			return &SinkError{ID: rec.SubjectID, Err: err}
		}
	}

	out.Add(rec)
	return nil
}

func validateStatus(s string) error {
	switch s {
	case StatusWish, StatusDoing, StatusCollect:
		return nil
	case "":
		return fmt.Errorf("status 不能为空")
	default:
		return fmt.Errorf("status 只能是 %s/%s/%s，实际是 %q", StatusWish, StatusDoing, StatusCollect, s)
	}
}
