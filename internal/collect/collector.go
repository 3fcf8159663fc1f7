// Package collect 驱动抓取流水线：fetch → extract → 分类裁决 → canonical，
// 并把列表分页批量化为按分类分桶、逐条记账的 BatchResult。
//
// 约束：
// - 全程串行：并发抓取会破坏 Fetcher 基于计数的延迟契约
// - 单条失败降级为 item 级失败（除非调用方要求失败即止）
package collect

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/John-Robertt/DBMC/internal/canonical"
	"github.com/John-Robertt/DBMC/internal/config"
	"github.com/John-Robertt/DBMC/internal/domain"
	"github.com/John-Robertt/DBMC/internal/extract"
	"github.com/John-Robertt/DBMC/internal/fetch"
)

// Collector 是流水线的组装点。
// Sink 与 Obs 为可选协作者：Sink 消费成品记录，Obs 接收进度回调。
type Collector struct {
	fetcher *fetch.Fetcher
	engine  *canonical.Engine
	cfg     config.Config
	log     *zap.Logger

	// Options 控制 canonical 三段开关（默认：修复开、强校验开）。
	Options canonical.Options

	Sink domain.Sink
	Obs  Observer
}

// New 组装 Collector。log 为空时静默。
func New(fetcher *fetch.Fetcher, cfg config.Config, log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{
		fetcher: fetcher,
		engine:  canonical.NewEngine(log),
		cfg:     cfg,
		log:     log,
		Options: canonical.DefaultOptions(),
	}
}

// ValidationError 表示成品记录缺失分类必备字段（item 级失败，不是警告）。
type ValidationError struct {
	ID      string
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("记录缺失必备字段 %v（id=%s）", e.Missing, e.ID)
}

// ScrapeOne 抓取并规范化单个条目。
//
// 返回的 warnings 汇总了解析与规范化两个阶段的非致命问题；
// 返回 error 时记录不可用（终态拦截、解析失败或必备字段缺失）。
func (c *Collector) ScrapeOne(ctx context.Context, id, credential string, expected domain.Category) (domain.Record, []string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Record{}, nil, errors.New("条目 id 不能为空")
	}

	pageURL := c.subjectURL(expected, id)
	page, err := c.fetcher.Fetch(ctx, pageURL, credential, expected.DomainClass())
	if err != nil {
		return domain.Record{}, nil, err
	}

	item, err := extract.Extract(page, pageURL, expected)
	if err != nil {
		return domain.Record{}, nil, err
	}

	category := resolveCategory(item)
	if category != item.Category {
		c.log.Debug("分类裁决覆盖了解析推断",
			zap.String("id", id),
			zap.String("inferred", string(item.Category)),
			zap.String("resolved", string(category)),
		)
	}

	result, err := c.engine.Transform(item.Fields, item.Fragments, category, c.Options)
	if err != nil {
		return domain.Record{}, nil, err
	}

	warnings := append(append([]string(nil), item.Warnings...), result.Warnings...)

	if missing := missingRequired(result.Record); len(missing) > 0 {
		return domain.Record{}, warnings, &ValidationError{ID: id, Missing: missing}
	}

	c.log.Info("条目抓取完成",
		zap.String("id", result.Record.SubjectID),
		zap.String("category", string(category)),
		zap.String("strategy", item.Strategy),
		zap.Int("repaired_fields", result.Stats.RepairedFields),
		zap.Int("warnings", len(warnings)),
	)
	return result.Record, warnings, nil
}

// subjectURL 拼接详情页地址：图书走 book 垂直站，其余走 movie 垂直站。
func (c *Collector) subjectURL(category domain.Category, id string) string {
	base := c.cfg.MovieBaseURL
	if category == domain.CategoryBooks {
		base = c.cfg.BookBaseURL
	}
	return fmt.Sprintf("%s/subject/%s/", base, id)
}

// SinkError 表示成品记录写入目标表失败（item 级失败）。
type SinkError struct {
	ID  string
	Err error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("写入目标表失败（id=%s）：%v", e.ID, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// errorCode 把流水线错误归类为稳定的 error_code（批次记账用）。
func errorCode(err error) string {
	var (
		be *fetch.BlockedError
		fe *fetch.ForbiddenError
		ne *fetch.NetworkError
		uc *canonical.UnsupportedCategoryError
		ve *ValidationError
		se *SinkError
	)
	switch {
	case errors.As(err, &be):
		return domain.ErrCodeFetchBlocked
	case errors.As(err, &fe):
		return domain.ErrCodeFetchForbidden
	case errors.As(err, &ne):
		return domain.ErrCodeFetchFailed
	case errors.As(err, &uc):
		return domain.ErrCodeUnsupportedCategory
	case errors.As(err, &ve):
		return domain.ErrCodeValidationFailed
	case errors.As(err, &se):
		return domain.ErrCodeSinkFailed
	default:
		return domain.ErrCodeParseFailed
	}
}
