package canonical

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/John-Robertt/DBMC/internal/domain"
	"github.com/John-Robertt/DBMC/internal/extract"
)

// Engine 是规范化与修复引擎。无跨调用状态；持有 logger 只为修复留痕。
type Engine struct {
	log *zap.Logger
}

// NewEngine 构造引擎。log 为空时静默。
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

// Transform 把松散输入整理为类型化 Record：映射 → 修复 → 校验。
//
// 约束：
// - 容忍空输入、嵌套 nil、自引用对象、超大文本（不截断）、对抗性字符串（不转义）
// - 警告累积返回、从不抛出；唯一的错误出口是分类不被支持
// - 不触碰输入本身：PreserveRawData 返回的就是调用方给的对象
func (e *Engine) Transform(
	raw map[string]any,
	fragments map[string]string,
	category domain.Category,
	opts Options,
) (Result, error) {
	mappings, err := mappingFor(category)
	if err != nil {
		return Result{}, err
	}

	var res Result
	if opts.PreserveRawData {
		res.Raw = raw
	}
	if raw == nil {
		raw = map[string]any{}
	}

	// 一段：通用字段映射。未映射的输入字段静默丢弃（不是错误）。
	canonicalMap := make(map[string]any, len(mappings))
	for target, m := range mappings {
		v, ok := resolvePath(raw, m.source)
		if !ok {
			continue
		}
		if target == "myRating" {
			// 评分保留原始类型，让校验段决定去留。
			canonicalMap[target] = v
			continue
		}
		s, ok := stringify(v, m.join)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		canonicalMap[target] = s
	}

	res.Stats = Statistics{
		TotalFields:       len(raw),
		TransformedFields: len(canonicalMap),
	}

	// 二段：智能修复。只在值缺失，或片段显示有更丰富表示时动手。
	if opts.EnableIntelligentRepairs {
		frag := fragments[extract.FragmentInfo]
		for _, rule := range repairsFor(string(category)) {
			if _, mapped := mappings[rule.field]; !mapped {
				continue
			}
			cur, _ := canonicalMap[rule.field].(string)
			if v, repaired := rule.fn(cur, frag); repaired {
				canonicalMap[rule.field] = v
				res.Stats.RepairedFields++
				e.log.Debug("字段已修复",
					zap.String("field", rule.field),
					zap.String("rule", rule.name),
				)
			}
		}
	}

	// 三段：强校验。词表/区间/历法外的值置空并记名警告，不拒收整条。
	if opts.StrictValidation {
		e.validateUserFields(category, canonicalMap, &res)
	} else if v, ok := canonicalMap["myRating"]; ok {
		// 非严格模式下评分也要能落进 int 字段：转不动就丢弃（无警告）。
		if n, valid := validateRatingField(v); valid {
			canonicalMap["myRating"] = n
		} else {
			delete(canonicalMap, "myRating")
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &res.Record,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Result{}, fmt.Errorf("构造解码器失败：%w", err)
	}
	if err := dec.Decode(canonicalMap); err != nil {
		return Result{}, fmt.Errorf("规范化解码失败：%w", err)
	}
	res.Record.Category = category

	return res, nil
}

func (e *Engine) validateUserFields(category domain.Category, m map[string]any, res *Result) {
	if v, ok := m["myStatus"]; ok {
		s, _ := v.(string)
		if normalized, valid := validateSelectField(category, s); valid {
			m["myStatus"] = normalized
		} else {
			delete(m, "myStatus")
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("myStatus 不在 %s 词表内，已置空：%q", category, s))
		}
	}

	if v, ok := m["myRating"]; ok {
		if n, valid := validateRatingField(v); valid {
			m["myRating"] = n
		} else {
			delete(m, "myRating")
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("myRating 必须是 [1,5] 内的整数，已置空：%v", v))
		}
	}

	if v, ok := m["markDate"]; ok {
		if s, valid := validateDateField(v); valid {
			m["markDate"] = s
		} else {
			delete(m, "markDate")
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("markDate 必须是合法的 YYYY-MM-DD，已置空：%v", v))
		}
	}
}
