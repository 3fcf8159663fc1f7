// Package canonical 把松散的解析产出整理为类型化的 Record：
// 通用字段映射 → 智能修复 → 强校验，三段可独立开关。
//
// 约束：
// - 修复是保守的：没有模式命中就保留原值（哪怕为空），绝不编造数据
// - 警告只累积返回、从不抛出；唯一的致命错误是分类本身不被支持
// - 文本原样透出（不转义、不截断）：净化是展示层的职责
package canonical

import (
	"fmt"

	"github.com/John-Robertt/DBMC/internal/domain"
)

// Options 控制三段处理的开关。
type Options struct {
	// EnableIntelligentRepairs 关闭后完全跳过修复段。
	EnableIntelligentRepairs bool
	// StrictValidation 关闭后跳过枚举/评分/日期校验。
	StrictValidation bool
	// PreserveRawData 打开后把未经触碰的输入附在结果上（审计用途）。
	PreserveRawData bool
}

// DefaultOptions 是约定默认：修复开、强校验开、不保留原始输入。
func DefaultOptions() Options {
	return Options{
		EnableIntelligentRepairs: true,
		StrictValidation:         true,
		PreserveRawData:          false,
	}
}

// Statistics 汇总一次转换的规模（观测用途，不参与控制流）。
type Statistics struct {
	TotalFields       int `json:"total_fields"`
	TransformedFields int `json:"transformed_fields"`
	RepairedFields    int `json:"repaired_fields"`
}

// Result 是一次转换的完整产出。
type Result struct {
	Record   domain.Record
	Warnings []string
	Stats    Statistics

	// Raw 仅在 Options.PreserveRawData 时携带（与输入深度相等）。
	Raw map[string]any
}

// UnsupportedCategoryError 表示分类不在支持范围内。
// 这是编程/配置错误，调用方必须在进入转换前保证分类合法。
type UnsupportedCategoryError struct {
	Category domain.Category
}

func (e *UnsupportedCategoryError) Error() string {
	return fmt.Sprintf("不支持的分类：%q", string(e.Category))
}
