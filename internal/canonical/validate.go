package canonical

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/John-Robertt/DBMC/internal/domain"
)

// 状态词表：源站的展示标签是规范值（不是内部代码）。
var (
	screenStatuses = []string{"想看", "在看", "看过"}
	bookStatuses   = []string{"想读", "在读", "读过"}

	// 旧接口代码与异体写法归一到规范标签（接受并规范化，不拒收）。
	screenStatusAliases = map[string]string{
		"wish":     "想看",
		"do":       "在看",
		"collect":  "看过",
		"正在看":      "在看",
		"看過":       "看过",
		"watching": "在看",
		"watched":  "看过",
	}
	bookStatusAliases = map[string]string{
		"wish":    "想读",
		"do":      "在读",
		"collect": "读过",
		"在讀":      "在读",
		"讀過":      "读过",
		"想讀":      "想读",
		"reading": "在读",
		"read":    "读过",
	}
)

// validateSelectField 校验并规范化用户状态。
//
// 约束：
// - 幂等：规范值映射到自身，二次应用结果不变
// - 词表外的值返回 ("", false)，由调用方置空并记警告（不是错误）
func validateSelectField(category domain.Category, value string) (string, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", false
	}

	statuses, aliases := screenStatuses, screenStatusAliases
	if category == domain.CategoryBooks {
		statuses, aliases = bookStatuses, bookStatusAliases
	}

	for _, s := range statuses {
		if v == s {
			return s, true
		}
	}
	if normalized, ok := aliases[strings.ToLower(v)]; ok {
		return normalized, true
	}
	return "", false
}

// validateRatingField 校验用户评分：必须是 [1,5] 内的整数。
// 全函数（total）：任何输入都不会 panic；非整数/越界一律 (0, false)。
func validateRatingField(value any) (int, bool) {
	var n int
	switch t := value.(type) {
	case int:
		n = t
	case int64:
		n = int(t)
	case float64:
		if t != float64(int(t)) {
			return 0, false
		}
		n = int(t)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}

	if n < 1 || n > 5 {
		return 0, false
	}
	return n, true
}

var strictDateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// validateDateField 校验标记日期：严格 YYYY-MM-DD 且是真实历法日期。
// 非字符串与不匹配的字符串同样失败（调用方不需要区分）。
func validateDateField(value any) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if !strictDateRE.MatchString(s) {
		return "", false
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", false
	}
	return s, true
}
