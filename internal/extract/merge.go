package extract

// fieldClass 决定合并时的来源优先级。粒度是“类别”而不是具体字段：
// 新增字段只要归对类别，就不需要新的合并逻辑。
type fieldClass int

const (
	// classContent：公开内容事实。结构化数据块由站方生成、格式稳定，优先。
	classContent fieldClass = iota
	// classUser：登录用户的个人状态。公开元数据永远不含它们，DOM 解析优先。
	classUser
)

// userFields 是个人状态字段集合（列表外的一律视为内容字段）。
var userFields = map[string]struct{}{
	FieldMyStatus:  {},
	FieldMyRating:  {},
	FieldMyTags:    {},
	FieldMyComment: {},
	FieldMarkDate:  {},
}

func classOf(field string) fieldClass {
	if _, ok := userFields[field]; ok {
		return classUser
	}
	return classContent
}

// precedence 给出每个类别下的来源顺序（靠前者优先）。
// 这里是唯一的优先级事实来源；按字段覆盖时改这张表，不改合并代码。
var precedence = map[fieldClass][]string{
	classContent: {StrategyJSONLD, StrategySelectors},
	classUser:    {StrategySelectors, StrategyJSONLD},
}

// mergeFields 按类别优先级归并多个策略的产出。
// contributed 记录每个来源是否真的贡献了字段（用于推导 Strategy 标记）。
func mergeFields(bySource map[string]map[string]any) (merged map[string]any, contributed map[string]bool) {
	merged = make(map[string]any)
	contributed = make(map[string]bool)

	fields := make(map[string]struct{})
	for _, m := range bySource {
		for k := range m {
			fields[k] = struct{}{}
		}
	}

	for field := range fields {
		order := precedence[classOf(field)]
		for _, src := range order {
			v, ok := bySource[src][field]
			if !ok || isEmptyValue(v) {
				continue
			}
			merged[field] = v
			contributed[src] = true
			break
		}
	}
	return merged, contributed
}

// strategyTag 由各来源的实际贡献推导解析策略标记。
func strategyTag(contributed map[string]bool) string {
	switch {
	case contributed[StrategyJSONLD] && contributed[StrategySelectors]:
		return StrategyMixed
	case contributed[StrategyJSONLD]:
		return StrategyJSONLD
	case contributed[StrategySelectors]:
		return StrategySelectors
	default:
		return StrategySelectors
	}
}

// isEmptyValue 判定“没取到”：空串、空列表、空 map 不参与合并，
// 让低优先级来源有机会补位。
func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []string:
		return len(t) == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
