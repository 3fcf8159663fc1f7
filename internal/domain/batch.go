package domain

// ItemFailure 记录批量抓取中单个条目的失败（id + 可读原因）。
// 单条失败不影响其他条目；这是批量结果可解释性的最小单元。
type ItemFailure struct {
	ID        string `json:"id"`
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
}

// BatchResult 是一次批量抓取的完整账目：按分类分桶 + 逐条失败记录 + 汇总计数。
//
// 约束：
// - Succeeded/Failed 按条目计数，与涉及几个分类无关
// - Total = Succeeded + Failed（Finalize 负责对账）
type BatchResult struct {
	Movies        []Record `json:"movies"`
	TV            []Record `json:"tv"`
	Documentaries []Record `json:"documentaries"`
	Books         []Record `json:"books"`

	Failures []ItemFailure `json:"failures"`

	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Add 把一条成功记录放入对应分桶。未知分类回退到 Movies（调用方应已校验）。
func (b *BatchResult) Add(r Record) {
	switch r.Category {
	case CategoryBooks:
		b.Books = append(b.Books, r)
	case CategoryTV:
		b.TV = append(b.TV, r)
	case CategoryDocumentary:
		b.Documentaries = append(b.Documentaries, r)
	default:
		b.Movies = append(b.Movies, r)
	}
}

// Finalize 重算汇总计数（幂等）。
func (b *BatchResult) Finalize() {
	b.Succeeded = len(b.Movies) + len(b.TV) + len(b.Documentaries) + len(b.Books)
	b.Failed = len(b.Failures)
	b.Total = b.Succeeded + b.Failed
}
