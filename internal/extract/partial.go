// Package extract 把一张已抓取的详情页解析为松散类型的 PartialItem。
//
// 策略链（按优先级）：结构化数据块（JSON-LD）→ DOM 选择器。两者都有产出时
// 按字段类别做优先级合并（见 merge.go）。本包只负责“尽量取到”，
// 不做字段修复与强校验——那是 canonical 包的职责。
package extract

import "github.com/John-Robertt/DBMC/internal/domain"

// 解析策略标记（写入 PartialItem.Strategy）。
const (
	StrategyJSONLD    = "json-ld"
	StrategySelectors = "html-selectors"
	StrategyMixed     = "mixed"
)

// 规范字段名。extractor 与 canonical 之间的契约就是这组 key；
// 源站标签（“导演:”“出版社:”）在本包内翻译为规范名，不向下游泄漏。
const (
	FieldSubjectID = "subjectId"
	FieldDoubanURL = "doubanUrl"
	FieldTitle     = "title"
	FieldCover     = "cover"
	FieldRating    = "rating" // 嵌套对象 {average, max}
	FieldGenres    = "genres"
	FieldSummary   = "summary"

	FieldDirectors       = "directors"
	FieldCast            = "cast"
	FieldCountries       = "countries"
	FieldLanguages       = "languages"
	FieldDuration        = "duration"
	FieldEpisodes        = "episodes"
	FieldEpisodeDuration = "episodeDuration"
	FieldReleaseDate     = "releaseDate"
	FieldFirstAirDate    = "firstAirDate"

	FieldAuthor      = "author"
	FieldTranslator  = "translator"
	FieldPress       = "press"
	FieldPublishDate = "publishDate"
	FieldPages       = "pages"
	FieldPrice       = "price"
	FieldISBN        = "isbn"

	FieldMyStatus  = "myStatus"
	FieldMyRating  = "myRating"
	FieldMyTags    = "myTags"
	FieldMyComment = "myComment"
	FieldMarkDate  = "markDate"
)

// FragmentInfo 是详情页 info 区块的原始 HTML（供 canonical 的修复规则二次提取）。
const FragmentInfo = "info"

// PartialItem 是单页解析的松散产出：规范字段名 → 原始值
// （string | []string | float64 | 嵌套 map），外加原始片段与非致命警告。
//
// 约束：
// - 本包从不因“字段缺失”而失败；缺失转为 Warnings（拒收是下游校验的决定）
// - Fields 会被 canonical 就地消费（允许替换），调用方不应持有别名
type PartialItem struct {
	Fields    map[string]any
	Fragments map[string]string
	Strategy  string
	Category  domain.Category
	Warnings  []string
}

func newPartialItem() PartialItem {
	return PartialItem{
		Fields:    make(map[string]any),
		Fragments: make(map[string]string),
	}
}

func (p *PartialItem) warn(msg string) {
	p.Warnings = append(p.Warnings, msg)
}
