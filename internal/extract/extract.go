package extract

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/DBMC/internal/domain"
)

// subjectIDRE 取路径中第一段 5–10 位数字（源站条目 id 的稳定形态）。
var subjectIDRE = regexp.MustCompile(`\d{5,10}`)

// SubjectIDFromURL 从详情页 URL 推导条目 id；取不到返回空串。
// 只扫描路径：基址可被测试/镜像覆盖，主机端口里的数字串不是条目 id。
func SubjectIDFromURL(raw string) string {
	if u, err := url.Parse(raw); err == nil {
		return subjectIDRE.FindString(u.Path)
	}
	return subjectIDRE.FindString(raw)
}

// Extract 把单张详情页解析为 PartialItem。
//
// 约束：
// - 永不因字段缺失而失败：身份字段缺失、分类推断失败都只产生 Warnings
// - 拒收是下游（canonical 校验 + orchestrator）的决定，这里只负责取数
func Extract(pageText, pageURL string, expected domain.Category) (PartialItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageText))
	if err != nil {
		return PartialItem{}, fmt.Errorf("解析 HTML 失败：%w", err)
	}

	item := newPartialItem()

	bySource := make(map[string]map[string]any, 2)
	if m := parseJSONLD(doc); len(m) > 0 {
		bySource[StrategyJSONLD] = m
	}
	if m := parseSelectors(doc); len(m) > 0 {
		bySource[StrategySelectors] = m
	}

	merged, contributed := mergeFields(bySource)
	item.Fields = merged
	item.Strategy = strategyTag(contributed)

	// info 区原始 HTML 随条目携带：canonical 的修复规则要从中二次提取
	// 多版本片长/多地区上映日期这类“比映射结果更丰富”的表示。
	if infoHTML, herr := doc.Find("#info").Html(); herr == nil {
		if frag := strings.TrimSpace(infoHTML); frag != "" {
			item.Fragments[FragmentInfo] = frag
		}
	}

	if id := SubjectIDFromURL(pageURL); id != "" {
		item.Fields[FieldSubjectID] = id
	} else {
		item.warn(fmt.Sprintf("无法从 URL 推导条目 id：%s", pageURL))
	}
	item.Fields[FieldDoubanURL] = pageURL

	if _, ok := item.Fields[FieldTitle]; !ok {
		item.warn("两条解析通道都未取到标题")
	}

	cat, inferred := inferCategory(item.Fields, pageURL, expected)
	item.Category = cat
	if !inferred {
		item.warn(fmt.Sprintf("分类推断无明确信号，按垂直站默认为 %s", cat))
	}

	return item, nil
}

// inferCategory 推断条目分类。
//
// 顺序：
// 1. 调用方给了期望分类 → 直接采用（更高层可能有更丰富的上下文）
// 2. 出现集数/单集片长 → tv
// 3. 类型含纪录片标记 → documentary
// 4. 按垂直站域名兜底 movie/book（此时第二个返回值为 false，提示产生警告）
func inferCategory(fields map[string]any, pageURL string, expected domain.Category) (domain.Category, bool) {
	if expected.Valid() {
		return expected, true
	}

	if hasField(fields, FieldEpisodes) || hasField(fields, FieldEpisodeDuration) || hasField(fields, FieldFirstAirDate) {
		return domain.CategoryTV, true
	}

	if genres, ok := fields[FieldGenres]; ok {
		for _, g := range toStrings(genres) {
			low := strings.ToLower(g)
			if strings.Contains(g, "纪录片") || strings.Contains(low, "documentary") {
				return domain.CategoryDocumentary, true
			}
		}
	}

	if hasField(fields, FieldAuthor) || hasField(fields, FieldISBN) {
		return domain.CategoryBooks, true
	}

	if u, err := url.Parse(pageURL); err == nil {
		host := strings.ToLower(u.Host)
		if strings.HasPrefix(host, "book.") {
			return domain.CategoryBooks, false
		}
	}
	return domain.CategoryMovies, false
}

func hasField(fields map[string]any, name string) bool {
	v, ok := fields[name]
	return ok && !isEmptyValue(v)
}

// toStrings 宽容地把 string / []string / []any 摊平为字符串列表。
func toStrings(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
