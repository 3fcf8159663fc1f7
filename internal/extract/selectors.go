package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// infoLabelToField 把 info 区块的源站标签翻译为规范字段名。
// asList 表示值按 “/” 拆成列表（人名/类型这类多值字段）。
var infoLabelToField = []struct {
	label  string
	field  string
	asList bool
}{
	{"导演", FieldDirectors, true},
	{"主演", FieldCast, true},
	{"类型", FieldGenres, true},
	{"制片国家/地区", FieldCountries, false},
	{"语言", FieldLanguages, false},
	{"上映日期", FieldReleaseDate, false},
	{"首播", FieldReleaseDate, false},
	{"片长", FieldDuration, false},
	{"单集片长", FieldEpisodeDuration, false},
	{"集数", FieldEpisodes, false},
	{"作者", FieldAuthor, true},
	{"译者", FieldTranslator, true},
	{"出版社", FieldPress, false},
	{"出版年", FieldPublishDate, false},
	{"页数", FieldPages, false},
	{"定价", FieldPrice, false},
	{"ISBN", FieldISBN, false},
}

var markDateRE = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)

// parseSelectors 是 DOM 选择器解析通道：info 标签行、评分、用户状态、简介。
// 取不到的字段直接缺席；判断缺失是否构成问题是下游的事。
func parseSelectors(doc *goquery.Document) map[string]any {
	out := make(map[string]any)

	parseTitle(doc, out)
	parseRatingWidget(doc, out)
	parseInfoRows(doc, out)
	parseInterestWidget(doc, out)
	parseSummary(doc, out)
	parseCover(doc, out)

	return out
}

func parseTitle(doc *goquery.Document, out map[string]any) {
	t := normSpace(doc.Find(`span[property="v:itemreviewed"]`).First().Text())
	if t == "" {
		// 图书页没有 itemreviewed 标记，回退到页头 h1。
		t = normSpace(doc.Find("#wrapper h1").First().Text())
	}
	if t != "" {
		out[FieldTitle] = t
	}
}

func parseRatingWidget(doc *goquery.Document, out map[string]any) {
	avg := strings.TrimSpace(doc.Find("strong.rating_num").First().Text())
	if avg == "" {
		return
	}
	out[FieldRating] = map[string]any{"average": avg, "max": "10"}
}

// parseInfoRows 逐个处理 info 区块的标签行。
//
// 源站 info 区有两种形态：
// - 多值行：span.pl 嵌在外层 span 里，值在兄弟 .attrs 的锚点里（导演/主演）
// - 扁平行：span.pl 直接挂在 #info 下，值是后续兄弟节点直到 <br> 或下个标签
// 扁平行没有收尾定界符，串行可能粘上下一个字段——canonical 的修复规则
// 会按已知标签截断，这里只做尽力提取。
func parseInfoRows(doc *goquery.Document, out map[string]any) {
	doc.Find("#info span.pl").Each(func(_ int, s *goquery.Selection) {
		label := normHeader(s.Text())

		var raw string
		if attrs := s.Parent().Find("span.attrs"); s.Parent().Is("span") && attrs.Length() > 0 {
			parts := make([]string, 0, 4)
			attrs.Find("a").Each(func(_ int, a *goquery.Selection) {
				if t := normSpace(a.Text()); t != "" {
					parts = append(parts, t)
				}
			})
			if len(parts) == 0 {
				parts = append(parts, normSpace(attrs.Text()))
			}
			raw = strings.Join(parts, " / ")
		} else {
			raw = flatRowValue(s)
		}

		raw = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(raw), ":："))
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return
		}

		// “首播”行既是日期（与上映日期同构）也是剧集形态的分类信号。
		if label == "首播" {
			out[FieldFirstAirDate] = raw
		}

		for _, m := range infoLabelToField {
			if m.label != label {
				continue
			}
			if _, exists := out[m.field]; exists {
				return // 同名标签重复出现时保留第一行
			}
			if m.asList {
				out[m.field] = splitSlash(raw)
			} else {
				out[m.field] = raw
			}
			return
		}
		// 未知标签（又名/IMDb/装帧等）不进规范字段，留在 info 片段里。
	})
}

// flatRowValue 收集 span.pl 之后、下一个 <br> 或下一个标签之前的文本。
func flatRowValue(s *goquery.Selection) string {
	if len(s.Nodes) == 0 {
		return ""
	}

	var b strings.Builder
	for n := s.Nodes[0].NextSibling; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			if n.Data == "br" {
				break
			}
			if isLabelSpan(n) {
				break
			}
			b.WriteString(nodeText(n))
			continue
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
	}
	return normSpace(b.String())
}

// isLabelSpan 判定节点是否为下一个字段标签（span.pl 或包含 span.pl 的外层 span）。
func isLabelSpan(n *html.Node) bool {
	if n.Data != "span" {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == "class" && strings.Contains(a.Val, "pl") {
			return true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && isLabelSpan(c) {
			return true
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

var allstarRE = regexp.MustCompile(`allstar(\d{2})`)

// parseInterestWidget 解析登录用户的标记区（状态/评分/日期/标签/短评）。
// 该区块只在带会话凭证的请求里出现；公开结构化数据永远不含这些字段。
func parseInterestWidget(doc *goquery.Document, out map[string]any) {
	sect := doc.Find("#interest_sect_level")
	if sect.Length() == 0 {
		return
	}

	if st := normSpace(sect.Find("span.mr10").First().Text()); st != "" {
		out[FieldMyStatus] = st
	}

	sect.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := normSpace(s.Text())
		if markDateRE.MatchString(t) {
			out[FieldMarkDate] = t
			return false
		}
		return true
	})

	if cls, ok := sect.Find(`[property="v:rating"]`).First().Attr("class"); ok {
		if m := allstarRE.FindStringSubmatch(cls); m != nil {
			// allstar40 表示四星（满分五星，按十分制类名存储）。
			out[FieldMyRating] = string(m[1][0])
		}
	}

	sect.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := normSpace(s.Text())
		for _, prefix := range []string{"标签:", "标签："} {
			if strings.HasPrefix(t, prefix) {
				if tags := strings.TrimSpace(strings.TrimPrefix(t, prefix)); tags != "" {
					out[FieldMyTags] = strings.Join(strings.Fields(tags), " / ")
				}
				return false
			}
		}
		return true
	})

	if c := normSpace(sect.Find(".comment").First().Text()); c != "" {
		out[FieldMyComment] = c
	}
}

func parseSummary(doc *goquery.Document, out map[string]any) {
	sum := strings.TrimSpace(doc.Find(`span[property="v:summary"]`).First().Text())
	if sum == "" {
		sum = strings.TrimSpace(doc.Find("#link-report .intro").First().Text())
	}
	if sum != "" {
		out[FieldSummary] = sum
	}
}

func parseCover(doc *goquery.Document, out map[string]any) {
	if src, ok := doc.Find("#mainpic img").First().Attr("src"); ok {
		if src = strings.TrimSpace(src); src != "" {
			out[FieldCover] = src
		}
	}
}

func normSpace(s string) string { return strings.Join(strings.Fields(s), " ") }

func normHeader(s string) string {
	s = normSpace(s)
	s = strings.TrimSuffix(s, ":")
	s = strings.TrimSuffix(s, "：")
	return strings.TrimSpace(s)
}

func splitSlash(s string) []string {
	parts := strings.Split(s, "/")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
