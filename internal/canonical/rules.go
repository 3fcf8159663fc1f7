package canonical

import (
	"html"
	"regexp"
	"strings"
)

// 修复规则：每条都是独立可测的纯函数 (当前值, 原始片段文本) → (新值, 是否修复)。
// 引擎只是“分类 → 规则表”的分发器，不写内联正则（规则可单独替换/演进）。
type repairFunc func(current, fragment string) (string, bool)

type repairRule struct {
	field string
	name  string
	fn    repairFunc
}

var screenRepairs = []repairRule{
	{field: "duration", name: "repairDuration", fn: repairDuration},
	{field: "episodeDuration", name: "repairEpisodeDuration", fn: repairEpisodeDuration},
	{field: "releaseDate", name: "repairReleaseDate", fn: repairReleaseDate},
	{field: "countries", name: "repairCountries", fn: repairCountries},
	{field: "languages", name: "repairLanguages", fn: repairLanguages},
}

var bookRepairs = []repairRule{
	{field: "publishDate", name: "repairPublishDate", fn: repairPublishDate},
}

func repairsFor(category string) []repairRule {
	if category == "books" {
		return bookRepairs
	}
	return screenRepairs
}

var (
	brRE  = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagRE = regexp.MustCompile(`<[^>]*>`)

	// 片长变体：数字 + 分钟 + 可选括注（重剪版/地区版保留括注原文）。
	durationVariantRE = regexp.MustCompile(`\d+\s*分钟(?:\([^)]*\))?`)

	// 带地区/影展括注的上映日期标记。
	releaseMarkerRE = regexp.MustCompile(`\d{4}-\d{2}-\d{2}(?:\([^)]*\))?`)
)

// knownLabels 是 info 区的已知字段标签（截断守卫用）。
// 源站扁平行没有收尾定界符，取值串容易把下一个字段也卷进来。
var knownLabels = []string{
	"导演", "编剧", "主演", "类型", "官方网站", "制片国家/地区", "语言",
	"上映日期", "首播", "片长", "单集片长", "集数", "又名", "IMDb",
	"作者", "译者", "出版社", "出版年", "页数", "定价", "装帧", "丛书", "ISBN",
}

// fragmentText 把 HTML 片段转为纯文本：<br> 归一为换行、剥掉其余标签、反转义实体。
func fragmentText(fragment string) string {
	s := brRE.ReplaceAllString(fragment, "\n")
	s = tagRE.ReplaceAllString(s, "")
	return html.UnescapeString(s)
}

// labelRun 取片段文本里某个标签之后的取值串。
// 截断规则：换行，或任何其他已知标签的再次出现（防止无定界符串扰）。
func labelRun(text string, labels ...string) string {
	for _, label := range labels {
		idx, afterLabel := findLabel(text, label)
		if idx < 0 {
			continue
		}
		run := text[afterLabel:]

		if nl := strings.IndexByte(run, '\n'); nl >= 0 {
			run = run[:nl]
		}
		cut := len(run)
		for _, other := range knownLabels {
			if other == label {
				continue
			}
			for _, sep := range []string{":", "："} {
				if i := strings.Index(run, other+sep); i >= 0 && i < cut {
					cut = i
				}
			}
		}
		return strings.TrimSpace(run[:cut])
	}
	return ""
}

// findLabel 定位 "标签:" / "标签："；返回标签起点与值起点。
// 只接受行首或空白之后的出现：否则“片长”会命中“单集片长”的内部。
func findLabel(text, label string) (int, int) {
	for _, sep := range []string{":", "："} {
		needle := label + sep
		from := 0
		for {
			i := strings.Index(text[from:], needle)
			if i < 0 {
				break
			}
			i += from
			if i == 0 || text[i-1] == '\n' || text[i-1] == ' ' || text[i-1] == '\t' {
				return i, i + len(needle)
			}
			from = i + len(needle)
		}
	}
	return -1, -1
}

// repairDuration 从片段提取全部片长变体（重剪/地区版各自保留括注），
// 以 “ / ” 连接。仅当片段比当前值更丰富（变体更多）或当前值为空时才替换。
func repairDuration(current, fragment string) (string, bool) {
	return repairVariants(current, fragment, durationVariantRE, "片长")
}

// repairEpisodeDuration 同 repairDuration，但锚定“单集片长”标签行。
func repairEpisodeDuration(current, fragment string) (string, bool) {
	return repairVariants(current, fragment, durationVariantRE, "单集片长")
}

// repairReleaseDate 收集片段里的全部带括注上映/首播日期标记，
// 每个地区/影展一条，括注原样保留，以 “ / ” 连接。
func repairReleaseDate(current, fragment string) (string, bool) {
	return repairVariants(current, fragment, releaseMarkerRE, "上映日期", "首播")
}

func repairVariants(current, fragment string, re *regexp.Regexp, labels ...string) (string, bool) {
	if fragment == "" {
		return current, false
	}
	run := labelRun(fragmentText(fragment), labels...)
	if run == "" {
		return current, false
	}

	variants := re.FindAllString(run, -1)
	if len(variants) == 0 {
		return current, false
	}
	for i := range variants {
		variants[i] = strings.TrimSpace(variants[i])
	}
	candidate := strings.Join(variants, listSeparator)

	if strings.TrimSpace(current) == "" {
		return candidate, true
	}
	if len(variants) > segmentCount(current) && candidate != current {
		return candidate, true
	}
	return current, false
}

// repairCountries 清洗制片国家/地区：标签后的取值串按 “/” 拆分重组，
// 并靠 labelRun 的截断守卫剥掉误卷进来的后续字段。
func repairCountries(current, fragment string) (string, bool) {
	return repairLabelledList(current, fragment, "制片国家/地区")
}

// repairLanguages 同 repairCountries，锚定“语言”标签。
func repairLanguages(current, fragment string) (string, bool) {
	return repairLabelledList(current, fragment, "语言")
}

func repairLabelledList(current, fragment, label string) (string, bool) {
	polluted := containsKnownLabel(current, label)
	if strings.TrimSpace(current) != "" && !polluted {
		return current, false
	}
	if fragment == "" {
		return current, false
	}

	run := labelRun(fragmentText(fragment), label)
	if run == "" {
		return current, false
	}

	parts := strings.Split(run, "/")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		return current, false
	}

	candidate := strings.Join(cleaned, listSeparator)
	if candidate == current {
		return current, false
	}
	return candidate, true
}

// containsKnownLabel 判定取值串是否卷入了其他字段的标签。
func containsKnownLabel(s, selfLabel string) bool {
	for _, label := range knownLabels {
		if label == selfLabel {
			continue
		}
		if strings.Contains(s, label+":") || strings.Contains(s, label+"：") {
			return true
		}
	}
	return false
}

var (
	cnDateRE   = regexp.MustCompile(`^(\d{4})年(?:(\d{1,2})月)?(?:(\d{1,2})日)?$`)
	numDateRE  = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})(?:[-/.](\d{1,2}))?$`)
	yearOnlyRE = regexp.MustCompile(`^(\d{4})$`)
)

// repairPublishDate 把中文式出版日期（YYYY年MM月DD日）与各类残缺写法
// 规范为最小形式 YYYY[-MM[-DD]]。没有模式命中时原值不动。
func repairPublishDate(current, _ string) (string, bool) {
	s := strings.TrimSpace(current)
	if s == "" {
		return current, false
	}

	var y, m, d string
	switch {
	case cnDateRE.MatchString(s):
		g := cnDateRE.FindStringSubmatch(s)
		y, m, d = g[1], g[2], g[3]
	case numDateRE.MatchString(s):
		g := numDateRE.FindStringSubmatch(s)
		y, m, d = g[1], g[2], g[3]
	case yearOnlyRE.MatchString(s):
		y = s
	default:
		return current, false
	}

	out := y
	if m != "" {
		out += "-" + pad2(m)
	}
	if d != "" {
		out += "-" + pad2(d)
	}
	if out == current {
		return current, false
	}
	return out, true
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// segmentCount 数展示串的 “ / ” 段数（空串记 0）。
func segmentCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	return strings.Count(s, listSeparator) + 1
}
