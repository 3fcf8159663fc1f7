package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// parseJSONLD 解析页面内嵌的结构化数据块（schema.org 风格）。
//
// 约束：
// - 源站的 JSON-LD 经常在字符串里夹带裸换行/制表符（非法 JSON），先清洗再解析
// - 解析失败视为“该来源缺席”，返回空 map，绝不报错中断
func parseJSONLD(doc *goquery.Document) map[string]any {
	raw := strings.TrimSpace(doc.Find(`script[type="application/ld+json"]`).First().Text())
	if raw == "" {
		return nil
	}

	var ld map[string]any
	if err := json.Unmarshal([]byte(sanitizeJSONLD(raw)), &ld); err != nil {
		return nil
	}

	out := make(map[string]any)

	if v := ldString(ld["name"]); v != "" {
		out[FieldTitle] = v
	}
	if v := ldString(ld["image"]); v != "" {
		out[FieldCover] = v
	}
	if v := ldString(ld["description"]); v != "" {
		out[FieldSummary] = v
	}
	if names := ldNames(ld["director"]); len(names) > 0 {
		out[FieldDirectors] = names
	}
	if names := ldNames(ld["actor"]); len(names) > 0 {
		out[FieldCast] = names
	}
	if names := ldNames(ld["author"]); len(names) > 0 {
		out[FieldAuthor] = names
	}
	if names := ldNames(ld["genre"]); len(names) > 0 {
		out[FieldGenres] = names
	}
	if v := ldString(ld["isbn"]); v != "" {
		out[FieldISBN] = v
	}

	// datePublished 的语义随 @type 变化：影视是上映日期，图书是出版日期。
	// 策略层不知道最终分类，两个规范名都给；映射表按分类取用，多余的会被丢弃。
	if v := ldString(ld["datePublished"]); v != "" {
		out[FieldReleaseDate] = v
		out[FieldPublishDate] = v
	}

	if ar, ok := ld["aggregateRating"].(map[string]any); ok {
		rating := make(map[string]any)
		if v := ldString(ar["ratingValue"]); v != "" {
			rating["average"] = v
		}
		if v := ldString(ar["bestRating"]); v != "" {
			rating["max"] = v
		}
		if len(rating) > 0 {
			out[FieldRating] = rating
		}
	}

	return out
}

// sanitizeJSONLD 把字符串内部的裸控制字符替换为空格。
// 合法 JSON 的结构性空白同样被替换，不影响解析结果。
func sanitizeJSONLD(s string) string {
	r := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ")
	return r.Replace(s)
}

// ldString 宽容地取字符串：数字也接受（JSON-LD 里 ratingValue 两种写法都见过）。
func ldString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return trimFloat(t)
	default:
		return ""
	}
}

// ldNames 宽容地取名字列表：支持 "x"、["x","y"]、[{"name":"x"}] 三种形态。
func ldNames(v any) []string {
	var out []string
	appendName := func(item any) {
		switch t := item.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				out = append(out, s)
			}
		case map[string]any:
			if s := ldString(t["name"]); s != "" {
				out = append(out, s)
			}
		}
	}

	switch t := v.(type) {
	case []any:
		for _, item := range t {
			appendName(item)
		}
	default:
		appendName(v)
	}
	return out
}

func trimFloat(f float64) string {
	b, err := json.Marshal(f)
	if err != nil {
		return ""
	}
	return string(b)
}
