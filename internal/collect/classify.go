package collect

import (
	"strings"

	"github.com/John-Robertt/DBMC/internal/domain"
	"github.com/John-Robertt/DBMC/internal/extract"
)

// resolveCategory 在 extractor 的推断之上做最终裁决。
//
// 剧集形态信号（集数/单集片长/首播）强制 tv：系列纪录片的类型写着“纪录片”，
// 但它按剧集建模，形态信号比类型文本更可靠。非剧集形态的纪录片类型改判
// documentary：批量抓取给 extractor 的期望分类只有垂直站粒度（movies），
// 类型级的改判必须发生在这里。
func resolveCategory(item extract.PartialItem) domain.Category {
	if item.Category == domain.CategoryBooks {
		return domain.CategoryBooks
	}

	for _, f := range []string{
		extract.FieldEpisodes,
		extract.FieldEpisodeDuration,
		extract.FieldFirstAirDate,
	} {
		if v, ok := item.Fields[f]; ok {
			if s, isStr := v.(string); !isStr || s != "" {
				return domain.CategoryTV
			}
		}
	}

	if hasDocumentaryGenre(item.Fields) {
		return domain.CategoryDocumentary
	}

	if item.Category.Valid() {
		return item.Category
	}
	return domain.CategoryMovies
}

// hasDocumentaryGenre 判定类型字段是否带纪录片标记（string/[]string/[]any 都认）。
func hasDocumentaryGenre(fields map[string]any) bool {
	var genres []string
	switch t := fields[extract.FieldGenres].(type) {
	case string:
		genres = []string{t}
	case []string:
		genres = t
	case []any:
		for _, g := range t {
			if s, ok := g.(string); ok {
				genres = append(genres, s)
			}
		}
	}

	for _, g := range genres {
		if strings.Contains(g, "纪录片") || strings.Contains(strings.ToLower(g), "documentary") {
			return true
		}
	}
	return false
}

// requiredFields 列出各分类成品记录的必备字段。
// 身份字段（subjectId/title）对所有分类都是硬约束。
var requiredFields = map[domain.Category][]string{
	domain.CategoryMovies:      {"subjectId", "title"},
	domain.CategoryTV:          {"subjectId", "title"},
	domain.CategoryDocumentary: {"subjectId", "title"},
	domain.CategoryBooks:       {"subjectId", "title"},
}

// missingRequired 返回记录缺失的必备字段名（按分类）。
func missingRequired(r domain.Record) []string {
	var missing []string
	for _, f := range requiredFields[r.Category] {
		switch f {
		case "subjectId":
			if r.SubjectID == "" {
				missing = append(missing, f)
			}
		case "title":
			if r.Title == "" {
				missing = append(missing, f)
			}
		}
	}
	return missing
}
