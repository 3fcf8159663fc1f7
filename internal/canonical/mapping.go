package canonical

import (
	"strconv"
	"strings"

	"github.com/John-Robertt/DBMC/internal/domain"
	"github.com/John-Robertt/DBMC/internal/extract"
)

// listSeparator 是多值字段拼成展示串的固定分隔符。
const listSeparator = " / "

// maxPathDepth 限制嵌套路径查找深度：输入可能自引用（环），按深度封顶即可安全。
const maxPathDepth = 8

// fieldMapping 描述一个目标字段如何从输入取值。
// source 支持点分嵌套路径（如 rating.average）；join 表示列表值拼接为展示串。
type fieldMapping struct {
	source string
	join   bool
}

// 共有字段：四个分类都映射（身份 + 评分 + 类型 + 用户状态）。
var commonMappings = map[string]fieldMapping{
	"subjectId":    {source: extract.FieldSubjectID},
	"doubanUrl":    {source: extract.FieldDoubanURL},
	"title":        {source: extract.FieldTitle},
	"cover":        {source: extract.FieldCover},
	"doubanRating": {source: "rating.average"},
	"genres":       {source: extract.FieldGenres, join: true},
	"summary":      {source: extract.FieldSummary},
	"myStatus":     {source: extract.FieldMyStatus},
	"myRating":     {source: extract.FieldMyRating},
	"myTags":       {source: extract.FieldMyTags},
	"myComment":    {source: extract.FieldMyComment},
	"markDate":     {source: extract.FieldMarkDate},
}

var screenMappings = map[string]fieldMapping{
	"directors":   {source: extract.FieldDirectors, join: true},
	"cast":        {source: extract.FieldCast, join: true},
	"countries":   {source: extract.FieldCountries},
	"languages":   {source: extract.FieldLanguages},
	"duration":    {source: extract.FieldDuration},
	"releaseDate": {source: extract.FieldReleaseDate},
}

var episodeMappings = map[string]fieldMapping{
	"episodes":        {source: extract.FieldEpisodes},
	"episodeDuration": {source: extract.FieldEpisodeDuration},
}

var bookMappings = map[string]fieldMapping{
	"author":      {source: extract.FieldAuthor, join: true},
	"translator":  {source: extract.FieldTranslator, join: true},
	"press":       {source: extract.FieldPress},
	"publishDate": {source: extract.FieldPublishDate},
	"pages":       {source: extract.FieldPages},
	"price":       {source: extract.FieldPrice},
	"isbn":        {source: extract.FieldISBN},
}

// mappingFor 返回分类的完整映射表。
// 纪录片可能是剧集形态（系列纪录片），与 tv 一样带集数字段。
func mappingFor(category domain.Category) (map[string]fieldMapping, error) {
	merged := make(map[string]fieldMapping, len(commonMappings)+len(screenMappings)+len(bookMappings))
	for k, v := range commonMappings {
		merged[k] = v
	}

	switch category {
	case domain.CategoryMovies:
		for k, v := range screenMappings {
			merged[k] = v
		}
	case domain.CategoryTV, domain.CategoryDocumentary:
		for k, v := range screenMappings {
			merged[k] = v
		}
		for k, v := range episodeMappings {
			merged[k] = v
		}
	case domain.CategoryBooks:
		for k, v := range bookMappings {
			merged[k] = v
		}
	default:
		return nil, &UnsupportedCategoryError{Category: category}
	}
	return merged, nil
}

// resolvePath 按点分路径在嵌套 map 里取值。
// 任何一层缺失/为 nil/不是 map 都返回 (nil, false)；深度封顶防自引用输入。
func resolvePath(raw map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	if len(parts) > maxPathDepth {
		parts = parts[:maxPathDepth]
	}

	var cur any = raw
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok || m == nil {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// stringify 把取到的值转成展示串。
// 列表用固定分隔符拼接（单元素列表没有分隔符，即元素本身）；map 不可转。
func stringify(v any, join bool) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []string:
		if !join {
			return strings.Join(t, listSeparator), true
		}
		return joinList(t), true
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return joinList(parts), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func joinList(parts []string) string {
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			trimmed = append(trimmed, p)
		}
	}
	return strings.Join(trimmed, listSeparator)
}
