package canonical

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/John-Robertt/DBMC/internal/domain"
	"github.com/John-Robertt/DBMC/internal/extract"
)

func TestTransform_Movie(t *testing.T) {
	raw := map[string]any{
		"subjectId":   "1292052",
		"doubanUrl":   "https://movie.douban.com/subject/1292052/",
		"title":       "肖申克的救赎",
		"directors":   []any{"弗兰克·德拉邦特"},
		"cast":        []any{"蒂姆·罗宾斯", "摩根·弗里曼"},
		"genres":      []any{"剧情", "犯罪"},
		"countries":   "美国",
		"languages":   "英语",
		"duration":    "142分钟",
		"releaseDate": "1994-09-10(多伦多电影节) / 1994-10-14(美国)",
		"rating":      map[string]any{"average": "9.7", "max": "10"},
		"myStatus":    "看过",
		"myRating":    "5",
		"markDate":    "2023-05-01",
	}

	res, err := NewEngine(nil).Transform(raw, nil, domain.CategoryMovies, DefaultOptions())
	require.NoError(t, err)
	require.Empty(t, res.Warnings)

	r := res.Record
	require.Equal(t, "1292052", r.SubjectID)
	require.Equal(t, "肖申克的救赎", r.Title)
	require.Equal(t, domain.CategoryMovies, r.Category)
	require.Equal(t, "9.7", r.DoubanRating)

	// 单元素列表没有分隔符；多元素用 “ / ” 拼接。
	require.Equal(t, "弗兰克·德拉邦特", r.Directors)
	require.Equal(t, "蒂姆·罗宾斯 / 摩根·弗里曼", r.Cast)
	require.Equal(t, "剧情 / 犯罪", r.Genres)

	// 本就良构的多地区日期不被修复规则触碰。
	require.Equal(t, "1994-09-10(多伦多电影节) / 1994-10-14(美国)", r.ReleaseDate)
	require.Equal(t, 0, res.Stats.RepairedFields)

	require.Equal(t, "看过", r.MyStatus)
	require.Equal(t, 5, r.MyRating)
	require.Equal(t, "2023-05-01", r.MarkDate)
}

func TestTransform_RepairsFromFragment(t *testing.T) {
	raw := map[string]any{
		"subjectId": "1291560",
		"title":     "龙猫",
		"duration":  "86分钟",
	}
	fragments := map[string]string{
		extract.FragmentInfo: `<span class="pl">片长:</span> 86分钟(日本) / 88分钟(中国大陆)<br/>
<span class="pl">制片国家/地区:</span> 日本<br/>`,
	}

	res, err := NewEngine(nil).Transform(raw, fragments, domain.CategoryMovies, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, "86分钟(日本) / 88分钟(中国大陆)", res.Record.Duration)
	require.Equal(t, "日本", res.Record.Countries)
	require.Equal(t, 2, res.Stats.RepairedFields)
}

func TestTransform_BookPublishDateNormalized(t *testing.T) {
	raw := map[string]any{
		"subjectId":   "4913064",
		"title":       "活着",
		"author":      []any{"余华"},
		"press":       "作家出版社",
		"publishDate": "2012年8月",
		"isbn":        "9787506365437",
		"myStatus":    "read",
	}

	res, err := NewEngine(nil).Transform(raw, nil, domain.CategoryBooks, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, "2012-08", res.Record.PublishDate)
	require.Equal(t, 1, res.Stats.RepairedFields)
	require.Equal(t, "余华", res.Record.Author)
	require.Equal(t, "读过", res.Record.MyStatus) // 旧接口代码归一到规范标签
}

func TestTransform_StrictValidationClearsAndWarns(t *testing.T) {
	raw := map[string]any{
		"subjectId": "4913064",
		"title":     "活着",
		"myStatus":  "finished reading",
		"myRating":  "11",
		"markDate":  "2023-02-30",
	}

	res, err := NewEngine(nil).Transform(raw, nil, domain.CategoryBooks, DefaultOptions())
	require.NoError(t, err)

	// 三个字段全部置空，各自记一条带字段名的警告；整条记录不拒收。
	require.Equal(t, "", res.Record.MyStatus)
	require.Equal(t, 0, res.Record.MyRating)
	require.Equal(t, "", res.Record.MarkDate)
	require.Len(t, res.Warnings, 3)
	require.Contains(t, res.Warnings[0], "myStatus")
	require.Contains(t, res.Warnings[0], "finished reading")
	require.Contains(t, res.Warnings[1], "myRating")
	require.Contains(t, res.Warnings[2], "markDate")

	require.Equal(t, "活着", res.Record.Title)
}

func TestTransform_NonStrictKeepsStatusVerbatim(t *testing.T) {
	raw := map[string]any{
		"subjectId": "123456",
		"title":     "某条目",
		"myStatus":  "finished reading",
		"myRating":  "abc",
	}
	opts := Options{EnableIntelligentRepairs: true, StrictValidation: false}

	res, err := NewEngine(nil).Transform(raw, nil, domain.CategoryBooks, opts)
	require.NoError(t, err)
	require.Empty(t, res.Warnings)
	require.Equal(t, "finished reading", res.Record.MyStatus)
	require.Equal(t, 0, res.Record.MyRating) // 转不成整数就丢弃，不报警告
}

func TestTransform_PreserveRawData(t *testing.T) {
	raw := map[string]any{
		"subjectId": "1292052",
		"title":     "肖申克的救赎",
		"rating":    map[string]any{"average": "9.7"},
		"extra":     []any{"未映射字段原样保留"},
	}

	res, err := NewEngine(nil).Transform(raw, nil, domain.CategoryMovies, Options{
		EnableIntelligentRepairs: true,
		StrictValidation:         true,
		PreserveRawData:          true,
	})
	require.NoError(t, err)
	require.Equal(t, raw, res.Raw) // 输入未被触碰，深度相等

	res2, err := NewEngine(nil).Transform(raw, nil, domain.CategoryMovies, DefaultOptions())
	require.NoError(t, err)
	require.Nil(t, res2.Raw)
}

func TestTransform_ToleratesHostileInput(t *testing.T) {
	eng := NewEngine(nil)

	// nil 输入。
	res, err := eng.Transform(nil, nil, domain.CategoryMovies, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, "", res.Record.Title)

	// 自引用对象：路径查找按深度封顶，不得死循环。
	cyc := map[string]any{"title": "环形输入"}
	cyc["rating"] = cyc
	res, err = eng.Transform(cyc, nil, domain.CategoryMovies, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, "环形输入", res.Record.Title)
	require.Equal(t, "", res.Record.DoubanRating) // rating.average 解析不出字符串

	// 对抗性文本原样透出，不转义不截断。
	hostile := map[string]any{
		"subjectId": "123456",
		"title":     `<script>alert("x")</script>`,
		"summary":   "'; DROP TABLE records; --",
	}
	res, err = eng.Transform(hostile, nil, domain.CategoryMovies, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, `<script>alert("x")</script>`, res.Record.Title)
	require.Equal(t, "'; DROP TABLE records; --", res.Record.Summary)
}

func TestTransform_UnsupportedCategory(t *testing.T) {
	_, err := NewEngine(nil).Transform(map[string]any{}, nil, domain.Category("music"), DefaultOptions())
	require.Error(t, err)

	var uc *UnsupportedCategoryError
	require.ErrorAs(t, err, &uc)
	require.Equal(t, domain.Category("music"), uc.Category)
}

func TestTransform_CategoryFieldIsolation(t *testing.T) {
	// 图书字段不漏进影视记录，反之亦然。
	raw := map[string]any{
		"subjectId": "26302614",
		"title":     "某剧集",
		"episodes":  "12",
		"author":    []any{"不该出现的作者"},
	}

	res, err := NewEngine(nil).Transform(raw, nil, domain.CategoryTV, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, "12", res.Record.Episodes)
	require.Equal(t, "", res.Record.Author)

	res, err = NewEngine(nil).Transform(raw, nil, domain.CategoryBooks, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, "不该出现的作者", res.Record.Author)
	require.Equal(t, "", res.Record.Episodes)
}
