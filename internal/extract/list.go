package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ListItem 是列表页（用户标记列表）里的一张条目卡片。
// 列表页信息有限：身份 + 标题；内容事实要靠详情页补全。
type ListItem struct {
	SubjectID string
	Title     string
	URL       string
}

// ParseList 解析一张列表页的全部条目卡片。
//
// 约束：
//   - 影音垂直站是 div.grid-view div.item，图书垂直站是 li.subject-item，
//     两种布局都要认；同一 id 只取第一次出现
//   - 返回空列表不是错误：分页逻辑用“零条目页”作为终止信号
func ParseList(pageText, baseURL string) ([]ListItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageText))
	if err != nil {
		return nil, err
	}

	var (
		items []ListItem
		seen  = make(map[string]struct{})
	)

	doc.Find("div.grid-view div.item, ul.interest-list li.subject-item, div.article div.item").
		Each(func(_ int, s *goquery.Selection) {
			a := s.Find(".title a, .info h2 a").First()
			if a.Length() == 0 {
				a = s.Find("a[href*='/subject/']").First()
			}
			href, ok := a.Attr("href")
			if !ok {
				return
			}

			id := SubjectIDFromURL(href)
			if id == "" {
				return
			}
			if _, dup := seen[id]; dup {
				return
			}

			// 影音卡片把标题塞在 <em> 里，且常带“中文名 / 原名”双段。
			title := normSpace(a.Find("em").First().Text())
			if title == "" {
				title = normSpace(a.Text())
			}
			if i := strings.Index(title, " / "); i > 0 {
				title = title[:i]
			}

			seen[id] = struct{}{}
			items = append(items, ListItem{
				SubjectID: id,
				Title:     title,
				URL:       resolveURL(baseURL, href),
			})
		})

	return items, nil
}

func resolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	bu, err := url.Parse(base)
	if err != nil {
		return href
	}
	ru, err := url.Parse(href)
	if err != nil {
		return href
	}
	return bu.ResolveReference(ru).String()
}
