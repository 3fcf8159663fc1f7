package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const movieListHTML = `<html><body>
<div class="grid-view">
  <div class="item">
    <div class="info">
      <ul>
        <li class="title">
          <a href="https://movie.douban.com/subject/1292052/"><em>肖申克的救赎 / The Shawshank Redemption</em></a>
        </li>
      </ul>
    </div>
  </div>
  <div class="item">
    <div class="info">
      <ul>
        <li class="title">
          <a href="https://movie.douban.com/subject/1291546/"><em>霸王别姬</em></a>
        </li>
      </ul>
    </div>
  </div>
  <div class="item">
    <div class="info">
      <ul>
        <li class="title">
          <a href="https://movie.douban.com/subject/1292052/"><em>重复的条目</em></a>
        </li>
      </ul>
    </div>
  </div>
</div>
</body></html>`

const bookListHTML = `<html><body>
<ul class="interest-list">
  <li class="subject-item">
    <div class="info">
      <h2><a href="/subject/4913064/" title="活着">活着</a></h2>
    </div>
  </li>
  <li class="subject-item">
    <div class="info">
      <h2><a href="/subject/1084336/" title="小王子">小王子</a></h2>
    </div>
  </li>
</ul>
</body></html>`

func TestParseList_MovieGrid(t *testing.T) {
	items, err := ParseList(movieListHTML, "https://movie.douban.com/people/tester/collect?start=0")
	require.NoError(t, err)
	require.Len(t, items, 2) // 同一 id 只取第一次出现

	require.Equal(t, "1292052", items[0].SubjectID)
	require.Equal(t, "肖申克的救赎", items[0].Title) // “中文名 / 原名”只取中文段
	require.Equal(t, "https://movie.douban.com/subject/1292052/", items[0].URL)

	require.Equal(t, "1291546", items[1].SubjectID)
	require.Equal(t, "霸王别姬", items[1].Title)
}

func TestParseList_BookShelf(t *testing.T) {
	items, err := ParseList(bookListHTML, "https://book.douban.com/people/tester/collect?start=0")
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.Equal(t, "4913064", items[0].SubjectID)
	require.Equal(t, "活着", items[0].Title)
	// 相对链接按列表页地址补全。
	require.Equal(t, "https://book.douban.com/subject/4913064/", items[0].URL)
}

func TestParseList_EmptyPageIsNotError(t *testing.T) {
	items, err := ParseList(`<html><body><div class="grid-view"></div></body></html>`,
		"https://movie.douban.com/people/tester/collect?start=30")
	require.NoError(t, err)
	require.Empty(t, items) // 零条目页是分页终止信号，不是错误
}

func TestResolveURL(t *testing.T) {
	cases := []struct {
		base, href, want string
	}{
		{"https://book.douban.com/people/x/collect", "/subject/123456/", "https://book.douban.com/subject/123456/"},
		{"https://movie.douban.com/", "//img1.example.com/p.jpg", "https://img1.example.com/p.jpg"},
		{"https://movie.douban.com/", "https://movie.douban.com/subject/1/", "https://movie.douban.com/subject/1/"},
		{"https://movie.douban.com/", "", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, resolveURL(tc.base, tc.href), "href %q", tc.href)
	}
}
