package domain

import "strings"

// Category 是条目的内容分类（决定字段映射表、状态词表与目标 bucket）。
//
// 约束：要么得到四类之一，要么判定失败；宁可报 unsupported，也不允许写错表。
type Category string

const (
	CategoryBooks       Category = "books"
	CategoryMovies      Category = "movies"
	CategoryTV          Category = "tv"
	CategoryDocumentary Category = "documentary"
)

// ParseCategory 校验并解析分类字符串（大小写不敏感）。
func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryBooks:
		return CategoryBooks, true
	case CategoryMovies:
		return CategoryMovies, true
	case CategoryTV:
		return CategoryTV, true
	case CategoryDocumentary:
		return CategoryDocumentary, true
	default:
		return "", false
	}
}

// Valid 报告 c 是否属于已知分类。
func (c Category) Valid() bool {
	_, ok := ParseCategory(string(c))
	return ok
}

// DomainClass 是 HTTP 边界的三个内容垂直站之一（决定 Host/Referer 头）。
type DomainClass string

const (
	DomainMovie DomainClass = "movie"
	DomainBook  DomainClass = "book"
	DomainMusic DomainClass = "music"
)

// DomainClass 返回分类所在的垂直站。
// movies/tv/documentary 共用 movie 垂直站；music 为预留（列表页可能混入）。
func (c Category) DomainClass() DomainClass {
	if c == CategoryBooks {
		return DomainBook
	}
	return DomainMovie
}
