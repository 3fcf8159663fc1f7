package fetch

import "strings"

// BlockDetector 判定响应体是否为验证页/封禁页。
// 返回命中的特征词与是否命中；特征清单可替换，判定语义不可替换。
type BlockDetector func(body string) (marker string, blocked bool)

// blockMarkers 是源站验证/封禁页的已知特征词。
// 维护原则：只收“出现即必然被拦截”的词，避免误杀正文恰好含关键词的条目页。
// 注意不能收太泛的词：比如“机器人”会误杀《机器人总动员》这类条目页。
var blockMarkers = []string{
	"sec.douban.com",
	"检测到有异常请求",
	"异常请求，请输入验证码",
	"请输入验证码",
	"captcha_image",
	"访问被拒绝",
	"禁止访问",
	"unusual traffic",
}

// DefaultBlockDetector 对响应体做特征词扫描（大小写不敏感）。
func DefaultBlockDetector(body string) (string, bool) {
	low := strings.ToLower(body)
	for _, m := range blockMarkers {
		if strings.Contains(low, strings.ToLower(m)) {
			return m, true
		}
	}
	return "", false
}
