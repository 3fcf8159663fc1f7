package domain

const (
	ErrCodeFetchFailed         = "fetch_failed"
	ErrCodeFetchBlocked        = "fetch_blocked"
	ErrCodeFetchForbidden      = "fetch_forbidden"
	ErrCodeParseFailed         = "parse_failed"
	ErrCodeValidationFailed    = "validation_failed"
	ErrCodeUnsupportedCategory = "unsupported_category"
	ErrCodeSinkFailed          = "sink_failed"
	ErrCodeConfigInvalid       = "config_invalid"
)

// Record 是流水线对单个条目的最终产出（已规范化、可独立写入目标表格）。
//
// 约束：
// - 成品记录的 SubjectID 与 Title 必须非空（缺失在 orchestrator 拒收）
// - 字段缺失允许为空串/零值，但结构必须稳定（目标表按字段名消费）
// - 文本字段原样透出，不做任何转义（展示层的职责）
type Record struct {
	SubjectID string   `json:"subject_id" mapstructure:"subjectId"`
	Title     string   `json:"title" mapstructure:"title"`
	DoubanURL string   `json:"douban_url" mapstructure:"doubanUrl"`
	Category  Category `json:"category" mapstructure:"-"`
	Cover     string   `json:"cover,omitempty" mapstructure:"cover"`

	DoubanRating string `json:"douban_rating,omitempty" mapstructure:"doubanRating"`
	Genres       string `json:"genres,omitempty" mapstructure:"genres"`
	Summary      string `json:"summary,omitempty" mapstructure:"summary"`

	// 影视字段（movies/tv/documentary）。
	Directors       string `json:"directors,omitempty" mapstructure:"directors"`
	Cast            string `json:"cast,omitempty" mapstructure:"cast"`
	Countries       string `json:"countries,omitempty" mapstructure:"countries"`
	Languages       string `json:"languages,omitempty" mapstructure:"languages"`
	Duration        string `json:"duration,omitempty" mapstructure:"duration"`
	Episodes        string `json:"episodes,omitempty" mapstructure:"episodes"`
	EpisodeDuration string `json:"episode_duration,omitempty" mapstructure:"episodeDuration"`
	ReleaseDate     string `json:"release_date,omitempty" mapstructure:"releaseDate"`

	// 图书字段（books）。
	Author      string `json:"author,omitempty" mapstructure:"author"`
	Translator  string `json:"translator,omitempty" mapstructure:"translator"`
	Press       string `json:"press,omitempty" mapstructure:"press"`
	PublishDate string `json:"publish_date,omitempty" mapstructure:"publishDate"`
	Pages       string `json:"pages,omitempty" mapstructure:"pages"`
	Price       string `json:"price,omitempty" mapstructure:"price"`
	ISBN        string `json:"isbn,omitempty" mapstructure:"isbn"`

	// 用户侧字段（仅登录视图可见，来自 DOM 解析）。
	MyStatus  string `json:"my_status,omitempty" mapstructure:"myStatus"`
	MyRating  int    `json:"my_rating,omitempty" mapstructure:"myRating"`
	MyTags    string `json:"my_tags,omitempty" mapstructure:"myTags"`
	MyComment string `json:"my_comment,omitempty" mapstructure:"myComment"`
	MarkDate  string `json:"mark_date,omitempty" mapstructure:"markDate"`
}
