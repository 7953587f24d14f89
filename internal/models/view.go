package models

// PageStatus — состояние страницы пакета.
type PageStatus string

const (
	PageIdle     PageStatus = "idle"
	PageLoading  PageStatus = "loading"
	PageReady    PageStatus = "ready"
	PageNotFound PageStatus = "not_found"
	PageFailed   PageStatus = "failed"
)

// ComposeMode — вариант состояния поля ввода темы.
type ComposeMode string

const (
	ComposeIdle  ComposeMode = "idle"
	ComposeTop   ComposeMode = "top"
	ComposeReply ComposeMode = "reply"
)

// PageView — снимок страницы, готовый к отрисовке фронтом.
type PageView struct {
	Status       PageStatus   `json:"status"`
	Loading      bool         `json:"loading"`
	Package      *PackageView `json:"package,omitempty"`
	Topics       []TopicView  `json:"topics"`
	ScrollTarget string       `json:"scroll_target,omitempty"`
	Alert        string       `json:"alert,omitempty"`
}

type PackageView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	Category  string `json:"category"`
	Source    string `json:"source"`
	CreatedAt int64  `json:"created_at"` // Unix UTC
}

type ComposeView struct {
	Mode        ComposeMode `json:"mode"`
	Text        string      `json:"text"`
	ReplyTarget string      `json:"reply_target,omitempty"`
}

type TopicView struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	EssayPrompt    string        `json:"essay_prompt,omitempty"`
	ExamID         string        `json:"exam_id,omitempty"`
	TotalLikes     int           `json:"total_likes"`
	TotalComments  int           `json:"total_comments"`
	CreatedAt      int64         `json:"created_at"` // Unix UTC
	Expanded       bool          `json:"expanded"`
	CommentsLoaded bool          `json:"comments_loaded"`
	Liked          bool          `json:"liked"`
	Compose        ComposeView   `json:"compose"`
	Comments       []CommentNode `json:"comments,omitempty"`
}

// CommentNode — узел дерева комментариев с отступом, пропорциональным глубине.
type CommentNode struct {
	ID             string        `json:"id"`
	ParentID       string        `json:"parent_id,omitempty"`
	AuthorName     string        `json:"author_name"`
	IsAISeed       bool          `json:"is_ai_seed"`
	Content        string        `json:"content"`
	CreatedAt      int64         `json:"created_at"` // Unix UTC
	LikeCount      int           `json:"like_count"`
	Depth          int           `json:"depth"`
	Indent         int           `json:"indent"`
	ReplyCount     int           `json:"reply_count"`
	ReplyBoxOpen   bool          `json:"reply_box_open"`
	RepliesVisible bool          `json:"replies_visible"`
	Replies        []CommentNode `json:"replies,omitempty"`
}
