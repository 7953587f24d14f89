package models

// Открытие страницы пакета.
type CreatePageRequest struct {
	PackageID string `json:"package_id"`
	TopicID   string `json:"topic_id,omitempty"` // тема из query: раскрыть и прокрутить
	ClientID  string `json:"client_id,omitempty"` // ключ автосохранения черновиков; "" — без автосохранения
}

type PageResponse struct {
	SessionID string   `json:"session_id"`
	Page      PageView `json:"page"`
}

type SetDraftRequest struct {
	Text string `json:"text"`
}

type BeginReplyRequest struct {
	CommentID string `json:"comment_id"`
	Author    string `json:"author"`
}
