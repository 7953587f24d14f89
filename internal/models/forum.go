// Package models содержит доменные сущности форума и render-ready представления страницы.
package models

import "time"

// Package — статья (пакет), к которой привязаны темы обсуждения.
// Только чтение: создаётся контент-пайплайном бэкенда.
type Package struct {
	ID        string
	Title     string
	Excerpt   string
	Category  string
	Source    string
	CreatedAt time.Time
}

// TopicStats — агрегаты темы, считаются бэкендом.
type TopicStats struct {
	TotalLikes    int
	TotalComments int
}

// Topic — тема обсуждения внутри пакета.
// Важно:
//   - EssayPrompt/ExamID опциональны, "" — отсутствует;
//   - Stats обновляются только перезапросом списка тем.
type Topic struct {
	ID          string
	Title       string
	PackageID   string
	EssayPrompt string
	ExamID      string
	Stats       TopicStats
	CreatedAt   time.Time
}

// Author — автор комментария; IsAISeed помечает системные (AI) комментарии.
type Author struct {
	Name     string
	IsAISeed bool
}

// Comment — комментарий темы.
// Важно:
//   - ParentID == "" — комментарий верхнего уровня;
//   - Replies приходят с бэкенда уже вложенными, глубина не ограничена;
//   - Likes — идентификаторы лайкнувших, количество производное.
type Comment struct {
	ID        string
	TopicID   string
	ParentID  string
	Author    Author
	Content   string
	CreatedAt time.Time
	Likes     []string
	Replies   []Comment
}

// IsTopLevel сообщает, что комментарий не является ответом.
func (c Comment) IsTopLevel() bool { return c.ParentID == "" }

// LikeCount — производное количество лайков.
func (c Comment) LikeCount() int { return len(c.Likes) }
